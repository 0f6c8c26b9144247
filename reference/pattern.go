/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package reference

import (
	"regexp"
	"sync"
	"unicode/utf8"
)

// Match is a single reference found in a string.
type Match struct {
	// Start is the byte offset of the opening delimiter.
	Start int

	// End is the byte offset just past the closing delimiter.
	End int

	// Name is the reference name between the delimiters.
	Name string
}

var patternCache sync.Map // map[Options]*regexp.Regexp

// NewPattern returns a regular expression matching references for opts.
// The first submatch is the reference name.
func NewPattern(opts Options) *regexp.Regexp {
	opts = opts.WithDefaults()
	if cached, ok := patternCache.Load(opts); ok {
		return cached.(*regexp.Regexp)
	}

	opening := regexp.QuoteMeta(opts.OpeningCharacter)
	closing := regexp.QuoteMeta(opts.ClosingCharacter)

	var name string
	if utf8.RuneCountInString(opts.ClosingCharacter) == 1 {
		name = `([^` + closing + `]+)`
	} else {
		name = `(.+?)`
	}

	re := regexp.MustCompile(opening + name + closing)
	patternCache.Store(opts, re)
	return re
}

// FindAll returns every reference in value, left to right.
func FindAll(pattern *regexp.Regexp, value string) []Match {
	indexes := pattern.FindAllStringSubmatchIndex(value, -1)
	if len(indexes) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(indexes))
	for _, idx := range indexes {
		matches = append(matches, Match{
			Start: idx[0],
			End:   idx[1],
			Name:  value[idx[2]:idx[3]],
		})
	}
	return matches
}

// Contains reports whether value holds at least one reference.
func Contains(pattern *regexp.Regexp, value string) bool {
	return pattern.MatchString(value)
}

// IsWhole reports whether value is exactly one reference and nothing else.
func IsWhole(pattern *regexp.Regexp, value string) bool {
	matches := FindAll(pattern, value)
	return len(matches) == 1 && matches[0].Start == 0 && matches[0].End == len(value)
}
