/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package reference

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath indicates a token path that is not a sequence of strings.
var ErrInvalidPath = errors.New("token path must be an array of strings")

// InvalidPathError reports a path value of the wrong shape.
type InvalidPathError struct {
	// Path is the offending value.
	Path any
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("getting name for path failed: %v (got %T)", ErrInvalidPath, e.Path)
}

func (e *InvalidPathError) Unwrap() error {
	return ErrInvalidPath
}

// Name joins path segments with the configured separator.
func Name(path []string, opts Options) string {
	return strings.Join(path, opts.WithDefaults().Separator)
}

// GetName returns the name of a path held in an untyped value,
// such as a path decoded from JSON. Only []string and []any whose
// elements are all strings are accepted.
func GetName(path any, opts Options) (string, error) {
	segments, err := ToPath(path)
	if err != nil {
		return "", err
	}
	return Name(segments, opts), nil
}

// ToPath converts an untyped path value to its segments.
func ToPath(path any) ([]string, error) {
	switch p := path.(type) {
	case []string:
		return p, nil
	case []any:
		segments := make([]string, len(p))
		for i, v := range p {
			s, ok := v.(string)
			if !ok {
				return nil, &InvalidPathError{Path: path}
			}
			segments[i] = s
		}
		return segments, nil
	default:
		return nil, &InvalidPathError{Path: path}
	}
}

// SplitName splits a reference name into path segments.
// It is the inverse of Name when no segment contains the separator.
func SplitName(name string, opts Options) []string {
	return strings.Split(name, opts.WithDefaults().Separator)
}
