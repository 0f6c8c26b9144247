/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator checks resolved token trees for values that do not fit
// their declared type.
package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

// ValidationError represents a problem with one resolved token.
type ValidationError struct {
	// FilePath is the path to the file containing the token.
	FilePath string
	// Path is the token name.
	Path string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		sb.WriteString(e.FilePath)
		sb.WriteString(": ")
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

var (
	dimensionPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([a-zA-Z]+|%)$`)
	cssMathPattern   = regexp.MustCompile(`^(calc|min|max|clamp|var)\(.*\)$`)
)

// Options configures Validate.
type Options struct {
	// Reference is the reference syntax the tree was resolved with.
	Reference reference.Options
	// SkipUnresolved omits the error for tokens that did not resolve, for
	// callers that already report the resolution failures.
	SkipUnresolved bool
}

// ValidateResolved checks every token of a resolved tree. Returns errors for:
// - tokens that did not resolve
// - resolved strings that still contain reference syntax
// - color tokens whose value is not a CSS color
// - number tokens whose value is not numeric
// - dimension tokens whose string value is not a number followed by a unit
//
// Errors are ordered by token path.
func ValidateResolved(tree *token.Tree, opts reference.Options) []ValidationError {
	return Validate(tree, Options{Reference: opts})
}

// Validate is ValidateResolved with options.
func Validate(tree *token.Tree, opts Options) []ValidationError {
	pattern := reference.NewPattern(opts.Reference)

	var errors []ValidationError
	for _, tok := range tree.Tokens() {
		errors = append(errors, validateToken(tok, pattern, opts)...)
	}
	return errors
}

func validateToken(tok *token.Token, pattern *regexp.Regexp, opts Options) []ValidationError {
	newError := func(message, suggestion string) ValidationError {
		return ValidationError{
			FilePath:   tok.FilePath,
			Path:       tok.Name(opts.Reference),
			Message:    message,
			Suggestion: suggestion,
		}
	}

	if !tok.IsResolved {
		if opts.SkipUnresolved {
			return nil
		}
		return []ValidationError{newError("token is unresolved", "fix the reference errors reported by resolve")}
	}

	var errors []ValidationError
	for _, s := range stringLeaves(tok.ResolvedValue, nil) {
		if reference.Contains(pattern, s) {
			errors = append(errors, newError(
				fmt.Sprintf("resolved value %q still contains reference syntax", s),
				"check for values that assemble a reference from substituted parts",
			))
		}
	}

	switch tok.Type {
	case token.TypeColor:
		if s, ok := tok.ResolvedValue.(string); ok {
			if _, err := csscolorparser.Parse(s); err != nil {
				errors = append(errors, newError(
					fmt.Sprintf("invalid color %q", s),
					"use a CSS color such as #rrggbb, rgb() or a named color",
				))
			}
		}
	case token.TypeNumber:
		if !isNumeric(tok.ResolvedValue) {
			errors = append(errors, newError(
				fmt.Sprintf("number token has non-numeric value %v", tok.ResolvedValue),
				"use a plain number",
			))
		}
	case token.TypeDimension:
		if s, ok := tok.ResolvedValue.(string); ok && !isDimension(s) {
			errors = append(errors, newError(
				fmt.Sprintf("invalid dimension %q", s),
				"use a number followed by a unit, like 16px or 1.5rem",
			))
		}
	}

	return errors
}

// stringLeaves collects the string values inside v, in sorted key order.
func stringLeaves(v any, out []string) []string {
	switch x := v.(type) {
	case string:
		out = append(out, x)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			out = stringLeaves(x[k], out)
		}
	case []any:
		for _, e := range x {
			out = stringLeaves(e, out)
		}
	}
	return out
}

// isDimension accepts a number with a unit, or a CSS math expression.
func isDimension(s string) bool {
	return dimensionPattern.MatchString(s) || cssMathPattern.MatchString(s)
}

func isNumeric(v any) bool {
	switch x := v.(type) {
	case float64, float32, int, int64, int32, uint64, uint32, uint:
		return true
	case string:
		_, err := strconv.ParseFloat(x, 64)
		return err == nil
	default:
		return false
	}
}
