/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors for resolution.
var (
	// ErrUnresolvedReference indicates a reference could not be resolved.
	ErrUnresolvedReference = errors.New("unresolved token reference")

	// ErrCircularReference indicates a circular reference was detected.
	ErrCircularReference = errors.New("circular reference detected")

	// ErrTokenNotInTree indicates a token passed to a Resolver that does not belong to its tree.
	ErrTokenNotInTree = errors.New("token is not part of the tree being resolved")
)

// UnresolvedReferenceError reports a reference naming no token.
// References to groups are unresolved too, since only tokens carry values.
type UnresolvedReferenceError struct {
	// SourcePath is the path of the token holding the reference.
	SourcePath []string

	// SourceName is SourcePath joined with the active separator.
	SourceName string

	// ReferenceName is the reference as written, without delimiters.
	ReferenceName string

	// FilePath, Line and Character locate the source token when it was parsed from a file.
	FilePath  string
	Line      uint32
	Character uint32
}

func (e *UnresolvedReferenceError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: ", e.FilePath, e.Line+1, e.Character+1)
	}
	fmt.Fprintf(&sb, "%s: %s references %q", ErrUnresolvedReference, e.SourceName, e.ReferenceName)
	return sb.String()
}

func (e *UnresolvedReferenceError) Unwrap() error {
	return ErrUnresolvedReference
}

// CircularReferenceError reports a reference cycle.
type CircularReferenceError struct {
	// Cycle lists token names from the first token of the cycle back to itself,
	// e.g. [a b a].
	Cycle []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCircularReference, strings.Join(e.Cycle, " -> "))
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}

// ResolutionErrors aggregates independent failures of one resolution pass.
type ResolutionErrors struct {
	// Errors holds each distinct failure once, in token order.
	Errors []error

	// Blocked names tokens that failed only because something they reference failed.
	Blocked []string
}

func (e *ResolutionErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors)+1)
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	if len(e.Blocked) > 0 {
		msgs = append(msgs, fmt.Sprintf("%d dependent token(s) not resolved: %s", len(e.Blocked), strings.Join(e.Blocked, ", ")))
	}
	return strings.Join(msgs, "\n")
}

func (e *ResolutionErrors) Unwrap() []error {
	return e.Errors
}

// VariantError attributes a failure to one of several independently resolved trees.
type VariantError struct {
	Variant string
	Err     error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("variant %s: %v", e.Variant, e.Err)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}

// originatesAt reports whether err was caused by the token itself rather than
// by one of its dependencies.
func originatesAt(err error, path []string, name string) bool {
	var unresolved *UnresolvedReferenceError
	if errors.As(err, &unresolved) {
		return slices.Equal(unresolved.SourcePath, path)
	}
	var circular *CircularReferenceError
	if errors.As(err, &circular) {
		return slices.Contains(circular.Cycle, name)
	}
	return true
}
