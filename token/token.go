/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package token provides design token types and the token tree.
package token

import "bennypowers.dev/dtref/reference"

// Well-known token types.
const (
	TypeColor      = "color"
	TypeDimension  = "dimension"
	TypeNumber     = "number"
	TypeDuration   = "duration"
	TypeFontFamily = "fontFamily"
	TypeFontWeight = "fontWeight"
	TypeString     = "string"
)

// Token is a leaf of the token tree.
type Token struct {
	// Path locates the token from the tree root (e.g., ["color", "primary"]).
	Path []string `json:"-"`

	// RawValue is the value as authored. It may contain references.
	RawValue any `json:"-"`

	// ResolvedValue is RawValue with every reference substituted.
	ResolvedValue any `json:"-"`

	// IsResolved indicates ResolvedValue has been populated.
	IsResolved bool `json:"-"`

	// Type is the token's $type, inherited from its groups when absent.
	Type string `json:"$type,omitempty"`

	// Description is optional documentation for the token.
	Description string `json:"$description,omitempty"`

	// Extensions allows for custom metadata.
	Extensions map[string]any `json:"$extensions,omitempty"`

	// FilePath is the file this token was loaded from.
	FilePath string `json:"-"`

	// Line is the 0-based line number where this token is defined.
	Line uint32 `json:"-"`

	// Character is the 0-based character offset where this token is defined.
	Character uint32 `json:"-"`
}

// New creates an unresolved token.
func New(path []string, raw any) *Token {
	return &Token{Path: path, RawValue: raw}
}

func (*Token) node() {}

// Name returns the token's reference name under opts.
func (t *Token) Name(opts reference.Options) string {
	return reference.Name(t.Path, opts)
}

// DotPath returns the dot-separated path to this token.
func (t *Token) DotPath() string {
	return reference.Name(t.Path, reference.DefaultOptions())
}

// Value returns the resolved value when available, otherwise the raw value.
func (t *Token) Value() any {
	if t.IsResolved {
		return t.ResolvedValue
	}
	return t.RawValue
}

// Reset discards any previous resolution.
func (t *Token) Reset() {
	t.ResolvedValue = nil
	t.IsResolved = false
}
