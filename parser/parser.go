/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser reads design token files into token trees.
package parser

import (
	"bennypowers.dev/dtref/fs"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

// Value markers distinguishing a token from a group.
const (
	// DTCGValueMarker marks tokens in Design Tokens Community Group files.
	DTCGValueMarker = "$value"

	// LegacyValueMarker marks tokens in files predating the DTCG format.
	LegacyValueMarker = "value"
)

// Options configures token parsing.
type Options struct {
	// ValueMarker is the key whose presence makes a mapping a token.
	// When empty, "$value" is used unless the file only contains "value".
	ValueMarker string

	// Reference is used to split token names in flat files that carry
	// a name instead of a path.
	Reference reference.Options

	// SkipPositions disables line/character tracking.
	SkipPositions bool
}

// Parser parses design token files.
type Parser interface {
	// Parse parses token data and returns a token tree.
	Parse(data []byte, opts Options) (*token.Tree, error)

	// ParseFile parses a token file and returns a token tree.
	ParseFile(filesystem fs.FileSystem, path string, opts Options) (*token.Tree, error)
}
