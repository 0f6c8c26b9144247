/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package reference provides the syntax of token references and the
// mapping between token paths and reference names.
package reference

// Default delimiters and separator for references like {color.brand.primary}.
const (
	DefaultOpeningCharacter = "{"
	DefaultClosingCharacter = "}"
	DefaultSeparator        = "."
)

// Options configures reference syntax.
type Options struct {
	// OpeningCharacter starts a reference.
	OpeningCharacter string `yaml:"opening_character" json:"opening_character" mapstructure:"opening_character"`

	// ClosingCharacter ends a reference.
	ClosingCharacter string `yaml:"closing_character" json:"closing_character" mapstructure:"closing_character"`

	// Separator joins path segments into a reference name.
	Separator string `yaml:"separator" json:"separator" mapstructure:"separator"`
}

// DefaultOptions returns options for {dotted.path} references.
func DefaultOptions() Options {
	return Options{
		OpeningCharacter: DefaultOpeningCharacter,
		ClosingCharacter: DefaultClosingCharacter,
		Separator:        DefaultSeparator,
	}
}

// WithDefaults returns a copy of o with empty fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.OpeningCharacter == "" {
		o.OpeningCharacter = DefaultOpeningCharacter
	}
	if o.ClosingCharacter == "" {
		o.ClosingCharacter = DefaultClosingCharacter
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}
