/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for dtref.
package config

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/dtref/parser"
	"bennypowers.dev/dtref/reference"
)

// Error reporting modes.
const (
	// ErrorsFirst stops at the first failing token.
	ErrorsFirst = "first"

	// ErrorsAll reports every independent failure of a pass.
	ErrorsAll = "all"
)

// DefaultVariant names the token set built from the top-level Files list.
const DefaultVariant = "default"

// Config represents the dtref configuration.
type Config struct {
	// Reference configures reference delimiters and the path separator.
	Reference reference.Options `yaml:"reference" json:"reference" mapstructure:"reference"`

	// ValueMarker is the key that marks a token. Empty means auto-detect.
	ValueMarker string `yaml:"valueMarker" json:"valueMarker" mapstructure:"valueMarker"`

	// Files specifies token files to load (paths or globs).
	Files []FileSpec `yaml:"files" json:"files" mapstructure:"files"`

	// Variants are independent token sets, such as themes.
	Variants []Variant `yaml:"variants" json:"variants" mapstructure:"variants"`

	// Errors is the error reporting mode: "first" or "all".
	Errors string `yaml:"errors" json:"errors" mapstructure:"errors"`
}

// FileSpec represents a token file specification.
// It can be specified as a simple string path or as an object.
type FileSpec struct {
	// Path is the file path (supports globs).
	Path string `yaml:"path" json:"path" mapstructure:"path"`

	// ValueMarker overrides the global value marker for this file.
	ValueMarker string `yaml:"valueMarker" json:"valueMarker" mapstructure:"valueMarker"`
}

// Variant is a named list of token files resolved as one tree.
type Variant struct {
	Name  string     `yaml:"name" json:"name" mapstructure:"name"`
	Files []FileSpec `yaml:"files" json:"files" mapstructure:"files"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Reference: reference.DefaultOptions(),
		Errors:    ErrorsFirst,
	}
}

// Validate checks field values that cannot be checked while decoding.
func (c *Config) Validate() error {
	switch c.Errors {
	case "", ErrorsFirst, ErrorsAll:
	default:
		return fmt.Errorf("invalid errors mode %q: expected %q or %q", c.Errors, ErrorsFirst, ErrorsAll)
	}

	seen := make(map[string]bool, len(c.Variants))
	for i, v := range c.Variants {
		if v.Name == "" {
			return fmt.Errorf("variant %d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate variant %q", v.Name)
		}
		seen[v.Name] = true
		if len(v.Files) == 0 {
			return fmt.Errorf("variant %q has no files", v.Name)
		}
	}
	return nil
}

// AllErrors reports whether failures are aggregated.
func (c *Config) AllErrors() bool {
	return c.Errors == ErrorsAll
}

// ReferenceOptions returns the reference options with defaults filled in.
func (c *Config) ReferenceOptions() reference.Options {
	return c.Reference.WithDefaults()
}

// OptionsForFile returns parser.Options with configuration applied.
// File-level overrides take precedence over global config.
func (c *Config) OptionsForFile(path string) parser.Options {
	opts := parser.Options{
		ValueMarker: c.ValueMarker,
		Reference:   c.ReferenceOptions(),
	}

	for _, spec := range c.allFiles() {
		if spec.Path == path {
			if spec.ValueMarker != "" {
				opts.ValueMarker = spec.ValueMarker
			}
			break
		}
	}

	return opts
}

func (c *Config) allFiles() []FileSpec {
	files := slices.Clone(c.Files)
	for _, v := range c.Variants {
		files = append(files, v.Files...)
	}
	return files
}

// VariantSets returns the file specs of every variant, keyed by name.
// Without configured variants, the top-level files form DefaultVariant.
func (c *Config) VariantSets() map[string][]FileSpec {
	if len(c.Variants) == 0 {
		if len(c.Files) == 0 {
			return nil
		}
		return map[string][]FileSpec{DefaultVariant: c.Files}
	}

	sets := make(map[string][]FileSpec, len(c.Variants))
	for _, v := range c.Variants {
		sets[v.Name] = slices.Concat(c.Files, v.Files)
	}
	return sets
}

// VariantNames returns variant names in declaration order.
func (c *Config) VariantNames() []string {
	if len(c.Variants) == 0 {
		if len(c.Files) == 0 {
			return nil
		}
		return []string{DefaultVariant}
	}
	names := make([]string, len(c.Variants))
	for i, v := range c.Variants {
		names[i] = v.Name
	}
	return names
}
