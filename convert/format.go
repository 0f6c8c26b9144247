/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package convert writes resolved token trees in output formats.
package convert

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/resolver"
	"bennypowers.dev/dtref/token"
)

// Format represents an output format for resolved tokens.
type Format string

const (
	// FormatTable outputs one aligned row per token (default).
	FormatTable Format = "table"

	// FormatJSON outputs nested JSON mirroring the token tree.
	FormatJSON Format = "json"

	// FormatFlatJSON outputs JSON keyed by token name.
	FormatFlatJSON Format = "flat"

	// FormatYAML outputs nested YAML mirroring the token tree.
	FormatYAML Format = "yaml"
)

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatTable),
		string(FormatJSON),
		string(FormatFlatJSON),
		string(FormatYAML),
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return FormatTable, nil
	case "json", "nested":
		return FormatJSON, nil
	case "flat", "flat-json":
		return FormatFlatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// Variant is a named tree to write.
type Variant struct {
	Name string
	Tree *token.Tree
}

// Write writes variants to w. A single variant is written as is; several
// are keyed by name (or headed by name, for tables). Names in the table and
// flat formats use the separator of opts.
func Write(w io.Writer, variants []Variant, format Format, opts reference.Options) error {
	opts = opts.WithDefaults()

	switch format {
	case FormatTable:
		writeTable(w, variants, opts)
		return nil
	case FormatJSON:
		return writeJSON(w, document(variants, func(t *token.Tree) any { return t.Resolved() }))
	case FormatFlatJSON:
		return writeJSON(w, document(variants, func(t *token.Tree) any { return flatten(t, opts) }))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document(variants, func(t *token.Tree) any { return t.Resolved() })); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func document(variants []Variant, render func(*token.Tree) any) any {
	if len(variants) == 1 {
		return render(variants[0].Tree)
	}
	doc := make(map[string]any, len(variants))
	for _, v := range variants {
		doc[v.Name] = render(v.Tree)
	}
	return doc
}

func flatten(t *token.Tree, opts reference.Options) map[string]any {
	result := make(map[string]any, t.Len())
	for _, tok := range t.Tokens() {
		result[tok.Name(opts)] = tok.Value()
	}
	return result
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, variants []Variant, opts reference.Options) {
	for i, v := range variants {
		if len(variants) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", v.Name)
		}
		for _, tok := range v.Tree.Tokens() {
			typeStr := tok.Type
			if typeStr == "" {
				typeStr = "-"
			}
			fmt.Fprintf(w, "%-40s %-12s %s\n", tok.Name(opts), typeStr, resolver.Stringify(tok.Value()))
		}
	}
}
