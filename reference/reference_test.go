/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package reference_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bennypowers.dev/dtref/reference"
)

func names(matches []reference.Match) []string {
	var got []string
	for _, m := range matches {
		got = append(got, m.Name)
	}
	return got
}

func TestNewPattern_Defaults(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"{color.primary}", []string{"color.primary"}},
		{"prefix {color.primary} suffix", []string{"color.primary"}},
		{"{a} and {b}", []string{"a", "b"}},
		{"{a}{b}", []string{"a", "b"}},
		{"no references", nil},
		{"{}", nil},
		{"{unterminated", nil},
		{"{nested.deep.path.value}", []string{"nested.deep.path.value"}},
	}

	pattern := reference.NewPattern(reference.Options{})
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := names(reference.FindAll(pattern, tt.input))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("FindAll(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestNewPattern_CustomDelimiters(t *testing.T) {
	tests := []struct {
		name     string
		opts     reference.Options
		input    string
		expected []string
	}{
		{
			name:     "dollar paren",
			opts:     reference.Options{OpeningCharacter: "$(", ClosingCharacter: ")"},
			input:    "calc($(space.sm) * 2)",
			expected: []string{"space.sm"},
		},
		{
			name:     "square brackets",
			opts:     reference.Options{OpeningCharacter: "[", ClosingCharacter: "]"},
			input:    "[a.b] [c]",
			expected: []string{"a.b", "c"},
		},
		{
			name:     "multi character closer",
			opts:     reference.Options{OpeningCharacter: "<<", ClosingCharacter: ">>"},
			input:    "<<a>b>> and <<c>>",
			expected: []string{"a>b", "c"},
		},
		{
			name:     "metacharacters",
			opts:     reference.Options{OpeningCharacter: "^", ClosingCharacter: "$"},
			input:    "^x.y$",
			expected: []string{"x.y"},
		},
		{
			name:     "curly braces ignored with other delimiters",
			opts:     reference.Options{OpeningCharacter: "%", ClosingCharacter: "%"},
			input:    "{a} %b%",
			expected: []string{"b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(reference.FindAll(reference.NewPattern(tt.opts), tt.input))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("FindAll(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestFindAll_Spans(t *testing.T) {
	pattern := reference.NewPattern(reference.DefaultOptions())
	got := reference.FindAll(pattern, "{a} and {bb}")
	want := []reference.Match{
		{Start: 0, End: 3, Name: "a"},
		{Start: 8, End: 12, Name: "bb"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAll spans mismatch (-want +got):\n%s", diff)
	}
}

func TestIsWhole(t *testing.T) {
	pattern := reference.NewPattern(reference.DefaultOptions())
	tests := []struct {
		input    string
		expected bool
	}{
		{"{a.b}", true},
		{" {a.b}", false},
		{"{a}{b}", false},
		{"{a} px", false},
		{"plain", false},
	}
	for _, tt := range tests {
		if got := reference.IsWhole(pattern, tt.input); got != tt.expected {
			t.Errorf("IsWhole(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	got := reference.Options{Separator: "/"}.WithDefaults()
	want := reference.Options{OpeningCharacter: "{", ClosingCharacter: "}", Separator: "/"}
	if got != want {
		t.Errorf("WithDefaults() = %+v, want %+v", got, want)
	}
}

func TestName_RoundTrip(t *testing.T) {
	paths := [][]string{
		{"color"},
		{"color", "brand", "primary"},
		{"size", "100"},
	}
	for _, sep := range []string{".", "/", "-", "::"} {
		opts := reference.Options{Separator: sep}
		for _, path := range paths {
			name := reference.Name(path, opts)
			if diff := cmp.Diff(path, reference.SplitName(name, opts)); diff != "" {
				t.Errorf("SplitName(Name(%v)) with %q mismatch (-want +got):\n%s", path, sep, diff)
			}
		}
	}
}

func TestGetName(t *testing.T) {
	tests := []struct {
		name     string
		path     any
		expected string
		wantErr  bool
	}{
		{name: "string slice", path: []string{"color", "red"}, expected: "color.red"},
		{name: "decoded slice", path: []any{"color", "red"}, expected: "color.red"},
		{name: "string", path: "color.red", wantErr: true},
		{name: "nil", path: nil, wantErr: true},
		{name: "mixed slice", path: []any{"color", 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reference.GetName(tt.path, reference.Options{})
			if tt.wantErr {
				if !errors.Is(err, reference.ErrInvalidPath) {
					t.Fatalf("expected ErrInvalidPath, got %v", err)
				}
				var pathErr *reference.InvalidPathError
				if !errors.As(err, &pathErr) {
					t.Fatalf("expected *InvalidPathError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("GetName(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
