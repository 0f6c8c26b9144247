/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

func newTree(t *testing.T, tokens ...*token.Token) *token.Tree {
	t.Helper()
	tree := token.NewTree()
	for _, tok := range tokens {
		require.NoError(t, tree.Insert(tok))
	}
	return tree
}

func TestTree_Lookup(t *testing.T) {
	primary := token.New([]string{"color", "brand", "primary"}, "#f00")
	tree := newTree(t, primary, token.New([]string{"size", "sm"}, 4.0))

	t.Run("finds leaf", func(t *testing.T) {
		tok, ok := tree.Lookup([]string{"color", "brand", "primary"})
		require.True(t, ok)
		require.Same(t, primary, tok)
	})

	t.Run("group is not a token", func(t *testing.T) {
		_, ok := tree.Lookup([]string{"color", "brand"})
		require.False(t, ok)
		n, ok := tree.NodeAt([]string{"color", "brand"})
		require.True(t, ok)
		require.IsType(t, &token.Group{}, n)
	})

	t.Run("path through a token", func(t *testing.T) {
		_, ok := tree.Lookup([]string{"size", "sm", "x"})
		require.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := tree.Lookup([]string{"does", "not", "exist"})
		require.False(t, ok)
	})
}

func TestTree_InsertConflicts(t *testing.T) {
	tests := []struct {
		name  string
		first []string
		next  []string
	}{
		{"token then child", []string{"a"}, []string{"a", "b"}},
		{"group then token", []string{"a", "b"}, []string{"a"}},
		{"duplicate token", []string{"a", "b"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTree(t, token.New(tt.first, "x"))
			err := tree.Insert(token.New(tt.next, "y"))
			if !errors.Is(err, token.ErrConflictingNode) {
				t.Errorf("expected ErrConflictingNode, got %v", err)
			}
		})
	}

	t.Run("empty segment", func(t *testing.T) {
		err := token.NewTree().Insert(token.New([]string{"a", ""}, "x"))
		require.ErrorIs(t, err, token.ErrEmptyPath)
	})
}

func TestTree_TokensOrder(t *testing.T) {
	tree := newTree(t,
		token.New([]string{"z"}, 1),
		token.New([]string{"b", "y"}, 2),
		token.New([]string{"b", "a"}, 3),
		token.New([]string{"a"}, 4),
	)
	var got []string
	for _, tok := range tree.Tokens() {
		got = append(got, tok.DotPath())
	}
	want := []string{"a", "b.a", "b.y", "z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokens() order mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 4, tree.Len())
}

func TestTree_Merge(t *testing.T) {
	base := newTree(t, token.New([]string{"color", "red"}, "#f00"))
	other := newTree(t, token.New([]string{"color", "blue"}, "#00f"))
	require.NoError(t, base.Merge(other))
	require.Equal(t, 2, base.Len())

	dup := newTree(t, &token.Token{Path: []string{"color", "red"}, RawValue: "#e00", FilePath: "dark.json"})
	err := base.Merge(dup)
	require.ErrorIs(t, err, token.ErrConflictingNode)
	require.Contains(t, err.Error(), "dark.json")
}

func TestTree_Resolved(t *testing.T) {
	a := token.New([]string{"a"}, "{b}")
	b := token.New([]string{"g", "b"}, 5.0)
	tree := newTree(t, a, b)
	a.ResolvedValue, a.IsResolved = 5.0, true

	want := map[string]any{
		"a": 5.0,
		"g": map[string]any{"b": 5.0},
	}
	if diff := cmp.Diff(want, tree.Resolved()); diff != "" {
		t.Errorf("Resolved() mismatch (-want +got):\n%s", diff)
	}

	tree.Reset()
	require.False(t, a.IsResolved)
	require.Equal(t, "{b}", a.Value())
}

func TestToken_Name(t *testing.T) {
	tok := token.New([]string{"color", "brand", "primary"}, nil)
	tests := []struct {
		sep      string
		expected string
	}{
		{"", "color.brand.primary"},
		{".", "color.brand.primary"},
		{"-", "color-brand-primary"},
		{"/", "color/brand/primary"},
	}
	for _, tt := range tests {
		if got := tok.Name(reference.Options{Separator: tt.sep}); got != tt.expected {
			t.Errorf("Name(%q) = %q, want %q", tt.sep, got, tt.expected)
		}
	}
	if got := tok.DotPath(); got != "color.brand.primary" {
		t.Errorf("DotPath() = %q", got)
	}
}
