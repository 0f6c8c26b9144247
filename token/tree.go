/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrConflictingNode indicates a path that would be both a token and a group,
	// or a token defined twice.
	ErrConflictingNode = errors.New("conflicting token tree node")

	// ErrEmptyPath indicates a token path with no segments or an empty segment.
	ErrEmptyPath = errors.New("token path has an empty segment")
)

// Tree is a nested token tree. Every leaf is a *Token and every branch a *Group.
type Tree struct {
	Root *Group
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{Root: NewGroup("")}
}

// Insert adds tok at tok.Path, creating intermediate groups as needed.
func (t *Tree) Insert(tok *Token) error {
	if len(tok.Path) == 0 || slices.Contains(tok.Path, "") {
		return fmt.Errorf("%w: %q", ErrEmptyPath, strings.Join(tok.Path, "."))
	}

	g := t.Root
	for i, segment := range tok.Path[:len(tok.Path)-1] {
		switch n := g.Children[segment].(type) {
		case nil:
			child := NewGroup(segment)
			g.Children[segment] = child
			g = child
		case *Group:
			g = n
		case *Token:
			return fmt.Errorf("%w: %s is a token, cannot hold %s",
				ErrConflictingNode, strings.Join(tok.Path[:i+1], "."), strings.Join(tok.Path, "."))
		}
	}

	leaf := tok.Path[len(tok.Path)-1]
	if existing, ok := g.Children[leaf]; ok {
		kind := "token"
		if _, isGroup := existing.(*Group); isGroup {
			kind = "group"
		}
		return fmt.Errorf("%w: %s is already defined as a %s", ErrConflictingNode, strings.Join(tok.Path, "."), kind)
	}
	g.Children[leaf] = tok
	return nil
}

// NodeAt returns the node at path. The empty path is the root group.
func (t *Tree) NodeAt(path []string) (Node, bool) {
	var n Node = t.Root
	for _, segment := range path {
		g, ok := n.(*Group)
		if !ok {
			return nil, false
		}
		n, ok = g.Children[segment]
		if !ok {
			return nil, false
		}
	}
	return n, true
}

// Lookup returns the token at path. Paths naming a group are not found.
func (t *Tree) Lookup(path []string) (*Token, bool) {
	n, ok := t.NodeAt(path)
	if !ok {
		return nil, false
	}
	tok, ok := n.(*Token)
	return tok, ok
}

// Tokens returns every token depth-first in sorted key order.
func (t *Tree) Tokens() []*Token {
	return t.Root.AllTokens()
}

// Len returns the number of tokens in the tree.
func (t *Tree) Len() int {
	return len(t.Tokens())
}

// Merge inserts every token of other into t. Overlapping paths are an error;
// trees are never deep-merged.
func (t *Tree) Merge(other *Tree) error {
	for _, tok := range other.Tokens() {
		if err := t.Insert(tok); err != nil {
			if tok.FilePath != "" {
				return fmt.Errorf("%s: %w", tok.FilePath, err)
			}
			return err
		}
	}
	return nil
}

// Reset discards the resolution state of every token.
func (t *Tree) Reset() {
	for _, tok := range t.Tokens() {
		tok.Reset()
	}
}

// Resolved returns a plain nested map of resolved values, keyed by segment.
// Unresolved tokens contribute their raw value.
func (t *Tree) Resolved() map[string]any {
	return groupValues(t.Root)
}

func groupValues(g *Group) map[string]any {
	out := make(map[string]any, len(g.Children))
	for key, child := range g.Children {
		switch n := child.(type) {
		case *Token:
			out[key] = n.Value()
		case *Group:
			out[key] = groupValues(n)
		}
	}
	return out
}
