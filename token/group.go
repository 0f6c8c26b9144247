/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"maps"
	"slices"
)

// Node is a token tree node: either a *Token or a *Group.
type Node interface {
	node()
}

// Group is a branch of the token tree.
type Group struct {
	// Name is the group's identifier within its parent. Empty for the root.
	Name string `json:"-"`

	// Description is optional documentation for the group.
	Description string `json:"$description,omitempty"`

	// Type is the inherited $type for tokens in this group.
	Type string `json:"$type,omitempty"`

	// Children maps path segments to nested groups or tokens.
	Children map[string]Node `json:"-"`

	// Line is the 0-based line number where this group is defined.
	Line uint32 `json:"-"`

	// Character is the 0-based character offset where this group is defined.
	Character uint32 `json:"-"`
}

// NewGroup creates a new empty token group.
func NewGroup(name string) *Group {
	return &Group{
		Name:     name,
		Children: make(map[string]Node),
	}
}

func (*Group) node() {}

// Keys returns the child segments in sorted order.
func (g *Group) Keys() []string {
	return slices.Sorted(maps.Keys(g.Children))
}

// AllTokens returns all tokens in this group and nested groups,
// depth-first with keys in sorted order.
func (g *Group) AllTokens() []*Token {
	var tokens []*Token
	for _, key := range g.Keys() {
		switch n := g.Children[key].(type) {
		case *Token:
			tokens = append(tokens, n)
		case *Group:
			tokens = append(tokens, n.AllTokens()...)
		}
	}
	return tokens
}
