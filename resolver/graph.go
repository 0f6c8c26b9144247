/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver provides token reference resolution.
package resolver

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

// Ref is one reference found in a token's raw value.
type Ref struct {
	// Name is the reference name as written.
	Name string

	// Target is the token path Name resolves to.
	Target []string

	// Field locates the string holding the reference inside a structured
	// value, as map keys and slice indexes. Nil for plain string values.
	Field []string

	// Start and End are the byte span of the reference, delimiters
	// included, within that string.
	Start int
	End   int
}

// Entry holds the references of a single token.
type Entry struct {
	Token *token.Token
	Name  string

	// Refs are ordered by field, then by position.
	Refs []Ref

	// Whole is set when the raw value is a string that is exactly one reference.
	Whole bool
}

// Graph is a directed graph of token dependencies, keyed by token name.
type Graph struct {
	opts         reference.Options
	entries      map[string]*Entry
	byToken      map[*token.Token]*Entry
	order        []string
	dependencies map[string][]string
	dependents   map[string][]string
}

// BuildGraph walks tree depth-first and records every reference of every token.
func BuildGraph(tree *token.Tree, opts reference.Options) *Graph {
	opts = opts.WithDefaults()
	pattern := reference.NewPattern(opts)

	graph := &Graph{
		opts:         opts,
		entries:      make(map[string]*Entry),
		byToken:      make(map[*token.Token]*Entry),
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}

	for _, tok := range tree.Tokens() {
		entry := &Entry{Token: tok, Name: tok.Name(opts)}
		entry.Refs = collectRefs(pattern, opts, tok.RawValue, nil, nil)
		if s, ok := tok.RawValue.(string); ok {
			entry.Whole = reference.IsWhole(pattern, s)
		}

		graph.entries[entry.Name] = entry
		graph.byToken[tok] = entry
		graph.order = append(graph.order, entry.Name)

		for _, ref := range entry.Refs {
			dep := reference.Name(ref.Target, opts)
			if slices.Contains(graph.dependencies[entry.Name], dep) {
				continue
			}
			graph.dependencies[entry.Name] = append(graph.dependencies[entry.Name], dep)
			graph.dependents[dep] = append(graph.dependents[dep], entry.Name)
		}
	}

	return graph
}

// collectRefs extracts references from a raw value, descending into maps
// (sorted keys) and slices.
func collectRefs(pattern *regexp.Regexp, opts reference.Options, value any, field []string, refs []Ref) []Ref {
	switch v := value.(type) {
	case string:
		for _, m := range reference.FindAll(pattern, v) {
			refs = append(refs, Ref{
				Name:   m.Name,
				Target: reference.SplitName(m.Name, opts),
				Field:  field,
				Start:  m.Start,
				End:    m.End,
			})
		}
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			refs = collectRefs(pattern, opts, v[key], appendField(field, key), refs)
		}
	case []any:
		for i, item := range v {
			refs = collectRefs(pattern, opts, item, appendField(field, strconv.Itoa(i)), refs)
		}
	}
	return refs
}

func appendField(field []string, key string) []string {
	return append(slices.Clip(field), key)
}

// Entry returns the references recorded for the named token.
func (g *Graph) Entry(name string) (*Entry, bool) {
	e, ok := g.entries[name]
	return e, ok
}

// entryFor returns the entry for a token pointer.
func (g *Graph) entryFor(tok *token.Token) (*Entry, bool) {
	e, ok := g.byToken[tok]
	return e, ok
}

// Names returns every token name in walk order.
func (g *Graph) Names() []string {
	return slices.Clone(g.order)
}

// Dependencies returns the list of tokens that the given token depends on.
func (g *Graph) Dependencies(name string) []string {
	if deps, ok := g.dependencies[name]; ok {
		return slices.Clone(deps)
	}
	return []string{}
}

// Dependents returns the list of tokens that depend on the given token.
func (g *Graph) Dependents(name string) []string {
	if deps, ok := g.dependents[name]; ok {
		return slices.Clone(deps)
	}
	return []string{}
}

func (g *Graph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		cycleStart := slices.Index(path, node)
		if cycleStart == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		return append(slices.Clone(path[cycleStart:]), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

func (g *Graph) topologicalSortDFS(node string, visited map[string]bool, stack *[]string) {
	visited[node] = true

	for _, dep := range g.dependencies[node] {
		if !visited[dep] {
			g.topologicalSortDFS(dep, visited, stack)
		}
	}

	if _, defined := g.entries[node]; defined {
		*stack = append(*stack, node)
	}
}

// ResolutionOrder returns name and its transitive dependencies in the order
// they resolve, dependencies first and name last. Names referenced but not
// defined are omitted. Returns a *CircularReferenceError if a cycle is
// reachable from name.
func (g *Graph) ResolutionOrder(name string) ([]string, error) {
	if cycle := g.findCycleDFS(name, make(map[string]bool), make(map[string]bool), nil); cycle != nil {
		return nil, &CircularReferenceError{Cycle: cycle}
	}

	result := []string{}
	g.topologicalSortDFS(name, make(map[string]bool), &result)
	return result, nil
}
