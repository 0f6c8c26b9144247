/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"slices"

	"bennypowers.dev/dtref/internal/logger"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

type state int

const (
	unvisited state = iota
	inProgress
	resolved
	failed
)

// Resolver performs one resolution pass over a token tree.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	tree   *token.Tree
	opts   reference.Options
	graph  *Graph
	states map[*token.Token]state
	errs   map[*token.Token]error
	stack  []*token.Token
}

// New builds the reference graph of tree and returns a Resolver for it.
func New(tree *token.Tree, opts reference.Options) *Resolver {
	opts = opts.WithDefaults()
	return &Resolver{
		tree:   tree,
		opts:   opts,
		graph:  BuildGraph(tree, opts),
		states: make(map[*token.Token]state),
		errs:   make(map[*token.Token]error),
	}
}

// Graph returns the dependency graph the Resolver works from.
func (r *Resolver) Graph() *Graph {
	return r.graph
}

// ResolveToken resolves tok and, recursively, every token it references.
// It sets ResolvedValue and IsResolved on each token it resolves.
func (r *Resolver) ResolveToken(tok *token.Token) (any, error) {
	switch r.states[tok] {
	case resolved:
		return tok.ResolvedValue, nil
	case failed:
		return nil, r.errs[tok]
	case inProgress:
		return nil, r.cycleThrough(tok)
	}

	entry, ok := r.graph.entryFor(tok)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotInTree, tok.Name(r.opts))
	}

	r.states[tok] = inProgress
	r.stack = append(r.stack, tok)
	value, err := r.resolveEntry(entry)
	r.stack = r.stack[:len(r.stack)-1]

	if err != nil {
		r.states[tok] = failed
		r.errs[tok] = err
		return nil, err
	}

	tok.ResolvedValue = value
	tok.IsResolved = true
	r.states[tok] = resolved
	return value, nil
}

func (r *Resolver) resolveEntry(entry *Entry) (any, error) {
	if len(entry.Refs) == 0 {
		return cloneValue(entry.Token.RawValue), nil
	}

	values := make([]any, len(entry.Refs))
	for i, ref := range entry.Refs {
		target, ok := r.tree.Lookup(ref.Target)
		if !ok {
			tok := entry.Token
			return nil, &UnresolvedReferenceError{
				SourcePath:    slices.Clone(tok.Path),
				SourceName:    entry.Name,
				ReferenceName: ref.Name,
				FilePath:      tok.FilePath,
				Line:          tok.Line,
				Character:     tok.Character,
			}
		}
		value, err := r.ResolveToken(target)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}

	if entry.Whole {
		return cloneValue(values[0]), nil
	}
	return substitute(entry.Token.RawValue, entry.Refs, values), nil
}

// cycleThrough builds the cycle that closes on tok from the current stack.
func (r *Resolver) cycleThrough(tok *token.Token) error {
	start := slices.Index(r.stack, tok)
	if start == -1 {
		panic(fmt.Sprintf("cycle detection invariant violated: %s in progress but not on the stack", tok.Name(r.opts)))
	}
	cycle := make([]string, 0, len(r.stack)-start+1)
	for _, t := range r.stack[start:] {
		cycle = append(cycle, t.Name(r.opts))
	}
	cycle = append(cycle, tok.Name(r.opts))
	return &CircularReferenceError{Cycle: cycle}
}

// Resolve resolves every token of tree in place, stopping at the first failure.
// Tokens are visited in sorted path order, so the reported failure is
// deterministic. Any previous resolution of tree is discarded.
func Resolve(tree *token.Tree, opts reference.Options) error {
	tree.Reset()
	r := New(tree, opts)
	tokens := tree.Tokens()
	for _, tok := range tokens {
		if _, err := r.ResolveToken(tok); err != nil {
			return err
		}
	}
	logger.Debug("resolved %d tokens", len(tokens))
	return nil
}

// ResolveAll resolves every token of tree in place and keeps going past
// failures. Every resolvable token is resolved; failures are returned as a
// *ResolutionErrors holding each distinct error once, plus the names of
// tokens blocked by a failing dependency.
func ResolveAll(tree *token.Tree, opts reference.Options) error {
	tree.Reset()
	r := New(tree, opts)

	agg := &ResolutionErrors{}
	seen := make(map[error]bool)
	tokens := tree.Tokens()
	for _, tok := range tokens {
		_, err := r.ResolveToken(tok)
		if err == nil {
			continue
		}
		name := tok.Name(r.opts)
		if !seen[err] {
			seen[err] = true
			agg.Errors = append(agg.Errors, err)
		}
		if !originatesAt(err, tok.Path, name) {
			agg.Blocked = append(agg.Blocked, name)
		}
	}

	if len(agg.Errors) > 0 {
		done := 0
		for _, tok := range tokens {
			if tok.IsResolved {
				done++
			}
		}
		logger.Debug("resolved %d of %d tokens, %d error(s)", done, len(tokens), len(agg.Errors))
		return agg
	}
	logger.Debug("resolved %d tokens", len(tokens))
	return nil
}
