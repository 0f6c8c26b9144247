/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cli

import (
	"context"
	"fmt"

	"bennypowers.dev/dtref/config"
	"bennypowers.dev/dtref/load"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

// Request selects the token sets a command works on.
type Request struct {
	// Files are loaded as one tree. When empty, config variants are used.
	Files []string

	// Variant restricts loading to one config variant.
	Variant string

	// AllErrors aggregates resolution failures regardless of flags and config.
	AllErrors bool

	// SkipResolve returns parsed trees without resolving them.
	SkipResolve bool
}

// Loaded holds the trees of a Request, in variant declaration order.
type Loaded struct {
	Names     []string
	Trees     map[string]*token.Tree
	Reference reference.Options
}

// Load loads the trees of req.
//
// A nil *Loaded means nothing could be loaded and the error is already
// classified. A non-nil *Loaded with an error means the trees loaded but
// did not fully resolve; the error is the resolver's.
func (e *Env) Load(ctx context.Context, req Request) (*Loaded, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}

	opts := e.LoadOptions(cfg)
	opts.AllErrors = opts.AllErrors || req.AllErrors
	opts.SkipResolve = req.SkipResolve

	loaded := &Loaded{Reference: e.ReferenceOptions(cfg)}

	switch {
	case len(req.Files) > 0:
		if req.Variant != "" {
			return nil, InvalidArgument("--variant cannot be combined with file arguments", nil)
		}
		tree, err := load.Load(ctx, req.Files, opts)
		if tree == nil {
			return nil, LoadError(err)
		}
		loaded.Names = []string{config.DefaultVariant}
		loaded.Trees = map[string]*token.Tree{config.DefaultVariant: tree}
		return loaded, err

	case req.Variant != "":
		tree, err := load.LoadVariant(ctx, cfg, req.Variant, opts)
		if tree == nil {
			return nil, LoadError(err)
		}
		loaded.Names = []string{req.Variant}
		loaded.Trees = map[string]*token.Tree{req.Variant: tree}
		return loaded, err

	default:
		trees, err := load.LoadVariants(ctx, cfg, opts)
		if trees == nil {
			return nil, LoadError(err)
		}
		loaded.Names = cfg.VariantNames()
		loaded.Trees = trees
		return loaded, err
	}
}

// Single returns the only tree of l, or an error naming the variants to
// choose from.
func (l *Loaded) Single() (string, *token.Tree, error) {
	if len(l.Names) != 1 {
		return "", nil, InvalidArgument(fmt.Sprintf("found %d variants %v; choose one with --variant", len(l.Names), l.Names), nil)
	}
	name := l.Names[0]
	return name, l.Trees[name], nil
}
