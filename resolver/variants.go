/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"bennypowers.dev/dtref/internal/logger"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/token"
)

// VariantOptions configures ResolveVariants.
type VariantOptions struct {
	// Reference is the reference syntax shared by all variants.
	Reference reference.Options

	// AllErrors resolves every variant with ResolveAll and reports the
	// failures of all variants. Otherwise the first failure stops variants
	// that have not started yet.
	AllErrors bool

	// Limit caps the number of variants resolved at once. Zero means no limit.
	Limit int
}

// ResolveVariants resolves independent trees in parallel. Trees share no
// state, so each gets its own Resolver. Errors are wrapped in *VariantError.
func ResolveVariants(ctx context.Context, trees map[string]*token.Tree, opts VariantOptions) error {
	names := slices.Sorted(maps.Keys(trees))
	errs := make([]error, len(names))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Limit > 0 {
		g.SetLimit(opts.Limit)
	}

	for i, name := range names {
		tree := trees[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			var err error
			if opts.AllErrors {
				err = ResolveAll(tree, opts.Reference)
			} else {
				err = Resolve(tree, opts.Reference)
			}
			logger.Debug("variant %s: %d tokens in %s", name, tree.Len(), time.Since(start))
			if err == nil {
				return nil
			}
			err = &VariantError{Variant: name, Err: err}
			if opts.AllErrors {
				errs[i] = err
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
