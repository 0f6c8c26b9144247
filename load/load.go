/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load provides a high-level API for loading and resolving design tokens.
package load

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"bennypowers.dev/dtref/config"
	"bennypowers.dev/dtref/fs"
	"bennypowers.dev/dtref/internal/logger"
	"bennypowers.dev/dtref/parser"
	"bennypowers.dev/dtref/reference"
	"bennypowers.dev/dtref/resolver"
	"bennypowers.dev/dtref/token"
)

var (
	// ErrNoFiles indicates that there is nothing to load.
	ErrNoFiles = errors.New("no token files")

	// ErrUnknownVariant indicates a variant name missing from the config.
	ErrUnknownVariant = errors.New("unknown variant")
)

// Options configures how tokens are loaded.
type Options struct {
	// Root is the directory relative paths and the config file are found from.
	Root string

	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Config is used instead of searching Root for a config file.
	Config *config.Config

	// Reference overrides the configured reference syntax, field by field.
	Reference reference.Options

	// ValueMarker overrides the configured value marker.
	ValueMarker string

	// AllErrors aggregates resolution failures even if the config asks
	// for the first error only.
	AllErrors bool

	// SkipResolve returns parsed trees without resolving them.
	SkipResolve bool

	// Limit caps the number of variants resolved at once. Zero means no limit.
	Limit int
}

// loader holds the effective settings of a load.
type loader struct {
	fs        fs.FileSystem
	root      string
	cfg       *config.Config
	ref       reference.Options
	marker    string
	allErrors bool
}

func newLoader(opts Options) (*loader, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = absRoot
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(filesystem, root)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = config.Default()
		}
	}

	// Options take precedence over config
	ref := cfg.Reference
	if opts.Reference.OpeningCharacter != "" {
		ref.OpeningCharacter = opts.Reference.OpeningCharacter
	}
	if opts.Reference.ClosingCharacter != "" {
		ref.ClosingCharacter = opts.Reference.ClosingCharacter
	}
	if opts.Reference.Separator != "" {
		ref.Separator = opts.Reference.Separator
	}

	return &loader{
		fs:        filesystem,
		root:      root,
		cfg:       cfg,
		ref:       ref.WithDefaults(),
		marker:    opts.ValueMarker,
		allErrors: opts.AllErrors || cfg.AllErrors(),
	}, nil
}

// parse parses every file matched by specs into one tree.
func (l *loader) parse(ctx context.Context, specs []config.FileSpec) (*token.Tree, error) {
	tree := token.NewTree()
	seen := make(map[string]bool)
	p := parser.NewJSONParser()

	for _, spec := range specs {
		paths, err := config.ExpandSpecs(l.fs, l.root, []config.FileSpec{spec})
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", spec.Path, err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("%w: nothing matches %q", ErrNoFiles, spec.Path)
		}

		popts := l.cfg.OptionsForFile(spec.Path)
		popts.Reference = l.ref
		if l.marker != "" {
			popts.ValueMarker = l.marker
		}

		for _, path := range paths {
			if seen[path] {
				continue
			}
			seen[path] = true

			if err := ctx.Err(); err != nil {
				return nil, err
			}
			parsed, err := p.ParseFile(l.fs, path, popts)
			if err != nil {
				return nil, err
			}
			if err := tree.Merge(parsed); err != nil {
				return nil, err
			}
		}
	}

	if tree.Len() == 0 {
		logger.Warn("no tokens found in %d file(s)", len(seen))
	}
	return tree, nil
}

func (l *loader) resolve(tree *token.Tree) error {
	if l.allErrors {
		return resolver.ResolveAll(tree, l.ref)
	}
	return resolver.Resolve(tree, l.ref)
}

// Load parses files into one tree and resolves it.
//
// Files may be paths or globs relative to Options.Root. With no files, the
// top-level files of the config are loaded. Token paths must not overlap
// across files.
//
// When resolution fails, the partially resolved tree is returned along with
// the error so callers can report on the tokens that did resolve.
func Load(ctx context.Context, files []string, opts Options) (*token.Tree, error) {
	l, err := newLoader(opts)
	if err != nil {
		return nil, err
	}

	specs := make([]config.FileSpec, 0, len(files))
	for _, f := range files {
		specs = append(specs, config.FileSpec{Path: f})
	}
	if len(specs) == 0 {
		specs = l.cfg.Files
	}
	if len(specs) == 0 {
		return nil, ErrNoFiles
	}

	start := time.Now()
	tree, err := l.parse(ctx, specs)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed %d tokens in %s", tree.Len(), time.Since(start))

	if opts.SkipResolve {
		return tree, nil
	}
	return tree, l.resolve(tree)
}

// LoadVariants loads every variant of cfg and resolves the variants in
// parallel. A nil cfg is loaded from Options.Root. Without configured
// variants, the top-level files form the single variant
// config.DefaultVariant.
//
// As with Load, trees are returned along with a resolution error.
func LoadVariants(ctx context.Context, cfg *config.Config, opts Options) (map[string]*token.Tree, error) {
	if cfg != nil {
		opts.Config = cfg
	}
	l, err := newLoader(opts)
	if err != nil {
		return nil, err
	}

	sets := l.cfg.VariantSets()
	if len(sets) == 0 {
		return nil, ErrNoFiles
	}

	trees := make(map[string]*token.Tree, len(sets))
	for _, name := range l.cfg.VariantNames() {
		tree, err := l.parse(ctx, sets[name])
		if err != nil {
			return nil, &resolver.VariantError{Variant: name, Err: err}
		}
		trees[name] = tree
	}

	if opts.SkipResolve {
		return trees, nil
	}
	return trees, resolver.ResolveVariants(ctx, trees, resolver.VariantOptions{
		Reference: l.ref,
		AllErrors: l.allErrors,
		Limit:     opts.Limit,
	})
}

// LoadVariant loads and resolves a single named variant of cfg.
func LoadVariant(ctx context.Context, cfg *config.Config, name string, opts Options) (*token.Tree, error) {
	if cfg != nil {
		opts.Config = cfg
	}
	l, err := newLoader(opts)
	if err != nil {
		return nil, err
	}

	specs, ok := l.cfg.VariantSets()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}

	tree, err := l.parse(ctx, specs)
	if err != nil {
		return nil, err
	}
	if opts.SkipResolve {
		return tree, nil
	}
	return tree, l.resolve(tree)
}
