/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for dtref.
package resolve

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/dtref/convert"
	"bennypowers.dev/dtref/internal/cli"
)

type options struct {
	format    string
	output    string
	variant   string
	allErrors bool
}

// NewCommand returns the resolve cobra command.
func NewCommand(env *cli.Env) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "resolve [files...]",
		Short: "Resolve token references and print the resolved tokens",
		Long: `Resolve every reference in a set of design token files and print the result.

Without file arguments, the files and variants of .config/dtref.yaml are used.

Examples:
  # Resolve two files as one token set
  dtref resolve tokens/core.json tokens/semantic.json

  # Resolve the dark variant from the config, as JSON
  dtref resolve --variant dark --format json

  # Write the resolved tokens to a file
  dtref resolve -f yaml -o resolved.yaml

  # Use $(a/b) references
  dtref resolve --open '$(' --close ')' --separator / tokens.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = env.Viper.BindPFlag(cli.KeyAllErrors, cmd.Flags().Lookup("all-errors"))
			return run(cmd, env, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: "+strings.Join(convert.ValidFormats(), ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Resolve only this config variant")
	cmd.Flags().BoolVar(&opts.allErrors, "all-errors", false, "Report every failure instead of stopping at the first")

	return cmd
}

func run(cmd *cobra.Command, env *cli.Env, opts options, args []string) error {
	format, err := convert.ParseFormat(opts.format)
	if err != nil {
		return cli.InvalidArgument("invalid --format", err)
	}

	loaded, err := env.Load(cmd.Context(), cli.Request{Files: args, Variant: opts.variant})
	if loaded == nil {
		return err
	}
	if err != nil {
		return cli.FailedPrecondition("failed to resolve tokens", err)
	}

	variants := make([]convert.Variant, 0, len(loaded.Names))
	for _, name := range loaded.Names {
		variants = append(variants, convert.Variant{Name: name, Tree: loaded.Trees[name]})
	}
	if opts.output == "" {
		return convert.Write(cmd.OutOrStdout(), variants, format, loaded.Reference)
	}

	var buf bytes.Buffer
	if err := convert.Write(&buf, variants, format, loaded.Reference); err != nil {
		return err
	}
	output := opts.output
	if !filepath.IsAbs(output) {
		output = filepath.Join(env.Root, output)
	}
	if err := env.FS.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing to %s: %w", output, err)
	}
	return nil
}
