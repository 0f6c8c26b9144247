/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for dtref.
package validate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/dtref/internal/cli"
	"bennypowers.dev/dtref/resolver"
	"bennypowers.dev/dtref/validator"
)

// NewCommand returns the validate cobra command.
func NewCommand(env *cli.Env) *cobra.Command {
	var variant string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate design token files",
		Long: `Resolve design token files and check the resolved values.

Reports every reference that does not resolve, every circular reference,
and resolved values that do not fit their token type.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, args, variant, quiet)
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Validate only this config variant")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only output errors")

	return cmd
}

func run(cmd *cobra.Command, env *cli.Env, args []string, variant string, quiet bool) error {
	loaded, err := env.Load(cmd.Context(), cli.Request{Files: args, Variant: variant, AllErrors: true})
	if loaded == nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	failures := 0

	for _, name := range loaded.Names {
		tree := loaded.Trees[name]
		if !quiet {
			fmt.Fprintf(out, "Validating %s...\n", name)
		}

		resErrs := resolutionErrors(err, name)
		for _, resErr := range resErrs {
			fmt.Fprintf(errOut, "  %v\n", resErr)
			failures++
		}

		vErrs := validator.Validate(tree, validator.Options{
			Reference:      loaded.Reference,
			SkipUnresolved: len(resErrs) > 0,
		})
		for _, vErr := range vErrs {
			fmt.Fprintf(errOut, "  %s\n", vErr.Error())
			failures++
		}

		if !quiet {
			fmt.Fprintf(out, "  %d tokens\n", tree.Len())
		}
	}

	if failures > 0 {
		return cli.FailedPrecondition(fmt.Sprintf("validation failed with %d problem(s)", failures), nil)
	}
	if !quiet {
		fmt.Fprintln(out, "All tokens valid.")
	}
	return nil
}

// resolutionErrors returns the individual resolution failures of one variant.
func resolutionErrors(err error, variant string) []error {
	if err == nil {
		return nil
	}

	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok && !isAggregate(err) {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var out []error
	for _, e := range errs {
		var variantErr *resolver.VariantError
		if errors.As(e, &variantErr) {
			if variantErr.Variant != variant {
				continue
			}
			e = variantErr.Err
		}
		var agg *resolver.ResolutionErrors
		if errors.As(e, &agg) {
			out = append(out, agg.Errors...)
			continue
		}
		out = append(out, e)
	}
	return out
}

func isAggregate(err error) bool {
	_, ok := err.(*resolver.ResolutionErrors)
	return ok
}
