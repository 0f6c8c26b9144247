/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for dtref.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bennypowers.dev/dtref/cmd/graph"
	"bennypowers.dev/dtref/cmd/resolve"
	"bennypowers.dev/dtref/cmd/validate"
	versioncmd "bennypowers.dev/dtref/cmd/version"
	"bennypowers.dev/dtref/internal/cli"
	"bennypowers.dev/dtref/internal/version"
)

func newRootCommand(env *cli.Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "dtref",
		Short: "Resolve references between design tokens",
		Long: `dtref resolves references like {color.brand.primary} between design tokens,
reporting missing targets and circular references.

Settings come from .config/dtref.{yaml,yml,json}, DTREF_* environment
variables and flags, in increasing order of precedence.`,
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return env.SetupLogging()
		},
	}

	env.BindGlobalFlags(root)

	root.AddCommand(resolve.NewCommand(env))
	root.AddCommand(validate.NewCommand(env))
	root.AddCommand(graph.NewCommand(env))
	root.AddCommand(versioncmd.NewCommand())
	return root
}

// Execute runs the root command and returns its exit code.
func Execute() int {
	err := newRootCommand(cli.NewEnv()).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Message(err))
	}
	return cli.ExitCode(err)
}
