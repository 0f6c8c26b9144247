/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package graph provides the graph command for dtref.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/dtref/internal/cli"
	"bennypowers.dev/dtref/resolver"
)

type options struct {
	format  string
	variant string
}

// Report is the JSON form of a token's place in the reference graph.
type Report struct {
	Token        string   `json:"token"`
	References   []string `json:"references"`
	ReferencedBy []string `json:"referencedBy"`
	Order        []string `json:"order,omitempty"`
	Cycle        []string `json:"cycle,omitempty"`
}

// NewCommand returns the graph cobra command.
func NewCommand(env *cli.Env) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "graph <token> [files...]",
		Short: "Show what a token references and what references it",
		Long: `Show the direct references of a token, the tokens that reference it,
and the order in which its dependencies resolve.

Tokens are not resolved first, so graph also works on files with
circular or missing references.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Use this config variant")

	return cmd
}

func run(cmd *cobra.Command, env *cli.Env, opts options, name string, files []string) error {
	loaded, err := env.Load(cmd.Context(), cli.Request{Files: files, Variant: opts.variant, SkipResolve: true})
	if loaded == nil {
		return err
	}
	_, tree, err := loaded.Single()
	if err != nil {
		return err
	}

	g := resolver.New(tree, loaded.Reference).Graph()
	if _, ok := g.Entry(name); !ok {
		return cli.NotFound(fmt.Sprintf("token %q not found", name), nil)
	}

	report := Report{
		Token:        name,
		References:   g.Dependencies(name),
		ReferencedBy: g.Dependents(name),
	}
	order, err := g.ResolutionOrder(name)
	var cycle *resolver.CircularReferenceError
	switch {
	case errors.As(err, &cycle):
		report.Cycle = cycle.Cycle
	case err != nil:
		return err
	default:
		report.Order = order
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		writeText(cmd.OutOrStdout(), report)
		return nil
	default:
		return cli.InvalidArgument(fmt.Sprintf("unknown format %q: expected text or json", opts.format), nil)
	}
}

func writeText(w io.Writer, r Report) {
	fmt.Fprintln(w, r.Token)
	writeList(w, "references", r.References)
	writeList(w, "referenced by", r.ReferencedBy)
	if len(r.Cycle) > 0 {
		fmt.Fprintf(w, "  cycle: %s\n", strings.Join(r.Cycle, " -> "))
	} else if len(r.Order) > 1 {
		fmt.Fprintf(w, "  resolves after: %s\n", strings.Join(r.Order[:len(r.Order)-1], ", "))
	}
}

func writeList(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(w, "  %s: none\n", label)
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, n := range names {
		fmt.Fprintf(w, "    %s\n", n)
	}
}
