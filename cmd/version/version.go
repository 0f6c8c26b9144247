/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for dtref.
package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/dtref/internal/cli"
	"bennypowers.dev/dtref/internal/version"
)

// NewCommand returns the version cobra command that prints version and
// build information.
func NewCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version information for dtref.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(version.Info(), "", "  ")
				if err != nil {
					return fmt.Errorf("error marshaling version info: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "text":
				fmt.Fprintf(out, "dtref %s\n", version.Get())
			default:
				return cli.InvalidArgument(fmt.Sprintf("unknown format %q: expected text or json", format), nil)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	return cmd
}
