// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete born command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/born/cmd/born/cli"
	codeccmd "github.com/bureau-foundation/born/cmd/born/codec"
	"github.com/bureau-foundation/born/lib/version"
)

// Root builds and returns the born command tree.
func Root() *cli.Command {
	root := &cli.Command{
		Name: "born",
		Description: `born: encode, decode and inspect BORN binary data.

BORN is a compact self-describing binary format: every unit starts
with a one-byte tag, strings and collections use the narrowest length
header that fits, and extension types travel under a 16-byte name.

Extension types and codec limits are read from the YAML file named by
--config or the BORN_CONFIG environment variable.`,
		Subcommands: append(codeccmd.Commands(), versionCommand()),
		Examples: []cli.Example{
			{
				Description: "Encode JSON to BORN",
				Command:     `echo '{"n":256,"s":"hi"}' | born encode > value.born`,
			},
			{
				Description: "Decode BORN to JSON",
				Command:     "born decode value.born",
			},
			{
				Description: "Show every tag and size class",
				Command:     "born diag value.born",
			},
			{
				Description: "Check that a file is canonically encoded",
				Command:     "born validate value.born",
			},
			{
				Description: "Decode with extension types from a config file",
				Command:     "born decode --config ./born.yaml typed.born",
			},
		},
	}
	return root
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments, got %q", args[0])
			}
			_, err := fmt.Fprintf(os.Stdout, "born %s\n", version.Full())
			return err
		},
	}
}
