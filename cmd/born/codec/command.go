// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "github.com/bureau-foundation/born/cmd/born/cli"

// Commands returns the data subcommands in help order.
func Commands() []*cli.Command {
	return []*cli.Command{
		encodeCommand(),
		decodeCommand(),
		diagCommand(),
		validateCommand(),
		inspectCommand(),
		cborCommand(),
	}
}
