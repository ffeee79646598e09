// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/born/cmd/born/cli"
	"github.com/bureau-foundation/born/lib/born"
)

type diagParams struct {
	commonParams
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex-encoded BORN"`
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Convert BORN to diagnostic notation",
		Description: `Read BORN and write diagnostic notation to stdout, one line per value.

Unlike JSON output, diagnostic notation names the tag of every unit, so
size classes and signs are visible:

  OBJECT_SHORT(1){"n": INT(256)}          one-entry object, 4-byte int
  STRING_MID(3)"abc"                      non-narrowest string header
  ARRAY_SHORT(2)[INT8(1), FLOAT_NEG(-0.5)]
  BUFFER(2)h'0001'                        buffer in hex
  TYPED_OBJECT("point")ARRAY_SHORT(2)[INT8(1), INT8(2)]

Unknown tag bytes render as TAG(0xNN) unless codec.strict_tags is set.`,
		Usage:  "born diag [-x] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Show diagnostic notation for a BORN file",
				Command:     "born diag value.born",
			},
			{
				Description: "Encode JSON and inspect the BORN structure",
				Command:     `echo '{"count":42}' | born encode | born diag`,
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("diag", args, params.HexInput)
			if err != nil {
				return err
			}
			_, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			return diagBORN(data, os.Stdout, codec)
		},
	}
}

// diagBORN writes one line of diagnostic notation per value in data.
func diagBORN(data []byte, w io.Writer, codec *born.Codec) error {
	reader := born.NewReader(data)
	for reader.Len() > 0 {
		notation, err := codec.DiagnoseFrom(reader)
		if err != nil {
			return cli.Validation("%w", err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return cli.Internal("write output: %w", err)
		}
	}
	return nil
}
