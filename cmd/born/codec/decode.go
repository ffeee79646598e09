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
	"github.com/bureau-foundation/born/lib/transcode"
)

type decodeParams struct {
	commonParams
	Compact  bool `json:"compact"   flag:"compact,c" desc:"compact output (no indentation)"`
	Slurp    bool `json:"slurp"     flag:"slurp,s"   desc:"read a BORN sequence as a JSON array"`
	HexInput bool `json:"hex_input" flag:"hex,x"     desc:"treat input as hex-encoded BORN"`
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert BORN to JSON",
		Description: `Read BORN data from stdin (or a file argument) and write the equivalent
JSON to stdout.

By default output is indented with the unit from the config file (two
spaces unless configured). Use -c for compact single-line output.

Buffers, dates and typed objects are written as {"$bytes": ...},
{"$date": ...} and {"$type": ..., "$value": ...}, which "born encode"
reads back. Integral floats keep a ".0" so the distinction from
integers survives the round trip.

With -s, reads a BORN sequence (multiple consecutive values) and
outputs them as a JSON array. Without -s, bytes after the first value
are ignored with a warning.`,
		Usage:  "born decode [-c] [-s] [-x] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Decode a BORN file to pretty JSON",
				Command:     "born decode value.born",
			},
			{
				Description: "Decode a concatenated sequence to a JSON array",
				Command:     "born decode -s < events.born",
			},
			{
				Description: "Decode a hex dump",
				Command:     "echo '0e 01 09 01 6e 05 00 00 01 00' | born decode -x",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("decode", args, params.HexInput)
			if err != nil {
				return err
			}
			cfg, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			indent := cfg.IndentString()
			if params.Compact {
				indent = ""
			}
			return decodeBORN(data, os.Stdout, codec, indent, params.Slurp, logger)
		},
	}
}

// decodeBORN decodes BORN data and writes JSON to w with a trailing
// newline.
func decodeBORN(data []byte, w io.Writer, codec *born.Codec, indent string, slurp bool, logger *slog.Logger) error {
	var value born.Value
	if slurp {
		items, err := decodeSequence(data, codec)
		if err != nil {
			return err
		}
		value = born.Seq(items...)
	} else {
		reader := born.NewReader(data)
		var err error
		value, err = codec.DecodeFrom(reader)
		if err != nil {
			return cli.Validation("%w", err)
		}
		if trailing := reader.Len(); trailing > 0 {
			logger.Warn("ignoring bytes after the first value; use -s for sequences",
				"offset", reader.Offset(),
				"trailing_bytes", trailing,
			)
		}
	}

	output, err := transcode.ToJSON(value, indent)
	if err != nil {
		return cli.Validation("%w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", output); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

// decodeSequence decodes every value in a concatenated BORN stream.
func decodeSequence(data []byte, codec *born.Codec) ([]born.Value, error) {
	reader := born.NewReader(data)
	var items []born.Value
	for reader.Len() > 0 {
		value, err := codec.DecodeFrom(reader)
		if err != nil {
			return nil, cli.Validation("sequence item %d: %w", len(items), err)
		}
		items = append(items, value)
	}
	return items, nil
}
