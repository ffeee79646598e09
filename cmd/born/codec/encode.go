// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/born/cmd/born/cli"
	"github.com/bureau-foundation/born/lib/born"
	"github.com/bureau-foundation/born/lib/transcode"
)

type encodeParams struct {
	commonParams
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON to BORN",
		Description: `Read JSON from stdin (or a file argument) and write the equivalent BORN
to stdout.

The input may contain comments and trailing commas (JSONC). Object key
order is preserved. JSON numbers without a fraction or exponent become
integers; all others become floats. Three single-key object forms map
to the BORN types JSON lacks:

  {"$bytes": "AAE="}                          buffer (standard base64)
  {"$date": "2023-10-08T18:37:32.123Z"}       date (RFC 3339)
  {"$type": "point", "$value": [1, 2]}        typed object

Typed objects must name a type declared in the config file.

The output is binary. Pipe to "born diag" or "xxd" to inspect.`,
		Usage:  "born encode [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Encode JSON to BORN",
				Command:     `echo '{"n":256,"s":"hi"}' | born encode > value.born`,
			},
			{
				Description: "Round-trip: encode then decode",
				Command:     `echo '{"count":42}' | born encode | born decode`,
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("encode", args, false)
			if err != nil {
				return err
			}
			_, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			logger.Debug("encoding", "input_bytes", len(data))
			return encodeBORN(data, os.Stdout, codec)
		},
	}
}

// encodeBORN parses JSON data and writes its BORN encoding to w.
func encodeBORN(data []byte, w io.Writer, codec *born.Codec) error {
	value, err := transcode.FromJSON(data)
	if err != nil {
		return cli.Validation("%w", err)
	}

	encoded, err := codec.Encode(value)
	if err != nil {
		return cli.Validation("%w", err)
	}

	if _, err := w.Write(encoded); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
