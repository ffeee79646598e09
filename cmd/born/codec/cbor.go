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

type cborParams struct {
	commonParams
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex-encoded"`
}

func cborCommand() *cli.Command {
	return &cli.Command{
		Name:    "cbor",
		Summary: "Transcode between BORN and CBOR",
		Description: `Convert BORN to CBOR (RFC 8949) and back.

Both directions process every value in the input, so a BORN sequence
becomes a CBOR sequence (RFC 8742) and vice versa. Object entry order
is preserved. Dates travel as tag 0 strings; tag 1 epoch times are
accepted on input. Typed objects travel as tag 27 [name, value].`,
		Subcommands: []*cli.Command{
			cborToCommand(),
			cborFromCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Convert a BORN file to CBOR",
				Command:     "born cbor to value.born > value.cbor",
			},
			{
				Description: "Round-trip through CBOR",
				Command:     "born cbor to value.born | born cbor from | born validate",
			},
		},
	}
}

func cborToCommand() *cli.Command {
	var params cborParams

	return &cli.Command{
		Name:    "to",
		Summary: "Convert BORN to CBOR",
		Usage:   "born cbor to [-x] [file]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("cbor to", args, params.HexInput)
			if err != nil {
				return err
			}
			_, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			return bornToCBOR(data, os.Stdout, codec)
		},
	}
}

func cborFromCommand() *cli.Command {
	var params cborParams

	return &cli.Command{
		Name:    "from",
		Summary: "Convert CBOR to BORN",
		Usage:   "born cbor from [-x] [file]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("cbor from", args, params.HexInput)
			if err != nil {
				return err
			}
			_, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			return cborToBORN(data, os.Stdout, codec, logger)
		},
	}
}

// bornToCBOR writes the CBOR form of every BORN value in data to w.
func bornToCBOR(data []byte, w io.Writer, codec *born.Codec) error {
	items, err := decodeSequence(data, codec)
	if err != nil {
		return err
	}
	for index, item := range items {
		encoded, err := transcode.ToCBOR(item)
		if err != nil {
			return cli.Validation("item %d: %w", index, err)
		}
		if _, err := w.Write(encoded); err != nil {
			return cli.Internal("write output: %w", err)
		}
	}
	return nil
}

// cborToBORN writes the BORN form of every CBOR item in data to w.
func cborToBORN(data []byte, w io.Writer, codec *born.Codec, logger *slog.Logger) error {
	remaining := data
	for count := 0; len(remaining) > 0; count++ {
		value, rest, err := transcode.FromCBOR(remaining)
		if err != nil {
			return cli.Validation("CBOR item %d at byte %d: %w", count, len(data)-len(remaining), err)
		}
		encoded, err := codec.Encode(value)
		if err != nil {
			return cli.Validation("CBOR item %d: %w", count, err)
		}
		if _, err := w.Write(encoded); err != nil {
			return cli.Internal("write output: %w", err)
		}
		logger.Debug("transcoded item", "index", count, "cbor_bytes", len(remaining)-len(rest), "born_bytes", len(encoded))
		remaining = rest
	}
	return nil
}
