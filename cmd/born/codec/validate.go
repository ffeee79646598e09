// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/born/cmd/born/cli"
	"github.com/bureau-foundation/born/lib/born"
)

type validateParams struct {
	commonParams
	Slurp    bool `json:"slurp"     flag:"slurp,s" desc:"validate each value in a BORN sequence"`
	HexInput bool `json:"hex_input" flag:"hex,x"   desc:"treat input as hex-encoded BORN"`
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check whether BORN uses the canonical encoding",
		Description: `Read BORN data and verify it is the canonical encoding of its value:
every string, array, object and integer in the narrowest size class,
no unknown tags and no trailing bytes. Prints "valid" and exits 0 when
it is; prints the first difference and exits 1 when it is not.

Validation works by decoding the input and re-encoding it, then
comparing the bytes. Input that does not decode at all is an error.

With -s, the input is a sequence of concatenated values.`,
		Usage:  "born validate [-s] [-x] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Validate BORN from a pipeline",
				Command:     `echo '{"count":42}' | born encode | born validate`,
			},
			{
				Description: "Validate a hex dump (STRING_MID for a 1-byte string is not canonical)",
				Command:     "echo '0a 00 01 61' | born validate -x",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("validate", args, params.HexInput)
			if err != nil {
				return err
			}
			_, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			return validateBORN(data, os.Stdout, codec, params.Slurp)
		},
	}
}

// validateBORN re-encodes data and compares. A mismatch is reported on
// w and returned as an ExitError; undecodable input is a plain error.
func validateBORN(data []byte, w io.Writer, codec *born.Codec, slurp bool) error {
	var reencoded []byte
	if slurp {
		items, err := decodeSequence(data, codec)
		if err != nil {
			return err
		}
		for index, item := range items {
			encoded, err := codec.Encode(item)
			if err != nil {
				return cli.Validation("re-encode sequence item %d: %w", index, err)
			}
			reencoded = append(reencoded, encoded...)
		}
	} else {
		value, err := codec.Decode(data)
		if err != nil {
			return cli.Validation("%w", err)
		}
		reencoded, err = codec.Encode(value)
		if err != nil {
			return cli.Validation("re-encode: %w", err)
		}
	}

	if bytes.Equal(data, reencoded) {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}

	fmt.Fprintln(w, describeMismatch(data, reencoded))
	return &cli.ExitError{Code: 1}
}

// describeMismatch locates the first byte where the input and its
// canonical encoding disagree.
func describeMismatch(original, reencoded []byte) string {
	offset := 0
	for offset < min(len(original), len(reencoded)) && original[offset] == reencoded[offset] {
		offset++
	}

	detail := ""
	switch {
	case offset >= len(reencoded):
		detail = fmt.Sprintf("; %d trailing bytes", len(original)-offset)
	case offset < len(original):
		detail = fmt.Sprintf("; found 0x%02x, canonical 0x%02x", original[offset], reencoded[offset])
		if born.Tag(original[offset]) != born.Tag(reencoded[offset]) && born.Tag(reencoded[offset]).Valid() {
			detail += fmt.Sprintf(" (%s vs %s)", born.Tag(original[offset]), born.Tag(reencoded[offset]))
		}
	}

	return fmt.Sprintf("not canonical: first difference at byte %d (original %d bytes, re-encoded %d bytes%s)",
		offset, len(original), len(reencoded), detail)
}
