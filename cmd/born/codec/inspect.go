// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/born/cmd/born/cli"
	"github.com/bureau-foundation/born/lib/born"
)

type inspectParams struct {
	commonParams
	cli.JSONOutput
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex-encoded BORN"`
}

// inspectReport summarizes a BORN stream.
type inspectReport struct {
	Size     int            `json:"size"`
	Items    int            `json:"items"`
	Kinds    []string       `json:"kinds"`
	MaxDepth int            `json:"max_depth"`
	Tags     map[string]int `json:"tags"`
	Digest   string         `json:"digest"`

	// tagOrder lists the keys of Tags in wire order for text output.
	tagOrder []string
}

func inspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Summarize the structure of BORN data",
		Description: `Read BORN data and print a summary: total size, number of values in
the stream, the kind of each top-level value, the deepest nesting of
arrays, objects and typed objects, a histogram of tags and the BLAKE3
digest of the input bytes.

The digest is the plain (unkeyed) BLAKE3-256 hash, so it matches
"b3sum" on the same file.`,
		Usage:  "born inspect [-x] [--json] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Summarize a BORN file",
				Command:     "born inspect value.born",
			},
			{
				Description: "Machine-readable summary",
				Command:     "born inspect --json value.born | jq .tags",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, err := readSingleInput("inspect", args, params.HexInput)
			if err != nil {
				return err
			}
			cfg, codec, err := params.setup(logger)
			if err != nil {
				return err
			}
			report, err := inspectBORN(data, codec, cfg.Codec.MaxDepth)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, report); done {
				return err
			}
			return writeReport(os.Stdout, report)
		},
	}
}

// inspectBORN decodes every value in data (so malformed input fails
// the same way decode does) and scans the wire form for statistics.
func inspectBORN(data []byte, codec *born.Codec, maxDepth int) (*inspectReport, error) {
	items, err := decodeSequence(data, codec)
	if err != nil {
		return nil, err
	}

	scan := &scanner{reader: born.NewReader(data), counts: make(map[born.Tag]int), limit: maxDepth}
	for scan.reader.Len() > 0 {
		if err := scan.unit(0); err != nil {
			return nil, cli.Validation("scan at byte %d: %w", scan.reader.Offset(), err)
		}
	}

	digest := blake3.Sum256(data)
	report := &inspectReport{
		Size:     len(data),
		Items:    len(items),
		Kinds:    make([]string, 0, len(items)),
		MaxDepth: scan.maxDepth,
		Tags:     make(map[string]int, len(scan.counts)),
		Digest:   "blake3:" + hex.EncodeToString(digest[:]),
	}
	for _, item := range items {
		report.Kinds = append(report.Kinds, item.Kind().String())
	}
	tags := make([]born.Tag, 0, len(scan.counts))
	for tag := range scan.counts {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	for _, tag := range tags {
		report.Tags[tag.String()] = scan.counts[tag]
		report.tagOrder = append(report.tagOrder, tag.String())
	}
	return report, nil
}

func writeReport(w io.Writer, report *inspectReport) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "size:\t%d bytes\n", report.Size)
	fmt.Fprintf(tw, "items:\t%d\n", report.Items)
	if report.Items == 1 {
		fmt.Fprintf(tw, "kind:\t%s\n", report.Kinds[0])
	} else {
		fmt.Fprintf(tw, "kinds:\t%v\n", report.Kinds)
	}
	fmt.Fprintf(tw, "max depth:\t%d\n", report.MaxDepth)
	fmt.Fprintf(tw, "digest:\t%s\n", report.Digest)
	fmt.Fprintln(tw, "tags:")
	for _, name := range report.tagOrder {
		fmt.Fprintf(tw, "  %s\t%d\n", name, report.Tags[name])
	}
	return tw.Flush()
}

// scanner walks the wire form without building values. Typed objects
// are assumed to carry one nested unit, which holds for every type the
// command line registers.
type scanner struct {
	reader   *born.Reader
	counts   map[born.Tag]int
	maxDepth int
	limit    int
}

func (s *scanner) unit(depth int) error {
	b, err := s.reader.ReadU8()
	if err != nil {
		return err
	}
	tag := born.Tag(b)
	s.counts[tag]++

	switch tag {
	case born.TagStringShort, born.TagStringMid, born.TagString, born.TagBuffer:
		length, err := s.header(tag)
		if err != nil {
			return err
		}
		return s.skip(length)
	case born.TagArrayShort, born.TagArray:
		count, err := s.nest(tag, depth)
		if err != nil {
			return err
		}
		for range count {
			if err := s.unit(depth + 1); err != nil {
				return err
			}
		}
	case born.TagObjectShort, born.TagObject:
		count, err := s.nest(tag, depth)
		if err != nil {
			return err
		}
		for range 2 * count {
			if err := s.unit(depth + 1); err != nil {
				return err
			}
		}
	case born.TagTypedObject:
		if _, err := s.nest(tag, depth); err != nil {
			return err
		}
		return s.unit(depth + 1)
	default:
		// Scalars and, in permissive mode, unknown tags are a single
		// byte plus their fixed payload.
		return s.skip(tag.FixedWidth())
	}
	return nil
}

// nest records one more level of nesting and returns the element count
// (or, for typed objects, consumes the type code).
func (s *scanner) nest(tag born.Tag, depth int) (int, error) {
	if depth+1 > s.limit {
		return 0, fmt.Errorf("%w: limit %d", born.ErrDepthExceeded, s.limit)
	}
	s.maxDepth = max(s.maxDepth, depth+1)
	if tag == born.TagTypedObject {
		return 0, s.skip(born.TypeCodeSize)
	}
	return s.header(tag)
}

func (s *scanner) header(tag born.Tag) (int, error) {
	switch tag.HeaderWidth() {
	case 1:
		n, err := s.reader.ReadU8()
		return int(n), err
	case 2:
		n, err := s.reader.ReadU16()
		return int(n), err
	default:
		n, err := s.reader.ReadU32()
		return int(n), err
	}
}

func (s *scanner) skip(n int) error {
	if n == 0 {
		return nil
	}
	_, err := s.reader.ReadBytes(n)
	return err
}
