// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"bytes"
	"log/slog"
)

// DefaultMaxDepth bounds nesting when [Options].MaxDepth is zero.
const DefaultMaxDepth = 1000

// Options configures a [Codec].
type Options struct {
	// Types lists the extension types known to the codec.
	Types []TypeDescriptor

	// MaxDepth bounds the nesting of arrays, objects and typed values
	// on both encode and decode. Zero selects DefaultMaxDepth.
	MaxDepth int

	// StrictTags makes the decoder fail with ErrUnknownTag on tag
	// bytes outside the enumeration instead of yielding null.
	StrictTags bool

	// Logger receives debug events the codec does not treat as errors
	// (permissive unknown-tag decoding). Nil discards them.
	Logger *slog.Logger
}

// Codec encodes and decodes BORN with one immutable type registry. A
// Codec is safe for concurrent use; each call uses its own cursor.
type Codec struct {
	registry   *Registry
	maxDepth   int
	strictTags bool
	logger     *slog.Logger
}

// New builds a codec and its registry from options.
func New(options Options) (*Codec, error) {
	registry, err := NewRegistry(options.Types...)
	if err != nil {
		return nil, err
	}
	maxDepth := options.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Codec{
		registry:   registry,
		maxDepth:   maxDepth,
		strictTags: options.StrictTags,
		logger:     logger,
	}, nil
}

// defaultCodec has no extension types and default limits.
var defaultCodec = &Codec{
	maxDepth: DefaultMaxDepth,
	logger:   slog.New(slog.DiscardHandler),
}

// Registry returns the codec's type registry.
func (c *Codec) Registry() *Registry { return c.registry }

// Encode returns the BORN encoding of v.
func (c *Codec) Encode(v Value) ([]byte, error) {
	w := getWriter()
	defer putWriter(w)
	if err := c.EncodeTo(w, v); err != nil {
		return nil, err
	}
	return bytes.Clone(w.Bytes()), nil
}

// Marshal converts a plain Go value with [FromNative] and encodes it.
func (c *Codec) Marshal(v any) ([]byte, error) {
	value, err := FromNative(v)
	if err != nil {
		return nil, err
	}
	return c.Encode(value)
}

// Decode decodes the first value in data. Bytes after it are ignored.
func (c *Codec) Decode(data []byte) (Value, error) {
	return c.DecodeFrom(NewReader(data))
}

// Unmarshal decodes the first value in data and returns it as a plain
// Go value (see [Value.Native]).
func (c *Codec) Unmarshal(data []byte) (any, error) {
	value, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	return value.Native(), nil
}

// Encode encodes v with a codec that has no extension types.
func Encode(v Value) ([]byte, error) { return defaultCodec.Encode(v) }

// Decode decodes data with a codec that has no extension types.
func Decode(data []byte) (Value, error) { return defaultCodec.Decode(data) }

// Marshal encodes a plain Go value with a codec that has no extension
// types.
func Marshal(v any) ([]byte, error) { return defaultCodec.Marshal(v) }

// Unmarshal decodes data into a plain Go value with a codec that has
// no extension types.
func Unmarshal(data []byte) (any, error) { return defaultCodec.Unmarshal(data) }
