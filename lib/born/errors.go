// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedType reports a value with no encodable kind, or a
	// typed value whose identity is not registered and which offers no
	// [Valuer] fallback.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEncodingRange reports an integer magnitude of 2^32 or more, a
	// non-finite float, a length that does not fit the 4-byte header,
	// or a timestamp outside years 0000-9999.
	ErrEncodingRange = errors.New("value out of encodable range")

	// ErrUnknownCustomType reports a TYPED_OBJECT whose 16-byte code is
	// not in the registry.
	ErrUnknownCustomType = errors.New("unknown custom type")

	// ErrInvalidTypeDescriptor reports a registered type that has
	// neither a hook nor a representation for the direction in use.
	ErrInvalidTypeDescriptor = errors.New("invalid type descriptor")

	// ErrBufferUnderrun reports a header or payload that extends past
	// the end of the input.
	ErrBufferUnderrun = errors.New("buffer underrun")

	// ErrDepthExceeded reports nesting deeper than [Options].MaxDepth.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrUnknownTag reports a tag byte outside the enumeration. Only
	// returned when [Options].StrictTags is set.
	ErrUnknownTag = errors.New("unknown tag")

	// ErrInvalidDate reports a DATE payload that does not parse.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidKey reports an object key that is not a text unit.
	ErrInvalidKey = errors.New("object key is not text")
)

// Error describes an encode or decode failure.
type Error struct {
	// Op is "encode" or "decode".
	Op string

	// Offset is the input offset where decoding failed, or the number
	// of bytes already written when encoding failed.
	Offset int

	// Path locates the failing value from the root, with one segment
	// per array index or object key ("/arr/2"). Empty for the root.
	Path string

	// Err is the underlying error, normally wrapping a sentinel.
	Err error
}

func (e *Error) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("born: %s %s at byte %d: %v", e.Op, path, e.Offset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// pathTracker records the location of the value being processed.
type pathTracker struct {
	segments []string
}

func (p *pathTracker) push(segment string) { p.segments = append(p.segments, segment) }

func (p *pathTracker) pop() { p.segments = p.segments[:len(p.segments)-1] }

// keyEscaper applies JSON pointer escaping (RFC 6901) to object keys.
var keyEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (p *pathTracker) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, segment := range p.segments {
		builder.WriteByte('/')
		builder.WriteString(segment)
	}
	return builder.String()
}

// wrapError attaches op, offset and path to err unless err already
// carries an *Error from a nested call.
func wrapError(op string, offset int, path *pathTracker, err error) error {
	var bornErr *Error
	if errors.As(err, &bornErr) {
		return err
	}
	return &Error{Op: op, Offset: offset, Path: path.String(), Err: err}
}
