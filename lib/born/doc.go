// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package born implements BORN, a self-describing binary serialization
// format for structured values.
//
// A BORN stream is a sequence of units. Every unit starts with exactly
// one [Tag] byte that identifies the kind of value and, for strings,
// arrays and objects, the width of the length header that follows.
// Small collections and short strings use a narrow header, so framing
// overhead stays proportional to the data:
//
//	string  STRING_SHORT (1 byte, <255)  STRING_MID (2 bytes, <65536)  STRING (4 bytes)
//	array   ARRAY_SHORT  (1 byte, <256)                                 ARRAY  (4 bytes)
//	object  OBJECT_SHORT (1 byte, <256)                                 OBJECT (4 bytes)
//
// All multi-byte integers are big-endian. Integers travel as sign plus
// magnitude (magnitudes below 256 use a 1-byte form, the rest 4 bytes),
// floats as an 8-byte IEEE-754 magnitude with the sign in the tag, and
// timestamps as a fixed 28-byte string such as
// "2023-10-08T18:37:32.123+0300".
//
// In-memory values are modelled by [Value], an explicit tagged variant.
// Build values with the constructors ([Null], [Int], [Text], [Map], ...)
// or convert plain Go values with [FromNative]:
//
//	data, err := born.Encode(born.Map(
//	    born.Pair("n", born.Int(256)),
//	    born.Pair("s", born.Text("hi")),
//	))
//	value, err := born.Decode(data)
//
// # Extension types
//
// Applications add their own types through a [Registry] of
// [TypeDescriptor] entries, supplied once when a [Codec] is created
// with [New]. Each descriptor maps a stable identity string to a
// 16-byte wire name (space padded, longer names truncated). A typed
// unit is written as TYPED_OBJECT, the wire name, then a payload
// produced either by the descriptor's Encode hook or, when there is
// no hook, by encoding its [Representation] as an ordinary value.
// Decoding dispatches on the wire name; unknown names fail with
// [ErrUnknownCustomType].
//
// The registry is immutable after construction, so a Codec is safe for
// concurrent use. [Writer] and [Reader] are per-call state and must not
// be shared between goroutines.
//
// # Errors
//
// Failures are reported as [*Error], which records the operation, the
// byte offset and the path of the failing value, and wraps one of the
// sentinel errors ([ErrUnsupportedType], [ErrEncodingRange],
// [ErrUnknownCustomType], [ErrInvalidTypeDescriptor],
// [ErrBufferUnderrun], [ErrDepthExceeded], ...). Test with errors.Is.
//
// Decoding is deliberately permissive about unrecognised primitive tag
// bytes: they decode as null unless [Options].StrictTags is set.
// Trailing bytes after the first value are not inspected; use
// [Codec.DecodeFrom] with a [Reader] to consume concatenated values.
package born
