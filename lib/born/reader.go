// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader is a forward-only cursor over an immutable input buffer.
// Every read is bounds-checked: a read that would pass the end of the
// input fails with [ErrBufferUnderrun] and leaves the cursor where it
// was. Nested decode calls share one Reader, so extension hooks see
// the cursor positioned at their payload.
type Reader struct {
	data   []byte
	offset int
}

// NewReader returns a Reader positioned at the start of data. The
// Reader never modifies data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.offset }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.offset }

// next consumes n bytes and returns them without copying.
func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d remain",
			ErrBufferUnderrun, n, r.offset, r.Len())
	}
	chunk := r.data[r.offset : r.offset+n]
	r.offset += n
	return chunk, nil
}

// ReadU8 consumes one byte.
func (r *Reader) ReadU8() (uint8, error) {
	chunk, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

// ReadU16 consumes a big-endian 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	chunk, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(chunk), nil
}

// ReadU32 consumes a big-endian 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	chunk, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(chunk), nil
}

// ReadF64 consumes a big-endian IEEE-754 double.
func (r *Reader) ReadF64() (float64, error) {
	chunk, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(chunk)), nil
}

// ReadBytes consumes n bytes and returns a copy that does not alias
// the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	chunk, err := r.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, chunk)
	return out, nil
}

// readHeader consumes a length header of the given width (1, 2 or 4).
func (r *Reader) readHeader(width int) (int, error) {
	switch width {
	case 1:
		value, err := r.ReadU8()
		return int(value), err
	case 2:
		value, err := r.ReadU16()
		return int(value), err
	case 4:
		value, err := r.ReadU32()
		return int(value), err
	default:
		return 0, fmt.Errorf("born: header width %d, want 1, 2 or 4", width)
	}
}
