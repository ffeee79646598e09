// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

// Writer is a growable append-only output buffer. Header slots can be
// reserved ahead of their value and patched once the value is known;
// nothing else is ever rewritten.
//
// The zero value is an empty buffer ready for use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with at least capacity bytes preallocated.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(value uint8) {
	w.buf = append(w.buf, value)
}

// WriteU16 appends a big-endian 16-bit integer.
func (w *Writer) WriteU16(value uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, value)
}

// WriteU32 appends a big-endian 32-bit integer.
func (w *Writer) WriteU32(value uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, value)
}

// WriteF64 appends a big-endian IEEE-754 double.
func (w *Writer) WriteF64(value float64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(value))
}

// Write appends p verbatim. It never fails; the signature satisfies
// io.Writer so hooks can hand a Writer to stdlib encoders.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// WriteString appends the bytes of s verbatim.
func (w *Writer) WriteString(s string) (int, error) {
	w.buf = append(w.buf, s...)
	return len(s), nil
}

// Slot is a reserved header position returned by [Writer.Reserve].
type Slot struct {
	offset int
	width  int
}

// Width returns the number of bytes reserved.
func (s Slot) Width() int { return s.width }

// Reserve appends width zero bytes (width must be 1, 2 or 4) and
// returns a Slot that [Writer.Patch] fills in later.
func (w *Writer) Reserve(width int) Slot {
	switch width {
	case 1, 2, 4:
	default:
		panic(fmt.Sprintf("born: Reserve width %d, want 1, 2 or 4", width))
	}
	slot := Slot{offset: len(w.buf), width: width}
	for range width {
		w.buf = append(w.buf, 0)
	}
	return slot
}

// Patch writes value big-endian into a reserved slot. Values that do
// not fit the slot width fail with [ErrEncodingRange].
func (w *Writer) Patch(slot Slot, value uint32) error {
	if slot.offset+slot.width > len(w.buf) {
		return fmt.Errorf("born: patch slot at %d beyond buffer length %d", slot.offset, len(w.buf))
	}
	target := w.buf[slot.offset : slot.offset+slot.width]
	switch slot.width {
	case 1:
		if value > math.MaxUint8 {
			return fmt.Errorf("%w: %d does not fit a 1-byte header", ErrEncodingRange, value)
		}
		target[0] = byte(value)
	case 2:
		if value > math.MaxUint16 {
			return fmt.Errorf("%w: %d does not fit a 2-byte header", ErrEncodingRange, value)
		}
		binary.BigEndian.PutUint16(target, uint16(value))
	case 4:
		binary.BigEndian.PutUint32(target, value)
	}
	return nil
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the contiguous encoded output. The slice aliases the
// Writer's buffer until the next write or [Writer.Reset].
func (w *Writer) Bytes() []byte { return w.buf }

// Reset empties the buffer, keeping its capacity.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// Pooled writers are reused by Codec.Encode. Buffers that grew past
// maxPooledCapacity are dropped rather than pinned in the pool.
const (
	pooledWriterCapacity = 256
	maxPooledCapacity    = 64 * 1024
)

var writerPool = sync.Pool{
	New: func() any { return NewWriter(pooledWriterCapacity) },
}

func getWriter() *Writer {
	return writerPool.Get().(*Writer)
}

func putWriter(w *Writer) {
	if cap(w.buf) > maxPooledCapacity {
		return
	}
	w.Reset()
	writerPool.Put(w)
}
