// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"fmt"
	"math"
	"strconv"
)

// encoder holds the state of one encode call.
type encoder struct {
	codec *Codec
	w     *Writer
	depth int
	path  pathTracker
}

// EncodeTo appends the encoding of v to w. On error the content
// appended to w is unspecified.
func (c *Codec) EncodeTo(w *Writer, v Value) error {
	e := &encoder{codec: c, w: w}
	return e.encode(v)
}

func (e *encoder) fail(err error) error {
	return wrapError("encode", e.w.Len(), &e.path, err)
}

// enter accounts for one nesting level; leave must follow on success.
func (e *encoder) enter() error {
	if e.depth >= e.codec.maxDepth {
		return e.fail(fmt.Errorf("%w: limit %d", ErrDepthExceeded, e.codec.maxDepth))
	}
	e.depth++
	return nil
}

func (e *encoder) leave() { e.depth-- }

func (e *encoder) encode(v Value) error {
	switch v.kind {
	case KindAbsent, KindNull:
		e.w.WriteU8(byte(TagNull))
	case KindBool:
		if v.boolean {
			e.w.WriteU8(byte(TagTrue))
		} else {
			e.w.WriteU8(byte(TagFalse))
		}
	case KindInt:
		return e.encodeInt(v.integer)
	case KindFloat:
		return e.encodeFloat(v.float)
	case KindText:
		return e.encodeText(v.text)
	case KindBytes:
		return e.encodeBytes(v.raw)
	case KindTimestamp:
		e.w.WriteU8(byte(TagDate))
		var err error
		if e.w.buf, err = appendTimestamp(e.w.buf, v.time); err != nil {
			return e.fail(err)
		}
	case KindSeq:
		return e.encodeSeq(v.items)
	case KindMap:
		return e.encodeMap(v.entries)
	case KindTyped:
		return e.encodeTyped(v)
	default:
		return e.fail(fmt.Errorf("%w: value of kind %s", ErrUnsupportedType, v.kind))
	}
	return nil
}

func (e *encoder) encodeInt(i int64) error {
	negative := i < 0
	var magnitude uint64
	if negative {
		magnitude = uint64(-(i + 1)) + 1
	} else {
		magnitude = uint64(i)
	}
	if magnitude > math.MaxUint32 {
		return e.fail(fmt.Errorf("%w: integer %d has a magnitude of 2^32 or more", ErrEncodingRange, i))
	}
	switch {
	case magnitude <= math.MaxUint8 && negative:
		e.w.WriteU8(byte(TagInt8Neg))
		e.w.WriteU8(uint8(magnitude))
	case magnitude <= math.MaxUint8:
		e.w.WriteU8(byte(TagInt8))
		e.w.WriteU8(uint8(magnitude))
	case negative:
		e.w.WriteU8(byte(TagIntNeg))
		e.w.WriteU32(uint32(magnitude))
	default:
		e.w.WriteU8(byte(TagInt))
		e.w.WriteU32(uint32(magnitude))
	}
	return nil
}

func (e *encoder) encodeFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return e.fail(fmt.Errorf("%w: float %v is not finite", ErrEncodingRange, f))
	}
	if math.Signbit(f) {
		e.w.WriteU8(byte(TagFloatNeg))
		e.w.WriteF64(-f)
	} else {
		e.w.WriteU8(byte(TagFloat))
		e.w.WriteF64(f)
	}
	return nil
}

func (e *encoder) encodeText(s string) error {
	tag, err := stringTag(len(s))
	if err != nil {
		return e.fail(err)
	}
	e.w.WriteU8(byte(tag))
	e.writeHeader(tag.HeaderWidth(), len(s))
	e.w.WriteString(s)
	return nil
}

func (e *encoder) encodeBytes(raw []byte) error {
	if uint64(len(raw)) > maxLength {
		return e.fail(fmt.Errorf("%w: buffer of %d bytes", ErrEncodingRange, len(raw)))
	}
	e.w.WriteU8(byte(TagBuffer))
	e.w.WriteU32(uint32(len(raw)))
	e.w.Write(raw)
	return nil
}

func (e *encoder) encodeSeq(items []Value) error {
	tag, err := arrayTag(len(items))
	if err != nil {
		return e.fail(err)
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.WriteU8(byte(tag))
	e.writeHeader(tag.HeaderWidth(), len(items))
	for index, item := range items {
		e.path.push(strconv.Itoa(index))
		if err := e.encode(item); err != nil {
			return err
		}
		e.path.pop()
	}
	return nil
}

// encodeMap writes the entries of a map, skipping absent values. The
// size class follows the retained count; the count header is reserved
// up front and patched with the number of entries actually emitted.
func (e *encoder) encodeMap(entries []Entry) error {
	retained := 0
	for _, entry := range entries {
		if entry.Value.kind != KindAbsent {
			retained++
		}
	}
	tag, err := objectTag(retained)
	if err != nil {
		return e.fail(err)
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.WriteU8(byte(tag))
	slot := e.w.Reserve(tag.HeaderWidth())
	emitted := 0
	for _, entry := range entries {
		if entry.Value.kind == KindAbsent {
			continue
		}
		e.path.push(keyEscaper.Replace(entry.Key))
		if err := e.encodeText(entry.Key); err != nil {
			return err
		}
		if err := e.encode(entry.Value); err != nil {
			return err
		}
		e.path.pop()
		emitted++
	}
	if err := e.w.Patch(slot, uint32(emitted)); err != nil {
		return e.fail(err)
	}
	return nil
}

func (e *encoder) encodeTyped(v Value) error {
	descriptor, code, ok := e.codec.registry.Lookup(v.text)
	if !ok {
		valuer, isValuer := v.object.(Valuer)
		if !isValuer {
			return e.fail(fmt.Errorf("%w: type %q is not registered", ErrUnsupportedType, v.text))
		}
		if err := e.enter(); err != nil {
			return err
		}
		defer e.leave()
		if isNilPointer(valuer) {
			return e.encode(Null())
		}
		canonical, err := valuer.BornValue()
		if err != nil {
			return e.fail(fmt.Errorf("value representation of %q: %w", v.text, err))
		}
		return e.encode(canonical)
	}
	if descriptor.Encode == nil && descriptor.Representation == nil {
		return e.fail(fmt.Errorf("%w: type %q has neither an encode hook nor a representation",
			ErrInvalidTypeDescriptor, descriptor.Name))
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.WriteU8(byte(TagTypedObject))
	e.w.Write(code[:])
	if descriptor.Encode != nil {
		if err := descriptor.Encode(e.w, v.object, e.encode); err != nil {
			return e.fail(fmt.Errorf("encode hook for %q: %w", descriptor.Name, err))
		}
		return nil
	}
	inner, err := descriptor.Representation.ToValue(v.object)
	if err != nil {
		return e.fail(fmt.Errorf("representation of %q: %w", descriptor.Name, err))
	}
	return e.encode(inner)
}

// writeHeader writes a length header of the width selected by the tag.
// The caller has already checked that length fits.
func (e *encoder) writeHeader(width, length int) {
	switch width {
	case 1:
		e.w.WriteU8(uint8(length))
	case 2:
		e.w.WriteU16(uint16(length))
	case 4:
		e.w.WriteU32(uint32(length))
	}
}
