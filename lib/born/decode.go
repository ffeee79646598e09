// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"fmt"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// decoder holds the state of one decode call.
type decoder struct {
	codec *Codec
	r     *Reader
	depth int
	path  pathTracker
}

// DecodeFrom decodes one value starting at the reader's cursor and
// leaves the cursor after it. Calling DecodeFrom repeatedly consumes a
// stream of concatenated values.
func (c *Codec) DecodeFrom(r *Reader) (Value, error) {
	d := &decoder{codec: c, r: r}
	return d.decode()
}

func (d *decoder) fail(err error) error {
	return wrapError("decode", d.r.Offset(), &d.path, err)
}

func (d *decoder) enter() error {
	if d.depth >= d.codec.maxDepth {
		return d.fail(fmt.Errorf("%w: limit %d", ErrDepthExceeded, d.codec.maxDepth))
	}
	d.depth++
	return nil
}

func (d *decoder) leave() { d.depth-- }

func (d *decoder) decode() (Value, error) {
	start := d.r.Offset()
	b, err := d.r.ReadU8()
	if err != nil {
		return Value{}, d.fail(err)
	}
	tag := Tag(b)
	switch tag {
	case TagNull:
		return Null(), nil
	case TagTrue:
		return Bool(true), nil
	case TagFalse:
		return Bool(false), nil
	case TagInt8, TagInt8Neg:
		magnitude, err := d.r.ReadU8()
		if err != nil {
			return Value{}, d.fail(err)
		}
		if tag == TagInt8Neg {
			return Int(-int64(magnitude)), nil
		}
		return Int(int64(magnitude)), nil
	case TagInt, TagIntNeg:
		magnitude, err := d.r.ReadU32()
		if err != nil {
			return Value{}, d.fail(err)
		}
		if tag == TagIntNeg {
			return Int(-int64(magnitude)), nil
		}
		return Int(int64(magnitude)), nil
	case TagFloat, TagFloatNeg:
		magnitude, err := d.r.ReadF64()
		if err != nil {
			return Value{}, d.fail(err)
		}
		if tag == TagFloatNeg {
			return Float(-magnitude), nil
		}
		return Float(magnitude), nil
	case TagStringShort, TagStringMid, TagString:
		s, err := d.readText(tag)
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil
	case TagArrayShort, TagArray:
		return d.decodeSeq(tag)
	case TagObjectShort, TagObject:
		return d.decodeMap(tag)
	case TagBuffer:
		length, err := d.r.readHeader(4)
		if err != nil {
			return Value{}, d.fail(err)
		}
		raw, err := d.r.ReadBytes(length)
		if err != nil {
			return Value{}, d.fail(err)
		}
		return Bytes(raw), nil
	case TagDate:
		raw, err := d.r.next(DateWidth)
		if err != nil {
			return Value{}, d.fail(err)
		}
		t, err := parseTimestamp(raw)
		if err != nil {
			return Value{}, d.fail(err)
		}
		return Timestamp(t), nil
	case TagTypedObject:
		return d.decodeTyped()
	default:
		if d.codec.strictTags {
			return Value{}, wrapError("decode", start, &d.path, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, b))
		}
		d.codec.logger.Debug("unknown tag decoded as null",
			slog.Int("offset", start),
			slog.String("tag", tag.String()),
			slog.String("path", d.path.String()),
		)
		return Null(), nil
	}
}

// readText reads the header and payload of a string unit whose tag has
// already been consumed.
func (d *decoder) readText(tag Tag) (string, error) {
	length, err := d.r.readHeader(tag.HeaderWidth())
	if err != nil {
		return "", d.fail(err)
	}
	raw, err := d.r.next(length)
	if err != nil {
		return "", d.fail(err)
	}
	if !utf8.Valid(raw) {
		d.codec.logger.Debug("string unit is not valid UTF-8",
			slog.Int("offset", d.r.Offset()-length),
			slog.String("path", d.path.String()),
		)
	}
	return string(raw), nil
}

func (d *decoder) decodeSeq(tag Tag) (Value, error) {
	count, err := d.r.readHeader(tag.HeaderWidth())
	if err != nil {
		return Value{}, d.fail(err)
	}
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer d.leave()

	// Every element takes at least one byte, so the remaining input
	// bounds the allocation regardless of the declared count.
	items := make([]Value, 0, min(count, d.r.Len()))
	for index := range count {
		d.path.push(strconv.Itoa(index))
		item, err := d.decode()
		if err != nil {
			return Value{}, err
		}
		d.path.pop()
		items = append(items, item)
	}
	return Seq(items...), nil
}

func (d *decoder) decodeMap(tag Tag) (Value, error) {
	count, err := d.r.readHeader(tag.HeaderWidth())
	if err != nil {
		return Value{}, d.fail(err)
	}
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer d.leave()

	entries := make([]Entry, 0, min(count, d.r.Len()/2))
	for range count {
		keyTag, err := d.r.ReadU8()
		if err != nil {
			return Value{}, d.fail(err)
		}
		switch Tag(keyTag) {
		case TagStringShort, TagStringMid, TagString:
		default:
			return Value{}, wrapError("decode", d.r.Offset()-1, &d.path,
				fmt.Errorf("%w: found %s", ErrInvalidKey, Tag(keyTag)))
		}
		key, err := d.readText(Tag(keyTag))
		if err != nil {
			return Value{}, err
		}
		d.path.push(keyEscaper.Replace(key))
		value, err := d.decode()
		if err != nil {
			return Value{}, err
		}
		d.path.pop()
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return Map(entries...), nil
}

func (d *decoder) decodeTyped() (Value, error) {
	raw, err := d.r.next(TypeCodeSize)
	if err != nil {
		return Value{}, d.fail(err)
	}
	code := TypeCode(raw)
	descriptor, ok := d.codec.registry.LookupCode(code)
	if !ok {
		return Value{}, d.fail(fmt.Errorf("%w: %q", ErrUnknownCustomType, code.String()))
	}
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer d.leave()

	switch {
	case descriptor.Decode != nil:
		object, err := descriptor.Decode(d.r, d.decode)
		if err != nil {
			return Value{}, d.fail(fmt.Errorf("decode hook for %q: %w", descriptor.Name, err))
		}
		return Typed(descriptor.Identity, object), nil
	case descriptor.Representation != nil:
		inner, err := d.decode()
		if err != nil {
			return Value{}, err
		}
		object, err := descriptor.Representation.FromValue(inner)
		if err != nil {
			return Value{}, d.fail(fmt.Errorf("representation of %q: %w", descriptor.Name, err))
		}
		return Typed(descriptor.Identity, object), nil
	default:
		return Value{}, d.fail(fmt.Errorf("%w: type %q has neither a decode hook nor a representation",
			ErrInvalidTypeDescriptor, descriptor.Name))
	}
}
