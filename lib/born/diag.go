// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"fmt"
	"strconv"
	"strings"
)

// Diagnose renders the first value in data in diagnostic notation: one
// token per unit naming its tag, so size classes are visible. For
// example {"n": 256} encodes to something that renders as
//
//	OBJECT_SHORT(1){"n": INT(256)}
//
// Counts and lengths appear in parentheses after collection, string
// and buffer tags. Typed values show their wire name followed by the
// payload; payloads written by a decode hook are shown as raw bytes.
// Unknown tag bytes render as TAG(0xNN) unless StrictTags is set.
func (c *Codec) Diagnose(data []byte) (string, error) {
	return c.DiagnoseFrom(NewReader(data))
}

// DiagnoseFrom renders the value at the reader's cursor and leaves the
// cursor after it.
func (c *Codec) DiagnoseFrom(r *Reader) (string, error) {
	d := &decoder{codec: c, r: r}
	var builder strings.Builder
	if err := d.diagnose(&builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// Diagnose renders data with a codec that has no extension types.
func Diagnose(data []byte) (string, error) { return defaultCodec.Diagnose(data) }

func (d *decoder) diagnose(out *strings.Builder) error {
	start := d.r.Offset()
	b, err := d.r.ReadU8()
	if err != nil {
		return d.fail(err)
	}
	tag := Tag(b)
	switch tag {
	case TagNull, TagTrue, TagFalse:
		out.WriteString(tag.String())
	case TagInt8, TagInt8Neg, TagInt, TagIntNeg,
		TagFloat, TagFloatNeg, TagDate:
		// Re-read through the value decoder so both paths agree.
		d.r.offset = start
		value, err := d.decode()
		if err != nil {
			return err
		}
		out.WriteString(tag.String())
		out.WriteByte('(')
		switch value.kind {
		case KindInt:
			out.WriteString(strconv.FormatInt(value.integer, 10))
		case KindFloat:
			out.WriteString(formatFloat(value.float))
		case KindTimestamp:
			out.WriteString(strconv.Quote(value.time.Format(dateLayout)))
		}
		out.WriteByte(')')
	case TagStringShort, TagStringMid, TagString:
		s, err := d.readText(tag)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s(%d)%s", tag, len(s), strconv.Quote(s))
	case TagBuffer:
		length, err := d.r.readHeader(4)
		if err != nil {
			return d.fail(err)
		}
		raw, err := d.r.next(length)
		if err != nil {
			return d.fail(err)
		}
		fmt.Fprintf(out, "%s(%d)h'%x'", tag, length, raw)
	case TagArrayShort, TagArray:
		return d.diagnoseSeq(tag, out)
	case TagObjectShort, TagObject:
		return d.diagnoseMap(tag, out)
	case TagTypedObject:
		return d.diagnoseTyped(out)
	default:
		if d.codec.strictTags {
			return wrapError("decode", start, &d.path, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, b))
		}
		out.WriteString(tag.String())
	}
	return nil
}

func (d *decoder) diagnoseSeq(tag Tag, out *strings.Builder) error {
	count, err := d.r.readHeader(tag.HeaderWidth())
	if err != nil {
		return d.fail(err)
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	fmt.Fprintf(out, "%s(%d)[", tag, count)
	for index := range count {
		if index > 0 {
			out.WriteString(", ")
		}
		d.path.push(strconv.Itoa(index))
		if err := d.diagnose(out); err != nil {
			return err
		}
		d.path.pop()
	}
	out.WriteByte(']')
	return nil
}

func (d *decoder) diagnoseMap(tag Tag, out *strings.Builder) error {
	count, err := d.r.readHeader(tag.HeaderWidth())
	if err != nil {
		return d.fail(err)
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	fmt.Fprintf(out, "%s(%d){", tag, count)
	for index := range count {
		if index > 0 {
			out.WriteString(", ")
		}
		keyTag, err := d.r.ReadU8()
		if err != nil {
			return d.fail(err)
		}
		switch Tag(keyTag) {
		case TagStringShort, TagStringMid, TagString:
		default:
			return wrapError("decode", d.r.Offset()-1, &d.path,
				fmt.Errorf("%w: found %s", ErrInvalidKey, Tag(keyTag)))
		}
		key, err := d.readText(Tag(keyTag))
		if err != nil {
			return err
		}
		// Keys outside the narrow class are rare enough to call out.
		if Tag(keyTag) != TagStringShort {
			out.WriteString(Tag(keyTag).String())
		}
		out.WriteString(strconv.Quote(key))
		out.WriteString(": ")
		d.path.push(keyEscaper.Replace(key))
		if err := d.diagnose(out); err != nil {
			return err
		}
		d.path.pop()
	}
	out.WriteByte('}')
	return nil
}

// diagnoseTyped shows the wire name and then the payload. Payloads of
// types with a decode hook are opaque, so the hook runs to find their
// extent. Everything else, unregistered names included, is assumed to
// carry one nested unit.
func (d *decoder) diagnoseTyped(out *strings.Builder) error {
	raw, err := d.r.next(TypeCodeSize)
	if err != nil {
		return d.fail(err)
	}
	code := TypeCode(raw)
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	fmt.Fprintf(out, "%s(%s)", TagTypedObject, strconv.Quote(code.String()))
	descriptor, ok := d.codec.registry.LookupCode(code)
	if ok && descriptor.Decode != nil {
		start := d.r.Offset()
		if _, err := descriptor.Decode(d.r, d.decode); err != nil {
			return d.fail(fmt.Errorf("decode hook for %q: %w", descriptor.Name, err))
		}
		fmt.Fprintf(out, "h'%x'", d.r.data[start:d.r.Offset()])
		return nil
	}
	return d.diagnose(out)
}
