// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"fmt"
	"math"
)

// Tag is the leading byte of an encoded unit. The enumeration is flat:
// the byte value carries no major/minor subfields.
type Tag byte

const (
	TagNull        Tag = 0x00
	TagTrue        Tag = 0x01
	TagFalse       Tag = 0x02
	TagInt8        Tag = 0x03
	TagInt8Neg     Tag = 0x04
	TagInt         Tag = 0x05
	TagIntNeg      Tag = 0x06
	TagFloat       Tag = 0x07
	TagFloatNeg    Tag = 0x08
	TagStringShort Tag = 0x09
	TagStringMid   Tag = 0x0A
	TagString      Tag = 0x0B
	TagArrayShort  Tag = 0x0C
	TagArray       Tag = 0x0D
	TagObjectShort Tag = 0x0E
	TagObject      Tag = 0x0F
	TagBuffer      Tag = 0x10
	TagDate        Tag = 0x11
	TagTypedObject Tag = 0x12
)

// Size-class limits. The narrow string header is one byte but only
// lengths below 255 use it.
const (
	shortStringLimit     = 255
	midStringLimit       = 1 << 16
	shortCollectionLimit = 1 << 8
	maxLength            = math.MaxUint32
)

var tagNames = [...]string{
	TagNull:        "NULL",
	TagTrue:        "TRUE",
	TagFalse:       "FALSE",
	TagInt8:        "INT8",
	TagInt8Neg:     "INT8_NEG",
	TagInt:         "INT",
	TagIntNeg:      "INT_NEG",
	TagFloat:       "FLOAT",
	TagFloatNeg:    "FLOAT_NEG",
	TagStringShort: "STRING_SHORT",
	TagStringMid:   "STRING_MID",
	TagString:      "STRING",
	TagArrayShort:  "ARRAY_SHORT",
	TagArray:       "ARRAY",
	TagObjectShort: "OBJECT_SHORT",
	TagObject:      "OBJECT",
	TagBuffer:      "BUFFER",
	TagDate:        "DATE",
	TagTypedObject: "TYPED_OBJECT",
}

// String returns the wire name of the tag, or TAG(0xNN) for bytes
// outside the enumeration.
func (t Tag) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("TAG(0x%02x)", byte(t))
}

// Valid reports whether t is a member of the tag enumeration.
func (t Tag) Valid() bool {
	return t <= TagTypedObject
}

// HeaderWidth returns the width in bytes of the length or count header
// that follows the tag: 1, 2 or 4 for strings, arrays, objects and
// buffers, 0 for every other tag.
func (t Tag) HeaderWidth() int {
	switch t {
	case TagStringShort, TagArrayShort, TagObjectShort:
		return 1
	case TagStringMid:
		return 2
	case TagString, TagArray, TagObject, TagBuffer:
		return 4
	default:
		return 0
	}
}

// FixedWidth returns the width of the fixed-size payload that follows
// the tag: 1 for INT8 forms, 4 for INT forms, 8 for floats, 28 for
// DATE and 16 (the type code) for TYPED_OBJECT. Variable-length and
// payload-free tags return 0.
func (t Tag) FixedWidth() int {
	switch t {
	case TagInt8, TagInt8Neg:
		return 1
	case TagInt, TagIntNeg:
		return 4
	case TagFloat, TagFloatNeg:
		return 8
	case TagDate:
		return DateWidth
	case TagTypedObject:
		return TypeCodeSize
	default:
		return 0
	}
}

// stringTag selects the narrowest string tag for a UTF-8 byte length.
func stringTag(length int) (Tag, error) {
	switch {
	case length < shortStringLimit:
		return TagStringShort, nil
	case length < midStringLimit:
		return TagStringMid, nil
	case uint64(length) <= maxLength:
		return TagString, nil
	default:
		return 0, fmt.Errorf("%w: string of %d bytes", ErrEncodingRange, length)
	}
}

// arrayTag selects the narrowest array tag for an element count.
func arrayTag(count int) (Tag, error) {
	switch {
	case count < shortCollectionLimit:
		return TagArrayShort, nil
	case uint64(count) <= maxLength:
		return TagArray, nil
	default:
		return 0, fmt.Errorf("%w: array of %d elements", ErrEncodingRange, count)
	}
}

// objectTag selects the narrowest object tag for an entry count.
func objectTag(count int) (Tag, error) {
	switch {
	case count < shortCollectionLimit:
		return TagObjectShort, nil
	case uint64(count) <= maxLength:
		return TagObject, nil
	default:
		return 0, fmt.Errorf("%w: object of %d entries", ErrEncodingRange, count)
	}
}
