// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"errors"
	"testing"
)

func TestTagValues(t *testing.T) {
	// The byte values are part of the wire format.
	tests := []struct {
		tag  Tag
		want byte
		name string
	}{
		{TagNull, 0x00, "NULL"},
		{TagTrue, 0x01, "TRUE"},
		{TagFalse, 0x02, "FALSE"},
		{TagInt8, 0x03, "INT8"},
		{TagInt8Neg, 0x04, "INT8_NEG"},
		{TagInt, 0x05, "INT"},
		{TagIntNeg, 0x06, "INT_NEG"},
		{TagFloat, 0x07, "FLOAT"},
		{TagFloatNeg, 0x08, "FLOAT_NEG"},
		{TagStringShort, 0x09, "STRING_SHORT"},
		{TagStringMid, 0x0A, "STRING_MID"},
		{TagString, 0x0B, "STRING"},
		{TagArrayShort, 0x0C, "ARRAY_SHORT"},
		{TagArray, 0x0D, "ARRAY"},
		{TagObjectShort, 0x0E, "OBJECT_SHORT"},
		{TagObject, 0x0F, "OBJECT"},
		{TagBuffer, 0x10, "BUFFER"},
		{TagDate, 0x11, "DATE"},
		{TagTypedObject, 0x12, "TYPED_OBJECT"},
	}
	for _, test := range tests {
		if byte(test.tag) != test.want {
			t.Errorf("%s = 0x%02x, want 0x%02x", test.name, byte(test.tag), test.want)
		}
		if got := test.tag.String(); got != test.name {
			t.Errorf("Tag(0x%02x).String() = %q, want %q", test.want, got, test.name)
		}
		if !test.tag.Valid() {
			t.Errorf("%s.Valid() = false", test.name)
		}
	}
}

func TestTagUnknown(t *testing.T) {
	tag := Tag(0x7f)
	if tag.Valid() {
		t.Error("Tag(0x7f).Valid() = true")
	}
	if got := tag.String(); got != "TAG(0x7f)" {
		t.Errorf("String() = %q, want %q", got, "TAG(0x7f)")
	}
}

func TestTagWidths(t *testing.T) {
	tests := []struct {
		tag    Tag
		header int
		fixed  int
	}{
		{TagNull, 0, 0},
		{TagInt8, 0, 1},
		{TagIntNeg, 0, 4},
		{TagFloatNeg, 0, 8},
		{TagStringShort, 1, 0},
		{TagStringMid, 2, 0},
		{TagString, 4, 0},
		{TagArrayShort, 1, 0},
		{TagArray, 4, 0},
		{TagObjectShort, 1, 0},
		{TagObject, 4, 0},
		{TagBuffer, 4, 0},
		{TagDate, 0, DateWidth},
		{TagTypedObject, 0, TypeCodeSize},
	}
	for _, test := range tests {
		t.Run(test.tag.String(), func(t *testing.T) {
			if got := test.tag.HeaderWidth(); got != test.header {
				t.Errorf("HeaderWidth() = %d, want %d", got, test.header)
			}
			if got := test.tag.FixedWidth(); got != test.fixed {
				t.Errorf("FixedWidth() = %d, want %d", got, test.fixed)
			}
		})
	}
}

func TestSizeClassSelection(t *testing.T) {
	tests := []struct {
		name   string
		choose func(int) (Tag, error)
		length int
		want   Tag
	}{
		{"string 0", stringTag, 0, TagStringShort},
		{"string 254", stringTag, 254, TagStringShort},
		{"string 255", stringTag, 255, TagStringMid},
		{"string 65535", stringTag, 65535, TagStringMid},
		{"string 65536", stringTag, 65536, TagString},
		{"array 255", arrayTag, 255, TagArrayShort},
		{"array 256", arrayTag, 256, TagArray},
		{"object 255", objectTag, 255, TagObjectShort},
		{"object 256", objectTag, 256, TagObject},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.choose(test.length)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
		})
	}
}

func TestSizeClassOverflow(t *testing.T) {
	if _, err := stringTag(1 << 32); !errors.Is(err, ErrEncodingRange) {
		t.Errorf("stringTag(2^32) error = %v, want ErrEncodingRange", err)
	}
	if _, err := arrayTag(1 << 32); !errors.Is(err, ErrEncodingRange) {
		t.Errorf("arrayTag(2^32) error = %v, want ErrEncodingRange", err)
	}
	if _, err := objectTag(1 << 32); !errors.Is(err, ErrEncodingRange) {
		t.Errorf("objectTag(2^32) error = %v, want ErrEncodingRange", err)
	}
}
