// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bureau-foundation/born/lib/born"
)

func TestToCBORFraming(t *testing.T) {
	tests := []struct {
		name  string
		value born.Value
		want  []byte
	}{
		{"null", born.Null(), []byte{0xf6}},
		{"true", born.Bool(true), []byte{0xf5}},
		{"small int", born.Int(10), []byte{0x0a}},
		{"negative int", born.Int(-500), []byte{0x39, 0x01, 0xf3}},
		{"text", born.Text("hi"), []byte{0x62, 'h', 'i'}},
		{"bytes", born.Bytes([]byte{1, 2}), []byte{0x42, 0x01, 0x02}},
		{"array", born.Seq(born.Int(1), born.Null()), []byte{0x82, 0x01, 0xf6}},
		{
			// Entry order is kept even though deterministic CBOR
			// would sort "z" after "a".
			"ordered map",
			born.Map(born.Pair("z", born.Int(1)), born.Pair("a", born.Int(2))),
			[]byte{0xa2, 0x61, 'z', 0x01, 0x61, 'a', 0x02},
		},
		{
			"absent entry",
			born.Map(born.Pair("a", born.Int(1)), born.Pair("b", born.Absent())),
			[]byte{0xa1, 0x61, 'a', 0x01},
		},
		{
			"typed",
			born.Typed("t", born.Extension{Name: "t", Value: born.Int(3)}),
			[]byte{0xd8, 0x1b, 0x82, 0x61, 't', 0x03},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ToCBOR(test.value)
			if err != nil {
				t.Fatalf("ToCBOR: %v", err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("got % x, want % x", got, test.want)
			}
		})
	}
}

func TestToCBORDate(t *testing.T) {
	moment := time.Date(2023, 10, 8, 18, 37, 32, 123000000, time.FixedZone("", 3*3600))
	got, err := ToCBOR(born.Timestamp(moment))
	if err != nil {
		t.Fatalf("ToCBOR: %v", err)
	}
	text := "2023-10-08T18:37:32.123+03:00"
	want := append([]byte{0xc0, 0x60 | byte(len(text))}, text...)
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestCBORRoundtrip(t *testing.T) {
	moment := time.Date(2023, 10, 8, 18, 37, 32, 123000000, time.FixedZone("", -5*3600))
	values := []born.Value{
		born.Null(),
		born.Bool(false),
		born.Int(0),
		born.Int(math.MaxUint32),
		born.Int(-math.MaxUint32),
		born.Float(1.5),
		born.Float(2),
		born.Float(-0.1),
		born.Text("héllo"),
		born.Bytes([]byte{0, 255}),
		born.Timestamp(moment),
		born.Timestamp(moment.UTC()),
		born.Map(
			born.Pair("n", born.Int(256)),
			born.Pair("s", born.Text("hi")),
			born.Pair("arr", born.Seq(born.Int(1), born.Int(-1), born.Float(1.5))),
			born.Pair("buf", born.Bytes([]byte{0x00, 0x01})),
		),
		born.Typed("point", born.Extension{
			Name:  "point",
			Value: born.Map(born.Pair("x", born.Int(1)), born.Pair("y", born.Int(2))),
		}),
	}
	for _, value := range values {
		t.Run(value.String(), func(t *testing.T) {
			data, err := ToCBOR(value)
			if err != nil {
				t.Fatalf("ToCBOR: %v", err)
			}
			got, rest, err := FromCBOR(data)
			if err != nil {
				t.Fatalf("FromCBOR(% x): %v", data, err)
			}
			if len(rest) != 0 {
				t.Errorf("%d bytes left over", len(rest))
			}
			if !born.Equal(got, value) {
				t.Errorf("got %v, want %v", got, value)
			}
		})
	}
}

func TestFromCBOREpochTag(t *testing.T) {
	// 1(1700000000)
	data := []byte{0xc1, 0x1a, 0x65, 0x53, 0xf1, 0x00}
	got, _, err := FromCBOR(data)
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if want := time.Unix(1700000000, 0).UTC(); !got.AsTime().Equal(want) {
		t.Errorf("got %v, want %v", got.AsTime(), want)
	}
}

func TestFromCBORRest(t *testing.T) {
	got, rest, err := FromCBOR([]byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("FromCBOR: %v", err)
	}
	if !born.Equal(got, born.Int(1)) {
		t.Errorf("got %v, want 1", got)
	}
	if !bytes.Equal(rest, []byte{0x02}) {
		t.Errorf("rest = % x, want 02", rest)
	}
}

func TestFromCBORErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"empty", nil, born.ErrBufferUnderrun},
		{"truncated head", []byte{0x9a, 0x00}, born.ErrBufferUnderrun},
		{"truncated array", []byte{0x82, 0x01}, born.ErrBufferUnderrun},
		{"integer key", []byte{0xa1, 0x01, 0x02}, born.ErrInvalidKey},
		{"unsupported tag", []byte{0xc2, 0x41, 0x01}, born.ErrUnsupportedType},
		{"huge uint", []byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, born.ErrEncodingRange},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := FromCBOR(test.input)
			if !errors.Is(err, test.want) {
				t.Errorf("error = %v, want %v", err, test.want)
			}
		})
	}

	if _, _, err := FromCBOR([]byte{0x9f, 0x01, 0xff}); err == nil {
		t.Error("indefinite-length array accepted")
	}
}

func TestToCBORErrors(t *testing.T) {
	if _, err := ToCBOR(born.Float(math.NaN())); !errors.Is(err, born.ErrEncodingRange) {
		t.Errorf("NaN: error = %v, want ErrEncodingRange", err)
	}
	if _, err := ToCBOR(born.Typed("opaque", 42)); !errors.Is(err, born.ErrUnsupportedType) {
		t.Errorf("opaque typed: error = %v, want ErrUnsupportedType", err)
	}
	if _, err := ToCBOR(born.Value{}); !errors.Is(err, born.ErrUnsupportedType) {
		t.Errorf("zero value: error = %v, want ErrUnsupportedType", err)
	}
}
