// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

// pattern is a regular-expression-like type written by explicit
// hooks: the source and the flags as two nested text units.
type pattern struct {
	Source string
	Flags  string
}

func (pattern) BornTypeID() string { return "pattern" }

var patternDescriptor = TypeDescriptor{
	Name: "pattern",
	Encode: func(w *Writer, object any, encode EncodeFunc) error {
		p, ok := object.(pattern)
		if !ok {
			return fmt.Errorf("want pattern, got %T", object)
		}
		if err := encode(Text(p.Source)); err != nil {
			return err
		}
		return encode(Text(p.Flags))
	},
	Decode: func(r *Reader, decode DecodeFunc) (any, error) {
		source, err := decode()
		if err != nil {
			return nil, err
		}
		flags, err := decode()
		if err != nil {
			return nil, err
		}
		if source.Kind() != KindText || flags.Kind() != KindText {
			return nil, fmt.Errorf("pattern payload is %s/%s, want text/text", source.Kind(), flags.Kind())
		}
		return pattern{Source: source.AsText(), Flags: flags.AsText()}, nil
	},
}

// point has no hooks and travels as its map representation.
type point struct {
	X, Y int64
}

var pointDescriptor = TypeDescriptor{
	Name:     "point",
	Identity: "example.com/geometry.point",
	Representation: RepresentationFuncs{
		To: func(object any) (Value, error) {
			p := object.(point)
			return Map(Pair("x", Int(p.X)), Pair("y", Int(p.Y))), nil
		},
		From: func(value Value) (any, error) {
			x, _ := value.Get("x")
			y, _ := value.Get("y")
			return point{X: x.AsInt(), Y: y.AsInt()}, nil
		},
	},
}

// fixed is written with raw writer access rather than nested units.
type fixed [4]byte

var fixedDescriptor = TypeDescriptor{
	Name: "fixed4",
	Encode: func(w *Writer, object any, _ EncodeFunc) error {
		f := object.(fixed)
		w.Write(f[:])
		return nil
	},
	Decode: func(r *Reader, _ DecodeFunc) (any, error) {
		raw, err := r.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		return fixed(raw), nil
	},
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := New(Options{Types: []TypeDescriptor{patternDescriptor, pointDescriptor, fixedDescriptor}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return codec
}

func roundtrip(t *testing.T, codec *Codec, v Value) Value {
	t.Helper()
	data, err := codec.Encode(v)
	if err != nil {
		t.Fatalf("Encode(%v): %v", v, err)
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode(% x): %v", data, err)
	}
	return decoded
}

func TestRoundtripPlainValues(t *testing.T) {
	values := []Value{
		Null(),
		Bool(true),
		Bool(false),
		Int(0),
		Int(255),
		Int(-255),
		Int(256),
		Int(math.MaxUint32),
		Int(-math.MaxUint32),
		Float(3.141592653589793),
		Float(-1e-300),
		Float(math.MaxFloat64),
		Float(math.SmallestNonzeroFloat64),
		Float(math.Copysign(0, -1)),
		Text(""),
		Text("héllo, 世界"),
		Text(strings.Repeat("a", 254)),
		Text(strings.Repeat("b", 255)),
		Text(strings.Repeat("c", 65535)),
		Text(strings.Repeat("d", 65536)),
		Bytes([]byte{}),
		Bytes([]byte{0, 1, 2, 255}),
		Seq(),
		Seq(Int(1), Seq(Text("nested"), Null()), Map()),
		Map(Pair("", Text("empty key")), Pair("a/b~c", Int(1))),
	}
	for i, value := range values {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			got := roundtrip(t, defaultCodec, value)
			if !Equal(got, value) {
				t.Errorf("got %v, want %v", got, value)
			}
		})
	}
}

func TestRoundtripExampleScenario(t *testing.T) {
	value := Map(
		Pair("n", Int(256)),
		Pair("s", Text("hi")),
		Pair("arr", Seq(Int(1), Int(-1), Float(1.5))),
		Pair("buf", Bytes([]byte{0x00, 0x01})),
	)
	data, err := Encode(value)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !Equal(decoded, value) {
		t.Errorf("got %v, want %v", decoded, value)
	}

	n, _ := decoded.Get("n")
	if n.AsInt() != 256 {
		t.Errorf("n = %v, want 256", n)
	}
	// n follows the 2-byte "n" key unit and is written with the full
	// INT tag; the array elements use the 1-byte forms.
	if Tag(data[5]) != TagInt {
		t.Errorf("n tag = %s, want INT", Tag(data[5]))
	}
	arrayStart := bytes.Index(data, []byte{byte(TagArrayShort), 3})
	if arrayStart < 0 {
		t.Fatalf("no ARRAY_SHORT(3) in % x", data)
	}
	if Tag(data[arrayStart+2]) != TagInt8 || Tag(data[arrayStart+4]) != TagInt8Neg {
		t.Errorf("array element tags = %s, %s; want INT8, INT8_NEG",
			Tag(data[arrayStart+2]), Tag(data[arrayStart+4]))
	}
}

func TestRoundtripSizeClassBoundaries(t *testing.T) {
	for _, count := range []int{255, 256} {
		items := make([]Value, count)
		entries := make([]Entry, count)
		for i := range count {
			items[i] = Int(int64(i))
			entries[i] = Pair(fmt.Sprintf("key-%d", i), Int(int64(-i)))
		}
		for _, value := range []Value{Seq(items...), Map(entries...)} {
			got := roundtrip(t, defaultCodec, value)
			if !Equal(got, value) {
				t.Errorf("%s of %d did not round-trip", value.Kind(), count)
			}
		}
	}
}

func TestRoundtripAbsentEntriesDropped(t *testing.T) {
	got := roundtrip(t, defaultCodec, Map(Pair("a", Int(1)), Pair("b", Absent())))
	want := Map(Pair("a", Int(1)))
	if !Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRoundtripTopLevelAbsentIsNull(t *testing.T) {
	absent := mustEncode(t, Absent())
	null := mustEncode(t, Null())
	if !bytes.Equal(absent, null) {
		t.Errorf("absent encodes as % x, null as % x", absent, null)
	}
	got := roundtrip(t, defaultCodec, Absent())
	if got.Kind() != KindNull {
		t.Errorf("decoded absent as %s, want null", got.Kind())
	}
}

func TestRoundtripHookType(t *testing.T) {
	codec := newTestCodec(t)
	original := pattern{Source: `^a+b$`, Flags: "gi"}
	got := roundtrip(t, codec, Typed("pattern", original))

	if got.Kind() != KindTyped || got.TypeID() != "pattern" {
		t.Fatalf("got %v, want a typed pattern", got)
	}
	if got.Object() != original {
		t.Errorf("got %+v, want %+v", got.Object(), original)
	}
}

func TestRoundtripHookTypeNested(t *testing.T) {
	codec := newTestCodec(t)
	value := Map(
		Pair("patterns", Seq(
			Typed("pattern", pattern{Source: "x", Flags: ""}),
			Typed("fixed4", fixed{1, 2, 3, 4}),
		)),
		Pair("at", Typed("example.com/geometry.point", point{X: 3, Y: -4})),
	)
	got := roundtrip(t, codec, value)
	if !Equal(got, value) {
		t.Errorf("got %v, want %v", got, value)
	}
}

func TestRoundtripRepresentationType(t *testing.T) {
	codec := newTestCodec(t)
	original := point{X: 1, Y: -2}
	value := Typed("example.com/geometry.point", original)

	data, err := codec.Encode(value)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	code := MakeTypeCode("point")
	wantPrefix := append([]byte{byte(TagTypedObject)}, code[:]...)
	if !bytes.HasPrefix(data, wantPrefix) {
		t.Fatalf("encoding % x does not start with TYPED_OBJECT and the point code", data)
	}
	// The payload is the representation, encoded as an ordinary map.
	inner, err := Decode(data[len(wantPrefix):])
	if err != nil {
		t.Fatalf("Decode payload: %v", err)
	}
	if want := Map(Pair("x", Int(1)), Pair("y", Int(-2))); !Equal(inner, want) {
		t.Errorf("payload = %v, want %v", inner, want)
	}

	got, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Object() != original {
		t.Errorf("got %+v, want %+v", got.Object(), original)
	}
	if got.TypeID() != "example.com/geometry.point" {
		t.Errorf("TypeID() = %q, want the registered identity", got.TypeID())
	}
}

func TestTypedRegistryIsPerCodec(t *testing.T) {
	codec := newTestCodec(t)
	data, err := codec.Encode(Typed("pattern", pattern{Source: "a"}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(data); !errors.Is(err, ErrUnknownCustomType) {
		t.Errorf("default codec decode: error = %v, want ErrUnknownCustomType", err)
	}
}

func TestInvalidTypeDescriptor(t *testing.T) {
	codec, err := New(Options{Types: []TypeDescriptor{{Name: "bare"}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w := NewWriter(0)
	err = codec.EncodeTo(w, Typed("bare", 1))
	if !errors.Is(err, ErrInvalidTypeDescriptor) {
		t.Fatalf("encode error = %v, want ErrInvalidTypeDescriptor", err)
	}
	if w.Len() != 0 {
		t.Errorf("%d bytes written before the descriptor was rejected", w.Len())
	}

	code := MakeTypeCode("bare")
	input := append([]byte{byte(TagTypedObject)}, code[:]...)
	input = append(input, 0x00)
	if _, err := codec.Decode(input); !errors.Is(err, ErrInvalidTypeDescriptor) {
		t.Errorf("decode error = %v, want ErrInvalidTypeDescriptor", err)
	}
}

func TestHookErrorPropagates(t *testing.T) {
	codec := newTestCodec(t)
	_, err := codec.Encode(Typed("pattern", "not a pattern"))
	if err == nil || !strings.Contains(err.Error(), "want pattern") {
		t.Errorf("error = %v, want the hook's error", err)
	}

	// A pattern payload with a non-text flags unit.
	code := MakeTypeCode("pattern")
	input := append([]byte{byte(TagTypedObject)}, code[:]...)
	input = append(input, 0x09, 0x01, 'x', 0x03, 0x01)
	if _, err := codec.Decode(input); err == nil || !strings.Contains(err.Error(), "want text/text") {
		t.Errorf("decode error = %v, want the hook's error", err)
	}

	// Truncated hook payloads surface the underrun.
	if _, err := codec.Decode(input[:len(input)-1]); !errors.Is(err, ErrBufferUnderrun) {
		t.Errorf("truncated payload: error = %v, want ErrBufferUnderrun", err)
	}
}

// celsius is not registered; it falls back to its value form.
type celsius float64

func (c celsius) BornValue() (Value, error) { return Float(float64(c)), nil }

func TestValuerFallback(t *testing.T) {
	got := mustEncode(t, Typed("celsius", celsius(21.5)))
	want := mustEncode(t, Float(21.5))
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestValuerFallbackNilPointer(t *testing.T) {
	got := mustEncode(t, Typed("celsius", (*celsius)(nil)))
	if want := []byte{byte(TagNull)}; !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestRoundtripDate(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("", 3*3600),
		time.FixedZone("", -(9*3600 + 30*60)),
		time.FixedZone("", 14*3600),
	}
	for _, zone := range zones {
		original := time.Date(2023, 10, 8, 18, 37, 32, 123456789, zone)
		got := roundtrip(t, defaultCodec, Timestamp(original))

		want := TruncateTimestamp(original)
		if !Equal(got, Timestamp(want)) {
			t.Errorf("zone %s: got %v, want %v", zone, got, Timestamp(want))
		}
		decoded := got.AsTime()
		if decoded.Year() != 2023 || decoded.Month() != time.October || decoded.Day() != 8 ||
			decoded.Hour() != 18 || decoded.Minute() != 37 || decoded.Second() != 32 {
			t.Errorf("zone %s: calendar fields changed: %v", zone, decoded)
		}
		if decoded.Nanosecond() != 123000000 {
			t.Errorf("zone %s: nanoseconds = %d, want 123000000", zone, decoded.Nanosecond())
		}
		_, wantOffset := original.Zone()
		if _, gotOffset := decoded.Zone(); gotOffset != wantOffset {
			t.Errorf("zone %s: offset = %d, want %d", zone, gotOffset, wantOffset)
		}
	}
}

func TestConcurrentCodecUse(t *testing.T) {
	codec := newTestCodec(t)
	value := Map(
		Pair("p", Typed("pattern", pattern{Source: "s", Flags: "m"})),
		Pair("n", Seq(Int(1), Int(2), Int(3))),
	)
	want, err := codec.Encode(value)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				data, err := codec.Encode(value)
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(data, want) {
					errs <- fmt.Errorf("encoding differs: % x", data)
					return
				}
				decoded, err := codec.Decode(data)
				if err != nil {
					errs <- err
					return
				}
				if !Equal(decoded, value) {
					errs <- fmt.Errorf("decoded %v", decoded)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkEncode(b *testing.B) {
	value := Map(
		Pair("n", Int(256)),
		Pair("s", Text("hi")),
		Pair("arr", Seq(Int(1), Int(-1), Float(1.5))),
		Pair("buf", Bytes([]byte{0x00, 0x01})),
	)
	for b.Loop() {
		if _, err := Encode(value); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data, err := Encode(Map(
		Pair("n", Int(256)),
		Pair("s", Text("hi")),
		Pair("arr", Seq(Int(1), Int(-1), Float(1.5))),
		Pair("buf", Bytes([]byte{0x00, 0x01})),
	))
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
