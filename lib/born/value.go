// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	// KindInvalid is the zero Kind. Encoding it fails with
	// ErrUnsupportedType.
	KindInvalid Kind = iota
	// KindAbsent is the "not present" marker. Object entries holding
	// it are omitted; everywhere else it encodes as null.
	KindAbsent
	KindNull
	KindBool
	KindInt
	KindFloat
	KindText
	KindSeq
	KindMap
	KindBytes
	KindTimestamp
	KindTyped
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindAbsent:    "absent",
	KindNull:      "null",
	KindBool:      "bool",
	KindInt:       "int",
	KindFloat:     "float",
	KindText:      "text",
	KindSeq:       "seq",
	KindMap:       "map",
	KindBytes:     "bytes",
	KindTimestamp: "timestamp",
	KindTyped:     "typed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a BORN value: exactly one variant, selected by Kind. The
// zero Value has KindInvalid.
//
// Accessors return the zero value of their result type when the Kind
// does not match; check [Value.Kind] first when that matters.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	text    string // KindText payload, or the KindTyped identity
	raw     []byte
	time    time.Time
	items   []Value
	entries []Entry
	object  any
}

// Entry is one key/value pair of a map value.
type Entry struct {
	Key   string
	Value Value
}

// Pair builds an [Entry].
func Pair(key string, value Value) Entry {
	return Entry{Key: key, Value: value}
}

// Constructors for the scalar and sequence variants.

func Absent() Value { return Value{kind: KindAbsent} }
func Null() Value { return Value{kind: KindNull} }
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }
func Int(i int64) Value { return Value{kind: KindInt, integer: i} }
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }
func Text(s string) Value { return Value{kind: KindText, text: s} }
func Bytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }
func Seq(items ...Value) Value { return Value{kind: KindSeq, items: items} }

// Map builds a map value. Entry order is preserved on the wire.
func Map(entries ...Entry) Value { return Value{kind: KindMap, entries: entries} }

// Timestamp builds a date value. Encoding keeps millisecond precision
// and the zone offset; see [TruncateTimestamp].
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, time: t} }

// Typed builds an extension value. identity selects the registered
// [TypeDescriptor]; object is handed to its hooks or representation.
func Typed(identity string, object any) Value {
	return Value{kind: KindTyped, text: identity, object: object}
}

func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null or absent.
func (v Value) IsNull() bool { return v.kind == KindNull || v.kind == KindAbsent }

func (v Value) AsBool() bool { return v.kind == KindBool && v.boolean }

func (v Value) AsInt() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.integer
}

func (v Value) AsFloat() float64 {
	if v.kind != KindFloat {
		return 0
	}
	return v.float
}

func (v Value) AsText() string {
	if v.kind != KindText {
		return ""
	}
	return v.text
}

func (v Value) AsBytes() []byte {
	if v.kind != KindBytes {
		return nil
	}
	return v.raw
}

func (v Value) AsTime() time.Time {
	if v.kind != KindTimestamp {
		return time.Time{}
	}
	return v.time
}

// Items returns the elements of a seq value.
func (v Value) Items() []Value {
	if v.kind != KindSeq {
		return nil
	}
	return v.items
}

// Entries returns the entries of a map value in order.
func (v Value) Entries() []Entry {
	if v.kind != KindMap {
		return nil
	}
	return v.entries
}

// TypeID returns the identity of a typed value.
func (v Value) TypeID() string {
	if v.kind != KindTyped {
		return ""
	}
	return v.text
}

// Object returns the Go object carried by a typed value.
func (v Value) Object() any {
	if v.kind != KindTyped {
		return nil
	}
	return v.object
}

// Len returns the element count of a seq, the entry count of a map,
// or the byte length of text and bytes. Other kinds report 0.
func (v Value) Len() int {
	switch v.kind {
	case KindSeq:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	case KindText:
		return len(v.text)
	case KindBytes:
		return len(v.raw)
	default:
		return 0
	}
}

// Index returns element i of a seq value.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSeq || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Get returns the value of the first entry of a map value with the
// given key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, entry := range v.entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether a and b hold the same variant and the same
// data, recursively. Kinds are compared strictly: Int(1) and Float(1)
// differ. Floats compare by bits, so NaN equals an identical NaN and
// 0.0 differs from -0.0. Timestamps are equal when the instants and
// the UTC offsets match. Typed objects compare with reflect.DeepEqual.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInvalid, KindAbsent, KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindInt:
		return a.integer == b.integer
	case KindFloat:
		return math.Float64bits(a.float) == math.Float64bits(b.float)
	case KindText:
		return a.text == b.text
	case KindBytes:
		return bytes.Equal(a.raw, b.raw)
	case KindTimestamp:
		_, offsetA := a.time.Zone()
		_, offsetB := b.time.Zone()
		return a.time.Equal(b.time) && offsetA == offsetB
	case KindSeq:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for i := range a.entries {
			if a.entries[i].Key != b.entries[i].Key || !Equal(a.entries[i].Value, b.entries[i].Value) {
				return false
			}
		}
		return true
	case KindTyped:
		return a.text == b.text && reflect.DeepEqual(a.object, b.object)
	default:
		return false
	}
}

// String renders v in a compact JSON-like form for logs and test
// failures. It is not a wire or interchange format.
func (v Value) String() string {
	var builder strings.Builder
	v.format(&builder)
	return builder.String()
}

func (v Value) format(builder *strings.Builder) {
	switch v.kind {
	case KindInvalid:
		builder.WriteString("<invalid>")
	case KindAbsent:
		builder.WriteString("<absent>")
	case KindNull:
		builder.WriteString("null")
	case KindBool:
		builder.WriteString(strconv.FormatBool(v.boolean))
	case KindInt:
		builder.WriteString(strconv.FormatInt(v.integer, 10))
	case KindFloat:
		builder.WriteString(formatFloat(v.float))
	case KindText:
		builder.WriteString(strconv.Quote(v.text))
	case KindBytes:
		fmt.Fprintf(builder, "h'%x'", v.raw)
	case KindTimestamp:
		fmt.Fprintf(builder, "date(%q)", v.time.Format(dateLayout))
	case KindSeq:
		builder.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				builder.WriteString(", ")
			}
			item.format(builder)
		}
		builder.WriteByte(']')
	case KindMap:
		builder.WriteByte('{')
		for i, entry := range v.entries {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(strconv.Quote(entry.Key))
			builder.WriteString(": ")
			entry.Value.format(builder)
		}
		builder.WriteByte('}')
	case KindTyped:
		fmt.Fprintf(builder, "typed(%q, %v)", v.text, v.object)
	}
}

// formatFloat renders f so that it always reads back as a float: an
// integral value keeps a trailing ".0".
func formatFloat(f float64) string {
	formatted := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(formatted, ".eEnN") {
		return formatted
	}
	return formatted + ".0"
}
