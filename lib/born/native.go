// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// undefined is the type of [Undefined].
type undefined struct{}

// Undefined is the plain Go stand-in for the absent marker. FromNative
// converts it to [Absent], so a map[string]any entry holding Undefined
// is left out of the encoding.
var Undefined any = undefined{}

// TypeIdentifier is implemented by Go types that travel as extension
// values. FromNative turns them into [Typed] values with the returned
// identity, which must match a registered [TypeDescriptor].
type TypeIdentifier interface {
	BornTypeID() string
}

// Valuer is implemented by Go types that convert themselves to a plain
// value. FromNative uses it for values that are not otherwise
// encodable, and the encoder uses it for typed values whose identity
// is not registered.
type Valuer interface {
	BornValue() (Value, error)
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	bytesType = reflect.TypeFor[[]byte]()
)

// FromNative converts a plain Go value to a [Value]. Slices and arrays
// become seqs, maps with string keys become maps with the keys in
// sorted order, pointers are followed, and types implementing
// [TypeIdentifier] or [Valuer] are delegated to. Nil pointers become
// null. Go integer types become ints and float types become floats,
// including integral floats such as 2.0, which encode as FLOAT.
// Anything else fails with ErrUnsupportedType.
func FromNative(v any) (Value, error) {
	return fromNative(v, 0)
}

func fromNative(v any, depth int) (Value, error) {
	if depth > DefaultMaxDepth {
		return Value{}, fmt.Errorf("%w: native value nested deeper than %d", ErrDepthExceeded, DefaultMaxDepth)
	}
	// Checked before the interface cases: a nil pointer satisfies
	// TypeIdentifier and Valuer through value-receiver methods.
	if isNilPointer(v) {
		return Null(), nil
	}
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case undefined:
		return Absent(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUnsigned(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUnsigned(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Bytes(x), nil
	case time.Time:
		return Timestamp(x), nil
	case TypeIdentifier:
		return Typed(x.BornTypeID(), x), nil
	case Valuer:
		canonical, err := x.BornValue()
		if err != nil {
			return Value{}, fmt.Errorf("value representation of %T: %w", v, err)
		}
		return canonical, nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			converted, err := fromNative(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Seq(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for key := range x {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries := make([]Entry, len(keys))
		for i, key := range keys {
			converted, err := fromNative(x[key], depth+1)
			if err != nil {
				return Value{}, err
			}
			entries[i] = Entry{Key: key, Value: converted}
		}
		return Map(entries...), nil
	}
	return fromReflect(reflect.ValueOf(v), depth)
}

// isNilPointer reports whether v is a typed nil pointer.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func fromUnsigned(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: unsigned integer %d", ErrEncodingRange, u)
	}
	return Int(int64(u)), nil
}

// fromReflect handles named and composite types the type switch in
// fromNative does not match directly.
func fromReflect(rv reflect.Value, depth int) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromNative(rv.Elem().Interface(), depth+1)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUnsigned(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Convert(bytesType).Interface().([]byte)), nil
		}
		return fromReflectSeq(rv, depth)
	case reflect.Array:
		return fromReflectSeq(rv, depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map with %s keys", ErrUnsupportedType, rv.Type().Key())
		}
		if rv.IsNil() {
			return Null(), nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		entries := make([]Entry, len(keys))
		for i, key := range keys {
			converted, err := fromNative(rv.MapIndex(key).Interface(), depth+1)
			if err != nil {
				return Value{}, err
			}
			entries[i] = Entry{Key: key.String(), Value: converted}
		}
		return Map(entries...), nil
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return Timestamp(rv.Convert(timeType).Interface().(time.Time)), nil
		}
	}
	if !rv.IsValid() {
		return Null(), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

func fromReflectSeq(rv reflect.Value, depth int) (Value, error) {
	items := make([]Value, rv.Len())
	for i := range items {
		converted, err := fromNative(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return Value{}, err
		}
		items[i] = converted
	}
	return Seq(items...), nil
}

// Native converts v to plain Go values: nil, bool, int64, float64,
// string, []byte, time.Time, []any, map[string]any, or the object of a
// typed value. Absent becomes [Undefined]. When a map holds duplicate
// keys the last one wins.
func (v Value) Native() any {
	switch v.kind {
	case KindAbsent:
		return Undefined
	case KindBool:
		return v.boolean
	case KindInt:
		return v.integer
	case KindFloat:
		return v.float
	case KindText:
		return v.text
	case KindBytes:
		return v.raw
	case KindTimestamp:
		return v.time
	case KindSeq:
		items := make([]any, len(v.items))
		for i, item := range v.items {
			items[i] = item.Native()
		}
		return items
	case KindMap:
		entries := make(map[string]any, len(v.entries))
		for _, entry := range v.entries {
			entries[entry.Key] = entry.Value.Native()
		}
		return entries
	case KindTyped:
		return v.object
	default:
		return nil
	}
}
