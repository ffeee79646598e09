// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/born/lib/born"
)

// CBOR tag numbers used by the bridge.
const (
	cborTagDateTime = 0  // RFC 3339 text
	cborTagEpoch    = 1  // seconds since the Unix epoch
	cborTagObject   = 27 // generic object: [type name, value]
)

// CBOR major types.
const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
)

// encMode encodes scalars with Core Deterministic Encoding (RFC 8949
// §4.2): smallest integer and float forms, definite lengths only.
// Arrays, maps and tags are framed by the bridge itself so BORN entry
// order survives the trip.
var encMode cbor.EncMode

// decMode decodes the scalar items the bridge hands it. Indefinite
// lengths are rejected; BORN has no streaming form to map them to.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transcode: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IndefLength:    cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic("transcode: CBOR decoder initialization failed: " + err.Error())
	}
}

// ToCBOR converts a BORN value to CBOR. Maps keep their entry order,
// timestamps become tag 0 date strings with millisecond precision and
// their UTC offset, and typed values become tag 27 arrays holding the
// type identity and the payload value.
func ToCBOR(v born.Value) ([]byte, error) {
	return appendCBOR(nil, v, 0)
}

func appendCBOR(dst []byte, v born.Value, depth int) ([]byte, error) {
	if depth > born.DefaultMaxDepth {
		return nil, fmt.Errorf("%w: limit %d", born.ErrDepthExceeded, born.DefaultMaxDepth)
	}
	switch v.Kind() {
	case born.KindAbsent, born.KindNull:
		return appendScalar(dst, nil)
	case born.KindBool:
		return appendScalar(dst, v.AsBool())
	case born.KindInt:
		return appendScalar(dst, v.AsInt())
	case born.KindFloat:
		if f := v.AsFloat(); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: float %v is not finite", born.ErrEncodingRange, f)
		}
		return appendScalar(dst, v.AsFloat())
	case born.KindText:
		return appendScalar(dst, v.AsText())
	case born.KindBytes:
		return appendScalar(dst, v.AsBytes())
	case born.KindTimestamp:
		dst = appendHead(dst, majorTag, cborTagDateTime)
		return appendScalar(dst, v.AsTime().Format(dateLayout))
	case born.KindSeq:
		dst = appendHead(dst, majorArray, uint64(v.Len()))
		for _, item := range v.Items() {
			var err error
			if dst, err = appendCBOR(dst, item, depth+1); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case born.KindMap:
		retained := 0
		for _, entry := range v.Entries() {
			if entry.Value.Kind() != born.KindAbsent {
				retained++
			}
		}
		dst = appendHead(dst, majorMap, uint64(retained))
		for _, entry := range v.Entries() {
			if entry.Value.Kind() == born.KindAbsent {
				continue
			}
			var err error
			if dst, err = appendScalar(dst, entry.Key); err != nil {
				return nil, err
			}
			if dst, err = appendCBOR(dst, entry.Value, depth+1); err != nil {
				return nil, fmt.Errorf("%s: %w", entry.Key, err)
			}
		}
		return dst, nil
	case born.KindTyped:
		inner, err := typedPayload(v)
		if err != nil {
			return nil, err
		}
		dst = appendHead(dst, majorTag, cborTagObject)
		dst = appendHead(dst, majorArray, 2)
		if dst, err = appendScalar(dst, v.TypeID()); err != nil {
			return nil, err
		}
		return appendCBOR(dst, inner, depth+1)
	default:
		return nil, fmt.Errorf("%w: value of kind %s", born.ErrUnsupportedType, v.Kind())
	}
}

func appendScalar(dst []byte, scalar any) ([]byte, error) {
	encoded, err := encMode.Marshal(scalar)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR scalar: %w", err)
	}
	return append(dst, encoded...), nil
}

// appendHead writes a CBOR initial byte and its shortest argument.
func appendHead(dst []byte, major byte, argument uint64) []byte {
	initial := major << 5
	switch {
	case argument < 24:
		return append(dst, initial|byte(argument))
	case argument <= math.MaxUint8:
		return append(dst, initial|24, byte(argument))
	case argument <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, initial|25), uint16(argument))
	case argument <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, initial|26), uint32(argument))
	default:
		return binary.BigEndian.AppendUint64(append(dst, initial|27), argument)
	}
}

// FromCBOR converts the first CBOR data item in data to a BORN value
// and returns the bytes that follow it. Tag 27 arrays become typed
// values carrying a [born.Extension]; tags 0 and 1 become timestamps.
// Other tags, non-text map keys and indefinite lengths are rejected.
func FromCBOR(data []byte) (born.Value, []byte, error) {
	return fromCBOR(data, 0)
}

func fromCBOR(data []byte, depth int) (born.Value, []byte, error) {
	if depth > born.DefaultMaxDepth {
		return born.Value{}, nil, fmt.Errorf("%w: limit %d", born.ErrDepthExceeded, born.DefaultMaxDepth)
	}
	if len(data) == 0 {
		return born.Value{}, nil, fmt.Errorf("CBOR: %w: empty input", born.ErrBufferUnderrun)
	}
	switch data[0] >> 5 {
	case majorArray:
		count, rest, err := readHead(data)
		if err != nil {
			return born.Value{}, nil, err
		}
		items := make([]born.Value, 0, min(count, uint64(len(rest))))
		for range count {
			var item born.Value
			if item, rest, err = fromCBOR(rest, depth+1); err != nil {
				return born.Value{}, nil, err
			}
			items = append(items, item)
		}
		return born.Seq(items...), rest, nil
	case majorMap:
		count, rest, err := readHead(data)
		if err != nil {
			return born.Value{}, nil, err
		}
		entries := make([]born.Entry, 0, min(count, uint64(len(rest))/2))
		for range count {
			var key string
			if rest, err = decMode.UnmarshalFirst(rest, &key); err != nil {
				return born.Value{}, nil, fmt.Errorf("CBOR map key: %w: %v", born.ErrInvalidKey, err)
			}
			var value born.Value
			if value, rest, err = fromCBOR(rest, depth+1); err != nil {
				return born.Value{}, nil, fmt.Errorf("%s: %w", key, err)
			}
			entries = append(entries, born.Pair(key, value))
		}
		return born.Map(entries...), rest, nil
	case majorTag:
		number, rest, err := readHead(data)
		if err != nil {
			return born.Value{}, nil, err
		}
		return fromCBORTag(number, rest, depth)
	default:
		var scalar any
		rest, err := decMode.UnmarshalFirst(data, &scalar)
		if err != nil {
			return born.Value{}, nil, fmt.Errorf("decoding CBOR scalar: %w", err)
		}
		value, err := fromScalar(scalar)
		return value, rest, err
	}
}

func fromCBORTag(number uint64, data []byte, depth int) (born.Value, []byte, error) {
	switch number {
	case cborTagDateTime:
		var text string
		rest, err := decMode.UnmarshalFirst(data, &text)
		if err != nil {
			return born.Value{}, nil, fmt.Errorf("CBOR tag 0 content: %w", err)
		}
		moment, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return born.Value{}, nil, fmt.Errorf("%w: %v", born.ErrInvalidDate, err)
		}
		return born.Timestamp(moment), rest, nil
	case cborTagEpoch:
		var seconds float64
		rest, err := decMode.UnmarshalFirst(data, &seconds)
		if err != nil {
			return born.Value{}, nil, fmt.Errorf("CBOR tag 1 content: %w", err)
		}
		whole, fraction := math.Modf(seconds)
		moment := time.Unix(int64(whole), int64(fraction*1e9)).UTC()
		return born.Timestamp(moment), rest, nil
	case cborTagObject:
		count, rest, err := readHead(data)
		if err != nil {
			return born.Value{}, nil, err
		}
		if data[0]>>5 != majorArray || count != 2 {
			return born.Value{}, nil, fmt.Errorf("CBOR tag 27 content is not a 2-element array")
		}
		var name string
		if rest, err = decMode.UnmarshalFirst(rest, &name); err != nil {
			return born.Value{}, nil, fmt.Errorf("CBOR tag 27 type name: %w", err)
		}
		inner, rest, err := fromCBOR(rest, depth+1)
		if err != nil {
			return born.Value{}, nil, fmt.Errorf("%s: %w", name, err)
		}
		return born.Typed(name, born.Extension{Name: name, Value: inner}), rest, nil
	default:
		return born.Value{}, nil, fmt.Errorf("%w: CBOR tag %d", born.ErrUnsupportedType, number)
	}
}

func fromScalar(scalar any) (born.Value, error) {
	switch x := scalar.(type) {
	case nil:
		return born.Null(), nil
	case bool:
		return born.Bool(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return born.Value{}, fmt.Errorf("%w: unsigned integer %d", born.ErrEncodingRange, x)
		}
		return born.Int(int64(x)), nil
	case int64:
		return born.Int(x), nil
	case float64:
		return born.Float(x), nil
	case string:
		return born.Text(x), nil
	case []byte:
		return born.Bytes(x), nil
	default:
		return born.Value{}, fmt.Errorf("%w: CBOR item decoded as %T", born.ErrUnsupportedType, scalar)
	}
}

// readHead parses the initial byte and argument of a CBOR data item.
func readHead(data []byte) (uint64, []byte, error) {
	if len(data) == 0 {
		return 0, nil, fmt.Errorf("CBOR: %w: missing data item", born.ErrBufferUnderrun)
	}
	info := data[0] & 0x1f
	switch {
	case info < 24:
		return uint64(info), data[1:], nil
	case info <= 27:
		width := 1 << (info - 24)
		if len(data) < 1+width {
			return 0, nil, fmt.Errorf("CBOR: %w: head needs %d bytes, %d remain",
				born.ErrBufferUnderrun, 1+width, len(data))
		}
		argument := data[1 : 1+width]
		switch width {
		case 1:
			return uint64(argument[0]), data[2:], nil
		case 2:
			return uint64(binary.BigEndian.Uint16(argument)), data[3:], nil
		case 4:
			return uint64(binary.BigEndian.Uint32(argument)), data[5:], nil
		default:
			return binary.BigEndian.Uint64(argument), data[9:], nil
		}
	case info == 31:
		return 0, nil, fmt.Errorf("CBOR: indefinite-length items are not supported")
	default:
		return 0, nil, fmt.Errorf("CBOR: reserved additional information %d", info)
	}
}
