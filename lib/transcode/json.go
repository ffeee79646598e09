// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/born/lib/born"
)

// Keys of the JSON objects that stand for BORN kinds JSON lacks.
const (
	KeyBytes = "$bytes"
	KeyDate  = "$date"
	KeyType  = "$type"
	KeyValue = "$value"
)

// dateLayout is RFC 3339 with the millisecond precision a DATE keeps.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// ToJSON renders a BORN value as JSON. Map entry order is kept, floats
// always carry a fraction or exponent so they read back as floats, and
// bytes, timestamps and typed values use the $bytes, $date and
// $type/$value objects. A non-empty indent pretty-prints the output.
func ToJSON(v born.Value, indent string) ([]byte, error) {
	var buffer bytes.Buffer
	if err := writeJSON(&buffer, v, 0); err != nil {
		return nil, err
	}
	if indent == "" {
		return buffer.Bytes(), nil
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, buffer.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indenting JSON: %w", err)
	}
	return indented.Bytes(), nil
}

func writeJSON(buffer *bytes.Buffer, v born.Value, depth int) error {
	if depth > born.DefaultMaxDepth {
		return fmt.Errorf("%w: limit %d", born.ErrDepthExceeded, born.DefaultMaxDepth)
	}
	switch v.Kind() {
	case born.KindAbsent, born.KindNull:
		buffer.WriteString("null")
	case born.KindBool:
		buffer.WriteString(strconv.FormatBool(v.AsBool()))
	case born.KindInt:
		buffer.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case born.KindFloat:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: float %v has no JSON form", born.ErrEncodingRange, f)
		}
		buffer.WriteString(formatJSONFloat(f))
	case born.KindText:
		writeJSONString(buffer, v.AsText())
	case born.KindBytes:
		buffer.WriteString(`{"` + KeyBytes + `":`)
		writeJSONString(buffer, base64.StdEncoding.EncodeToString(v.AsBytes()))
		buffer.WriteByte('}')
	case born.KindTimestamp:
		buffer.WriteString(`{"` + KeyDate + `":`)
		writeJSONString(buffer, v.AsTime().Format(dateLayout))
		buffer.WriteByte('}')
	case born.KindSeq:
		buffer.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := writeJSON(buffer, item, depth+1); err != nil {
				return err
			}
		}
		buffer.WriteByte(']')
	case born.KindMap:
		buffer.WriteByte('{')
		first := true
		for _, entry := range v.Entries() {
			if entry.Value.Kind() == born.KindAbsent {
				continue
			}
			if !first {
				buffer.WriteByte(',')
			}
			first = false
			writeJSONString(buffer, entry.Key)
			buffer.WriteByte(':')
			if err := writeJSON(buffer, entry.Value, depth+1); err != nil {
				return fmt.Errorf("%s: %w", entry.Key, err)
			}
		}
		buffer.WriteByte('}')
	case born.KindTyped:
		inner, err := typedPayload(v)
		if err != nil {
			return err
		}
		buffer.WriteString(`{"` + KeyType + `":`)
		writeJSONString(buffer, v.TypeID())
		buffer.WriteString(`,"` + KeyValue + `":`)
		if err := writeJSON(buffer, inner, depth+1); err != nil {
			return err
		}
		buffer.WriteByte('}')
	default:
		return fmt.Errorf("%w: value of kind %s", born.ErrUnsupportedType, v.Kind())
	}
	return nil
}

// writeJSONString writes s as a JSON string without HTML escaping.
func writeJSONString(buffer *bytes.Buffer, s string) {
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = encoder.Encode(s)
	// Encode terminates each value with a newline.
	buffer.Truncate(buffer.Len() - 1)
}

func formatJSONFloat(f float64) string {
	formatted := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(formatted, ".eE") {
		return formatted
	}
	return formatted + ".0"
}

// FromJSON parses one JSON or JSONC document (comments and trailing
// commas allowed) into a BORN value. Integers that fit int64 become
// ints and every other number becomes a float. The number's spelling
// decides: 2 and -7 become ints, while 2.0 and 1e3 stay floats and
// encode as FLOAT even though their value is integral. This keeps the
// float [ToJSON] renders as 2.0 a float after a round trip. Objects consisting of
// exactly a $bytes, a $date, or a $type and $value pair are converted
// back to bytes, timestamps and typed values carrying a
// [born.Extension].
func FromJSON(data []byte) (born.Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	value, err := readJSON(decoder, 0)
	if err != nil {
		return born.Value{}, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return born.Value{}, fmt.Errorf("parsing JSON: unexpected data after the top-level value")
	}
	return value, nil
}

func readJSON(decoder *json.Decoder, depth int) (born.Value, error) {
	if depth > born.DefaultMaxDepth {
		return born.Value{}, fmt.Errorf("%w: limit %d", born.ErrDepthExceeded, born.DefaultMaxDepth)
	}
	token, err := decoder.Token()
	if err != nil {
		return born.Value{}, fmt.Errorf("parsing JSON: %w", err)
	}
	switch x := token.(type) {
	case nil:
		return born.Null(), nil
	case bool:
		return born.Bool(x), nil
	case string:
		return born.Text(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return born.Int(i), nil
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return born.Value{}, fmt.Errorf("parsing JSON number %s: %w", x, err)
		}
		return born.Float(f), nil
	case json.Delim:
		switch x {
		case '[':
			var items []born.Value
			for decoder.More() {
				item, err := readJSON(decoder, depth+1)
				if err != nil {
					return born.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := decoder.Token(); err != nil {
				return born.Value{}, fmt.Errorf("parsing JSON: %w", err)
			}
			return born.Seq(items...), nil
		case '{':
			var entries []born.Entry
			for decoder.More() {
				keyToken, err := decoder.Token()
				if err != nil {
					return born.Value{}, fmt.Errorf("parsing JSON: %w", err)
				}
				key, _ := keyToken.(string)
				value, err := readJSON(decoder, depth+1)
				if err != nil {
					return born.Value{}, fmt.Errorf("%s: %w", key, err)
				}
				entries = append(entries, born.Pair(key, value))
			}
			if _, err := decoder.Token(); err != nil {
				return born.Value{}, fmt.Errorf("parsing JSON: %w", err)
			}
			return fromJSONObject(entries)
		}
	}
	return born.Value{}, fmt.Errorf("parsing JSON: unexpected token %v", token)
}

// fromJSONObject recognises the special objects written by ToJSON.
func fromJSONObject(entries []born.Entry) (born.Value, error) {
	switch {
	case len(entries) == 1 && entries[0].Key == KeyBytes && entries[0].Value.Kind() == born.KindText:
		raw, err := base64.StdEncoding.DecodeString(entries[0].Value.AsText())
		if err != nil {
			return born.Value{}, fmt.Errorf("%s: %w", KeyBytes, err)
		}
		return born.Bytes(raw), nil
	case len(entries) == 1 && entries[0].Key == KeyDate && entries[0].Value.Kind() == born.KindText:
		moment, err := time.Parse(time.RFC3339Nano, entries[0].Value.AsText())
		if err != nil {
			return born.Value{}, fmt.Errorf("%s: %w: %v", KeyDate, born.ErrInvalidDate, err)
		}
		return born.Timestamp(moment), nil
	case len(entries) == 2 && entries[0].Key == KeyType && entries[1].Key == KeyValue &&
		entries[0].Value.Kind() == born.KindText:
		name := entries[0].Value.AsText()
		return born.Typed(name, born.Extension{Name: name, Value: entries[1].Value}), nil
	}
	return born.Map(entries...), nil
}
