// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"fmt"
	"time"
)

// DateWidth is the fixed width of a DATE payload.
const DateWidth = 28

// dateLayout renders as YYYY-MM-DDTHH:mm:ss.sss followed by the UTC
// offset as sign, two-digit hours and two-digit minutes.
const dateLayout = "2006-01-02T15:04:05.000-0700"

// appendTimestamp appends the 28-byte wire form of t. Sub-millisecond
// precision is truncated and so are seconds in the zone offset.
func appendTimestamp(dst []byte, t time.Time) ([]byte, error) {
	if year := t.Year(); year < 0 || year > 9999 {
		return dst, fmt.Errorf("%w: year %d does not fit a 4-digit date", ErrEncodingRange, year)
	}
	_, offset := t.Zone()
	if offset <= -100*3600 || offset >= 100*3600 {
		return dst, fmt.Errorf("%w: zone offset %ds does not fit ±HHMM", ErrEncodingRange, offset)
	}
	if offset%60 != 0 {
		t = t.In(time.FixedZone("", offset-offset%60))
	}
	start := len(dst)
	dst = t.AppendFormat(dst, dateLayout)
	if width := len(dst) - start; width != DateWidth {
		return dst[:start], fmt.Errorf("%w: date renders as %d bytes, want %d", ErrEncodingRange, width, DateWidth)
	}
	return dst, nil
}

// parseTimestamp parses a DATE payload. The result carries a fixed
// zone with the encoded offset, or UTC for +0000, so the calendar
// fields read back exactly as they were written.
func parseTimestamp(raw []byte) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, raw, err)
	}
	_, offset := parsed.Zone()
	if offset == 0 {
		return parsed.UTC(), nil
	}
	return parsed.In(time.FixedZone("", offset)), nil
}

// TruncateTimestamp returns t reduced to the precision a DATE unit
// preserves: milliseconds, with the zone replaced by its fixed offset.
// Decoding an encoded t yields a value [Equal] to TruncateTimestamp(t).
func TruncateTimestamp(t time.Time) time.Time {
	_, offset := t.Zone()
	offset -= offset % 60
	truncated := t.Truncate(time.Millisecond)
	if offset == 0 {
		return truncated.UTC()
	}
	return truncated.In(time.FixedZone("", offset))
}
