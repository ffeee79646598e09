// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"errors"
	"testing"
	"time"
)

func TestAppendTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		moment time.Time
		want   string
	}{
		{
			"utc",
			time.Date(2000, 1, 2, 3, 4, 5, 6000000, time.UTC),
			"2000-01-02T03:04:05.006+0000",
		},
		{
			"positive offset",
			time.Date(2023, 10, 8, 18, 37, 32, 123999999, time.FixedZone("", 3*3600)),
			"2023-10-08T18:37:32.123+0300",
		},
		{
			"negative half hour",
			time.Date(1999, 12, 31, 23, 59, 59, 0, time.FixedZone("", -(3*3600+30*60))),
			"1999-12-31T23:59:59.000-0330",
		},
		{
			"year zero",
			time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC),
			"0000-01-01T00:00:00.000+0000",
		},
		{
			"year 9999",
			time.Date(9999, 12, 31, 23, 59, 59, 999000000, time.UTC),
			"9999-12-31T23:59:59.999+0000",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := appendTimestamp(nil, test.moment)
			if err != nil {
				t.Fatalf("appendTimestamp: %v", err)
			}
			if string(got) != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
			if len(got) != DateWidth {
				t.Errorf("width = %d, want %d", len(got), DateWidth)
			}
		})
	}
}

func TestAppendTimestampSecondsOffset(t *testing.T) {
	// Offsets with a seconds part are truncated to whole minutes; the
	// wall clock is re-expressed in the truncated zone so the decoded
	// instant matches TruncateTimestamp.
	zone := time.FixedZone("LMT", 3600+15*60+42)
	moment := time.Date(1890, 5, 1, 12, 0, 0, 0, zone)
	raw, err := appendTimestamp(nil, moment)
	if err != nil {
		t.Fatalf("appendTimestamp: %v", err)
	}
	parsed, err := parseTimestamp(raw)
	if err != nil {
		t.Fatalf("parseTimestamp(%q): %v", raw, err)
	}
	if want := TruncateTimestamp(moment); !parsed.Equal(want) {
		t.Errorf("parsed %v, want %v", parsed, want)
	}
}

func TestParseTimestampZones(t *testing.T) {
	parsed, err := parseTimestamp([]byte("2023-10-08T18:37:32.123+0000"))
	if err != nil {
		t.Fatalf("parseTimestamp: %v", err)
	}
	if parsed.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", parsed.Location())
	}

	parsed, err = parseTimestamp([]byte("2023-10-08T18:37:32.123-0700"))
	if err != nil {
		t.Fatalf("parseTimestamp: %v", err)
	}
	if _, offset := parsed.Zone(); offset != -7*3600 {
		t.Errorf("offset = %d, want %d", offset, -7*3600)
	}
	if parsed.Hour() != 18 {
		t.Errorf("hour = %d, want 18", parsed.Hour())
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	inputs := []string{
		"2023-10-08 18:37:32.123+0300",
		"2023-10-08T18:37:32.123+03:0",
		"not a date at all, 28 bytes",
	}
	for _, input := range inputs {
		if _, err := parseTimestamp([]byte(input)); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("parseTimestamp(%q) error = %v, want ErrInvalidDate", input, err)
		}
	}
}

func TestTruncateTimestamp(t *testing.T) {
	moment := time.Date(2023, 10, 8, 18, 37, 32, 123456789, time.FixedZone("EEST", 3*3600))
	got := TruncateTimestamp(moment)
	if got.Nanosecond() != 123000000 {
		t.Errorf("nanoseconds = %d, want 123000000", got.Nanosecond())
	}
	if name, offset := got.Zone(); name != "" || offset != 3*3600 {
		t.Errorf("zone = %q %d, want an unnamed +0300 zone", name, offset)
	}
}
