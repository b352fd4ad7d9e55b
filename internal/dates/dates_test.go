// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package dates

import (
	"strings"
	"testing"
	"time"
)

func TestIsValidCalendarDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-01-01", true},
		{"2025-12-31", true},
		{"2025-04-31", true}, // shape check only: day 31 of a 30-day month passes
		{"2025-02-30", true}, // same limitation for February
		{"2025-13-01", false},
		{"2025-00-10", false},
		{"2025-01-00", false},
		{"2025-01-32", false},
		{"2025-1-01", false},
		{"25-01-01", false},
		{"2025/01/01", false},
		{"2025-01-01T00:00:00Z", false},
		{"", false},
		{"not a date", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidCalendarDate(tt.input); got != tt.want {
				t.Errorf("IsValidCalendarDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-11-26", "2025-11-26"},
		{"2025-11-26T23:59:59.000Z", "2025-11-26"},
		{"2025-11-26T00:00:00-06:00", "2025-11-26"},
		{"2025-1-26T00:00:00Z", ""},
		{"garbage", ""},
		{"", ""},
		{"2025-11", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DateOnly(tt.input); got != tt.want {
				t.Errorf("DateOnly(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayDateSameDayRegardlessOfOffset(t *testing.T) {
	// A timestamp one second before UTC midnight and its plain date form
	// must render as the identical calendar day.
	a := DisplayDate("2025-11-26T23:59:59.000Z")
	b := DisplayDate("2025-11-26")
	if a != b {
		t.Errorf("DisplayDate timestamp = %q, plain date = %q; want identical", a, b)
	}
	if a != "26 Nov 2025" {
		t.Errorf("DisplayDate = %q, want %q", a, "26 Nov 2025")
	}
}

func TestDisplayDateMalformed(t *testing.T) {
	for _, input := range []string{"", "garbage", "2025-13-40", "26/11/2025"} {
		if got := DisplayDate(input); got != InvalidDateMarker {
			t.Errorf("DisplayDate(%q) = %q, want %q", input, got, InvalidDateMarker)
		}
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr string
	}{
		{"both valid in order", "2025-01-01", "2025-02-01", ""},
		{"equal bounds", "2025-01-01", "2025-01-01", ""},
		{"start after end", "2025-02-01", "2025-01-01", "after"},
		{"empty start not validated", "", "2025-01-01", ""},
		{"empty end not validated", "2025-01-01", "", ""},
		{"both empty", "", "", ""},
		{"malformed start", "01-01-2025", "2025-02-01", "not a valid calendar date"},
		{"malformed end", "2025-01-01", "garbage", "not a valid calendar date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.start, tt.end)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateRange(%q, %q) = %v, want nil", tt.start, tt.end, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateRange(%q, %q) = nil, want error containing %q", tt.start, tt.end, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDaysUntilAt(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
		now    time.Time
		want   int
	}{
		{
			name:   "nine days ahead",
			target: "2025-01-10",
			now:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			want:   9,
		},
		{
			name:   "five days past",
			target: "2025-01-10",
			now:    time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
			want:   -5,
		},
		{
			name:   "same day",
			target: "2025-01-10",
			now:    time.Date(2025, 1, 10, 23, 30, 0, 0, time.UTC),
			want:   0,
		},
		{
			name:   "tomorrow just after local midnight",
			target: "2025-01-11",
			now:    time.Date(2025, 1, 10, 0, 1, 0, 0, newYork),
			want:   1,
		},
		{
			name:   "local evening does not shift the day",
			target: "2025-01-10",
			now:    time.Date(2025, 1, 9, 23, 59, 0, 0, newYork),
			want:   1,
		},
		{
			name:   "timestamp target uses its calendar day",
			target: "2025-01-10T23:59:59.000Z",
			now:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want:   9,
		},
		{
			name:   "malformed target",
			target: "soon",
			now:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilAt(tt.target, tt.now); got != tt.want {
				t.Errorf("DaysUntilAt(%q, %s) = %d, want %d", tt.target, tt.now, got, tt.want)
			}
		})
	}
}

func TestTodayShape(t *testing.T) {
	if !IsValidCalendarDate(Today()) {
		t.Errorf("Today() = %q, not a calendar date", Today())
	}
}
