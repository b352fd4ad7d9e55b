// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package dates normalizes calendar-date strings for the fleet UI.
//
// A calendar date is a YYYY-MM-DD string with no time-of-day or zone
// component. Once a calendar date is derived from an ISO timestamp it must
// keep the same day number regardless of the caller's local offset, so all
// day extraction and day-difference arithmetic here is computed at UTC
// midnight. Values are never run through a zoned time and read back as
// local fields.
//
// No function in this package fails: malformed input yields a sentinel
// value ("" or "invalid date") so callers cannot crash a page on bad data.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// calendarDateLayout is the canonical calendar-date form.
const calendarDateLayout = "2006-01-02"

// InvalidDateMarker is returned by DisplayDate for malformed input.
const InvalidDateMarker = "invalid date"

// calendarDateRe checks the YYYY-MM-DD shape. Month and day digit ranges
// are part of the shape; calendar validity is not (day 31 of a 30-day month
// passes). That limitation is deliberate and matched by the UI.
var calendarDateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// Today returns the caller's local calendar day as YYYY-MM-DD. It is meant
// for default form values only; comparison arithmetic goes through
// DaysUntil, which fixes the frame at UTC midnight.
func Today() string {
	return time.Now().Format(calendarDateLayout)
}

// IsValidCalendarDate reports whether s has the calendar-date shape.
// This is a shape check only, not a calendar-validity check.
func IsValidCalendarDate(s string) bool {
	return calendarDateRe.MatchString(s)
}

// DateOnly returns the YYYY-MM-DD prefix of a timestamp-or-date string, or
// "" when the prefix does not have the calendar-date shape. It never fails.
func DateOnly(raw string) string {
	if len(raw) < len(calendarDateLayout) {
		return ""
	}
	prefix := raw[:len(calendarDateLayout)]
	if !IsValidCalendarDate(prefix) {
		return ""
	}
	return prefix
}

// DisplayDate formats a timestamp-or-date string for presentation as
// "02 Jan 2006". The day is taken from the calendar-date prefix and
// rendered at UTC midnight, so "2025-11-26T23:59:59.000Z" and "2025-11-26"
// always show the same day no matter the caller's offset. Malformed input
// yields the InvalidDateMarker string.
func DisplayDate(raw string) string {
	day := DateOnly(raw)
	if day == "" {
		return InvalidDateMarker
	}
	t, err := time.ParseInLocation(calendarDateLayout, day, time.UTC)
	if err != nil {
		return InvalidDateMarker
	}
	return t.Format("02 Jan 2006")
}

// ValidateRange checks a start/end calendar-date pair. An empty bound is
// not validated; when both bounds are present, start must not sort after
// end. String comparison is valid because the zero-padded format makes
// lexicographic order equal chronological order.
func ValidateRange(start, end string) error {
	if start != "" && !IsValidCalendarDate(start) {
		return fmt.Errorf("start date %q is not a valid calendar date", start)
	}
	if end != "" && !IsValidCalendarDate(end) {
		return fmt.Errorf("end date %q is not a valid calendar date", end)
	}
	if start != "" && end != "" && start > end {
		return fmt.Errorf("start date %q is after end date %q", start, end)
	}
	return nil
}

// DaysUntil computes target minus today in whole days. Negative for past
// dates, 0 for today or malformed input.
func DaysUntil(target string) int {
	return DaysUntilAt(target, time.Now())
}

// DaysUntilAt is DaysUntil evaluated against an explicit clock. Both
// operands are pinned to UTC midnight before subtracting and the
// difference rounds up, so "later today" and "tomorrow" stay distinct.
func DaysUntilAt(target string, now time.Time) int {
	day := DateOnly(target)
	if day == "" {
		return 0
	}
	targetMidnight, err := time.ParseInLocation(calendarDateLayout, day, time.UTC)
	if err != nil {
		return 0
	}

	y, m, d := now.Date()
	todayMidnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	diff := targetMidnight.Sub(todayMidnight)
	return int(math.Ceil(diff.Hours() / 24))
}
