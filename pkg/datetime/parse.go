// Package datetime provides the date layouts used across the site.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format the booking form submits.
	DateLayout = "2006-01-02"

	// LongDateLayout is the weekday-qualified date shown in booking emails.
	LongDateLayout = "Monday, January 2, 2006"

	// ReportDateLayout is the date printed on estimate reports.
	ReportDateLayout = "January 2, 2006"
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a YYYY-MM-DD calendar date, ignoring surrounding space.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return t, nil
}

// LongDate reformats a YYYY-MM-DD date as e.g. "Saturday, March 15, 2025".
func LongDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Format(LongDateLayout), nil
}

// ReportDate formats t as e.g. "March 15, 2025".
func ReportDate(t time.Time) string {
	return t.Format(ReportDateLayout)
}
