package utils

import (
	"time"

	apperrors "nutripae-rh/pkg/errors"
)

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date (YYYY-MM-DD) into midnight UTC.
func ParseDate(field, raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidArgument("%s must be a date in YYYY-MM-DD format", field)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr returns nil for a nil date so optional dates stay null in JSON.
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// DateOf drops the clock part of t as seen in loc and returns that calendar day at midnight UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
