// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// StartOfMonthUTC returns midnight of the first day of t's month in UTC
func StartOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsAgoUTC returns t shifted back by the given number of calendar months
func MonthsAgoUTC(t time.Time, months int) time.Time {
	return t.UTC().AddDate(0, -months, 0)
}

// FormatRecordedAt renders a timestamp the way delay reasons are shown to users
func FormatRecordedAt(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
