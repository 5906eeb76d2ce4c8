// Package timeutil provides timezone utilities for Dhaka timezone (UTC+6).
// Contest deadlines are stored in UTC but displayed and compared in Dhaka time,
// where most ContestHub creators and participants are located.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DhakaTZ is the Dhaka timezone (UTC+6, no DST).
// Bangladesh abandoned DST after the 2009 experiment, so this is constant year-round.
var DhakaTZ = time.FixedZone("Asia/Dhaka", 6*60*60)

// Now returns the current time in Dhaka timezone.
func Now() time.Time {
	return time.Now().In(DhakaTZ)
}

// ToDhaka converts a time to Dhaka timezone.
func ToDhaka(t time.Time) time.Time {
	return t.In(DhakaTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Dhaka timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, DhakaTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Dhaka timezone.
func StartOfDay(t time.Time) time.Time {
	dhaka := ToDhaka(t)
	return time.Date(dhaka.Year(), dhaka.Month(), dhaka.Day(), 0, 0, 0, 0, DhakaTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Dhaka timezone.
func EndOfDay(t time.Time) time.Time {
	dhaka := ToDhaka(t)
	return time.Date(dhaka.Year(), dhaka.Month(), dhaka.Day(), 23, 59, 59, 999999999, DhakaTZ)
}

// IsDeadlinePassed reports whether a contest deadline is in the past.
func IsDeadlinePassed(due time.Time) bool {
	return due.Before(time.Now())
}

// TimeUntil returns the duration until the deadline, or zero if it has passed.
func TimeUntil(due time.Time) time.Duration {
	d := time.Until(due)
	if d < 0 {
		return 0
	}
	return d
}

// IsSameDay checks if two times fall on the same day in Dhaka timezone.
func IsSameDay(t1, t2 time.Time) bool {
	d1, d2 := ToDhaka(t1), ToDhaka(t2)
	return d1.Year() == d2.Year() && d1.Month() == d2.Month() && d1.Day() == d2.Day()
}

// DaysBetween returns the number of calendar days between two times.
func DaysBetween(t1, t2 time.Time) int {
	s1, s2 := StartOfDay(t1), StartOfDay(t2)
	days := int(s2.Sub(s1).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// FormatDate formats the date portion as "2006-01-02" in Dhaka time.
func FormatDate(t time.Time) string {
	return ToDhaka(t).Format("2006-01-02")
}

// FormatDateTime formats as "2006-01-02 15:04" in Dhaka time.
func FormatDateTime(t time.Time) string {
	return ToDhaka(t).Format("2006-01-02 15:04")
}

// FormatDeadline renders how much time is left until a deadline,
// e.g. "3 days left", "5 hours left", "deadline passed".
func FormatDeadline(due time.Time) string {
	left := time.Until(due)
	switch {
	case left <= 0:
		return "deadline passed"
	case left < time.Hour:
		m := int(left.Minutes())
		if m <= 1 {
			return "1 minute left"
		}
		return fmt.Sprintf("%d minutes left", m)
	case left < 24*time.Hour:
		h := int(left.Hours())
		if h == 1 {
			return "1 hour left"
		}
		return fmt.Sprintf("%d hours left", h)
	default:
		d := int(left.Hours() / 24)
		if d == 1 {
			return "1 day left"
		}
		return fmt.Sprintf("%d days left", d)
	}
}

// ParseDate parses a "2006-01-02" date in Dhaka timezone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, DhakaTZ)
}

// ParseDateTime parses a "2006-01-02 15:04" datetime in Dhaka timezone.
func ParseDateTime(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", value, DhakaTZ)
}
