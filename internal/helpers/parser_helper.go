package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseDate accepts RFC3339 or plain YYYY-MM-DD and normalizes to
// midnight UTC so date comparisons work at date resolution.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date format (use RFC3339 or YYYY-MM-DD)")
		}
	}
	return DateOf(t), nil
}

// ParseTimeOfDay validates HH:MM or HH:MM:SS and returns the canonical
// HH:MM form.
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return "", fmt.Errorf("invalid time format (use HH:MM)")
		}
	}
	return t.Format("15:04"), nil
}

// DateOf truncates a timestamp to its date, midnight UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var phoneNumberPattern = regexp.MustCompile(`^\+?\d{9,15}$`)

func ValidPhoneNumber(s string) bool {
	return phoneNumberPattern.MatchString(s)
}
