package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeString represents a wall-clock time of day in "HH:MM" format.
// It is the canonical minute-precision time type used by booking slots:
// lexicographic order of valid values matches chronological order.
type TimeString string

var (
	// ErrInvalidTimeString is returned when the value is not a valid "HH:MM" time
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange is returned when arithmetic leaves the 00:00-24:00 day window
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// NewTimeString creates a TimeString from the time-of-day part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and validates an "HH:MM" value.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes creates a TimeString from minutes since midnight.
// Accepts 0..1440; 1440 renders as "24:00" and is only valid as an exclusive
// interval end.
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > 24*60 {
		return "", ErrTimeOutOfRange
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// String returns the raw "HH:MM" value.
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the "HH:MM" format. "24:00" is allowed as an interval end.
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes returns the value as minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTimeString
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hours, &minutes); err != nil {
		return 0, ErrInvalidTimeString
	}

	if minutes < 0 || minutes > 59 {
		return 0, ErrInvalidTimeString
	}
	if hours < 0 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, ErrInvalidTimeString
	}

	return hours*60 + minutes, nil
}

// Hour returns the hour-of-day component (0-23). Invalid values return 0.
func (t TimeString) Hour() int {
	minutes, err := t.Minutes()
	if err != nil {
		return 0
	}
	h := minutes / 60
	if h > 23 {
		h = 23
	}
	return h
}

// AddMinutes returns the time shifted forward by the given number of minutes.
func (t TimeString) AddMinutes(delta int) (TimeString, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(minutes + delta)
}

// IsBefore reports whether t is strictly earlier than other.
// Invalid values compare as zero.
func (t TimeString) IsBefore(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a < b
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a > b
}

// MinutesUntil returns the number of minutes from t to other.
// Negative when other is earlier than t.
func (t TimeString) MinutesUntil(other TimeString) (int, error) {
	a, err := t.Minutes()
	if err != nil {
		return 0, err
	}
	b, err := other.Minutes()
	if err != nil {
		return 0, err
	}
	return b - a, nil
}
