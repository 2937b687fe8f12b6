// Package countdown splits durations into the whole units shown by countdown widgets.
package countdown

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Units is a non-negative duration broken into whole parts. Hours is the
// remainder after whole days; TotalHours carries no day split.
type Units struct {
	Days       int64 `json:"days"`
	Hours      int64 `json:"hours"`
	TotalHours int64 `json:"total_hours"`
	Minutes    int64 `json:"minutes"`
	Seconds    int64 `json:"seconds"`
}

// ToUnits decomposes d. Negative durations yield the zero value, and for
// d >= 0: Days*86400 + Hours*3600 + Minutes*60 + Seconds == floor(d in seconds).
func ToUnits(d time.Duration) Units {
	if d <= 0 {
		return Units{}
	}
	total := int64(d / time.Second)
	return Units{
		Days:       total / secondsPerDay,
		Hours:      total % secondsPerDay / secondsPerHour,
		TotalHours: total / secondsPerHour,
		Minutes:    total % secondsPerHour / secondsPerMinute,
		Seconds:    total % secondsPerMinute,
	}
}

// TotalSeconds recombines the units.
func (u Units) TotalSeconds() int64 {
	return u.Days*secondsPerDay + u.Hours*secondsPerHour + u.Minutes*secondsPerMinute + u.Seconds
}

// Clock renders the units as "HH:MM:SS", prefixed with "Nd " when at least a day remains.
func (u Units) Clock() string {
	if u.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", u.Days, u.Hours, u.Minutes, u.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", u.Hours, u.Minutes, u.Seconds)
}

// Human returns a compact, human-readable duration string.
// Examples: 45s, 12m30s, 6h05m, 2d03h.
func Human(d time.Duration) string {
	u := ToUnits(d)
	switch {
	case u.Days > 0:
		return fmt.Sprintf("%dd%02dh", u.Days, u.Hours)
	case u.Hours > 0:
		return fmt.Sprintf("%dh%02dm", u.Hours, u.Minutes)
	case u.Minutes > 0:
		return fmt.Sprintf("%dm%02ds", u.Minutes, u.Seconds)
	default:
		return fmt.Sprintf("%ds", u.Seconds)
	}
}
