// Package flight derives countdowns, status, and segment progress for a single
// flight leg from three fixed instants. Every value is a pure function of the
// schedule and the supplied current time.
package flight

import (
	"fmt"
	"strings"
	"time"

	"github.com/ensigniasec/flightleg/internal/validate"
)

// progressMax is the saturated progress value, expressed in percent.
const progressMax = 100.0

// Schedule is the three-instant description of one leg. The tracked segment
// runs from DepartureWaypoint to ArrivalDestination; DepartureOrigin only
// feeds its own countdown.
type Schedule struct {
	DepartureOrigin    time.Time
	DepartureWaypoint  time.Time
	ArrivalDestination time.Time
}

// NewSchedule builds a Schedule from already-resolved instants.
func NewSchedule(origin, waypoint, destination time.Time) Schedule {
	return Schedule{
		DepartureOrigin:    origin,
		DepartureWaypoint:  waypoint,
		ArrivalDestination: destination,
	}
}

// Parse builds a Schedule from three RFC 3339 strings. Each string must carry
// an explicit zone offset so that parsing never depends on the host's zone.
func Parse(origin, waypoint, destination string) (Schedule, error) {
	o, err := parseInstant("departure_origin", origin)
	if err != nil {
		return Schedule{}, err
	}
	w, err := parseInstant("departure_waypoint", waypoint)
	if err != nil {
		return Schedule{}, err
	}
	d, err := parseInstant("arrival_destination", destination)
	if err != nil {
		return Schedule{}, err
	}
	return NewSchedule(o, w, d), nil
}

func parseInstant(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%s: %w", field, ErrMissingInstant)
	}
	t, err := time.Parse(validate.InstantLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", field, v, ErrInvalidInstant)
	}
	return t, nil
}

// TimeRemaining returns target - now. Negative values mean the target is in the past.
func TimeRemaining(target, now time.Time) time.Duration {
	return target.Sub(now)
}

// Status classifies now against the tracked segment. The comparisons are made
// on the raw instants, so a degenerate schedule still yields a status.
func (s Schedule) Status(now time.Time) Status {
	switch {
	case now.Before(s.DepartureWaypoint):
		return Upcoming
	case now.Before(s.ArrivalDestination):
		return InFlight
	default:
		return Arrived
	}
}

// Progress returns the position of now within the segment in percent,
// clamped to [0,100]. A segment of non-positive length is reported as 100.
func (s Schedule) Progress(now time.Time) float64 {
	span := s.SegmentDuration()
	if span <= 0 {
		return progressMax
	}
	elapsed := now.Sub(s.DepartureWaypoint)
	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= span:
		return progressMax
	}
	return float64(elapsed) / float64(span) * progressMax
}

// Degenerate reports whether arrival is not after the waypoint departure.
// Progress still saturates at 100 for such schedules; callers that care can
// surface this as an invalid-schedule warning.
func (s Schedule) Degenerate() bool {
	return !s.ArrivalDestination.After(s.DepartureWaypoint)
}

// SegmentDuration is the length of the tracked segment.
func (s Schedule) SegmentDuration() time.Duration {
	return s.ArrivalDestination.Sub(s.DepartureWaypoint)
}

// JourneyDuration is the time from first departure to final arrival.
func (s Schedule) JourneyDuration() time.Duration {
	return s.ArrivalDestination.Sub(s.DepartureOrigin)
}

// Elapsed returns how far into the segment now is, bounded by the segment.
func (s Schedule) Elapsed(now time.Time) time.Duration {
	span := s.SegmentDuration()
	if span <= 0 {
		return 0
	}
	e := now.Sub(s.DepartureWaypoint)
	if e < 0 {
		return 0
	}
	if e > span {
		return span
	}
	return e
}
