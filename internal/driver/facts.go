package driver

import (
	"fmt"

	"github.com/ensigniasec/flightleg/internal/countdown"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
)

// Place is a named point on the route.
type Place struct {
	Name string         `json:"name"`
	Pos  motion.LatLong `json:"pos"`
}

// Route describes the three stops. Coordinates are optional; Known reports
// whether every stop carries a position.
type Route struct {
	Origin      Place `json:"origin"`
	Waypoint    Place `json:"waypoint"`
	Destination Place `json:"destination"`
	Known       bool  `json:"known"`
}

// Facts are the precomputed strings shown in the fact panel.
type Facts struct {
	Route           string `json:"route"`
	SegmentDistance string `json:"segment_distance,omitempty"`
	TotalDistance   string `json:"total_distance,omitempty"`
	SegmentDuration string `json:"segment_duration"`
	JourneyDuration string `json:"journey_duration"`
	InvalidSchedule bool   `json:"invalid_schedule,omitempty"`
}

// NewFacts derives the fact panel contents once; nothing in it depends on now.
func NewFacts(s flight.Schedule, r Route) Facts {
	f := Facts{
		Route:           routeLabel(r),
		SegmentDuration: countdown.Human(s.SegmentDuration()),
		JourneyDuration: countdown.Human(s.JourneyDuration()),
		InvalidSchedule: s.Degenerate(),
	}
	if r.Known {
		firstKm := motion.DistanceKm(r.Origin.Pos, r.Waypoint.Pos)
		secondKm := motion.DistanceKm(r.Waypoint.Pos, r.Destination.Pos)
		firstNM := motion.DistanceNM(r.Origin.Pos, r.Waypoint.Pos)
		secondNM := motion.DistanceNM(r.Waypoint.Pos, r.Destination.Pos)
		f.SegmentDistance = formatDistance(secondKm, secondNM)
		f.TotalDistance = formatDistance(firstKm+secondKm, firstNM+secondNM)
	}
	return f
}

func routeLabel(r Route) string {
	name := func(p Place, fallback string) string {
		if p.Name == "" {
			return fallback
		}
		return p.Name
	}
	return fmt.Sprintf("%s → %s → %s", name(r.Origin, "origin"), name(r.Waypoint, "stopover"), name(r.Destination, "destination"))
}

func formatDistance(km, nm float64) string {
	return fmt.Sprintf("%.0f km (%.0f nm)", km, nm)
}
