// Package report renders a single driver tick as text or JSON for
// non-interactive use.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ensigniasec/flightleg/internal/countdown"
	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
)

const reportWidth = 60

// Snapshot records every value the driver pushes. It implements all driver
// surfaces; Record is meant to be the driver Observer.
type Snapshot struct {
	At             time.Time        `json:"at"`
	Status         flight.Status    `json:"status"`
	Progress       float64          `json:"progress"`
	Countdown      driver.Countdown `json:"countdown"`
	Remaining      driver.Remaining `json:"remaining"`
	Marker         motion.Marker    `json:"marker"`
	ProximityLeft  float64          `json:"proximity_left"`
	ProximityRight float64          `json:"proximity_right"`
	PathFraction   float64          `json:"path_fraction"`
	Elapsed        time.Duration    `json:"elapsed"`
	Facts          driver.Facts     `json:"facts"`
	Cues           []flight.Status  `json:"cues,omitempty"`
	Highlighted    bool             `json:"highlighted,omitempty"`
}

func (s *Snapshot) SetCountdown(c driver.Countdown)  { s.Countdown = c }
func (s *Snapshot) SetStatus(st flight.Status)       { s.Status = st }
func (s *Snapshot) SetProgress(pct float64)          { s.Progress = pct }
func (s *Snapshot) SetMarker(m motion.Marker)        { s.Marker = m }
func (s *Snapshot) SetProximity(left, right float64) { s.ProximityLeft, s.ProximityRight = left, right }
func (s *Snapshot) SetPathFraction(t float64)        { s.PathFraction = t }
func (s *Snapshot) SetFacts(f driver.Facts)          { s.Facts = f }
func (s *Snapshot) SetElapsed(d time.Duration)       { s.Elapsed = d }
func (s *Snapshot) Play(st flight.Status)            { s.Cues = append(s.Cues, st) }
func (s *Snapshot) Highlight(flight.Status)          { s.Highlighted = true }
func (s *Snapshot) Record(f driver.Frame)            { s.At, s.Remaining = f.At, f.Remaining }

// Surfaces routes every driver surface to s.
func (s *Snapshot) Surfaces() driver.Surfaces {
	return driver.Surfaces{
		Countdown: s,
		Status:    s,
		Progress:  s,
		Marker:    s,
		Proximity: s,
		Map:       s,
		Facts:     s,
		Elapsed:   s,
		Audio:     s,
		Highlight: s,
	}
}

// Take builds a driver around a fresh Snapshot and ticks it once at the
// driver clock's current time.
func Take(opts driver.Options) (*Snapshot, error) {
	snap := &Snapshot{}
	opts.Surfaces = snap.Surfaces()
	opts.Observer = snap.Record
	d, err := driver.New(opts)
	if err != nil {
		return nil, err
	}
	d.Refresh()
	return snap, nil
}

// Print outputs the snapshot in the requested format.
// If jsonOutput is true, it prints machine-readable JSON.
func Print(w io.Writer, s *Snapshot, jsonOutput bool) error {
	if jsonOutput {
		output, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", reportWidth) + "\n")
	b.WriteString("FLIGHTLEG STATUS\n")
	b.WriteString(strings.Repeat("=", reportWidth) + "\n")
	fmt.Fprintf(&b, "Time:      %s\n", s.At.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Route:     %s\n", s.Facts.Route)
	fmt.Fprintf(&b, "Status:    %s\n", s.Status)
	fmt.Fprintf(&b, "Progress:  %.1f%%\n", s.Progress)
	if s.Status == flight.Arrived {
		b.WriteString("Countdown: arrived\n")
	} else {
		fmt.Fprintf(&b, "Countdown: %s %s\n", s.Countdown.Label, s.Countdown.Units.Clock())
	}

	fmt.Fprintf(&b, "\n⏱  REMAINING\n")
	b.WriteString(strings.Repeat("=", reportWidth) + "\n")
	fmt.Fprintf(&b, "   Origin departure   : %s\n", remaining(s.Remaining.DepartureOrigin))
	fmt.Fprintf(&b, "   Stopover departure : %s\n", remaining(s.Remaining.DepartureWaypoint))
	fmt.Fprintf(&b, "   Arrival            : %s\n", remaining(s.Remaining.ArrivalDestination))

	fmt.Fprintf(&b, "\n🗺  LEG\n")
	b.WriteString(strings.Repeat("=", reportWidth) + "\n")
	fmt.Fprintf(&b, "   Segment  : %s\n", s.Facts.SegmentDuration)
	fmt.Fprintf(&b, "   Journey  : %s\n", s.Facts.JourneyDuration)
	fmt.Fprintf(&b, "   Elapsed  : %s\n", countdown.Human(s.Elapsed))
	if s.Facts.SegmentDistance != "" {
		fmt.Fprintf(&b, "   Distance : %s (total %s)\n", s.Facts.SegmentDistance, s.Facts.TotalDistance)
	}
	if s.Facts.InvalidSchedule {
		b.WriteString("\n⚠️  Arrival is not after the stopover departure; progress is pinned at 100%.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Line formats one frame as a single log-style line for streaming output.
func Line(f driver.Frame) string {
	cd := "arrived"
	if f.Status != flight.Arrived {
		cd = f.Countdown.Label + " " + f.Countdown.Units.Clock()
	}
	line := fmt.Sprintf("%s  %-9s  %5.1f%%  %s", f.At.Format(time.RFC3339), f.Status, f.Progress, cd)
	if f.Transition {
		line += "  *"
	}
	return line
}

func remaining(d time.Duration) string {
	if d <= 0 {
		return "passed"
	}
	return countdown.Human(d)
}
