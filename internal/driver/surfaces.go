package driver

import (
	"time"

	"github.com/ensigniasec/flightleg/internal/countdown"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
)

// Clock abstracts time operations for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock uses actual system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Countdown is the active countdown pushed to the countdown widget.
type Countdown struct {
	Label  string          `json:"label"`
	Target time.Time       `json:"target"`
	Units  countdown.Units `json:"units"`
}

// Display surfaces. Each is optional; a nil surface is skipped on every tick.
type (
	CountdownSurface interface {
		SetCountdown(c Countdown)
	}
	StatusSurface interface {
		SetStatus(s flight.Status)
	}
	ProgressSurface interface {
		SetProgress(pct float64)
	}
	MarkerSurface interface {
		SetMarker(m motion.Marker)
	}
	ProximitySurface interface {
		SetProximity(left, right float64)
	}
	MapSurface interface {
		SetPathFraction(t float64)
	}
	FactSurface interface {
		SetFacts(f Facts)
	}
	// ElapsedSurface receives the time flown on the current segment.
	ElapsedSurface interface {
		SetElapsed(d time.Duration)
	}
	// AudioCue is fire-and-forget; it is called once per status transition.
	AudioCue interface {
		Play(s flight.Status)
	}
	// Highlighter receives the one-shot arrival highlight.
	Highlighter interface {
		Highlight(s flight.Status)
	}
)

// Surfaces is the set of display collaborators the driver writes to.
type Surfaces struct {
	Countdown CountdownSurface
	Status    StatusSurface
	Progress  ProgressSurface
	Marker    MarkerSurface
	Proximity ProximitySurface
	Map       MapSurface
	Facts     FactSurface
	Elapsed   ElapsedSurface
	Audio     AudioCue
	Highlight Highlighter
}
