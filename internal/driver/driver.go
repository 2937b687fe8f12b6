// Package driver turns the temporal model into display updates. A Driver owns
// the schedule, the injected surfaces, and the last observed status; each tick
// recomputes every value from scratch and writes it to its own surface.
package driver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/flightleg/internal/countdown"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
)

// ErrStopped is returned by Run when the driver was stopped before it started.
var ErrStopped = errors.New("driver stopped")

// Options configures a Driver. Zero values pick the defaults.
type Options struct {
	Schedule  flight.Schedule
	Route     Route
	Surfaces  Surfaces
	Clock     Clock
	Interval  time.Duration
	Track     *motion.Range
	Proximity *motion.Range
	// MaxTilt bounds the marker tilt in degrees; nil picks the default and
	// zero disables tilting.
	MaxTilt *float64
	// InstallID tags the driver's log entries with the local install.
	InstallID string
	// Observer, when set, receives every computed frame after the surfaces.
	Observer func(Frame)
}

// Remaining holds the signed time left until each schedule instant.
type Remaining struct {
	DepartureOrigin    time.Duration `json:"departure_origin"`
	DepartureWaypoint  time.Duration `json:"departure_waypoint"`
	ArrivalDestination time.Duration `json:"arrival_destination"`
}

// Frame is everything computed for one tick.
type Frame struct {
	At             time.Time     `json:"at"`
	Status         flight.Status `json:"status"`
	Progress       float64       `json:"progress"`
	Countdown      Countdown     `json:"countdown"`
	Remaining      Remaining     `json:"remaining"`
	Elapsed        time.Duration `json:"elapsed"`
	Marker         motion.Marker `json:"marker"`
	ProximityLeft  float64       `json:"proximity_left"`
	ProximityRight float64       `json:"proximity_right"`
	PathFraction   float64       `json:"path_fraction"`
	Transition     bool          `json:"transition"`
	Degenerate     bool          `json:"degenerate,omitempty"`
}

// Driver pushes derived flight state to display surfaces. Tick is not safe
// for concurrent use; Stop may be called from any goroutine.
type Driver struct {
	id        uuid.UUID
	schedule  flight.Schedule
	surfaces  Surfaces
	clock     Clock
	interval  time.Duration
	track     motion.Range
	proximity motion.Proximity
	maxTilt   float64
	facts     Facts
	observer  func(Frame)
	log       *logrus.Entry

	previous    flight.Status
	hasPrevious bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New validates the motion configuration and builds a Driver. The fact panel
// is filled once here since its contents never change.
func New(opts Options) (*Driver, error) {
	track := motion.Range{Low: defaultTrackLow, High: defaultTrackHigh}
	if opts.Track != nil {
		track = *opts.Track
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	pr := motion.Range{Low: defaultProximityLow, High: defaultProximityHigh}
	if opts.Proximity != nil {
		pr = *opts.Proximity
	}
	proximity, err := motion.NewProximity(pr)
	if err != nil {
		return nil, err
	}
	maxTilt := float64(defaultMaxTiltDeg)
	if opts.MaxTilt != nil {
		maxTilt = *opts.MaxTilt
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	id := uuid.New()
	log := logrus.WithField("driver", id.String())
	if opts.InstallID != "" {
		log = log.WithField("install", opts.InstallID)
	}
	d := &Driver{
		id:        id,
		schedule:  opts.Schedule,
		surfaces:  opts.Surfaces,
		clock:     clock,
		interval:  interval,
		track:     track,
		proximity: proximity,
		maxTilt:   maxTilt,
		facts:     NewFacts(opts.Schedule, opts.Route),
		observer:  opts.Observer,
		log:       log,
		stopCh:    make(chan struct{}),
	}
	if d.facts.InvalidSchedule {
		d.log.Warn("arrival is not after stopover departure; progress is pinned at 100%")
	}
	if fs := d.surfaces.Facts; fs != nil {
		d.guard("facts", func() { fs.SetFacts(d.facts) })
	}
	d.log.WithFields(logrus.Fields{
		"waypoint_departure": d.schedule.DepartureWaypoint,
		"arrival":            d.schedule.ArrivalDestination,
	}).Debug("driver created")
	return d, nil
}

// ID identifies this driver instance in logs.
func (d *Driver) ID() uuid.UUID { return d.id }

// Facts returns the precomputed fact panel contents.
func (d *Driver) Facts() Facts { return d.facts }

// MaxTilt is the tilt bound, in degrees, applied to the marker.
func (d *Driver) MaxTilt() float64 { return d.maxTilt }

// Schedule returns the schedule being tracked.
func (d *Driver) Schedule() flight.Schedule { return d.schedule }

// Refresh ticks at the driver clock's current time.
func (d *Driver) Refresh() Frame {
	return d.Tick(d.clock.Now())
}

// Tick computes all derived values for now and writes them to the surfaces.
// The first tick only records the status; later ticks fire the audio cue and
// arrival highlight once per status change.
func (d *Driver) Tick(now time.Time) Frame {
	f := d.compute(now)

	if c := d.surfaces.Countdown; c != nil {
		d.guard("countdown", func() { c.SetCountdown(f.Countdown) })
	}
	if s := d.surfaces.Status; s != nil {
		d.guard("status", func() { s.SetStatus(f.Status) })
	}
	if p := d.surfaces.Progress; p != nil {
		d.guard("progress", func() { p.SetProgress(f.Progress) })
	}
	if m := d.surfaces.Marker; m != nil {
		d.guard("marker", func() { m.SetMarker(f.Marker) })
	}
	if p := d.surfaces.Proximity; p != nil {
		d.guard("proximity", func() { p.SetProximity(f.ProximityLeft, f.ProximityRight) })
	}
	if m := d.surfaces.Map; m != nil {
		d.guard("map", func() { m.SetPathFraction(f.PathFraction) })
	}
	if e := d.surfaces.Elapsed; e != nil {
		d.guard("elapsed", func() { e.SetElapsed(f.Elapsed) })
	}

	if d.hasPrevious && f.Status != d.previous {
		f.Transition = true
		d.transition(d.previous, f.Status)
	}
	d.previous = f.Status
	d.hasPrevious = true

	if d.observer != nil {
		d.guard("observer", func() { d.observer(f) })
	}
	return f
}

func (d *Driver) compute(now time.Time) Frame {
	s := d.schedule
	status := s.Status(now)
	progress := s.Progress(now)
	t := motion.Normalize(progress)
	left, right := d.proximity.Offsets(progress)

	return Frame{
		At:        now,
		Status:    status,
		Progress:  progress,
		Countdown: d.countdownFor(now, status),
		Remaining: Remaining{
			DepartureOrigin:    flight.TimeRemaining(s.DepartureOrigin, now),
			DepartureWaypoint:  flight.TimeRemaining(s.DepartureWaypoint, now),
			ArrivalDestination: flight.TimeRemaining(s.ArrivalDestination, now),
		},
		Elapsed:        s.Elapsed(now),
		Marker:         motion.MarkerFor(progress, d.track, d.maxTilt),
		ProximityLeft:  left,
		ProximityRight: right,
		PathFraction:   t,
		Degenerate:     d.facts.InvalidSchedule,
	}
}

// countdownFor picks the next instant still ahead for the given status. While
// upcoming, origin departure is only the target when it precedes the stopover
// departure; otherwise the earlier stopover departure is counted down.
func (d *Driver) countdownFor(now time.Time, status flight.Status) Countdown {
	s := d.schedule
	var label string
	var target time.Time
	switch status {
	case flight.Upcoming:
		if now.Before(s.DepartureOrigin) && s.DepartureOrigin.Before(s.DepartureWaypoint) {
			label, target = labelOriginDeparture, s.DepartureOrigin
		} else {
			label, target = labelWaypointDeparture, s.DepartureWaypoint
		}
	case flight.InFlight:
		label, target = labelArrival, s.ArrivalDestination
	default:
		return Countdown{Label: labelArrived, Target: s.ArrivalDestination}
	}
	return Countdown{
		Label:  label,
		Target: target,
		Units:  countdown.ToUnits(flight.TimeRemaining(target, now)),
	}
}

func (d *Driver) transition(from, to flight.Status) {
	d.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Info("flight status changed")
	if a := d.surfaces.Audio; a != nil {
		d.guard("audio", func() { a.Play(to) })
	}
	if h := d.surfaces.Highlight; h != nil && to == flight.Arrived {
		d.guard("highlight", func() { h.Highlight(to) })
	}
}

// guard runs a surface update so that a failing surface never interrupts the tick.
func (d *Driver) guard(surface string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("surface", surface).Debugf("surface update failed: %v", r)
		}
	}()
	fn()
}

// Run ticks immediately and then every interval until ctx is done or Stop is called.
func (d *Driver) Run(ctx context.Context) error {
	select {
	case <-d.stopCh:
		return ErrStopped
	default:
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.Refresh()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.stopCh:
			d.log.Debug("driver stopped")
			return nil
		case <-ticker.C:
			d.Refresh()
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}
