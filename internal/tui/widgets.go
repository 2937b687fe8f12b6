package tui

import (
	"fmt"
	"io"
	gomath "math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/flightleg/internal/countdown"
	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
)

// Each widget is a driver surface: the driver writes values, View reads them.
// A widget that was never written renders its empty state.

type countdownWidget struct {
	set bool
	c   driver.Countdown
}

func (w *countdownWidget) SetCountdown(c driver.Countdown) { w.c, w.set = c, true }

func (w *countdownWidget) render(th theme) string {
	if !w.set {
		return th.mutedStyle().Render("⏰ --:--:--")
	}
	digits := lipgloss.NewStyle().Foreground(th.accent).Bold(true).Render(w.c.Units.Clock())
	return fmt.Sprintf("⏰ %s %s", w.c.Label, digits)
}

type statusPill struct {
	set bool
	s   flight.Status
}

func (w *statusPill) SetStatus(s flight.Status) { w.s, w.set = s, true }

func (w *statusPill) render(th theme, spin string) string {
	if !w.set {
		return th.mutedStyle().Render("[ ----- ]")
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(th.pillText).
		Background(th.statusColor(w.s))
	label := w.s.String()
	if w.s == flight.InFlight && spin != "" {
		label = strings.TrimSpace(spin) + " " + label
	}
	return style.Render(label)
}

type progressWidget struct {
	set bool
	pct float64
}

func (w *progressWidget) SetProgress(pct float64) { w.pct, w.set = pct, true }

func (w *progressWidget) render(bar progress.Model, width int) string {
	bar.Width = width
	return bar.ViewAs(w.pct / percentScale)
}

type markerWidget struct {
	set     bool
	m       motion.Marker
	maxTilt float64
}

func (w *markerWidget) SetMarker(m motion.Marker) { w.m, w.set = m, true }

// glyph leans the plane by the sign of the tilt once it passes a third of the maximum.
func (w *markerWidget) glyph() string {
	if w.maxTilt <= 0 {
		return "✈"
	}
	switch ratio := w.m.Tilt / w.maxTilt; {
	case ratio < -tiltGlyphThreshold:
		return "↗"
	case ratio > tiltGlyphThreshold:
		return "↘"
	default:
		return "✈"
	}
}

// render draws the track line with the marker and a shadow line whose
// density follows the intensity.
func (w *markerWidget) render(th theme, width int) string {
	track := []rune(strings.Repeat("·", width))
	shadow := []rune(strings.Repeat(" ", width))
	if !w.set {
		return th.mutedStyle().Render(string(track)) + "\n" + string(shadow)
	}
	col := column(w.m.Placement, width)
	ramp := []rune(shadeRamp)
	level := int(gomath.Round(motion.Clamp(w.m.Intensity, 0, 1) * float64(len(ramp)-1)))

	left := th.mutedStyle().Render(string(track[:col]))
	plane := lipgloss.NewStyle().Foreground(th.accent).Bold(true).Render(w.glyph())
	right := th.mutedStyle().Render(string(track[col+1:]))
	shadow[col] = ramp[level]
	return left + plane + right + "\n" + th.mutedStyle().Render(string(shadow))
}

type proximityWidget struct {
	set         bool
	left, right float64
	leftLabel   string
	rightLabel  string
}

func (w *proximityWidget) SetProximity(left, right float64) {
	w.left, w.right, w.set = left, right, true
}

// layout places the left label left% in from the left edge and the right
// label right% in from the right edge.
func (w *proximityWidget) layout(width int) string {
	buf := []rune(strings.Repeat(" ", width))
	l, r := []rune(w.leftLabel), []rune(w.rightLabel)

	lStart := column(w.left, width)
	if lStart+len(l) > width {
		lStart = max(width-len(l), 0)
	}
	rEnd := width - column(w.right, width)
	rStart := max(rEnd-len(r), lStart+len(l)+1)
	if rStart+len(r) > width {
		rStart = max(width-len(r), 0)
	}
	if lStart+len(l) >= rStart {
		lStart = max(rStart-len(l)-1, 0)
	}

	copy(buf[lStart:], l)
	copy(buf[rStart:], r)
	return string(buf)
}

func (w *proximityWidget) render(th theme, width int) string {
	if !w.set {
		return ""
	}
	return lipgloss.NewStyle().Foreground(th.text).Render(w.layout(width))
}

type mapWidget struct {
	set   bool
	t     float64
	route driver.Route
}

func (w *mapWidget) SetPathFraction(t float64) { w.t, w.set = t, true }

func (w *mapWidget) render(th theme, width int) string {
	from, to := placeName(w.route.Waypoint, "STOP"), placeName(w.route.Destination, "DEST")
	inner := width - lipgloss.Width(from) - lipgloss.Width(to) - 4
	if inner < 1 {
		inner = 1
	}
	if !w.set {
		return th.mutedStyle().Render(fmt.Sprintf("%s ○%s○ %s", from, strings.Repeat("─", inner), to))
	}
	col := column(w.t*percentScale, inner)
	flown := lipgloss.NewStyle().Foreground(th.accent).Render(strings.Repeat("━", col))
	ahead := th.mutedStyle().Render(strings.Repeat("─", inner-col-1))
	dot := lipgloss.NewStyle().Foreground(th.highlight).Render("●")
	line := fmt.Sprintf("%s ○%s%s%s○ %s", from, flown, dot, ahead, to)
	if !w.route.Known {
		return line
	}
	at := motion.PointOnPath(w.route.Waypoint.Pos, w.route.Destination.Pos, w.t)
	return line + "\n" + th.mutedStyle().Render("position "+formatLatLong(at))
}

type factPanel struct {
	set        bool
	f          driver.Facts
	elapsedSet bool
	elapsed    time.Duration
}

func (w *factPanel) SetFacts(f driver.Facts) { w.f, w.set = f, true }

func (w *factPanel) SetElapsed(d time.Duration) { w.elapsed, w.elapsedSet = d, true }

func (w *factPanel) render(th theme) string {
	if !w.set {
		return ""
	}
	label := th.mutedStyle()
	rows := []string{
		label.Render("route    ") + w.f.Route,
		label.Render("segment  ") + w.f.SegmentDuration,
		label.Render("journey  ") + w.f.JourneyDuration,
	}
	if w.elapsedSet {
		rows = append(rows, label.Render("elapsed  ")+countdown.Human(w.elapsed))
	}
	if w.f.SegmentDistance != "" {
		rows = append(rows,
			label.Render("distance ")+w.f.SegmentDistance,
			label.Render("total    ")+w.f.TotalDistance,
		)
	}
	if w.f.InvalidSchedule {
		rows = append(rows, lipgloss.NewStyle().Foreground(th.upcoming).Render("⚠ arrival is not after stopover departure"))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.border).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

type arrivalBanner struct {
	on   bool
	name string
}

func (w *arrivalBanner) Highlight(flight.Status) { w.on = true }

func (w *arrivalBanner) render(th theme) string {
	if !w.on {
		return ""
	}
	return lipgloss.NewStyle().Bold(true).Foreground(th.highlight).Render("🛬 Welcome to " + w.name)
}

// bell is the audio cue. Play only queues a ring; drain hands the queued
// rings to Bubble Tea as a command so Update never writes to the terminal.
type bell struct {
	w       io.Writer
	pending int
	rings   int
}

func (b *bell) Play(flight.Status) {
	if b.w != nil {
		b.pending++
	}
}

// drain returns a command writing every queued ring, or nil when none are queued.
func (b *bell) drain() tea.Cmd {
	n := b.pending
	if n == 0 {
		return nil
	}
	b.pending = 0
	b.rings += n
	w := b.w
	return func() tea.Msg {
		if _, err := io.WriteString(w, strings.Repeat("\a", n)); err != nil {
			logrus.Debugf("bell write failed: %v", err)
		}
		return nil
	}
}

// board groups every widget owned by one Model.
type board struct {
	countdown countdownWidget
	status    statusPill
	progress  progressWidget
	marker    markerWidget
	proximity proximityWidget
	routeMap  mapWidget
	facts     factPanel
	banner    arrivalBanner
	bell      bell
}

func newBoard(route driver.Route, bellOut io.Writer) *board {
	dest := placeName(route.Destination, "destination")
	return &board{
		proximity: proximityWidget{leftLabel: placeName(route.Waypoint, "stopover"), rightLabel: dest},
		routeMap:  mapWidget{route: route},
		banner:    arrivalBanner{name: dest},
		bell:      bell{w: bellOut},
	}
}

func (b *board) surfaces() driver.Surfaces {
	return driver.Surfaces{
		Countdown: &b.countdown,
		Status:    &b.status,
		Progress:  &b.progress,
		Marker:    &b.marker,
		Proximity: &b.proximity,
		Map:       &b.routeMap,
		Facts:     &b.facts,
		Elapsed:   &b.facts,
		Audio:     &b.bell,
		Highlight: &b.banner,
	}
}

// column maps a percentage onto a character cell in [0, width-1].
func column(pct float64, width int) int {
	if width <= 1 {
		return 0
	}
	c := int(gomath.Round(motion.Clamp(pct, 0, percentScale) / percentScale * float64(width-1)))
	return motion.Clamp(c, 0, width-1)
}

func placeName(p driver.Place, fallback string) string {
	if p.Name == "" {
		return fallback
	}
	return p.Name
}

func formatLatLong(p motion.LatLong) string {
	ns, ew := "N", "E"
	if p.Lat < 0 {
		ns = "S"
	}
	if p.Lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", gomath.Abs(p.Lat), ns, gomath.Abs(p.Lon), ew)
}
