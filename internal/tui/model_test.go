//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/flightleg/internal/config"
	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
	"github.com/ensigniasec/flightleg/internal/storage"
)

//nolint:gochecknoglobals // fixed reference instant for tests
var waypointDeparture = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func testConfig() *config.Config {
	return &config.Config{
		Schedule: flight.NewSchedule(
			waypointDeparture.Add(-4*time.Hour),
			waypointDeparture,
			waypointDeparture.Add(7*time.Hour),
		),
		Route: driver.Route{
			Origin:      driver.Place{Name: "ZRH", Pos: motion.LatLong{Lat: 47.4647, Lon: 8.5492}},
			Waypoint:    driver.Place{Name: "DXB", Pos: motion.LatLong{Lat: 25.2532, Lon: 55.3657}},
			Destination: driver.Place{Name: "SIN", Pos: motion.LatLong{Lat: 1.3644, Lon: 103.9915}},
			Known:       true,
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestNewModel_Disabled(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "config error",
			opts: Options{CfgErr: errors.New("departure_waypoint: missing offset")},
			want: "missing offset",
		},
		{
			name: "no config",
			opts: Options{},
			want: "no flight configured",
		},
		{
			name: "overlapping proximity",
			opts: Options{Cfg: func() *config.Config {
				c := testConfig()
				c.Proximity = &motion.Range{Low: 0, High: 60}
				return c
			}()},
			want: "proximity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(tt.opts)
			assert.False(t, m.Active())
			assert.Nil(t, m.Init())

			view := m.View()
			assert.Contains(t, view, "countdown disabled")
			assert.Contains(t, view, tt.want)
		})
	}
}

func TestModel_TicksAndTransitions(t *testing.T) {
	clock := &stubClock{now: waypointDeparture.Add(-time.Hour)}
	var bell bytes.Buffer
	m := NewModel(Options{Cfg: testConfig(), Clock: clock, Bell: &bell})
	require.True(t, m.Active())

	require.NotNil(t, m.Init())
	assert.Equal(t, flight.Upcoming, m.board.status.s)
	assert.Equal(t, "departs stopover in", m.board.countdown.c.Label)
	assert.Zero(t, m.board.bell.rings, "first tick must not ring")

	clock.now = waypointDeparture.Add(3*time.Hour + 30*time.Minute)
	m, cmd := update(t, m, refreshMsg{At: clock.now})
	require.NotNil(t, cmd, "refresh reschedules itself")
	assert.Equal(t, flight.InFlight, m.board.status.s)
	assert.InDelta(t, 50.0, m.board.progress.pct, 1e-9)
	assert.InDelta(t, 1.0, m.board.marker.m.Intensity, 1e-9)
	assert.Equal(t, 1, m.board.bell.rings)
	assert.Empty(t, bell.String(), "Update never writes the bell itself")
	assert.False(t, m.board.banner.on)
	view := m.View()
	assert.Contains(t, view, "elapsed")
	assert.Contains(t, view, "3h30m")

	m, _ = update(t, m, refreshMsg{At: clock.now})
	assert.Equal(t, 1, m.board.bell.rings, "no repeat without a status change")

	clock.now = waypointDeparture.Add(8 * time.Hour)
	m, _ = update(t, m, refreshMsg{At: clock.now})
	assert.Equal(t, flight.Arrived, m.board.status.s)
	assert.Equal(t, 2, m.board.bell.rings)
	assert.True(t, m.board.banner.on)
	assert.Contains(t, m.View(), "Welcome to SIN")
}

func TestBell_Drain(t *testing.T) {
	var out bytes.Buffer
	b := bell{w: &out}
	assert.Nil(t, b.drain(), "nothing queued")

	b.Play(flight.InFlight)
	b.Play(flight.Arrived)
	assert.Empty(t, out.String(), "Play only queues")

	cmd := b.drain()
	require.NotNil(t, cmd)
	assert.Equal(t, 2, b.rings)
	assert.Nil(t, b.drain(), "queue is emptied")
	assert.Nil(t, cmd())
	assert.Equal(t, "\a\a", out.String())

	muted := bell{}
	muted.Play(flight.Arrived)
	assert.Nil(t, muted.drain())
}

func TestModel_View(t *testing.T) {
	clock := &stubClock{now: waypointDeparture.Add(2 * time.Hour)}
	m := NewModel(Options{Cfg: testConfig(), Clock: clock})
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 40})

	view := m.View()
	for _, want := range []string{"IN FLIGHT", "arrives in", "05:00:00", "DXB", "SIN", "ZRH → DXB → SIN", "position"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "Help")

	m, _ = update(t, m, runes("?"))
	assert.Contains(t, m.View(), "toggle this help")
}

func TestModel_Keys(t *testing.T) {
	prefs := storage.OpenPreferences(filepath.Join(t.TempDir(), "preferences.json"))
	m := NewModel(Options{Cfg: testConfig(), Prefs: prefs, Clock: &stubClock{now: waypointDeparture}})
	require.False(t, prefs.Dark())

	assert.Contains(t, m.View(), "theme (light)")
	m, _ = update(t, m, runes("t"))
	assert.True(t, prefs.Dark())
	assert.Contains(t, m.View(), "theme (dark)")
	m, _ = update(t, m, runes("t"))
	assert.False(t, prefs.Dark())

	m, _ = update(t, m, runes("h"))
	assert.True(t, m.helpVisible)

	m, cmd := update(t, m, runes("q"))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Landing...\n", m.View())

	// Refresh after quit is ignored.
	_, cmd = update(t, m, refreshMsg{At: time.Now()})
	assert.Nil(t, cmd)
}

func TestContentWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, defaultWidth - sidePadding},
		{60, 60 - sidePadding},
		{300, maxWidth - sidePadding},
		{10, minTrack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Model{width: tt.width}.contentWidth(), "width %d", tt.width)
	}
}

func TestColumn(t *testing.T) {
	assert.Equal(t, 0, column(0, 41))
	assert.Equal(t, 20, column(50, 41))
	assert.Equal(t, 40, column(100, 41))
	assert.Equal(t, 40, column(250, 41))
	assert.Equal(t, 0, column(-5, 41))
	assert.Equal(t, 0, column(50, 1))
}

func TestProximityLayout(t *testing.T) {
	w := proximityWidget{leftLabel: "DXB", rightLabel: "SIN"}

	w.SetProximity(0, 40)
	line := w.layout(41)
	assert.Len(t, []rune(line), 41)
	assert.True(t, strings.HasPrefix(line, "DXB"))
	assert.Equal(t, 41-16-3, strings.Index(line, "SIN"))

	w.SetProximity(40, 0)
	line = w.layout(41)
	assert.Equal(t, 16, strings.Index(line, "DXB"))
	assert.True(t, strings.HasSuffix(line, "SIN"))

	// Labels never overlap on a cramped line.
	w.SetProximity(50, 50)
	line = w.layout(8)
	assert.Contains(t, line, "DXB")
	assert.Contains(t, line, "SIN")
}

func TestMarkerGlyph(t *testing.T) {
	tests := []struct {
		tilt float64
		want string
	}{
		{-2, "↗"},
		{0, "✈"},
		{0.5, "✈"},
		{2, "↘"},
	}
	for _, tt := range tests {
		w := markerWidget{maxTilt: 2, m: motion.Marker{Tilt: tt.tilt}}
		assert.Equal(t, tt.want, w.glyph(), "tilt %v", tt.tilt)
	}
	assert.Equal(t, "✈", (&markerWidget{m: motion.Marker{Tilt: 5}}).glyph())
}

func TestFormatLatLong(t *testing.T) {
	assert.Equal(t, "1.36°N 103.99°E", formatLatLong(motion.LatLong{Lat: 1.3644, Lon: 103.9915}))
	assert.Equal(t, "33.95°S 118.40°W", formatLatLong(motion.LatLong{Lat: -33.9461, Lon: -118.4}))
}
