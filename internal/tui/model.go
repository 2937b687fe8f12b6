package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/flightleg/internal/config"
	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/storage"
)

// Model is the root Bubble Tea model.
type Model struct {
	driver *driver.Driver
	board  *board
	prefs  *storage.Preferences

	progress progress.Model
	spinner  spinner.Model
	keys     keyMap

	// diagnostic is shown instead of the widgets when the driver is inactive.
	diagnostic string

	helpVisible bool
	width       int
	height      int
	quitting    bool
}

// Options wires a Model. Cfg may be nil when configuration failed; CfgErr
// then carries the diagnostic.
type Options struct {
	Cfg    *config.Config
	CfgErr error
	Prefs  *storage.Preferences
	Clock  driver.Clock
	// Bell receives the audio cue. Nil mutes it.
	Bell io.Writer
}

// NewModel constructs a Model. Configuration problems never fail the model:
// the widgets stay blank and the diagnostic is displayed.
func NewModel(opts Options) Model {
	prefs := opts.Prefs
	if prefs == nil {
		prefs = storage.NewPreferences(nil)
	}
	m := Model{
		prefs:    prefs,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		keys:     newKeyMap(),
	}

	switch {
	case opts.CfgErr != nil:
		m.diagnostic = opts.CfgErr.Error()
	case opts.Cfg == nil:
		m.diagnostic = "no flight configured"
	}
	if m.diagnostic != "" {
		logrus.Warnf("flight display disabled: %s", m.diagnostic)
		m.board = newBoard(driver.Route{}, nil)
		return m
	}

	dopts := opts.Cfg.DriverOptions(driver.Surfaces{})
	dopts.Clock = opts.Clock
	dopts.InstallID = prefs.InstallID()
	b := newBoard(dopts.Route, opts.Bell)
	dopts.Surfaces = b.surfaces()
	d, err := driver.New(dopts)
	if err != nil {
		logrus.Warnf("flight display disabled: %v", err)
		m.diagnostic = err.Error()
		m.board = newBoard(driver.Route{}, nil)
		return m
	}
	b.marker.maxTilt = d.MaxTilt()
	m.driver = d
	m.board = b
	return m
}

// Active reports whether the temporal display is running.
func (m Model) Active() bool { return m.driver != nil }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.driver == nil {
		return nil
	}
	m.driver.Refresh()
	return tea.Batch(m.spinner.Tick, m.scheduleRefresh())
}

// scheduleRefresh schedules the next refresh tick.
func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg{At: t} })
}
