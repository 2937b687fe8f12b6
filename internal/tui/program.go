package tui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled; cancellation is a clean exit. Log output is redirected to logOut for the lifetime of the
// program; a nil logOut discards it.
func Run(ctx context.Context, opts Options, logOut io.Writer) error {
	if opts.Bell == nil {
		opts.Bell = os.Stdout
	}
	model := NewModel(opts)

	// Keep log lines from corrupting the alt screen.
	if logOut == nil {
		logOut = io.Discard
	}
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(logOut)
	defer logrus.SetOutput(prevOut)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok && m.driver != nil {
		m.driver.Stop()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
