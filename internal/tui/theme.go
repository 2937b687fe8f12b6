package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/flightleg/internal/flight"
)

// theme is the palette for one of the two display modes.
type theme struct {
	name      string
	text      lipgloss.Color
	muted     lipgloss.Color
	accent    lipgloss.Color
	upcoming  lipgloss.Color
	inFlight  lipgloss.Color
	arrived   lipgloss.Color
	pillText  lipgloss.Color
	border    lipgloss.Color
	highlight lipgloss.Color
}

func themeFor(dark bool) theme {
	if dark {
		return theme{
			name:      "dark",
			text:      lipgloss.Color("252"),
			muted:     lipgloss.Color("241"),
			accent:    lipgloss.Color("69"),
			upcoming:  lipgloss.Color("208"),
			inFlight:  lipgloss.Color("39"),
			arrived:   lipgloss.Color("46"),
			pillText:  lipgloss.Color("16"),
			border:    lipgloss.Color("238"),
			highlight: lipgloss.Color("226"),
		}
	}
	return theme{
		name:      "light",
		text:      lipgloss.Color("235"),
		muted:     lipgloss.Color("245"),
		accent:    lipgloss.Color("25"),
		upcoming:  lipgloss.Color("166"),
		inFlight:  lipgloss.Color("26"),
		arrived:   lipgloss.Color("28"),
		pillText:  lipgloss.Color("231"),
		border:    lipgloss.Color("250"),
		highlight: lipgloss.Color("130"),
	}
}

func (t theme) statusColor(s flight.Status) lipgloss.Color {
	switch s {
	case flight.InFlight:
		return t.inFlight
	case flight.Arrived:
		return t.arrived
	default:
		return t.upcoming
	}
}

func (t theme) mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.muted)
}
