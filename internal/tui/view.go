package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return "Landing...\n"
	}

	th := themeFor(m.prefs.Dark())
	width := m.contentWidth()

	var b strings.Builder
	if m.helpVisible {
		b.WriteString(renderHelp(th))
		b.WriteString("\n\n")
	}
	b.WriteString(renderHeader(th))
	b.WriteString("\n\n")

	if !m.Active() {
		b.WriteString(renderDiagnostic(th, m.diagnostic))
		b.WriteString("\n\n")
		b.WriteString(renderFooter(th))
		return panel(th, b.String())
	}

	bd := m.board
	countdown := bd.countdown.render(th)
	pill := bd.status.render(th, m.spinner.View())
	pad := width - lipgloss.Width(countdown) - lipgloss.Width(pill)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(countdown)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(pill)
	b.WriteString("\n\n")

	b.WriteString(bd.progress.render(m.progress, width))
	b.WriteString("\n\n")
	b.WriteString(bd.marker.render(th, width))
	b.WriteString("\n")
	if p := bd.proximity.render(th, width); p != "" {
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(bd.routeMap.render(th, width))
	b.WriteString("\n\n")
	if f := bd.facts.render(th); f != "" {
		b.WriteString(f)
		b.WriteString("\n")
	}
	if banner := bd.banner.render(th); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderFooter(th))
	return panel(th, b.String())
}

// contentWidth is the usable width inside the panel, capped to maxWidth and
// never narrower than minTrack.
func (m Model) contentWidth() int {
	w := defaultWidth
	if m.width > 0 {
		w = min(m.width, maxWidth)
	}
	return max(w-sidePadding, minTrack)
}

func panel(th theme, content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.border).
		Padding(0, 1).
		Render(strings.TrimRight(content, "\n"))
}

func renderHeader(th theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(th.accent).Render("✈ flightleg")
	subtitle := th.mutedStyle().Render(" connecting flight countdown")
	return title + subtitle
}

func renderDiagnostic(th theme, msg string) string {
	style := lipgloss.NewStyle().Foreground(th.upcoming)
	return style.Render("⚠ countdown disabled\n") + th.mutedStyle().Render(msg)
}

func renderFooter(th theme) string {
	return th.mutedStyle().Render("esc/q: quit • t: theme (" + th.name + ") • h/?: help")
}

func renderHelp(th theme) string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(th.accent)
	content := []string{
		"Help",
		"",
		"h/?: toggle this help",
		"t: switch light/dark theme",
		"q/ctrl+c: quit",
	}
	return border.Render(strings.Join(content, "\n"))
}
