package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders against the menu's writer, so output that is not a
// terminal (pipes, tests) carries no escape codes.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		success: r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#e53935")),
		muted:   r.NewStyle().Faint(true),
	}
}
