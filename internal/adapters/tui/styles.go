package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/frameconv/internal/ui/output"
	"go.trai.ch/frameconv/internal/ui/style"
)

type styles struct {
	title      lipgloss.Style
	muted      lipgloss.Style
	resolved   lipgloss.Style
	unresolved lipgloss.Style
	failure    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:      r.NewStyle().Bold(true).Foreground(style.Iris),
		muted:      r.NewStyle().Foreground(style.Slate),
		resolved:   r.NewStyle().Foreground(style.Green),
		unresolved: r.NewStyle().Foreground(style.Yellow),
		failure:    r.NewStyle().Foreground(style.Red).Bold(true),
	}
}

// NewRenderer returns a lipgloss renderer for w that honours NO_COLOR.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	profile := output.ColorProfile()
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return r
}
