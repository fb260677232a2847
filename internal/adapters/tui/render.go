package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/ui/style"
)

const routeArrow = " → "

// StatusView renders service status snapshots.
type StatusView struct {
	styles styles
}

// NewStatusView creates a view that styles its output with r.
func NewStatusView(r *lipgloss.Renderer) *StatusView {
	return &StatusView{styles: newStyles(r)}
}

// Render returns the full status: a header followed by one row per tracked path.
func (v *StatusView) Render(st *domain.Status) string {
	var b strings.Builder
	for _, line := range v.Header(st) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	for _, row := range v.Rows(st) {
		b.WriteString(row + "\n")
	}
	return b.String()
}

// Header returns the summary lines of st.
func (v *StatusView) Header(st *domain.Status) []string {
	uptime := time.Duration(st.UptimeSecs) * time.Second
	return []string{
		v.styles.title.Render("frameconv") +
			v.styles.muted.Render(fmt.Sprintf("  pid %d  uptime %s", st.PID, uptime)),
		fmt.Sprintf("frames %d  edges %d  subscribers %d  buffered %d",
			st.Frames, st.Edges, st.Subscribers, st.Buffered),
	}
}

// Rows returns one line per tracked path, with the path column aligned.
func (v *StatusView) Rows(st *domain.Status) []string {
	if len(st.Tracked) == 0 {
		return []string{v.styles.muted.Render("no tracked paths")}
	}

	width := 0
	for _, tracked := range st.Tracked {
		width = max(width, lipgloss.Width(tracked.Path.String()))
	}

	rows := make([]string, len(st.Tracked))
	for i, tracked := range st.Tracked {
		path := tracked.Path.String()
		pad := strings.Repeat(" ", width-lipgloss.Width(path))
		if tracked.Resolved {
			rows[i] = v.styles.resolved.Render(style.Check) + " " + path + pad + "  " + formatRoute(tracked.Route)
			continue
		}
		rows[i] = v.styles.unresolved.Render(style.Circle) + " " + path + pad + "  " + v.styles.muted.Render("unresolved")
	}
	return rows
}

// Error renders a failed status fetch.
func (v *StatusView) Error(err error) string {
	return v.styles.failure.Render(style.Cross+" ") + err.Error()
}

func formatRoute(route domain.Path) string {
	parts := make([]string, len(route))
	for i, id := range route {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, routeArrow)
}
