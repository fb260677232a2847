// Package tui implements the live status dashboard and the status rendering
// shared with the status command.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/frameconv/internal/core/domain"
)

// DefaultRefresh is the interval between two status polls.
const DefaultRefresh = time.Second

// headerHeight counts the summary lines, the blank separator and the footer.
const headerHeight = 4

// StatusSource is the part of the service client the dashboard polls.
type StatusSource interface {
	Status(ctx context.Context) (*domain.Status, error)
}

// StatusMsg carries the result of one status poll.
type StatusMsg struct {
	Status *domain.Status
	Err    error
}

// TickMsg triggers the next poll.
type TickMsg time.Time

// Model is the bubbletea model of `frameconv top`.
type Model struct {
	source  StatusSource
	view    *StatusView
	refresh time.Duration

	Status *domain.Status
	Err    error
	Width  int
	Height int
	Offset int
}

// NewModel creates a dashboard that polls source every refresh.
func NewModel(source StatusSource, view *StatusView, refresh time.Duration) *Model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return &Model{source: source, view: view, refresh: refresh}
}

// Init starts the first poll.
func (m *Model) Init() tea.Cmd {
	return m.poll
}

func (m *Model) poll() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.refresh)
	defer cancel()
	st, err := m.source.Status(ctx)
	return StatusMsg{Status: st, Err: err}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles key presses, resizes and poll results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.Offset > 0 {
				m.Offset--
			}
		case "j", "down":
			if m.Offset < m.maxOffset() {
				m.Offset++
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Offset = min(m.Offset, m.maxOffset())

	case StatusMsg:
		m.Err = msg.Err
		if msg.Err == nil {
			m.Status = msg.Status
			m.Offset = min(m.Offset, m.maxOffset())
		}
		return m, m.tick()

	case TickMsg:
		return m, m.poll
	}
	return m, nil
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.Status == nil {
		if m.Err != nil {
			return m.view.Error(m.Err) + "\n"
		}
		return "Connecting...\n"
	}

	var b strings.Builder
	for _, line := range m.view.Header(m.Status) {
		b.WriteString(line + "\n")
	}
	if m.Err != nil {
		b.WriteString(m.view.Error(m.Err) + "\n")
	} else {
		b.WriteString("\n")
	}

	rows := m.view.Rows(m.Status)
	end := len(rows)
	if visible := m.visibleRows(); visible > 0 {
		end = min(end, m.Offset+visible)
	}
	for _, row := range rows[min(m.Offset, end):end] {
		b.WriteString(row + "\n")
	}
	b.WriteString(m.view.styles.muted.Render("q quit  j/k scroll") + "\n")
	return b.String()
}

func (m *Model) visibleRows() int {
	if m.Height == 0 {
		return 0
	}
	return max(1, m.Height-headerHeight)
}

func (m *Model) maxOffset() int {
	if m.Status == nil || m.visibleRows() == 0 {
		return 0
	}
	return max(0, len(m.Status.Tracked)-m.visibleRows())
}
