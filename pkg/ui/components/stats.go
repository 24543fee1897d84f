// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds engine statistics for display.
type Stats struct {
	Executions       int64
	Committed        int64
	Aborted          int64
	CumulativeProfit string
	Paused           bool
}

// StatsComponent renders engine statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	abortStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	commitRate := float64(0)
	if s.stats.Executions > 0 {
		commitRate = float64(s.stats.Committed) / float64(s.stats.Executions) * 100
	}

	abortedDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Aborted))
	if s.stats.Aborted > 0 {
		abortedDisplay = abortStyle.Render(fmt.Sprintf("%d", s.stats.Aborted))
	}

	state := valueStyle.Render("running")
	if s.stats.Paused {
		state = pausedStyle.Render("PAUSED")
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Cycles: %s  │  Committed: %s (%.1f%%)  │  Aborted: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Executions)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Committed)),
			commitRate,
			abortedDisplay,
		) +
		fmt.Sprintf("Cumulative profit: %s  │  Engine: %s",
			valueStyle.Render(s.stats.CumulativeProfit),
			state,
		)
}
