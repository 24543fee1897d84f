// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ExecutionRow represents one loan cycle in the list.
type ExecutionRow struct {
	Timestamp string
	Asset     string
	Variant   string
	Amount    string
	Profit    string
	Hops      int
	Committed bool
	ErrorCode string
}

// ExecutionsComponent renders the recent executions list.
type ExecutionsComponent struct {
	rows    []ExecutionRow
	maxRows int
	offset  int
}

// NewExecutionsComponent creates a new executions component.
func NewExecutionsComponent(maxRows int) *ExecutionsComponent {
	return &ExecutionsComponent{
		rows:    make([]ExecutionRow, 0),
		maxRows: maxRows,
	}
}

// Add adds a new execution to the top of the list.
func (e *ExecutionsComponent) Add(row ExecutionRow) {
	e.rows = append([]ExecutionRow{row}, e.rows...)
	if len(e.rows) > e.maxRows {
		e.rows = e.rows[:e.maxRows]
	}
	e.offset = 0
}

// Clear clears all executions.
func (e *ExecutionsComponent) Clear() {
	e.rows = make([]ExecutionRow, 0)
	e.offset = 0
}

// ScrollUp scrolls the list up one row.
func (e *ExecutionsComponent) ScrollUp() {
	if e.offset > 0 {
		e.offset--
	}
}

// ScrollDown scrolls the list down one row.
func (e *ExecutionsComponent) ScrollDown() {
	if e.offset < len(e.rows)-1 {
		e.offset++
	}
}

// View renders the executions component.
func (e *ExecutionsComponent) View() string {
	if len(e.rows) == 0 {
		return "No executions yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	committedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	abortedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	result := headerStyle.Render(fmt.Sprintf("EXECUTIONS (last %d)\n", e.maxRows))
	result += "┌──────────┬───────┬──────────────┬────────────┬────────────┬──────────────────────┐\n"
	result += "│   Time   │ Asset │   Variant    │   Amount   │   Profit   │        Status        │\n"
	result += "├──────────┼───────┼──────────────┼────────────┼────────────┼──────────────────────┤\n"

	visible := e.rows
	if e.offset > 0 && e.offset < len(e.rows) {
		visible = e.rows[e.offset:]
	}

	for _, row := range visible {
		statusStyle := committedStyle
		status := "✓ committed"
		if !row.Committed {
			statusStyle = abortedStyle
			status = "✗ " + row.ErrorCode
		}

		result += fmt.Sprintf("│ %-8s │ %-5s │ %-12s │ %10s │ %10s │ %-20s │\n",
			row.Timestamp,
			row.Asset,
			row.Variant,
			row.Amount,
			row.Profit,
			statusStyle.Render(status),
		)
	}

	result += "└──────────┴───────┴──────────────┴────────────┴────────────┴──────────────────────┘"

	return result
}
