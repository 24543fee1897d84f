// Package ui provides the Bubble Tea console for the flash loan engine.
package ui

import (
	"time"
)

// Message types for TUI updates

// ExecutionMsg is sent when a loan cycle finishes, committed or aborted.
type ExecutionMsg struct {
	Timestamp time.Time
	Asset     string
	Variant   string
	Amount    string
	Profit    string
	Hops      int
	Committed bool
	ErrorCode string
}

// StatsMsg is sent when the treasury counters change.
type StatsMsg struct {
	Executions       int64
	Committed        int64
	Aborted          int64
	CumulativeProfit string
	Paused           bool
}

// ConnectionStatusMsg is sent when a collaborator's status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step   string // Current step name
	Status string // "pending", "starting", "done", "failed"
}
