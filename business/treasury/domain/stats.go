// Package domain holds the treasury's accounting values.
package domain

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Stats accumulates across units of work. Both fields are monotonically
// non-decreasing and mutate only when a cycle commits.
type Stats struct {
	mu               sync.RWMutex
	executionCount   int64
	cumulativeProfit decimal.Decimal
}

// NewStats returns zeroed stats.
func NewStats() *Stats {
	return &Stats{}
}

// Restore seeds the counters from persisted history. Called once at
// startup, before any cycle runs.
func (s *Stats) Restore(count int64, profit decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executionCount = count
	s.cumulativeProfit = profit
}

// RecordExecution adds one committed cycle's profit. Negative profit
// never reaches here: the engine rejects non-profitable round trips.
func (s *Stats) RecordExecution(profit decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executionCount++
	s.cumulativeProfit = s.cumulativeProfit.Add(profit)
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() (int64, decimal.Decimal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.executionCount, s.cumulativeProfit
}
