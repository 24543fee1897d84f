// Package domain contains the authorization and pause state machine.
package domain

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
)

// Gate holds the owner identity, the authorized-caller set and the pause
// flag. Every mutating entry point of the engine checks against it. All
// mutation goes through Gate methods so the invariants are testable in
// isolation.
type Gate struct {
	mu      sync.RWMutex
	owner   common.Address
	callers map[common.Address]bool
	paused  bool
}

// NewGate creates a gate owned by the given address.
func NewGate(owner common.Address) *Gate {
	return &Gate{
		owner:   owner,
		callers: make(map[common.Address]bool),
	}
}

// Owner returns the current owner.
func (g *Gate) Owner() common.Address {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.owner
}

// TransferOwnership moves ownership to newOwner. Owner-only.
func (g *Gate) TransferOwnership(caller, newOwner common.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if caller != g.owner {
		return apperror.New(apperror.CodeNotOwner, apperror.WithContext("transferOwnership"))
	}
	g.owner = newOwner
	return nil
}

// SetAuthorizedCaller enables or disables one caller. Owner-only,
// available in either pause state.
func (g *Gate) SetAuthorizedCaller(caller, target common.Address, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if caller != g.owner {
		return apperror.New(apperror.CodeNotOwner, apperror.WithContext("setAuthorizedCaller"))
	}
	if enabled {
		g.callers[target] = true
	} else {
		delete(g.callers, target)
	}
	return nil
}

// IsAuthorized reports whether addr may trigger an arbitrage cycle:
// the owner or any enabled caller.
func (g *Gate) IsAuthorized(addr common.Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return addr == g.owner || g.callers[addr]
}

// IsPaused reports the pause flag.
func (g *Gate) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Pause halts cycle entry. Owner-only; administrative operations stay
// available while paused.
func (g *Gate) Pause(caller common.Address) error {
	return g.setPaused(caller, true)
}

// Unpause resumes cycle entry. Owner-only.
func (g *Gate) Unpause(caller common.Address) error {
	return g.setPaused(caller, false)
}

func (g *Gate) setPaused(caller common.Address, paused bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if caller != g.owner {
		return apperror.New(apperror.CodeNotOwner, apperror.WithContext("pause"))
	}
	g.paused = paused
	return nil
}

// RequireOwner fails with NOT_OWNER unless caller is the owner.
func (g *Gate) RequireOwner(caller common.Address) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if caller != g.owner {
		return apperror.New(apperror.CodeNotOwner)
	}
	return nil
}

// RequireCanExecute gates cycle entry: the caller must be authorized and
// the gate must be active. The authorization check runs first so an
// unauthorized caller sees NOT_AUTHORIZED regardless of pause state.
func (g *Gate) RequireCanExecute(caller common.Address) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if caller != g.owner && !g.callers[caller] {
		return apperror.New(apperror.CodeNotAuthorized, apperror.WithContext(caller.Hex()))
	}
	if g.paused {
		return apperror.New(apperror.CodePaused)
	}
	return nil
}
