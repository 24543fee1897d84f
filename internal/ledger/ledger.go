// Package ledger implements the token ledger the engine settles against.
//
// The original execution platform discarded every intermediate effect of a
// failed unit of work. Outside such a host that guarantee has to be built:
// every balance and allowance mutation is journaled, and a failed cycle
// rolls the journal back to the checkpoint taken at cycle entry.
package ledger

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// Ledger errors
var (
	ErrInsufficientFunds     = errors.New("ledger: insufficient funds")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
	ErrBadCheckpoint         = errors.New("ledger: checkpoint out of range")
)

type balanceKey struct {
	holder common.Address
	asset  asset.ID
}

type allowanceKey struct {
	owner   common.Address
	spender common.Address
	asset   asset.ID
}

// undo holds the prior value of exactly one mutated cell.
type undo struct {
	balance   *balanceKey
	allowance *allowanceKey
	prev      *big.Int // nil means the cell did not exist
}

// Checkpoint marks a position in the journal a cycle can roll back to.
type Checkpoint int

// Ledger is a thread-safe, journaled account/balance/allowance store.
type Ledger struct {
	mu         sync.Mutex
	balances   map[balanceKey]*big.Int
	allowances map[allowanceKey]*big.Int
	journal    []undo
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances:   make(map[balanceKey]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
	}
}

// Checkpoint returns a marker for the current journal position.
func (l *Ledger) Checkpoint() Checkpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Checkpoint(len(l.journal))
}

// RollbackTo undoes every mutation recorded after cp, restoring balances
// and allowances bit-exactly.
func (l *Ledger) RollbackTo(cp Checkpoint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cp < 0 || int(cp) > len(l.journal) {
		return ErrBadCheckpoint
	}

	for i := len(l.journal) - 1; i >= int(cp); i-- {
		u := l.journal[i]
		switch {
		case u.balance != nil:
			if u.prev == nil {
				delete(l.balances, *u.balance)
			} else {
				l.balances[*u.balance] = new(big.Int).Set(u.prev)
			}
		case u.allowance != nil:
			if u.prev == nil {
				delete(l.allowances, *u.allowance)
			} else {
				l.allowances[*u.allowance] = new(big.Int).Set(u.prev)
			}
		}
	}

	l.journal = l.journal[:cp]
	return nil
}

// Release discards journal entries after cp without undoing them.
// Called once a cycle has committed.
func (l *Ledger) Release(cp Checkpoint) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cp >= 0 && int(cp) <= len(l.journal) {
		l.journal = l.journal[:cp]
	}
}

// BalanceOf returns the holder's balance of the given asset.
func (l *Ledger) BalanceOf(holder common.Address, a *asset.Asset) asset.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bal, ok := l.balances[balanceKey{holder, a.ID()}]; ok {
		return asset.NewAmount(a, bal)
	}
	return asset.Zero(a)
}

// Allowance returns what spender may pull from owner in the given asset.
func (l *Ledger) Allowance(owner, spender common.Address, a *asset.Asset) asset.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()

	if al, ok := l.allowances[allowanceKey{owner, spender, a.ID()}]; ok {
		return asset.NewAmount(a, al)
	}
	return asset.Zero(a)
}

// Mint credits the holder with the given amount. Used to seed liquidity.
func (l *Ledger) Mint(holder common.Address, amt asset.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{holder, amt.Asset().ID()}
	l.recordBalance(key)
	l.credit(key, amt.Raw())
}

// Transfer moves amt from one holder to another.
func (l *Ledger) Transfer(from, to common.Address, amt asset.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transferLocked(from, to, amt)
}

// Approve sets (not increments) spender's allowance over owner's funds.
func (l *Ledger) Approve(owner, spender common.Address, amt asset.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := allowanceKey{owner, spender, amt.Asset().ID()}
	l.recordAllowance(key)
	l.allowances[key] = amt.Raw()
}

// TransferFrom moves amt from `from` to `to`, consuming spender's allowance.
func (l *Ledger) TransferFrom(spender, from, to common.Address, amt asset.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	akey := allowanceKey{from, spender, amt.Asset().ID()}
	allowed, ok := l.allowances[akey]
	if !ok || allowed.Cmp(amt.Raw()) < 0 {
		return ErrInsufficientAllowance
	}

	if err := l.transferLocked(from, to, amt); err != nil {
		return err
	}

	l.recordAllowance(akey)
	l.allowances[akey] = new(big.Int).Sub(allowed, amt.Raw())
	return nil
}

// -----------------------------------------------------------------------------
// Internals (callers hold l.mu)
// -----------------------------------------------------------------------------

func (l *Ledger) transferLocked(from, to common.Address, amt asset.Amount) error {
	if amt.IsZero() {
		return nil
	}

	fromKey := balanceKey{from, amt.Asset().ID()}
	bal, ok := l.balances[fromKey]
	if !ok || bal.Cmp(amt.Raw()) < 0 {
		return ErrInsufficientFunds
	}

	toKey := balanceKey{to, amt.Asset().ID()}
	l.recordBalance(fromKey)
	l.recordBalance(toKey)

	l.balances[fromKey] = new(big.Int).Sub(bal, amt.Raw())
	l.credit(toKey, amt.Raw())
	return nil
}

func (l *Ledger) credit(key balanceKey, raw *big.Int) {
	if cur, ok := l.balances[key]; ok {
		l.balances[key] = new(big.Int).Add(cur, raw)
	} else {
		l.balances[key] = new(big.Int).Set(raw)
	}
}

func (l *Ledger) recordBalance(key balanceKey) {
	u := undo{balance: &key}
	if cur, ok := l.balances[key]; ok {
		u.prev = new(big.Int).Set(cur)
	}
	l.journal = append(l.journal, u)
}

func (l *Ledger) recordAllowance(key allowanceKey) {
	u := undo{allowance: &key}
	if cur, ok := l.allowances[key]; ok {
		u.prev = new(big.Int).Set(cur)
	}
	l.journal = append(l.journal, u)
}
