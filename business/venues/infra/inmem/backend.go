// Package inmem provides in-process venue liquidity backed by the token
// ledger. Pool reserves are ledger balances of per-pool accounts, so a
// cycle rollback restores them together with every other balance.
package inmem

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
	"github.com/Anuj0x/AaveFlashToolkit/internal/ledger"
)

// Backend errors
var (
	ErrNoPool           = errors.New("inmem: no pool for pair")
	ErrDeadlineExceeded = errors.New("inmem: order deadline exceeded")
	ErrDrainedPool      = errors.New("inmem: pool has no output reserve")
)

// feeDenominator scales fees expressed in hundredths of a bip.
const feeDenominator = 1_000_000

type poolKey struct {
	venue    domain.ID
	a, b     asset.ID // canonical order, a < b by address
	feeParam uint32
}

// Backend prices swaps with the constant-product formula and settles them
// against the ledger.
type Backend struct {
	ledger *ledger.Ledger

	mu    sync.RWMutex
	pools map[poolKey]common.Address
}

// NewBackend creates an empty backend over the ledger.
func NewBackend(led *ledger.Ledger) *Backend {
	return &Backend{
		ledger: led,
		pools:  make(map[poolKey]common.Address),
	}
}

// VenueAccount derives the spender identity a venue pulls input funds
// under. Deterministic per venue id.
func (b *Backend) VenueAccount(venue domain.ID) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte("venue:" + venue))[12:])
}

// AddPool registers a pool and mints its reserves to the pool account.
func (b *Backend) AddPool(venue domain.ID, reserveA, reserveB asset.Amount, feeParam uint32) common.Address {
	key := canonicalKey(venue, reserveA.Asset().ID(), reserveB.Asset().ID(), feeParam)
	account := poolAccount(key)

	b.mu.Lock()
	b.pools[key] = account
	b.mu.Unlock()

	b.ledger.Mint(account, reserveA)
	b.ledger.Mint(account, reserveB)
	return account
}

// Execute settles one swap: pulls the input amount from the trader under
// the venue's allowance, prices the output against current reserves, and
// pays the trader from the pool account. feeHundredthsBps is the venue's
// effective fee for this order.
func (b *Backend) Execute(ctx context.Context, order domain.Order, feeHundredthsBps uint32) (asset.Amount, error) {
	if err := ctx.Err(); err != nil {
		return asset.Amount{}, err
	}
	if !order.Deadline.IsZero() && time.Now().After(order.Deadline) {
		return asset.Amount{}, ErrDeadlineExceeded
	}

	key := canonicalKey(order.Venue, order.TokenIn.ID(), order.TokenOut.ID(), order.FeeParam)
	b.mu.RLock()
	pool, ok := b.pools[key]
	b.mu.RUnlock()
	if !ok {
		return asset.Amount{}, fmt.Errorf("%w: %s %s/%s fee=%d",
			ErrNoPool, order.Venue, order.TokenIn.Symbol(), order.TokenOut.Symbol(), order.FeeParam)
	}

	reserveIn := b.ledger.BalanceOf(pool, order.TokenIn)
	reserveOut := b.ledger.BalanceOf(pool, order.TokenOut)
	if reserveOut.IsZero() {
		return asset.Amount{}, ErrDrainedPool
	}

	out := constantProductOut(order.AmountIn.Raw(), reserveIn.Raw(), reserveOut.Raw(), feeHundredthsBps)
	amountOut := asset.NewAmount(order.TokenOut, out)

	spender := b.VenueAccount(order.Venue)
	if err := b.ledger.TransferFrom(spender, order.Trader, pool, order.AmountIn); err != nil {
		return asset.Amount{}, err
	}
	if err := b.ledger.Transfer(pool, order.Trader, amountOut); err != nil {
		return asset.Amount{}, err
	}
	return amountOut, nil
}

// constantProductOut computes amountOut = inAfterFee * reserveOut /
// (reserveIn + inAfterFee), with the fee in hundredths of a bip.
func constantProductOut(amountIn, reserveIn, reserveOut *big.Int, feeHundredthsBps uint32) *big.Int {
	inAfterFee := new(big.Int).Mul(amountIn, big.NewInt(feeDenominator-int64(feeHundredthsBps)))
	inAfterFee.Div(inAfterFee, big.NewInt(feeDenominator))

	num := new(big.Int).Mul(inAfterFee, reserveOut)
	den := new(big.Int).Add(reserveIn, inAfterFee)
	if den.Sign() == 0 {
		return big.NewInt(0)
	}
	return num.Div(num, den)
}

func canonicalKey(venue domain.ID, a, b asset.ID, feeParam uint32) poolKey {
	if bytesGreater(a.Address(), b.Address()) {
		a, b = b, a
	}
	return poolKey{venue: venue, a: a, b: b, feeParam: feeParam}
}

func poolAccount(key poolKey) common.Address {
	buf := []byte("pool:" + key.venue)
	buf = append(buf, key.a.Address().Bytes()...)
	buf = append(buf, key.b.Address().Bytes()...)
	buf = append(buf, byte(key.feeParam>>24), byte(key.feeParam>>16), byte(key.feeParam>>8), byte(key.feeParam))
	return common.BytesToAddress(crypto.Keccak256(buf)[12:])
}

func bytesGreater(a, b common.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
