package asset

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe registry of known assets.
type Registry struct {
	byID     map[ID]*Asset
	bySymbol map[string][]*Asset
	mu       sync.RWMutex
}

// NewRegistry creates a new empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[ID]*Asset),
		bySymbol: make(map[string][]*Asset),
	}
}

// Register adds an asset to the registry.
// Panics if an asset with the same ID is already registered.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := a.ID()
	if _, exists := r.byID[id]; exists {
		panic(fmt.Sprintf("asset: %s already registered", id))
	}

	r.byID[id] = a
	r.bySymbol[a.Symbol()] = append(r.bySymbol[a.Symbol()], a)
}

// Get retrieves an asset by its ID.
func (r *Registry) Get(id ID) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// MustGet retrieves an asset by its ID, panics if not found.
func (r *Registry) MustGet(id ID) *Asset {
	a, ok := r.Get(id)
	if !ok {
		panic(fmt.Sprintf("asset: %s not found in registry", id))
	}
	return a
}

// GetToken retrieves a token by chain and address.
func (r *Registry) GetToken(chainID uint64, address common.Address) (*Asset, bool) {
	return r.Get(NewTokenID(chainID, address))
}

// GetBySymbolAndChain retrieves an asset by symbol and chain ID.
func (r *Registry) GetBySymbolAndChain(symbol string, chainID uint64) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.bySymbol[symbol] {
		if a.ChainID() == chainID {
			return a, true
		}
	}
	return nil, false
}

// ResolveToken returns the registered asset for an address, or a generic
// 18-decimal placeholder when the token is unknown.
func (r *Registry) ResolveToken(chainID uint64, address common.Address) *Asset {
	if a, ok := r.GetToken(chainID, address); ok {
		return a
	}
	return New(NewTokenID(chainID, address), address.Hex()[:8], 18)
}

// All returns all registered assets.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Asset, 0, len(r.byID))
	for _, a := range r.byID {
		result = append(result, a)
	}
	return result
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
