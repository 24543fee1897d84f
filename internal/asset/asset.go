package asset

import "github.com/ethereum/go-ethereum/common"

// Asset is the metadata of a token the engine can route through.
// Identity is the ID; symbol and name are display metadata only.
type Asset struct {
	id       ID
	symbol   string
	name     string
	decimals uint8
}

// New creates an Asset.
func New(id ID, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}
	return &Asset{id: id, symbol: symbol, decimals: decimals}
}

// NewWithName creates an Asset carrying a human-readable name.
func NewWithName(id ID, symbol, name string, decimals uint8) *Asset {
	a := New(id, symbol, decimals)
	a.name = name
	return a
}

// ID returns the unique identifier for this asset.
func (a *Asset) ID() ID {
	return a.id
}

// Symbol returns the ticker symbol (e.g. "USDC").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// Address returns the token contract address (zero for native coins).
func (a *Asset) Address() common.Address {
	return a.id.Address()
}

// ChainID returns the chain this asset lives on.
func (a *Asset) ChainID() uint64 {
	return a.id.ChainID()
}

// Equals compares two Assets by ID.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.id.Equals(other.id)
}

// String returns the symbol.
func (a *Asset) String() string {
	return a.symbol
}
