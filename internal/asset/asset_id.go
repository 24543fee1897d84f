// Package asset provides a type-safe model for the tokens the engine holds,
// borrows, and swaps. The core uses big.Int for exact smallest-unit math;
// decimal.Decimal appears only at boundaries (config, display, store).
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ID uniquely identifies a token by chain and contract address.
// For native coins the address is zero. The symbol is never identity.
type ID struct {
	chainID uint64
	address common.Address
}

// NewNativeID creates an ID for a chain's native coin.
func NewNativeID(chainID uint64) ID {
	return ID{chainID: chainID}
}

// NewTokenID creates an ID for an ERC20 token.
func NewTokenID(chainID uint64, addr common.Address) ID {
	if addr == (common.Address{}) {
		panic("asset: token address cannot be zero, use NewNativeID for native coins")
	}
	return ID{chainID: chainID, address: addr}
}

// ChainID returns the chain this token lives on.
func (id ID) ChainID() uint64 {
	return id.chainID
}

// Address returns the token contract address (zero for native coins).
func (id ID) Address() common.Address {
	return id.address
}

// IsNative returns true for a chain's native coin.
func (id ID) IsNative() bool {
	return id.address == (common.Address{})
}

// Equals compares two IDs for equality.
func (id ID) Equals(other ID) bool {
	return id.chainID == other.chainID && id.address == other.address
}

// String returns a human-readable representation.
func (id ID) String() string {
	if id.IsNative() {
		return fmt.Sprintf("chain:%d/native", id.chainID)
	}
	return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
}
