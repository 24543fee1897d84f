package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNilRaw          = errors.New("asset: nil raw value")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrAssetMismatch   = errors.New("asset: cannot operate on different assets")
	ErrNegativeResult  = errors.New("asset: operation would result in negative amount")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
)

// Amount is an immutable value object representing a quantity of an asset.
// The raw value is always in the token's smallest unit.
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount creates an Amount from a raw big.Int value in smallest units.
func NewAmount(a *Asset, raw *big.Int) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}

	return Amount{
		raw:   new(big.Int).Set(raw), // defensive copy
		asset: a,
	}
}

// Zero creates a zero Amount for the given asset.
func Zero(a *Asset) Amount {
	return NewAmount(a, big.NewInt(0))
}

// NewAmountFromInt64 creates an Amount from an int64 raw value.
func NewAmountFromInt64(a *Asset, raw int64) Amount {
	if raw < 0 {
		panic(ErrNegativeAmount)
	}
	return NewAmount(a, big.NewInt(raw))
}

// Raw returns a copy of the raw big.Int value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.raw)
}

// Asset returns the asset this amount is denominated in.
func (a Amount) Asset() *Asset {
	return a.asset
}

// IsZero returns true if the amount is zero (or uninitialized).
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.raw != nil && a.raw.Sign() > 0
}

// -----------------------------------------------------------------------------
// Arithmetic (type-safe, same asset only)
// -----------------------------------------------------------------------------

// Add adds two amounts of the same asset.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.checkSameAsset(b); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.asset, new(big.Int).Add(a.raw, b.raw)), nil
}

// Sub subtracts b from a (same asset only, never negative).
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.checkSameAsset(b); err != nil {
		return Amount{}, err
	}
	if a.raw.Cmp(b.raw) < 0 {
		return Amount{}, ErrNegativeResult
	}
	return NewAmount(a.asset, new(big.Int).Sub(a.raw, b.raw)), nil
}

// MustAdd adds two amounts, panics on error.
func (a Amount) MustAdd(b Amount) Amount {
	result, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return result
}

// MustSub subtracts b from a, panics on error.
func (a Amount) MustSub(b Amount) Amount {
	result, err := a.Sub(b)
	if err != nil {
		panic(err)
	}
	return result
}

// PercentOf returns amount * pct / 100 with integer truncation.
// Used for the withdrawal tip split; pct must be <= 100.
func (a Amount) PercentOf(pct uint8) Amount {
	if pct > 100 {
		panic("asset: percent above 100")
	}
	out := new(big.Int).Mul(a.raw, big.NewInt(int64(pct)))
	out.Div(out, big.NewInt(100))
	return NewAmount(a.asset, out)
}

// MulDivBps returns amount * bps / 10000 with integer truncation.
// Used for facility premiums and venue fees.
func (a Amount) MulDivBps(bps int64) Amount {
	if bps < 0 {
		panic(ErrNegativeAmount)
	}
	out := new(big.Int).Mul(a.raw, big.NewInt(bps))
	out.Div(out, big.NewInt(10_000))
	return NewAmount(a.asset, out)
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// Cmp compares two amounts of the same asset: -1 if a < b, 0 if equal, 1 if a > b.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.checkSameAsset(b); err != nil {
		return 0, err
	}
	return a.raw.Cmp(b.raw), nil
}

// Equals returns true if both amounts are the same asset and value.
func (a Amount) Equals(b Amount) bool {
	if a.asset == nil || b.asset == nil {
		return a.asset == b.asset
	}
	if !a.asset.ID().Equals(b.asset.ID()) {
		return false
	}
	return a.raw.Cmp(b.raw) == 0
}

// GreaterThan returns true if a > b.
func (a Amount) GreaterThan(b Amount) (bool, error) {
	cmp, err := a.Cmp(b)
	return cmp > 0, err
}

// GreaterThanOrEqual returns true if a >= b.
func (a Amount) GreaterThanOrEqual(b Amount) (bool, error) {
	cmp, err := a.Cmp(b)
	return cmp >= 0, err
}

// LessThan returns true if a < b.
func (a Amount) LessThan(b Amount) (bool, error) {
	cmp, err := a.Cmp(b)
	return cmp < 0, err
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) (Amount, error) {
	cmp, err := a.Cmp(b)
	if err != nil {
		return Amount{}, err
	}
	if cmp <= 0 {
		return a, nil
	}
	return b, nil
}

// -----------------------------------------------------------------------------
// Boundary functions (decimal conversion - display/parsing only)
// -----------------------------------------------------------------------------

// ToDecimal converts the amount to decimal.Decimal for display.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(a.asset.Decimals()))
}

// ParseDecimal creates an Amount from a decimal value.
func ParseDecimal(a *Asset, d decimal.Decimal) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Shift(int32(a.Decimals()))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}

	return NewAmount(a, scaled.BigInt()), nil
}

// ParseString creates an Amount from a string decimal value.
func ParseString(a *Asset, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal string: %w", err)
	}
	return ParseDecimal(a, d)
}

// String returns a human-readable representation (e.g. "1.5 WETH").
func (a Amount) String() string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().String(), a.asset.Symbol())
}

func (a Amount) checkSameAsset(b Amount) error {
	if a.asset == nil || b.asset == nil {
		return ErrNilAsset
	}
	if !a.asset.ID().Equals(b.asset.ID()) {
		return fmt.Errorf("%w: %s vs %s", ErrAssetMismatch, a.asset.Symbol(), b.asset.Symbol())
	}
	return nil
}
