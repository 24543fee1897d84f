package asset

import (
	"math/big"
	"testing"
)

func TestAmount_PercentOf(t *testing.T) {
	tests := []struct {
		name string
		raw  int64
		pct  uint8
		want int64
	}{
		{"zero_percent", 1000, 0, 0},
		{"full_amount", 1000, 100, 1000},
		{"half", 1000, 50, 500},
		{"truncates_down", 999, 10, 99},
		{"one_percent_of_small", 99, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAmountFromInt64(USDC, tt.raw)
			got := a.PercentOf(tt.pct)
			if got.Raw().Int64() != tt.want {
				t.Errorf("PercentOf(%d) = %d, want %d", tt.pct, got.Raw().Int64(), tt.want)
			}
		})
	}
}

func TestAmount_MulDivBps(t *testing.T) {
	tests := []struct {
		name string
		raw  int64
		bps  int64
		want int64
	}{
		{"nine_bps_premium", 1_000_000, 9, 900},
		{"thirty_bps_fee", 1_000_000, 30, 3000},
		{"zero_bps", 1_000_000, 0, 0},
		{"truncates_down", 101, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAmountFromInt64(USDC, tt.raw)
			got := a.MulDivBps(tt.bps)
			if got.Raw().Int64() != tt.want {
				t.Errorf("MulDivBps(%d) = %d, want %d", tt.bps, got.Raw().Int64(), tt.want)
			}
		})
	}
}

func TestAmount_SubRejectsNegativeResult(t *testing.T) {
	a := NewAmountFromInt64(WETH, 10)
	b := NewAmountFromInt64(WETH, 20)

	if _, err := a.Sub(b); err != ErrNegativeResult {
		t.Errorf("Sub underflow error = %v, want ErrNegativeResult", err)
	}
}

func TestAmount_CrossAssetArithmeticRejected(t *testing.T) {
	a := NewAmountFromInt64(WETH, 10)
	b := NewAmountFromInt64(USDC, 10)

	if _, err := a.Add(b); err == nil {
		t.Error("Add across assets should fail")
	}
	if _, err := a.Cmp(b); err == nil {
		t.Error("Cmp across assets should fail")
	}
}

func TestAmount_RawIsDefensiveCopy(t *testing.T) {
	raw := big.NewInt(100)
	a := NewAmount(USDC, raw)

	raw.SetInt64(999)
	if a.Raw().Int64() != 100 {
		t.Error("constructor should copy the raw value")
	}

	a.Raw().SetInt64(777)
	if a.Raw().Int64() != 100 {
		t.Error("Raw should return a copy")
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantRaw string
		wantErr bool
	}{
		{"whole_usdc", "100", "100000000", false},
		{"fractional_usdc", "0.5", "500000", false},
		{"too_many_decimals", "0.0000001", "", true},
		{"negative", "-1", "", true},
		{"garbage", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(USDC, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Raw().String() != tt.wantRaw {
				t.Errorf("ParseString(%q) = %s, want %s", tt.input, got.Raw(), tt.wantRaw)
			}
		})
	}
}
