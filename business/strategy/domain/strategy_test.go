package domain

import (
	"testing"

	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

func hop(venue venues.ID, in, out *asset.Asset) Hop {
	return Hop{
		Venue:    venue,
		TokenIn:  in,
		TokenOut: out,
		MinOut:   asset.Zero(out),
	}
}

func TestNewStrategyHopCount(t *testing.T) {
	twoHop := Route{
		hop(venues.UniswapV3, asset.USDC, asset.WETH),
		hop(venues.SushiSwap, asset.WETH, asset.USDC),
	}
	threeHop := Route{
		hop(venues.UniswapV3, asset.USDC, asset.WETH),
		hop(venues.SushiSwap, asset.WETH, asset.WMATIC),
		hop(venues.QuickSwap, asset.WMATIC, asset.USDC),
	}
	fourHop := Route{
		hop(venues.UniswapV3, asset.USDC, asset.WETH),
		hop(venues.SushiSwap, asset.WETH, asset.WMATIC),
		hop(venues.QuickSwap, asset.WMATIC, asset.DAI),
		hop(venues.UniswapV3, asset.DAI, asset.USDC),
	}
	oneHop := Route{hop(venues.UniswapV3, asset.USDC, asset.USDC)}

	tests := []struct {
		name     string
		variant  Variant
		route    Route
		wantCode apperror.Code
	}{
		{"simple_two_hops", Simple2Step, twoHop, ""},
		{"simple_three_hops", Simple2Step, threeHop, apperror.CodeInvalidStrategy},
		{"triangular_three_hops", Triangular, threeHop, ""},
		{"triangular_two_hops", Triangular, twoHop, apperror.CodeInvalidStrategy},
		{"multihop_two_hops", MultiHop, twoHop, ""},
		{"multihop_four_hops", MultiHop, fourHop, ""},
		{"multihop_one_hop", MultiHop, oneHop, apperror.CodeInvalidStrategy},
		{"empty_route", Simple2Step, Route{}, apperror.CodeInvalidStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStrategy(tt.variant, tt.route)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("NewStrategy: %v, want nil", err)
				}
				return
			}
			if !apperror.IsCode(err, tt.wantCode) {
				t.Errorf("NewStrategy = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestRouteValidate(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		valid bool
	}{
		{
			"valid_round_trip",
			Route{
				hop(venues.UniswapV3, asset.USDC, asset.WETH),
				hop(venues.SushiSwap, asset.WETH, asset.USDC),
			},
			true,
		},
		{
			"broken_chain",
			Route{
				hop(venues.UniswapV3, asset.USDC, asset.WETH),
				hop(venues.SushiSwap, asset.WMATIC, asset.USDC),
			},
			false,
		},
		{
			"open_round_trip",
			Route{
				hop(venues.UniswapV3, asset.USDC, asset.WETH),
				hop(venues.SushiSwap, asset.WETH, asset.WMATIC),
				hop(venues.QuickSwap, asset.WMATIC, asset.DAI),
			},
			false,
		},
		{
			"self_swap_hop",
			Route{
				hop(venues.UniswapV3, asset.USDC, asset.USDC),
				hop(venues.SushiSwap, asset.USDC, asset.USDC),
			},
			false,
		},
		{"empty", Route{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate: %v, want nil", err)
			}
			if !tt.valid {
				if !apperror.IsCode(err, apperror.CodeInvalidRoute) {
					t.Errorf("Validate = %v, want INVALID_ROUTE", err)
				}
			}
		})
	}
}

func TestVariantRoundTrip(t *testing.T) {
	for _, v := range []Variant{Simple2Step, Triangular, MultiHop} {
		parsed, err := ParseVariant(v.String())
		if err != nil {
			t.Fatalf("ParseVariant(%s): %v", v, err)
		}
		if parsed != v {
			t.Errorf("ParseVariant(%s) = %s", v, parsed)
		}
	}

	if _, err := ParseVariant("quantum"); err == nil {
		t.Error("ParseVariant accepted unknown variant")
	}
}
