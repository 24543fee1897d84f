package app

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	strategydomain "github.com/Anuj0x/AaveFlashToolkit/business/strategy/domain"
	venues "github.com/Anuj0x/AaveFlashToolkit/business/venues/domain"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apperror"
	"github.com/Anuj0x/AaveFlashToolkit/internal/asset"
)

// venueOrder fixes the wire index of each venue. Closed set; indices are
// part of the params encoding and must never be reordered.
var venueOrder = []venues.ID{venues.UniswapV3, venues.SushiSwap, venues.QuickSwap}

// hopABI mirrors the hop tuple layout of the params encoding.
type hopABI struct {
	Venue    uint8          `abi:"venue"`
	TokenIn  common.Address `abi:"tokenIn"`
	TokenOut common.Address `abi:"tokenOut"`
	FeeParam uint32         `abi:"feeParam"`
	MinOut   *big.Int       `abi:"minOut"`
}

// Codec ABI-encodes strategies into loan params and back. The strategy
// travels through the facility callback unchanged, the way calldata
// rides a flash loan.
type Codec struct {
	registry *asset.Registry
	chainID  uint64
	args     abi.Arguments
}

// NewCodec builds the codec for the given chain's asset registry.
func NewCodec(registry *asset.Registry, chainID uint64) (*Codec, error) {
	variantType, err := abi.NewType("uint8", "", nil)
	if err != nil {
		return nil, err
	}
	hopsType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "venue", Type: "uint8"},
		{Name: "tokenIn", Type: "address"},
		{Name: "tokenOut", Type: "address"},
		{Name: "feeParam", Type: "uint32"},
		{Name: "minOut", Type: "uint256"},
	})
	if err != nil {
		return nil, err
	}

	return &Codec{
		registry: registry,
		chainID:  chainID,
		args: abi.Arguments{
			{Name: "variant", Type: variantType},
			{Name: "hops", Type: hopsType},
		},
	}, nil
}

// Encode packs the strategy into params bytes.
func (c *Codec) Encode(strat *strategydomain.Strategy) ([]byte, error) {
	route := strat.Route()
	hops := make([]hopABI, len(route))
	for i, hop := range route {
		idx, err := venueIndex(hop.Venue)
		if err != nil {
			return nil, apperror.New(apperror.CodeUnsupportedVenue,
				apperror.WithContext(string(hop.Venue)))
		}
		hops[i] = hopABI{
			Venue:    idx,
			TokenIn:  hop.TokenIn.ID().Address(),
			TokenOut: hop.TokenOut.ID().Address(),
			FeeParam: hop.FeeParam,
			MinOut:   hop.MinOut.Raw(),
		}
	}

	packed, err := c.args.Pack(uint8(strat.Variant()), hops)
	if err != nil {
		return nil, apperror.External(apperror.CodeInternalError, "pack strategy params", err)
	}
	return packed, nil
}

// Decode unpacks params bytes into a validated strategy. Token addresses
// resolve through the registry; unknown tokens get a generic placeholder.
func (c *Codec) Decode(data []byte) (*strategydomain.Strategy, error) {
	values, err := c.args.Unpack(data)
	if err != nil {
		return nil, apperror.External(apperror.CodeInvalidStrategy, "unpack strategy params", err)
	}

	variant := strategydomain.Variant(values[0].(uint8))
	hops := *abi.ConvertType(values[1], new([]hopABI)).(*[]hopABI)

	route := make(strategydomain.Route, len(hops))
	for i, h := range hops {
		if int(h.Venue) >= len(venueOrder) {
			return nil, apperror.New(apperror.CodeUnsupportedVenue,
				apperror.WithContext(fmt.Sprintf("venue index %d", h.Venue)))
		}
		tokenOut := c.registry.ResolveToken(c.chainID, h.TokenOut)
		route[i] = strategydomain.Hop{
			Venue:    venueOrder[h.Venue],
			TokenIn:  c.registry.ResolveToken(c.chainID, h.TokenIn),
			TokenOut: tokenOut,
			FeeParam: h.FeeParam,
			MinOut:   asset.NewAmount(tokenOut, h.MinOut),
		}
	}

	return strategydomain.NewStrategy(variant, route)
}

func venueIndex(id venues.ID) (uint8, error) {
	for i, v := range venueOrder {
		if v == id {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("venue %q has no wire index", id)
}
