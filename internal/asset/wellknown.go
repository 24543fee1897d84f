package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDPolygon  = 137
	ChainIDArbitrum = 42161
)

// Well-known token addresses on Polygon, where the engine's venue set lives.
var (
	AddrWMATICPolygon = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	AddrUSDCPolygon   = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	AddrUSDTPolygon   = common.HexToAddress("0xc2132D05D31c914a87C6611C10748AEb04B58e8F")
	AddrDAIPolygon    = common.HexToAddress("0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063")
	AddrWETHPolygon   = common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	AddrWBTCPolygon   = common.HexToAddress("0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6")
)

// Well-known IDs
var (
	IDPolygonWMATIC = NewTokenID(ChainIDPolygon, AddrWMATICPolygon)
	IDPolygonUSDC   = NewTokenID(ChainIDPolygon, AddrUSDCPolygon)
	IDPolygonUSDT   = NewTokenID(ChainIDPolygon, AddrUSDTPolygon)
	IDPolygonDAI    = NewTokenID(ChainIDPolygon, AddrDAIPolygon)
	IDPolygonWETH   = NewTokenID(ChainIDPolygon, AddrWETHPolygon)
	IDPolygonWBTC   = NewTokenID(ChainIDPolygon, AddrWBTCPolygon)
)

// Well-known Assets (pre-created instances)
var (
	WMATIC = NewWithName(IDPolygonWMATIC, "WMATIC", "Wrapped Matic", 18)
	USDC   = NewWithName(IDPolygonUSDC, "USDC", "USD Coin", 6)
	USDT   = NewWithName(IDPolygonUSDT, "USDT", "Tether USD", 6)
	DAI    = NewWithName(IDPolygonDAI, "DAI", "Dai Stablecoin", 18)
	WETH   = NewWithName(IDPolygonWETH, "WETH", "Wrapped Ether", 18)
	WBTC   = NewWithName(IDPolygonWBTC, "WBTC", "Wrapped Bitcoin", 8)
)

// DefaultRegistry returns a registry pre-populated with well-known assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(WMATIC)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(DAI)
	r.Register(WETH)
	r.Register(WBTC)

	return r
}

// MustNewToken creates a new ERC20 token asset for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	return NewWithName(NewTokenID(chainID, address), symbol, name, decimals)
}
