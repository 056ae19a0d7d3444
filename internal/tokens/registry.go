package tokens

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NativeSentinel is the pseudo-address most swap APIs use for the chain's
// native asset. Some strict quote endpoints reject it, which is why the
// orchestrator can fall back to the wrapped-native token.
const NativeSentinel = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// Token describes one asset on one chain. Decimals drives every atomic-unit
// conversion; an entry with wrong decimals corrupts prices silently, so
// resolution fails closed instead of guessing.
type Token struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// UnsupportedChainError is returned when no token table exists for a chain.
type UnsupportedChainError struct {
	ChainID uint64
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain: %d", e.ChainID)
}

// UnsupportedTokenError is returned when a symbol or address cannot be
// resolved on a supported chain.
type UnsupportedTokenError struct {
	ChainID uint64
	Query   string
}

func (e *UnsupportedTokenError) Error() string {
	return fmt.Sprintf("unsupported token %q on chain %d", e.Query, e.ChainID)
}

// tables maps chainID -> upper-cased symbol -> token.
var tables = map[uint64]map[string]Token{
	1: {
		"ETH":  {ChainID: 1, Address: NativeSentinel, Symbol: "ETH", Decimals: 18},
		"WETH": {ChainID: 1, Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: 18},
		"USDC": {ChainID: 1, Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Decimals: 6},
		"USDT": {ChainID: 1, Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Symbol: "USDT", Decimals: 6},
		"DAI":  {ChainID: 1, Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Decimals: 18},
		"WBTC": {ChainID: 1, Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Symbol: "WBTC", Decimals: 8},
	},
	137: {
		"POL":    {ChainID: 137, Address: NativeSentinel, Symbol: "POL", Decimals: 18},
		"WPOL":   {ChainID: 137, Address: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", Symbol: "WPOL", Decimals: 18},
		"WETH":   {ChainID: 137, Address: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", Symbol: "WETH", Decimals: 18},
		"USDC":   {ChainID: 137, Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Symbol: "USDC", Decimals: 6},
		"USDC.E": {ChainID: 137, Address: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", Symbol: "USDC.e", Decimals: 6},
		"USDT":   {ChainID: 137, Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Symbol: "USDT", Decimals: 6},
		"DAI":    {ChainID: 137, Address: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", Symbol: "DAI", Decimals: 18},
	},
	42161: {
		"ETH":    {ChainID: 42161, Address: NativeSentinel, Symbol: "ETH", Decimals: 18},
		"WETH":   {ChainID: 42161, Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Symbol: "WETH", Decimals: 18},
		"USDC":   {ChainID: 42161, Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Symbol: "USDC", Decimals: 6},
		"USDC.E": {ChainID: 42161, Address: "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8", Symbol: "USDC.e", Decimals: 6},
		"USDT":   {ChainID: 42161, Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", Symbol: "USDT", Decimals: 6},
		"DAI":    {ChainID: 42161, Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Symbol: "DAI", Decimals: 18},
	},
	8453: {
		"ETH":   {ChainID: 8453, Address: NativeSentinel, Symbol: "ETH", Decimals: 18},
		"WETH":  {ChainID: 8453, Address: "0x4200000000000000000000000000000000000006", Symbol: "WETH", Decimals: 18},
		"USDC":  {ChainID: 8453, Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Symbol: "USDC", Decimals: 6},
		"USDBC": {ChainID: 8453, Address: "0xd9aAEc86B65D86f6A7B5B1b0c42FFA531710b6CA", Symbol: "USDbC", Decimals: 6},
		"DAI":   {ChainID: 8453, Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", Symbol: "DAI", Decimals: 18},
	},
}

// wrappedNative maps chainID -> wrapped-native symbol in that chain's table.
var wrappedNative = map[uint64]string{
	1:     "WETH",
	137:   "WPOL",
	42161: "WETH",
	8453:  "WETH",
}

// byAddress maps chainID -> checksummed address -> token. Built once from the
// symbol tables.
var byAddress = map[uint64]map[string]Token{}

func init() {
	for chainID, table := range tables {
		idx := make(map[string]Token, len(table))
		for _, t := range table {
			idx[common.HexToAddress(t.Address).Hex()] = t
		}
		byAddress[chainID] = idx
	}
}

// Normalize resolves a symbol or hex address to a Token on the given chain.
func Normalize(chainID uint64, symbolOrAddress string) (Token, error) {
	table, ok := tables[chainID]
	if !ok {
		return Token{}, &UnsupportedChainError{ChainID: chainID}
	}

	q := strings.TrimSpace(symbolOrAddress)
	if q == "" {
		return Token{}, &UnsupportedTokenError{ChainID: chainID, Query: symbolOrAddress}
	}

	if common.IsHexAddress(q) {
		if t, ok := byAddress[chainID][common.HexToAddress(q).Hex()]; ok {
			return t, nil
		}
		return Token{}, &UnsupportedTokenError{ChainID: chainID, Query: q}
	}

	if t, ok := table[strings.ToUpper(q)]; ok {
		return t, nil
	}
	return Token{}, &UnsupportedTokenError{ChainID: chainID, Query: q}
}

// List returns every configured token on a chain.
func List(chainID uint64) ([]Token, error) {
	table, ok := tables[chainID]
	if !ok {
		return nil, &UnsupportedChainError{ChainID: chainID}
	}
	out := make([]Token, 0, len(table))
	for _, t := range table {
		out = append(out, t)
	}
	return out, nil
}

// IsNative reports whether an address is the native-asset sentinel.
func IsNative(address string) bool {
	return strings.EqualFold(address, NativeSentinel)
}

// WrappedNative returns the chain's wrapped-native token.
func WrappedNative(chainID uint64) (Token, bool) {
	sym, ok := wrappedNative[chainID]
	if !ok {
		return Token{}, false
	}
	t, ok := tables[chainID][sym]
	return t, ok
}

// IsUSDCFamily reports whether a token is a USDC variant (canonical or
// bridged).
func IsUSDCFamily(t Token) bool {
	switch strings.ToUpper(t.Symbol) {
	case "USDC", "USDC.E", "USDBC":
		return true
	}
	return false
}

// USDCAliases returns the USDC-family tokens on a chain other than the one
// passed in, in stable order (canonical first).
func USDCAliases(chainID uint64, except Token) []Token {
	var out []Token
	for _, sym := range []string{"USDC", "USDC.E", "USDBC"} {
		t, ok := tables[chainID][sym]
		if !ok {
			continue
		}
		if strings.EqualFold(t.Address, except.Address) {
			continue
		}
		out = append(out, t)
	}
	return out
}
