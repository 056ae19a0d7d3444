package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	tok, err := Normalize(1, "usdc")
	require.NoError(t, err)
	assert.Equal(t, "USDC", tok.Symbol)
	assert.Equal(t, 6, tok.Decimals)

	eth, err := Normalize(1, "ETH")
	require.NoError(t, err)
	assert.Equal(t, NativeSentinel, eth.Address)
	assert.Equal(t, 18, eth.Decimals)
}

func TestNormalizeAddress(t *testing.T) {
	// Address lookup is case-insensitive via checksumming.
	tok, err := Normalize(1, strings.ToLower("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	require.NoError(t, err)
	assert.Equal(t, "USDC", tok.Symbol)
}

func TestNormalizeUnknown(t *testing.T) {
	var ute *UnsupportedTokenError
	_, err := Normalize(1, "NOPE")
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "NOPE", ute.Query)

	_, err = Normalize(1, "0x0000000000000000000000000000000000000001")
	assert.ErrorAs(t, err, &ute)

	_, err = Normalize(1, "  ")
	assert.ErrorAs(t, err, &ute)
}

func TestNormalizeUnsupportedChain(t *testing.T) {
	var uce *UnsupportedChainError
	_, err := Normalize(99999, "USDC")
	require.ErrorAs(t, err, &uce)
	assert.EqualValues(t, 99999, uce.ChainID)
}

func TestWrappedNative(t *testing.T) {
	weth, ok := WrappedNative(1)
	require.True(t, ok)
	assert.Equal(t, "WETH", weth.Symbol)

	wpol, ok := WrappedNative(137)
	require.True(t, ok)
	assert.Equal(t, "WPOL", wpol.Symbol)

	_, ok = WrappedNative(99999)
	assert.False(t, ok)
}

func TestIsNative(t *testing.T) {
	assert.True(t, IsNative(NativeSentinel))
	assert.True(t, IsNative(strings.ToLower(NativeSentinel)))
	assert.False(t, IsNative("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"))
}

func TestUSDCAliases(t *testing.T) {
	usdc, err := Normalize(137, "USDC")
	require.NoError(t, err)
	require.True(t, IsUSDCFamily(usdc))

	aliases := USDCAliases(137, usdc)
	require.Len(t, aliases, 1)
	assert.Equal(t, "USDC.e", aliases[0].Symbol)

	// Base has the bridged USDbC variant.
	baseUSDC, err := Normalize(8453, "USDC")
	require.NoError(t, err)
	aliases = USDCAliases(8453, baseUSDC)
	require.Len(t, aliases, 1)
	assert.Equal(t, "USDbC", aliases[0].Symbol)

	// Mainnet USDC has no alias.
	mainnet, _ := Normalize(1, "USDC")
	assert.Empty(t, USDCAliases(1, mainnet))
}

func TestList(t *testing.T) {
	toks, err := List(1)
	require.NoError(t, err)
	assert.Len(t, toks, 6)

	_, err = List(2)
	assert.Error(t, err)
}
