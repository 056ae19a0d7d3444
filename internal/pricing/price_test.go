package pricing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-backend/internal/amount"
)

func atomic(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad atomic literal %q", s)
	return v
}

func TestHumanPriceSellEthUsdc(t *testing.T) {
	// Sell 1 ETH (18 dec) for 3000 USDC (6 dec): price must come out as 3000
	// quote per base despite the 12-decimal gap.
	sell := atomic(t, "1000000000000000000")
	buy := atomic(t, "3000000000")

	price, err := HumanPrice(SideSell, 18, 6, sell, buy)
	require.NoError(t, err)
	assert.InEpsilon(t, 3000.0, price, 1e-9)
}

func TestHumanPriceBuySide(t *testing.T) {
	// BUY: spend 3000 USDC (sell leg, 6 dec) for 1 ETH (buy leg, 18 dec).
	// Same trade, same 3000 quote-per-base price.
	sell := atomic(t, "3000000000")
	buy := atomic(t, "1000000000000000000")

	price, err := HumanPrice(SideBuy, 18, 6, sell, buy)
	require.NoError(t, err)
	assert.InEpsilon(t, 3000.0, price, 1e-9)
}

func TestHumanPriceScaleInvariance(t *testing.T) {
	sell := atomic(t, "1000000000000000000")
	buy := atomic(t, "3000000000")
	base, err := HumanPrice(SideSell, 18, 6, sell, buy)
	require.NoError(t, err)

	for _, k := range []int64{7, 1000, 999_999_937} {
		scaledSell := new(big.Int).Mul(sell, big.NewInt(k))
		scaledBuy := new(big.Int).Mul(buy, big.NewInt(k))
		price, err := HumanPrice(SideSell, 18, 6, scaledSell, scaledBuy)
		require.NoError(t, err)
		assert.InEpsilon(t, base, price, 1e-12, "scale factor %d", k)
	}
}

func TestHumanPriceEqualDecimals(t *testing.T) {
	// WETH/DAI, both 18 decimals: ratio needs no rescaling.
	sell := atomic(t, "2000000000000000000")
	buy := atomic(t, "6000000000000000000000")

	price, err := HumanPrice(SideSell, 18, 18, sell, buy)
	require.NoError(t, err)
	assert.InEpsilon(t, 3000.0, price, 1e-9)
}

func TestHumanPriceInvalid(t *testing.T) {
	var ipe *InvalidPriceError

	_, err := HumanPrice(SideSell, 18, 6, big.NewInt(0), big.NewInt(1))
	require.ErrorAs(t, err, &ipe)

	_, err = HumanPrice(SideSell, 18, 6, nil, big.NewInt(1))
	require.ErrorAs(t, err, &ipe)

	_, err = HumanPrice(SideSell, 18, 6, big.NewInt(1), big.NewInt(-5))
	require.ErrorAs(t, err, &ipe)
}

func TestMinOutFromGuaranteedPriceSell(t *testing.T) {
	// Selling 1 ETH at a guaranteed 2990 USDC/ETH: minOut is in USDC atomic
	// units (6 dec).
	sell := atomic(t, "1000000000000000000")
	out, err := MinOutFromGuaranteedPrice(SideSell, sell, 2990, 18, 6)
	require.NoError(t, err)
	assert.Equal(t, "2990000000", out.String())
}

func TestMinOutFromGuaranteedPriceBuy(t *testing.T) {
	// Spending 3000 USDC at a guaranteed 3000 USDC/ETH: minOut is 1 ETH in
	// wei.
	sell := atomic(t, "3000000000")
	out, err := MinOutFromGuaranteedPrice(SideBuy, sell, 3000, 18, 6)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", out.String())
}

func TestMinOutFromGuaranteedPriceRejectsBadPrice(t *testing.T) {
	var ipe *InvalidPriceError
	_, err := MinOutFromGuaranteedPrice(SideSell, big.NewInt(1), 0, 18, 6)
	require.ErrorAs(t, err, &ipe)
	_, err = MinOutFromGuaranteedPrice(SideSell, big.NewInt(1), -3, 18, 6)
	require.ErrorAs(t, err, &ipe)
}

func TestGasBps(t *testing.T) {
	// 1.5 quote of gas on a 3000 quote notional is 5 bps.
	assert.InEpsilon(t, 5.0, GasBps(1.5, 3000), 1e-12)
	assert.Zero(t, GasBps(1.5, 0))
}

func TestSideValid(t *testing.T) {
	assert.True(t, SideBuy.Valid())
	assert.True(t, SideSell.Valid())
	assert.False(t, Side("buy").Valid())
	assert.False(t, Side("").Valid())
}

func TestMinOutScaleConsistency(t *testing.T) {
	// ScaledMul and MinOutFromGuaranteedPrice share the same fixed-point
	// scale, so a same-decimals sell reduces to ScaledMul.
	sell := big.NewInt(1_000_000)
	direct, err := amount.ScaledMul(sell, 1.25)
	require.NoError(t, err)
	viaPrice, err := MinOutFromGuaranteedPrice(SideSell, sell, 1.25, 6, 6)
	require.NoError(t, err)
	assert.Zero(t, direct.Cmp(viaPrice))
}
