package gas

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-backend/internal/tokens"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestCostInQuote(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	est := NewEstimator(nil, quietLogger(), func() time.Time { return now })

	probes := 0
	est.SetNativePriceFunc(func(ctx context.Context, chainID uint64, quoteToken tokens.Token) (float64, error) {
		probes++
		return 3000, nil
	})

	usdc, err := tokens.Normalize(1, "USDC")
	require.NoError(t, err)

	// 150k units at 20 gwei = 0.003 native, at 3000 quote per native.
	cost := est.CostInQuote(context.Background(), 1, 150_000, big.NewInt(20_000_000_000), usdc)
	require.NotNil(t, cost)
	assert.InEpsilon(t, 9.0, *cost, 1e-9)
	assert.Equal(t, 1, probes)

	// Second call inside the TTL reuses the cached rate.
	cost = est.CostInQuote(context.Background(), 1, 150_000, big.NewInt(20_000_000_000), usdc)
	require.NotNil(t, cost)
	assert.Equal(t, 1, probes)

	// Past the TTL the rate is fetched again.
	now = now.Add(NativePriceTTL + time.Second)
	cost = est.CostInQuote(context.Background(), 1, 150_000, big.NewInt(20_000_000_000), usdc)
	require.NotNil(t, cost)
	assert.Equal(t, 2, probes)
}

func TestCostInQuoteZeroUnits(t *testing.T) {
	est := NewEstimator(nil, quietLogger(), nil)
	usdc, _ := tokens.Normalize(1, "USDC")

	assert.Nil(t, est.CostInQuote(context.Background(), 1, 0, big.NewInt(1), usdc))
}

func TestCostInQuoteNoRateSource(t *testing.T) {
	est := NewEstimator(nil, quietLogger(), nil)
	usdc, _ := tokens.Normalize(1, "USDC")

	// No native price source wired: the cost is omitted, never zeroed.
	assert.Nil(t, est.CostInQuote(context.Background(), 1, 150_000, big.NewInt(1), usdc))
}

func TestCostInQuoteProbeFailure(t *testing.T) {
	est := NewEstimator(nil, quietLogger(), nil)
	est.SetNativePriceFunc(func(context.Context, uint64, tokens.Token) (float64, error) {
		return 0, fmt.Errorf("upstream down")
	})
	usdc, _ := tokens.Normalize(1, "USDC")

	assert.Nil(t, est.CostInQuote(context.Background(), 1, 150_000, big.NewInt(1), usdc))
}

func TestDefaultGasUnits(t *testing.T) {
	assert.EqualValues(t, 150_000, DefaultGasUnits("0x"))
	assert.EqualValues(t, 0, DefaultGasUnits("cow"))
	assert.EqualValues(t, 0, DefaultGasUnits("unknown"))
}
