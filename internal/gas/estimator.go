// Package gas normalizes upstream gas estimates into a cost expressed in the
// quote currency.
package gas

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"

	"quote-backend/internal/amount"
	"quote-backend/internal/cache"
	"quote-backend/internal/clients"
	"quote-backend/internal/metrics"
	"quote-backend/internal/tokens"
)

// NativePriceTTL bounds how long a native→quote conversion rate is reused.
const NativePriceTTL = 30 * time.Second

// defaultGasUnits is the per-protocol fallback when the upstream response
// carries no gas estimate. CoW settles in batch auctions, so the taker pays no
// execution gas.
var defaultGasUnits = map[string]uint64{
	"0x":      150_000,
	"1inch":   170_000,
	"uniswap": 180_000,
	"cow":     0,
}

// NativePriceFunc quotes one native unit against the given quote token and
// returns the humanized price. Injected by the wiring layer to avoid a cycle
// with the provider adapters.
type NativePriceFunc func(ctx context.Context, chainID uint64, quoteToken tokens.Token) (float64, error)

// Estimator converts (gas units, gas price) into quote-currency cost.
type Estimator struct {
	rpc         *clients.GasPriceClient
	nativePrice NativePriceFunc
	rateCache   *cache.TTL[float64]
	log         *logrus.Entry
}

// NewEstimator builds an estimator with a 30s native→quote rate cache.
func NewEstimator(rpc *clients.GasPriceClient, log *logrus.Logger, clock cache.Clock) *Estimator {
	return &Estimator{
		rpc:       rpc,
		rateCache: cache.New[float64](NativePriceTTL, clock),
		log:       log.WithField("component", "gas_estimator"),
	}
}

// SetNativePriceFunc wires the native→quote rate source.
func (e *Estimator) SetNativePriceFunc(f NativePriceFunc) {
	e.nativePrice = f
}

// DefaultGasUnits returns the fixed per-protocol gas estimate.
func DefaultGasUnits(provider string) uint64 {
	return defaultGasUnits[provider]
}

// CostInQuote returns the gas cost of a swap expressed in the quote currency,
// or nil when any input is unavailable. A missing estimate is omitted from the
// response entirely, never defaulted to zero.
func (e *Estimator) CostInQuote(ctx context.Context, chainID uint64, gasUnits uint64, gasPriceWei *big.Int, quoteToken tokens.Token) *float64 {
	if gasUnits == 0 {
		return nil
	}

	if gasPriceWei == nil || gasPriceWei.Sign() <= 0 {
		var err error
		gasPriceWei, err = e.rpc.GasPriceWei(ctx, chainID)
		if err != nil {
			e.log.WithField("chain_id", chainID).WithError(err).Debug("no gas price, omitting gas cost")
			return nil
		}
	}

	rate, err := e.nativeQuoteRate(ctx, chainID, quoteToken)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"chain_id":    chainID,
			"quote_token": quoteToken.Symbol,
		}).WithError(err).Debug("no native price, omitting gas cost")
		return nil
	}

	// gasCostWei = units * price; split into whole/fractional native units
	// with integer division and recombine as float only at the end.
	costWei := new(big.Int).Mul(new(big.Int).SetUint64(gasUnits), gasPriceWei)
	costNative := amount.ToHuman(costWei, 18)

	cost := costNative * rate
	return &cost
}

// nativeQuoteRate returns the 30s-cached price of one native unit in the
// quote token. Concurrent misses may race to populate the key; last write
// wins.
func (e *Estimator) nativeQuoteRate(ctx context.Context, chainID uint64, quoteToken tokens.Token) (float64, error) {
	key := fmt.Sprintf("%d:%s", chainID, quoteToken.Address)
	if rate, ok := e.rateCache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("native_price").Inc()
		return rate, nil
	}
	metrics.CacheMisses.WithLabelValues("native_price").Inc()

	if e.nativePrice == nil {
		return 0, fmt.Errorf("no native price source configured")
	}
	rate, err := e.nativePrice(ctx, chainID, quoteToken)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive native price %v", rate)
	}

	e.rateCache.Set(key, rate)
	return rate, nil
}
