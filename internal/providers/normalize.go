package providers

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"quote-backend/internal/gas"
	"quote-backend/internal/pricing"
)

// ratioPct returns num/den expressed as a percentage.
func ratioPct(num, den *big.Int) float64 {
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(num),
		new(big.Float).SetInt(den),
	).Float64()
	return f * 100
}

// upstreamFigures is the common intermediate shape each adapter extracts from
// its provider's response before normalization.
type upstreamFigures struct {
	SellAtomic *big.Int
	BuyAtomic  *big.Int

	// MinOutAtomic is the provider's guaranteed minimum output, when exposed.
	MinOutAtomic *big.Int
	// GuaranteedPrice is used to derive minOut when only a guaranteed price
	// is exposed.
	GuaranteedPrice float64

	GasUnits       uint64
	GasPriceWei    *big.Int
	FeePct         *float64
	PriceImpactBps *float64
	MEVRoute       MEVRoute

	URL     string
	RawBody []byte
}

// finishQuote runs the shared humanization pipeline: price, unit, gas cost,
// minOut, and the effective bps cost.
func finishQuote(ctx context.Context, provider string, job *QuoteJob, fig upstreamFigures, est *gas.Estimator) (*NormalizedQuote, error) {
	price, err := pricing.HumanPrice(job.Side, job.BaseToken.Decimals, job.QuoteToken.Decimals, fig.SellAtomic, fig.BuyAtomic)
	if err != nil {
		return nil, err
	}
	ratio := pricing.RawAtomicRatio(job.Side, fig.SellAtomic, fig.BuyAtomic)

	route := fig.MEVRoute
	if route == "" {
		route = RoutePublic
	}

	var raw map[string]any
	if len(fig.RawBody) > 0 {
		if err := json.Unmarshal(fig.RawBody, &raw); err != nil {
			raw = map[string]any{"body": string(fig.RawBody)}
		}
	}

	q := &NormalizedQuote{
		Provider:            provider,
		Price:               price,
		FeePct:              fig.FeePct,
		PriceImpactBps:      fig.PriceImpactBps,
		MEVRoute:            route,
		QuoteTs:             time.Now().Unix(),
		Raw:                 raw,
		Unit:                job.QuoteToken.Symbol + "/" + job.BaseToken.Symbol,
		RawPriceAtomicRatio: &ratio,
		RequestURL:          fig.URL,
	}

	minOut := fig.MinOutAtomic
	if minOut == nil && fig.GuaranteedPrice > 0 {
		minOut, err = pricing.MinOutFromGuaranteedPrice(job.Side, fig.SellAtomic, fig.GuaranteedPrice, job.BaseToken.Decimals, job.QuoteToken.Decimals)
		if err != nil {
			minOut = nil
		}
	}
	if minOut != nil {
		q.MinOut = minOut.String()
	}

	if !job.SkipGas && est != nil {
		q.GasCostQuote = est.CostInQuote(ctx, job.ChainID, fig.GasUnits, fig.GasPriceWei, job.QuoteToken)
	}

	// Trade notional in quote currency: a SELL trades humanAmount of base,
	// a BUY spends humanAmount of quote directly.
	notional := job.HumanAmount
	if job.Side == pricing.SideSell {
		notional = job.HumanAmount * price
	}

	bps := 0.0
	if q.FeePct != nil {
		bps += *q.FeePct * 100
	}
	if q.GasCostQuote != nil {
		bps += pricing.GasBps(*q.GasCostQuote, notional)
	}
	q.EffectiveBpsCost = bps

	return q, nil
}
