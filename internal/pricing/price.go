// Package pricing converts atomic sell/buy amounts into the humanized
// quote-per-base price the rest of the system depends on.
package pricing

import (
	"fmt"
	"math"
	"math/big"

	"quote-backend/internal/amount"
)

// Side of the trade from the caller's point of view. SELL sells `amount` of
// base for quote; BUY spends `amount` of quote to acquire base.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// InvalidPriceError marks a non-positive or non-finite price. The
// orchestrator treats it as "advance to the next fallback step".
type InvalidPriceError struct {
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price: %v", e.Price)
}

// HumanPrice computes the quote-per-base price from a pair of atomic amounts.
//
//	ratio = side==SELL ? buy/sell : sell/buy
//	price = ratio * 10^(baseDecimals - quoteDecimals)
//
// The result is invariant under scaling both atomic amounts by the same
// positive constant.
func HumanPrice(side Side, baseDecimals, quoteDecimals int, sellAtomic, buyAtomic *big.Int) (float64, error) {
	if sellAtomic == nil || buyAtomic == nil || sellAtomic.Sign() <= 0 || buyAtomic.Sign() <= 0 {
		return 0, &InvalidPriceError{}
	}

	num, den := buyAtomic, sellAtomic
	if side == SideBuy {
		num, den = sellAtomic, buyAtomic
	}

	ratio := new(big.Float).SetPrec(256).Quo(
		new(big.Float).SetPrec(256).SetInt(num),
		new(big.Float).SetPrec(256).SetInt(den),
	)

	diff := baseDecimals - quoteDecimals
	if diff > 0 {
		ratio.Mul(ratio, new(big.Float).SetPrec(256).SetInt(amount.Pow10(diff)))
	} else if diff < 0 {
		ratio.Quo(ratio, new(big.Float).SetPrec(256).SetInt(amount.Pow10(-diff)))
	}

	price, _ := ratio.Float64()
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &InvalidPriceError{Price: price}
	}
	return price, nil
}

// RawAtomicRatio returns the unscaled buy/sell (SELL) or sell/buy (BUY)
// atomic ratio, useful for debugging provider scaling conventions.
func RawAtomicRatio(side Side, sellAtomic, buyAtomic *big.Int) float64 {
	if sellAtomic == nil || buyAtomic == nil || sellAtomic.Sign() == 0 || buyAtomic.Sign() == 0 {
		return 0
	}
	num, den := buyAtomic, sellAtomic
	if side == SideBuy {
		num, den = sellAtomic, buyAtomic
	}
	ratio, _ := new(big.Float).Quo(
		new(big.Float).SetInt(num),
		new(big.Float).SetInt(den),
	).Float64()
	return ratio
}

// MinOutFromGuaranteedPrice derives the guaranteed minimum output (in the buy
// token's atomic units) from a guaranteed quote-per-base price, via
// fixed-point integer math: the price is scaled to an integer before it ever
// meets the atomic amount.
//
// For a SELL the output leg is the quote token:
//
//	minOut = sellAtomic * price * 10^(quoteDec - baseDec)
//
// For a BUY the output leg is the base token:
//
//	minOut = sellAtomic / price * 10^(baseDec - quoteDec)
func MinOutFromGuaranteedPrice(side Side, sellAtomic *big.Int, guaranteedPrice float64, baseDecimals, quoteDecimals int) (*big.Int, error) {
	if guaranteedPrice <= 0 || math.IsNaN(guaranteedPrice) || math.IsInf(guaranteedPrice, 0) {
		return nil, &InvalidPriceError{Price: guaranteedPrice}
	}

	if side == SideSell {
		out, err := amount.ScaledMul(sellAtomic, guaranteedPrice)
		if err != nil {
			return nil, err
		}
		return amount.RescaleDecimals(out, baseDecimals, quoteDecimals), nil
	}

	// BUY: divide by the price, still via the integer scale.
	scaled := int64(math.Round(guaranteedPrice * amount.MinOutScale))
	if scaled <= 0 {
		return nil, &InvalidPriceError{Price: guaranteedPrice}
	}
	out := new(big.Int).Mul(sellAtomic, big.NewInt(amount.MinOutScale))
	out.Quo(out, big.NewInt(scaled))
	return amount.RescaleDecimals(out, quoteDecimals, baseDecimals), nil
}

// GasBps expresses a gas cost as basis points of the trade notional, both in
// quote currency.
func GasBps(gasCostQuote, notionalQuote float64) float64 {
	if notionalQuote <= 0 {
		return 0
	}
	return gasCostQuote / notionalQuote * 10_000
}
