// Package amount centralizes atomic-unit arithmetic. Every monetary value in
// the quote path is an integer scaled by 10^decimals; floats only appear at
// the outermost humanization step.
package amount

import (
	"fmt"
	"math"
	"math/big"
)

// MinOutScale is the fixed-point scale used when a guaranteed price has to be
// applied to an atomic amount.
const MinOutScale = 1_000_000

// Pow10 returns 10^n as a big.Int. n must be non-negative.
func Pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ToAtomic converts a positive human-readable amount into atomic units,
// truncating anything finer than 10^-decimals.
func ToAtomic(human float64, decimals int) (*big.Int, error) {
	if math.IsNaN(human) || math.IsInf(human, 0) {
		return nil, fmt.Errorf("amount is not finite: %v", human)
	}
	if human <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %v", human)
	}

	f := new(big.Float).SetPrec(256).SetFloat64(human)
	f.Mul(f, new(big.Float).SetPrec(256).SetInt(Pow10(decimals)))

	atomic, _ := f.Int(nil)
	if atomic.Sign() <= 0 {
		return nil, fmt.Errorf("amount %v is below the smallest unit (10^-%d)", human, decimals)
	}
	return atomic, nil
}

// ToHuman converts an atomic amount back to a decimal. The whole and
// fractional parts are split with integer division first so the float
// conversion happens only at the final step.
func ToHuman(atomic *big.Int, decimals int) float64 {
	if atomic == nil {
		return 0
	}
	scale := Pow10(decimals)
	whole, frac := new(big.Int).QuoRem(atomic, scale, new(big.Int))

	wholeF, _ := new(big.Float).SetInt(whole).Float64()
	fracF, _ := new(big.Float).Quo(
		new(big.Float).SetInt(frac),
		new(big.Float).SetInt(scale),
	).Float64()
	return wholeF + fracF
}

// ScaledMul multiplies an atomic amount by a float factor using fixed-point
// arithmetic: the factor is scaled to an integer first, so no float ever
// touches the bigint. Truncates toward zero.
func ScaledMul(atomic *big.Int, factor float64) (*big.Int, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return nil, fmt.Errorf("invalid scale factor: %v", factor)
	}
	scaled := new(big.Int).SetInt64(int64(math.Round(factor * MinOutScale)))
	out := new(big.Int).Mul(atomic, scaled)
	return out.Quo(out, big.NewInt(MinOutScale)), nil
}

// ApplyBps reduces an atomic amount by the given basis points
// (amount * (10000 - bps) / 10000), the standard slippage haircut.
func ApplyBps(atomic *big.Int, bps int) *big.Int {
	if atomic == nil || bps <= 0 {
		return atomic
	}
	out := new(big.Int).Mul(atomic, big.NewInt(int64(10_000-bps)))
	return out.Quo(out, big.NewInt(10_000))
}

// RescaleDecimals converts an atomic amount from one decimal precision to
// another by integer multiplication/division.
func RescaleDecimals(atomic *big.Int, fromDecimals, toDecimals int) *big.Int {
	if fromDecimals == toDecimals {
		return new(big.Int).Set(atomic)
	}
	if toDecimals > fromDecimals {
		return new(big.Int).Mul(atomic, Pow10(toDecimals-fromDecimals))
	}
	return new(big.Int).Quo(atomic, Pow10(fromDecimals-toDecimals))
}
