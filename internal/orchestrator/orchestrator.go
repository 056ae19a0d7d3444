// Package orchestrator drives one provider adapter through a bounded retry
// policy and an ordered chain of token-substitution fallbacks, producing an
// audit trail of every attempt.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"quote-backend/internal/metrics"
	"quote-backend/internal/pricing"
	"quote-backend/internal/providers"
	"quote-backend/internal/tokens"
)

// RetryDelay is the fixed pause before the single retry of a transient
// upstream failure. No backoff, no jitter.
const RetryDelay = 150 * time.Millisecond

// Orchestrator runs the attempt → classify → {retry | fallback | terminal}
// state machine for a single adapter.
type Orchestrator struct {
	adapter    providers.Adapter
	retryDelay time.Duration
	sleep      func(time.Duration)
	log        *logrus.Entry
}

// New creates an orchestrator for one adapter.
func New(adapter providers.Adapter, log *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		adapter:    adapter,
		retryDelay: RetryDelay,
		sleep:      time.Sleep,
		log:        log.WithField("provider", adapter.Name()),
	}
}

// WithRetryDelay overrides the retry pause. Test hook.
func (o *Orchestrator) WithRetryDelay(d time.Duration, sleep func(time.Duration)) *Orchestrator {
	o.retryDelay = d
	if sleep != nil {
		o.sleep = sleep
	}
	return o
}

// strategy is one step of the fallback chain.
type strategy struct {
	note string
	job  *providers.QuoteJob
}

// buildStrategies expands a job into the fixed fallback order: primary
// tokens, wrapped-native substitution, USDC-alias substitution, alternate
// endpoint flavor.
func (o *Orchestrator) buildStrategies(job *providers.QuoteJob) []strategy {
	steps := []strategy{{note: "primary", job: job}}

	if wrapped, ok := tokens.WrappedNative(job.ChainID); ok {
		if tokens.IsNative(job.SellToken.Address) || tokens.IsNative(job.BuyToken.Address) {
			sub := job.Clone()
			if tokens.IsNative(sub.SellToken.Address) {
				sub.SellToken = wrapped
			}
			if tokens.IsNative(sub.BuyToken.Address) {
				sub.BuyToken = wrapped
			}
			steps = append(steps, strategy{note: "wrapped-native", job: sub})
		}
	}

	// Stablecoin aliases: substitute bridged/canonical USDC variants on the
	// first USDC-family leg.
	switch {
	case tokens.IsUSDCFamily(job.BuyToken):
		for _, alias := range tokens.USDCAliases(job.ChainID, job.BuyToken) {
			sub := job.Clone()
			sub.BuyToken = alias
			steps = append(steps, strategy{note: "usdc-alias:" + alias.Symbol, job: sub})
		}
	case tokens.IsUSDCFamily(job.SellToken):
		for _, alias := range tokens.USDCAliases(job.ChainID, job.SellToken) {
			sub := job.Clone()
			sub.SellToken = alias
			steps = append(steps, strategy{note: "usdc-alias:" + alias.Symbol, job: sub})
		}
	}

	if flavors := o.adapter.Flavors(); len(flavors) > 1 {
		sub := job.Clone()
		sub.Flavor = flavors[1]
		steps = append(steps, strategy{note: "alt-endpoint:" + string(flavors[1]), job: sub})
	}

	return steps
}

// Run executes the fallback chain. The attempt trail is returned in every
// case — success, exhaustion, or terminal error.
func (o *Orchestrator) Run(ctx context.Context, job *providers.QuoteJob) (*providers.NormalizedQuote, []providers.AttemptRecord, error) {
	strategies := o.buildStrategies(job)

	var attempts []providers.AttemptRecord
	var lastErr error
	stepsTried := 0

	for _, st := range strategies {
		stepsTried++

		quote, err := o.attempt(ctx, st, &attempts)
		if err == nil {
			metrics.FallbackSteps.WithLabelValues(o.adapter.Name()).Observe(float64(stepsTried))
			return quote, attempts, nil
		}
		lastErr = err

		if terminal(err) {
			o.log.WithField("step", st.note).WithError(err).Warn("terminal quote failure")
			metrics.FallbackSteps.WithLabelValues(o.adapter.Name()).Observe(float64(stepsTried))
			return nil, attempts, err
		}

		var ue *providers.UpstreamError
		if errors.As(err, &ue) && ue.IsTransient() {
			metrics.UpstreamRetries.WithLabelValues(o.adapter.Name()).Inc()
			o.sleep(o.retryDelay)

			quote, err = o.attempt(ctx, strategy{note: st.note + ":retry", job: st.job}, &attempts)
			if err == nil {
				metrics.FallbackSteps.WithLabelValues(o.adapter.Name()).Observe(float64(stepsTried))
				return quote, attempts, nil
			}
			lastErr = err
			if terminal(err) {
				metrics.FallbackSteps.WithLabelValues(o.adapter.Name()).Observe(float64(stepsTried))
				return nil, attempts, err
			}
		}

		o.log.WithField("step", st.note).WithError(err).Debug("fallback step failed, advancing")
	}

	metrics.FallbackSteps.WithLabelValues(o.adapter.Name()).Observe(float64(stepsTried))
	return nil, attempts, fmt.Errorf("all fallback attempts exhausted: %w", lastErr)
}

// attempt performs one adapter call and appends its record to the trail.
func (o *Orchestrator) attempt(ctx context.Context, st strategy, attempts *[]providers.AttemptRecord) (*providers.NormalizedQuote, error) {
	quote, err := o.adapter.Quote(ctx, st.job)

	rec := providers.AttemptRecord{Note: st.note}
	switch {
	case err == nil:
		rec.URL = quote.RequestURL
		rec.Status = 200
		metrics.UpstreamAttempts.WithLabelValues(o.adapter.Name(), "2xx").Inc()
	default:
		var ue *providers.UpstreamError
		if errors.As(err, &ue) {
			rec.URL = ue.URL
			rec.Status = ue.Status
			rec.Body = ue.Body
			metrics.UpstreamAttempts.WithLabelValues(o.adapter.Name(), statusClass(ue)).Inc()
		} else {
			rec.Note = st.note + ": " + err.Error()
			metrics.UpstreamAttempts.WithLabelValues(o.adapter.Name(), "rejected").Inc()
		}
	}
	*attempts = append(*attempts, rec)

	return quote, err
}

// terminal reports whether an error ends the whole chain: auth failures,
// missing keys, structural rejections, disabled providers, bad addresses.
func terminal(err error) bool {
	var ue *providers.UpstreamError
	if errors.As(err, &ue) {
		return ue.IsAuth()
	}

	var (
		authCfg     *providers.AuthConfigError
		unsupported *providers.UnsupportedRequestError
		disabled    *providers.ProviderDisabledError
		badAddr     *providers.InvalidAddressError
	)
	return errors.As(err, &authCfg) ||
		errors.As(err, &unsupported) ||
		errors.As(err, &disabled) ||
		errors.As(err, &badAddr)
}

// retryable classification helper for tests and metrics labels.
func statusClass(e *providers.UpstreamError) string {
	switch {
	case e.IsAuth():
		return "auth"
	case e.Status == 0:
		return "network"
	case e.Status >= 500:
		return "5xx"
	case e.Status == 429:
		return "429"
	default:
		return strconv.Itoa(e.Status/100) + "xx"
	}
}

// InvalidPrice reports whether the failure was a non-positive or non-finite
// computed price (which advances the fallback chain rather than crashing).
func InvalidPrice(err error) bool {
	var ipe *pricing.InvalidPriceError
	return errors.As(err, &ipe)
}
