// Package providers contains the upstream DEX aggregator adapters. Each
// adapter builds the provider-specific request, applies auth, and parses the
// response into the common NormalizedQuote shape.
package providers

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"quote-backend/internal/pricing"
	"quote-backend/internal/tokens"
)

// EndpointFlavor selects between a provider's indicative and committed quote
// endpoints, for providers that expose both.
type EndpointFlavor string

const (
	FlavorPrice EndpointFlavor = "price"
	FlavorQuote EndpointFlavor = "quote"
)

// MEVRoute classifies the execution channel of a quote.
type MEVRoute string

const (
	RoutePublic    MEVRoute = "public"
	RouteCowIntent MEVRoute = "cow_intent"
)

// NormalizedQuote is the wire contract consumed by the trading engine.
// Price is always quote-currency per one unit of base currency, regardless of
// which side the upstream protocol was asked about.
type NormalizedQuote struct {
	Provider            string         `json:"provider"`
	Price               float64        `json:"price"`
	GasCostQuote        *float64       `json:"gasCostQuote,omitempty"`
	FeePct              *float64       `json:"feePct,omitempty"`
	MinOut              string         `json:"minOut,omitempty"`
	PriceImpactBps      *float64       `json:"priceImpactBps,omitempty"`
	MEVRoute            MEVRoute       `json:"mevRoute"`
	QuoteTs             int64          `json:"quoteTs"`
	Raw                 map[string]any `json:"raw"`
	EffectiveBpsCost    float64        `json:"effectiveBpsCost"`
	Unit                string         `json:"unit,omitempty"`
	RawPriceAtomicRatio *float64       `json:"rawPriceAtomicRatio,omitempty"`

	// RequestURL is the upstream URL that produced this quote. Surfaced in
	// the attempt trail, not in the response body.
	RequestURL string `json:"-"`
}

// AttemptRecord documents one upstream call (or structural rejection) in the
// fallback chain. The trail is always returned with errors so quote failures
// are diagnosable without log access.
type AttemptRecord struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Note   string `json:"note"`
	Body   string `json:"body,omitempty"`
}

// QuoteJob carries everything an adapter needs for one upstream attempt. The
// sell/buy legs are already assigned per the request side: SELL sells the
// base token, BUY sells the quote token.
type QuoteJob struct {
	ChainID          uint64
	SellToken        tokens.Token
	BuyToken         tokens.Token
	SellAmountAtomic *big.Int
	SlippageBps      int
	Side             pricing.Side
	HumanAmount      float64
	BaseToken        tokens.Token
	QuoteToken       tokens.Token
	Taker            string
	Flavor           EndpointFlavor

	// SkipGas suppresses gas-cost lookup; set on the internal native-price
	// probe so it cannot recurse into itself.
	SkipGas bool
}

// Clone returns a copy of the job safe to mutate for a fallback step.
func (j *QuoteJob) Clone() *QuoteJob {
	c := *j
	if j.SellAmountAtomic != nil {
		c.SellAmountAtomic = new(big.Int).Set(j.SellAmountAtomic)
	}
	return &c
}

// Adapter is the per-provider quote contract.
type Adapter interface {
	Name() string
	// Flavors lists the endpoint flavors the provider exposes, primary first.
	Flavors() []EndpointFlavor
	Quote(ctx context.Context, job *QuoteJob) (*NormalizedQuote, error)
}

// Registry dispatches provider ids to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its own name.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter for a provider id.
func (r *Registry) Get(id string) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, &UnsupportedProviderError{Provider: id, Known: r.Known()}
	}
	return a, nil
}

// Known returns the registered provider ids, sorted.
func (r *Registry) Known() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// parseAtomic parses a decimal atomic-amount string from an upstream
// response.
func parseAtomic(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty atomic amount")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed atomic amount %q", s)
	}
	return v, nil
}
