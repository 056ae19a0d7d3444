package providers

import "context"

// UniswapStub is a deliberately disabled adapter: direct Uniswap routing is
// not wired up, and callers selecting it get a structured terminal error
// rather than a placeholder success.
type UniswapStub struct{}

// NewUniswapStub creates the disabled Uniswap adapter.
func NewUniswapStub() *UniswapStub { return &UniswapStub{} }

func (u *UniswapStub) Name() string { return "uniswap" }

func (u *UniswapStub) Flavors() []EndpointFlavor {
	return []EndpointFlavor{FlavorQuote}
}

// Quote always fails with ProviderDisabledError. No network call is made.
func (u *UniswapStub) Quote(ctx context.Context, job *QuoteJob) (*NormalizedQuote, error) {
	return nil, &ProviderDisabledError{Provider: "uniswap"}
}
