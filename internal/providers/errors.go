package providers

import "fmt"

// UpstreamError is a non-2xx (or failed) upstream HTTP call. Status 0 means
// the request never got a response (network error).
type UpstreamError struct {
	Provider string
	URL      string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: upstream unreachable: %s", e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.Status, e.Body)
}

// IsAuth reports a terminal auth failure: never retried, no fallback.
func (e *UpstreamError) IsAuth() bool {
	return e.Status == 401 || e.Status == 403
}

// IsTransient reports a failure worth exactly one retry.
func (e *UpstreamError) IsTransient() bool {
	return e.Status == 429 || e.Status >= 500 || e.Status == 0
}

// AuthConfigError means a required API key is absent. Terminal; no network
// call is made.
type AuthConfigError struct {
	Provider string
}

func (e *AuthConfigError) Error() string {
	return fmt.Sprintf("%s: API key not configured", e.Provider)
}

// UnsupportedProviderError is returned for provider ids outside the registry.
type UnsupportedProviderError struct {
	Provider string
	Known    []string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q (known: %v)", e.Provider, e.Known)
}

// UnsupportedRequestError is a structural rejection made before any network
// call (e.g. CoW on a non-mainnet chain, CoW BUY orders). Terminal.
type UnsupportedRequestError struct {
	Provider string
	Reason   string
}

func (e *UnsupportedRequestError) Error() string {
	return fmt.Sprintf("%s: unsupported request: %s", e.Provider, e.Reason)
}

// ProviderDisabledError is the first-class terminal result of a deliberately
// disabled adapter.
type ProviderDisabledError struct {
	Provider string
}

func (e *ProviderDisabledError) Error() string {
	return fmt.Sprintf("%s: provider disabled", e.Provider)
}

// InvalidAddressError marks a malformed taker/from address.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q", e.Address)
}
