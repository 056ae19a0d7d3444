package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"quote-backend/internal/amount"
	"quote-backend/internal/gas"
)

// OneInchConfig configures the 1inch Swap API v6 adapter.
type OneInchConfig struct {
	BaseURL string
	APIKey  string
}

// OneInch is the 1inch adapter. v6 only exposes a single quote endpoint; the
// guaranteed minimum output is derived locally from the slippage tolerance.
type OneInch struct {
	cfg  OneInchConfig
	http *httpClient
	est  *gas.Estimator
	log  *logrus.Entry
}

// NewOneInch creates the 1inch adapter.
func NewOneInch(cfg OneInchConfig, est *gas.Estimator, log *logrus.Logger) *OneInch {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.1inch.dev"
	}
	return &OneInch{
		cfg:  cfg,
		http: newHTTPClient(15 * time.Second),
		est:  est,
		log:  log.WithField("provider", "1inch"),
	}
}

func (o *OneInch) Name() string { return "1inch" }

func (o *OneInch) Flavors() []EndpointFlavor {
	return []EndpointFlavor{FlavorQuote}
}

type oneInchResponse struct {
	DstAmount string `json:"dstAmount"`
	Gas       uint64 `json:"gas"`
}

// Quote fetches and normalizes a 1inch quote.
func (o *OneInch) Quote(ctx context.Context, job *QuoteJob) (*NormalizedQuote, error) {
	if o.cfg.APIKey == "" {
		return nil, &AuthConfigError{Provider: "1inch"}
	}

	params := url.Values{}
	params.Set("src", job.SellToken.Address)
	params.Set("dst", job.BuyToken.Address)
	params.Set("amount", job.SellAmountAtomic.String())
	params.Set("includeGas", "true")

	reqURL := fmt.Sprintf("%s/swap/v6.0/%d/quote?%s", o.cfg.BaseURL, job.ChainID, params.Encode())
	headers := map[string]string{
		"Authorization": "Bearer " + o.cfg.APIKey,
	}

	body, err := o.http.do(ctx, "1inch", "GET", reqURL, headers, nil)
	if err != nil {
		return nil, err
	}

	var resp oneInchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("1inch: decode response: %w", err)
	}

	buyAtomic, err := parseAtomic(resp.DstAmount)
	if err != nil {
		return nil, fmt.Errorf("1inch: %w", err)
	}

	fig := upstreamFigures{
		SellAtomic: job.SellAmountAtomic,
		BuyAtomic:  buyAtomic,
		GasUnits:   resp.Gas,
		URL:        reqURL,
		RawBody:    body,
		MEVRoute:   RoutePublic,
	}
	if fig.GasUnits == 0 {
		fig.GasUnits = gas.DefaultGasUnits("1inch")
	}
	if job.SlippageBps > 0 {
		fig.MinOutAtomic = amount.ApplyBps(buyAtomic, job.SlippageBps)
	}

	return finishQuote(ctx, "1inch", job, fig, o.est)
}
