package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"quote-backend/internal/gas"
)

// ZeroExConfig configures the 0x Swap API v2 adapter.
type ZeroExConfig struct {
	BaseURL string
	APIKey  string
}

// ZeroEx is the 0x adapter. The primary attempt hits the indicative
// allowance-holder /price endpoint; the committed /quote endpoint is reserved
// for the alternate-flavor fallback step so quote-rate limits are only
// consumed once the cheaper endpoint has failed.
type ZeroEx struct {
	cfg  ZeroExConfig
	http *httpClient
	est  *gas.Estimator
	log  *logrus.Entry
}

// NewZeroEx creates the 0x adapter.
func NewZeroEx(cfg ZeroExConfig, est *gas.Estimator, log *logrus.Logger) *ZeroEx {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.0x.org"
	}
	return &ZeroEx{
		cfg:  cfg,
		http: newHTTPClient(15 * time.Second),
		est:  est,
		log:  log.WithField("provider", "0x"),
	}
}

func (z *ZeroEx) Name() string { return "0x" }

func (z *ZeroEx) Flavors() []EndpointFlavor {
	return []EndpointFlavor{FlavorPrice, FlavorQuote}
}

// zeroExResponse is the subset of the Swap API v2 response we consume.
type zeroExResponse struct {
	SellAmount   string `json:"sellAmount"`
	BuyAmount    string `json:"buyAmount"`
	MinBuyAmount string `json:"minBuyAmount"`
	Gas          string `json:"gas"`
	GasPrice     string `json:"gasPrice"`
	Fees         struct {
		ZeroExFee *struct {
			Amount string `json:"amount"`
			Token  string `json:"token"`
		} `json:"zeroExFee"`
	} `json:"fees"`
}

// Quote fetches and normalizes a 0x swap price.
func (z *ZeroEx) Quote(ctx context.Context, job *QuoteJob) (*NormalizedQuote, error) {
	if z.cfg.APIKey == "" {
		return nil, &AuthConfigError{Provider: "0x"}
	}

	path := "/swap/allowance-holder/price"
	if job.Flavor == FlavorQuote {
		path = "/swap/allowance-holder/quote"
	}

	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(job.ChainID, 10))
	params.Set("sellToken", job.SellToken.Address)
	params.Set("buyToken", job.BuyToken.Address)
	params.Set("sellAmount", job.SellAmountAtomic.String())
	if job.SlippageBps > 0 {
		params.Set("slippageBps", strconv.Itoa(job.SlippageBps))
	}
	if job.Taker != "" {
		params.Set("taker", job.Taker)
	}

	reqURL := fmt.Sprintf("%s%s?%s", z.cfg.BaseURL, path, params.Encode())
	headers := map[string]string{
		"0x-api-key": z.cfg.APIKey,
		"0x-version": "v2",
	}

	body, err := z.http.do(ctx, "0x", "GET", reqURL, headers, nil)
	if err != nil {
		return nil, err
	}

	var resp zeroExResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("0x: decode response: %w", err)
	}

	sellAtomic, err := parseAtomic(resp.SellAmount)
	if err != nil {
		// Some price responses omit sellAmount; fall back to what we asked.
		sellAtomic = job.SellAmountAtomic
	}
	buyAtomic, err := parseAtomic(resp.BuyAmount)
	if err != nil {
		return nil, fmt.Errorf("0x: %w", err)
	}

	fig := upstreamFigures{
		SellAtomic: sellAtomic,
		BuyAtomic:  buyAtomic,
		URL:        reqURL,
		RawBody:    body,
		MEVRoute:   RoutePublic,
	}

	if m, err := parseAtomic(resp.MinBuyAmount); err == nil {
		fig.MinOutAtomic = m
	}
	if g, err := strconv.ParseUint(resp.Gas, 10, 64); err == nil {
		fig.GasUnits = g
	} else {
		fig.GasUnits = gas.DefaultGasUnits("0x")
	}
	if gp, err := parseAtomic(resp.GasPrice); err == nil {
		fig.GasPriceWei = gp
	}
	if resp.Fees.ZeroExFee != nil {
		if fee, err := parseAtomic(resp.Fees.ZeroExFee.Amount); err == nil && sellAtomic.Sign() > 0 {
			pct := ratioPct(fee, sellAtomic)
			fig.FeePct = &pct
		}
	}

	return finishQuote(ctx, "0x", job, fig, z.est)
}
