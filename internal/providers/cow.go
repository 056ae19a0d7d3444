package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"quote-backend/internal/amount"
	"quote-backend/internal/gas"
	"quote-backend/internal/pricing"
	"quote-backend/internal/tokens"
)

// defaultCowTaker is the CoW settlement contract, used as the from address
// when the caller does not supply one and none is configured.
const defaultCowTaker = "0x9008D19f58AAbD9eD0D60971565AA8510560ab41"

// CowConfig configures the CoW Protocol adapter.
type CowConfig struct {
	BaseURL      string
	DefaultTaker string
}

// Cow is the CoW Protocol adapter. Mainnet and SELL orders only; anything
// else is rejected structurally before a network call. Orders settle through
// batch auctions, so the route is cow_intent and the taker pays no execution
// gas.
type Cow struct {
	cfg  CowConfig
	http *httpClient
	est  *gas.Estimator
	log  *logrus.Entry
}

// NewCow creates the CoW adapter.
func NewCow(cfg CowConfig, est *gas.Estimator, log *logrus.Logger) *Cow {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cow.fi/mainnet"
	}
	if cfg.DefaultTaker == "" {
		cfg.DefaultTaker = defaultCowTaker
	}
	return &Cow{
		cfg:  cfg,
		http: newHTTPClient(15 * time.Second),
		est:  est,
		log:  log.WithField("provider", "cow"),
	}
}

func (c *Cow) Name() string { return "cow" }

func (c *Cow) Flavors() []EndpointFlavor {
	return []EndpointFlavor{FlavorQuote}
}

type cowQuoteRequest struct {
	SellToken           string `json:"sellToken"`
	BuyToken            string `json:"buyToken"`
	From                string `json:"from"`
	Kind                string `json:"kind"`
	SellAmountBeforeFee string `json:"sellAmountBeforeFee"`
}

type cowQuoteResponse struct {
	Quote struct {
		SellAmount string `json:"sellAmount"`
		BuyAmount  string `json:"buyAmount"`
		FeeAmount  string `json:"feeAmount"`
	} `json:"quote"`
	Expiration string `json:"expiration"`
}

// Quote fetches and normalizes a CoW sell quote.
func (c *Cow) Quote(ctx context.Context, job *QuoteJob) (*NormalizedQuote, error) {
	if job.ChainID != 1 {
		return nil, &UnsupportedRequestError{Provider: "cow", Reason: fmt.Sprintf("chain %d not supported (mainnet only)", job.ChainID)}
	}
	if job.Side == pricing.SideBuy {
		return nil, &UnsupportedRequestError{Provider: "cow", Reason: "BUY side not supported (sell orders only)"}
	}

	taker := job.Taker
	if taker == "" {
		taker = c.cfg.DefaultTaker
	}
	if !common.IsHexAddress(taker) {
		return nil, &InvalidAddressError{Address: taker}
	}

	// CoW's order book rejects the native sentinel; sell legs are always
	// submitted as the wrapped token.
	sellAddr := job.SellToken.Address
	if tokens.IsNative(sellAddr) {
		wrapped, ok := tokens.WrappedNative(job.ChainID)
		if !ok {
			return nil, &UnsupportedRequestError{Provider: "cow", Reason: "no wrapped-native token configured"}
		}
		sellAddr = wrapped.Address
	}

	reqBody, err := json.Marshal(cowQuoteRequest{
		SellToken:           sellAddr,
		BuyToken:            job.BuyToken.Address,
		From:                taker,
		Kind:                "sell",
		SellAmountBeforeFee: job.SellAmountAtomic.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("cow: encode request: %w", err)
	}

	reqURL := c.cfg.BaseURL + "/api/v1/quote"
	body, err := c.http.do(ctx, "cow", "POST", reqURL, nil, reqBody)
	if err != nil {
		return nil, err
	}

	var resp cowQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("cow: decode response: %w", err)
	}

	sellAtomic, err := parseAtomic(resp.Quote.SellAmount)
	if err != nil {
		return nil, fmt.Errorf("cow: %w", err)
	}
	buyAtomic, err := parseAtomic(resp.Quote.BuyAmount)
	if err != nil {
		return nil, fmt.Errorf("cow: %w", err)
	}

	fig := upstreamFigures{
		SellAtomic: sellAtomic,
		BuyAtomic:  buyAtomic,
		GasUnits:   gas.DefaultGasUnits("cow"),
		URL:        reqURL,
		RawBody:    body,
		MEVRoute:   RouteCowIntent,
	}
	if fee, err := parseAtomic(resp.Quote.FeeAmount); err == nil && sellAtomic.Sign() > 0 {
		pct := ratioPct(fee, sellAtomic)
		fig.FeePct = &pct
	}
	// The signed buyAmount is the settlement guarantee; the slippage haircut
	// on top mirrors what the order would be signed with.
	fig.MinOutAtomic = amount.ApplyBps(buyAtomic, job.SlippageBps)

	return finishQuote(ctx, "cow", job, fig, c.est)
}
