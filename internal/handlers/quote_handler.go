package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quote-backend/internal/amount"
	"quote-backend/internal/events"
	"quote-backend/internal/metrics"
	"quote-backend/internal/orchestrator"
	"quote-backend/internal/pricing"
	"quote-backend/internal/providers"
	"quote-backend/internal/tokens"
)

// QuoteHandler is the aggregator entry point: it validates the inbound
// request, resolves tokens and amounts, and drives the orchestrator for the
// requested provider.
//
// Contract: every known failure mode is returned with HTTP 200 and an
// {error, provider, raw} body. 5xx is reserved for unexpected internal
// failures, so callers can branch on payload shape alone.
type QuoteHandler struct {
	registry  *providers.Registry
	publisher *events.Publisher
	log       *logrus.Logger

	// orchFor builds the orchestrator for an adapter; replaced in tests to
	// shrink the retry delay.
	orchFor func(providers.Adapter) *orchestrator.Orchestrator
}

// NewQuoteHandler creates the handler. publisher may be nil.
func NewQuoteHandler(registry *providers.Registry, publisher *events.Publisher, log *logrus.Logger) *QuoteHandler {
	return &QuoteHandler{
		registry:  registry,
		publisher: publisher,
		log:       log,
		orchFor: func(a providers.Adapter) *orchestrator.Orchestrator {
			return orchestrator.New(a, log)
		},
	}
}

// QuoteRequest is the inbound POST body.
type QuoteRequest struct {
	ChainID     uint64  `json:"chainId"`
	Base        string  `json:"base"`
	Quote       string  `json:"quote"`
	Side        string  `json:"side"`
	Amount      float64 `json:"amount"`
	SlippageBps int     `json:"slippageBps"`
	Provider    string  `json:"provider"`
	From        string  `json:"from"`
	Taker       string  `json:"taker"`
	Debug       bool    `json:"debug"`
}

// errorBody builds the stable error payload, carrying the attempt trail when
// one exists.
func errorBody(err error, provider string, attempts []providers.AttemptRecord) gin.H {
	body := gin.H{
		"error":    err.Error(),
		"provider": provider,
	}
	if len(attempts) > 0 {
		body["raw"] = gin.H{"debug": gin.H{"attempts": attempts}}
	}
	return body
}

// Quote handles POST /api/quote.
func (h *QuoteHandler) Quote(c *gin.Context) {
	start := time.Now()

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"error":    "invalid request body: " + err.Error(),
			"provider": "",
		})
		return
	}

	if req.Provider == "" {
		req.Provider = "0x"
	}

	side := pricing.Side(req.Side)
	if !side.Valid() {
		c.JSON(http.StatusOK, errorBody(
			&providers.UnsupportedRequestError{Provider: req.Provider, Reason: "side must be BUY or SELL"},
			req.Provider, nil))
		return
	}

	// Provider, chain, and amount validation all happen before any network
	// call.
	adapter, err := h.registry.Get(req.Provider)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(req.Provider, "rejected").Inc()
		c.JSON(http.StatusOK, errorBody(err, req.Provider, nil))
		return
	}

	baseToken, err := tokens.Normalize(req.ChainID, req.Base)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(req.Provider, "rejected").Inc()
		c.JSON(http.StatusOK, errorBody(err, req.Provider, nil))
		return
	}
	quoteToken, err := tokens.Normalize(req.ChainID, req.Quote)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(req.Provider, "rejected").Inc()
		c.JSON(http.StatusOK, errorBody(err, req.Provider, nil))
		return
	}

	// Sell/buy leg assignment. SELL sells `amount` of base for quote; BUY
	// spends `amount` of quote to acquire base.
	sellToken, buyToken := baseToken, quoteToken
	if side == pricing.SideBuy {
		sellToken, buyToken = quoteToken, baseToken
	}

	sellAtomic, err := amount.ToAtomic(req.Amount, sellToken.Decimals)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues(req.Provider, "rejected").Inc()
		c.JSON(http.StatusOK, errorBody(err, req.Provider, nil))
		return
	}

	taker := req.Taker
	if taker == "" {
		taker = req.From
	}

	job := &providers.QuoteJob{
		ChainID:          req.ChainID,
		SellToken:        sellToken,
		BuyToken:         buyToken,
		SellAmountAtomic: sellAtomic,
		SlippageBps:      req.SlippageBps,
		Side:             side,
		HumanAmount:      req.Amount,
		BaseToken:        baseToken,
		QuoteToken:       quoteToken,
		Taker:            taker,
		Flavor:           adapter.Flavors()[0],
	}

	quote, attempts, err := h.orchFor(adapter).Run(c.Request.Context(), job)
	metrics.QuoteDuration.WithLabelValues(req.Provider).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.QuoteRequests.WithLabelValues(req.Provider, "error").Inc()
		c.JSON(http.StatusOK, errorBody(err, req.Provider, attempts))
		return
	}

	metrics.QuoteRequests.WithLabelValues(req.Provider, "success").Inc()
	if req.Debug {
		if quote.Raw == nil {
			quote.Raw = map[string]any{}
		}
		quote.Raw["debug"] = map[string]any{"attempts": attempts}
	}

	h.publisher.PublishQuote(quote)
	c.JSON(http.StatusOK, quote)
}

// Tokens handles GET /api/tokens/:chainId, listing the token registry for a
// chain.
func (h *QuoteHandler) Tokens(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.Param("chainId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "invalid chainId: " + c.Param("chainId")})
		return
	}

	list, err := tokens.List(chainID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chainId": chainID,
		"tokens":  list,
	})
}
