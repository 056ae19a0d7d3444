package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-backend/internal/pricing"
)

func TestCowRejectsBuySideWithoutNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	cow := NewCow(CowConfig{BaseURL: srv.URL}, nil, testLogger())
	job := sellJob(t, 1, "USDC", "ETH", 3000)
	job.Side = pricing.SideBuy

	_, err := cow.Quote(context.Background(), job)

	var ure *UnsupportedRequestError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "cow", ure.Provider)
	assert.Contains(t, ure.Reason, "BUY")
	assert.Zero(t, calls, "BUY rejection must not hit the network")
}

func TestCowRejectsNonMainnet(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	cow := NewCow(CowConfig{BaseURL: srv.URL}, nil, testLogger())
	_, err := cow.Quote(context.Background(), sellJob(t, 137, "WETH", "USDC", 1))

	var ure *UnsupportedRequestError
	require.ErrorAs(t, err, &ure)
	assert.Contains(t, ure.Reason, "mainnet")
	assert.Zero(t, calls)
}

func TestCowRejectsMalformedTaker(t *testing.T) {
	cow := NewCow(CowConfig{}, nil, testLogger())
	job := sellJob(t, 1, "ETH", "USDC", 1)
	job.Taker = "not-an-address"

	_, err := cow.Quote(context.Background(), job)

	var iae *InvalidAddressError
	require.ErrorAs(t, err, &iae)
	assert.Equal(t, "not-an-address", iae.Address)
}

func TestCowSellNativeSubstitutesWrapped(t *testing.T) {
	var gotReq cowQuoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/quote", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(`{
			"quote": {
				"sellAmount": "1000000000000000000",
				"buyAmount": "3000000000",
				"feeAmount": "2000000000000000"
			},
			"expiration": "2025-06-01T12:00:00Z"
		}`))
	}))
	defer srv.Close()

	cow := NewCow(CowConfig{BaseURL: srv.URL}, nil, testLogger())
	job := sellJob(t, 1, "ETH", "USDC", 1)
	job.SlippageBps = 50

	quote, err := cow.Quote(context.Background(), job)
	require.NoError(t, err)

	// The native sentinel never reaches the order book.
	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", gotReq.SellToken)
	assert.Equal(t, "sell", gotReq.Kind)
	assert.Equal(t, defaultCowTaker, gotReq.From)
	assert.Equal(t, "1000000000000000000", gotReq.SellAmountBeforeFee)

	assert.Equal(t, "cow", quote.Provider)
	assert.InEpsilon(t, 3000.0, quote.Price, 1e-9)
	assert.Equal(t, RouteCowIntent, quote.MEVRoute)
	// 3000000000 haircut by 50 bps.
	assert.Equal(t, "2985000000", quote.MinOut)
	require.NotNil(t, quote.FeePct)
	assert.InEpsilon(t, 0.2, *quote.FeePct, 1e-9)
	// Batch settlement: the taker pays no execution gas.
	assert.Nil(t, quote.GasCostQuote)
}
