package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneInchSell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/swap/v6.0/1/quote", r.URL.Path)
		assert.Equal(t, "Bearer one-key", r.Header.Get("Authorization"))
		assert.Equal(t, "1000000000000000000", r.URL.Query().Get("amount"))
		assert.Equal(t, "true", r.URL.Query().Get("includeGas"))

		w.Write([]byte(`{"dstAmount": "3000000000", "gas": 210000}`))
	}))
	defer srv.Close()

	oi := NewOneInch(OneInchConfig{BaseURL: srv.URL, APIKey: "one-key"}, nil, testLogger())
	job := sellJob(t, 1, "ETH", "USDC", 1)
	job.SlippageBps = 100

	quote, err := oi.Quote(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, "1inch", quote.Provider)
	assert.InEpsilon(t, 3000.0, quote.Price, 1e-9)
	assert.Equal(t, "USDC/ETH", quote.Unit)
	// Derived locally: 3000000000 haircut by 100 bps.
	assert.Equal(t, "2970000000", quote.MinOut)
}

func TestOneInchMissingAPIKey(t *testing.T) {
	oi := NewOneInch(OneInchConfig{}, nil, testLogger())
	_, err := oi.Quote(context.Background(), sellJob(t, 1, "ETH", "USDC", 1))

	var ace *AuthConfigError
	require.ErrorAs(t, err, &ace)
	assert.Equal(t, "1inch", ace.Provider)
}

func TestUniswapStubDisabled(t *testing.T) {
	stub := NewUniswapStub()
	_, err := stub.Quote(context.Background(), sellJob(t, 1, "ETH", "USDC", 1))

	var pde *ProviderDisabledError
	require.ErrorAs(t, err, &pde)
	assert.Equal(t, "uniswap", pde.Provider)
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewUniswapStub())

	a, err := reg.Get("uniswap")
	require.NoError(t, err)
	assert.Equal(t, "uniswap", a.Name())

	_, err = reg.Get("sushiswap")
	var upe *UnsupportedProviderError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, []string{"uniswap"}, upe.Known)
}
