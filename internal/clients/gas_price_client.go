package clients

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"quote-backend/internal/tokens"
)

// gasPriceSource is the slice of the RPC client the gas price path needs.
// Split out so tests can stub the chain without a live endpoint.
type gasPriceSource interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	Close()
}

// Dialer opens a connection to a chain RPC endpoint.
type Dialer func(ctx context.Context, rawurl string) (gasPriceSource, error)

func defaultDialer(ctx context.Context, rawurl string) (gasPriceSource, error) {
	return ethclient.DialContext(ctx, rawurl)
}

// GasPriceClient fetches the current gas price for a chain via eth_gasPrice.
type GasPriceClient struct {
	dial    Dialer
	timeout time.Duration
	log     *logrus.Entry
}

// NewGasPriceClient creates a gas price client using the chain registry's RPC
// endpoints.
func NewGasPriceClient(log *logrus.Logger) *GasPriceClient {
	return &GasPriceClient{
		dial:    defaultDialer,
		timeout: 10 * time.Second,
		log:     log.WithField("component", "gas_price_client"),
	}
}

// WithDialer replaces the RPC dialer. Test hook.
func (c *GasPriceClient) WithDialer(d Dialer) *GasPriceClient {
	c.dial = d
	return c
}

// GasPriceWei returns the chain's current gas price in wei.
func (c *GasPriceClient) GasPriceWei(ctx context.Context, chainID uint64) (*big.Int, error) {
	endpoint, err := tokens.RPCEndpoint(chainID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := c.dial(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer client.Close()

	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"chain_id": chainID,
			"endpoint": endpoint,
		}).WithError(err).Warn("eth_gasPrice failed")
		return nil, fmt.Errorf("eth_gasPrice on chain %d: %w", chainID, err)
	}
	return price, nil
}
