package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"quote-backend/internal/amount"
	"quote-backend/internal/clients"
	"quote-backend/internal/config"
	"quote-backend/internal/events"
	"quote-backend/internal/gas"
	"quote-backend/internal/handlers"
	"quote-backend/internal/pricing"
	"quote-backend/internal/providers"
	"quote-backend/internal/router"
	"quote-backend/internal/tokens"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	cfg := config.AppConfig

	for _, chain := range cfg.Chains {
		if chain.ChainID != 0 && len(chain.RPCEndpoints) > 0 {
			tokens.SetRPCEndpoints(chain.ChainID, chain.RPCEndpoints)
		}
	}

	rpc := clients.NewGasPriceClient(log)
	est := gas.NewEstimator(rpc, log, time.Now)

	zx := providers.NewZeroEx(providers.ZeroExConfig{
		BaseURL: cfg.Providers.ZeroEx.BaseURL,
		APIKey:  cfg.Providers.ZeroEx.APIKey,
	}, est, log)
	oneinch := providers.NewOneInch(providers.OneInchConfig{
		BaseURL: cfg.Providers.OneInch.BaseURL,
		APIKey:  cfg.Providers.OneInch.APIKey,
	}, est, log)
	cow := providers.NewCow(providers.CowConfig{
		BaseURL:      cfg.Providers.Cow.BaseURL,
		DefaultTaker: cfg.Providers.Cow.DefaultTaker,
	}, est, log)

	registry := providers.NewRegistry()
	registry.Register(zx)
	registry.Register(oneinch)
	registry.Register(cow)
	registry.Register(providers.NewUniswapStub())

	// Native→quote conversion probes price one wrapped-native unit through 0x.
	// SkipGas stops the probe from recursing into another gas estimate.
	est.SetNativePriceFunc(func(ctx context.Context, chainID uint64, quoteToken tokens.Token) (float64, error) {
		wrapped, ok := tokens.WrappedNative(chainID)
		if !ok {
			return 0, fmt.Errorf("no wrapped-native token for chain %d", chainID)
		}
		sellAtomic, err := amount.ToAtomic(1, wrapped.Decimals)
		if err != nil {
			return 0, err
		}
		probe := &providers.QuoteJob{
			ChainID:          chainID,
			SellToken:        wrapped,
			BuyToken:         quoteToken,
			SellAmountAtomic: sellAtomic,
			Side:             pricing.SideSell,
			HumanAmount:      1,
			BaseToken:        wrapped,
			QuoteToken:       quoteToken,
			Flavor:           zx.Flavors()[0],
			SkipGas:          true,
		}
		quote, err := zx.Quote(ctx, probe)
		if err != nil {
			return 0, err
		}
		return quote.Price, nil
	})

	publisher, err := events.NewPublisher(cfg.NATS.URL, log)
	if err != nil {
		log.WithError(err).Warn("quote event publishing disabled")
	}
	defer publisher.Close()

	quoteHandler := handlers.NewQuoteHandler(registry, publisher, log)
	r := router.Setup(quoteHandler, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithField("addr", addr).Info("quote backend listening")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
