package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig           `yaml:"server"`
	Providers ProvidersConfig        `yaml:"providers"`
	Chains    map[string]ChainConfig `yaml:"chains"`
	NATS      NATSConfig             `yaml:"nats"`
	CORS      CORSConfig             `yaml:"cors"`
}

// ServerConfig HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ProvidersConfig per-upstream configuration.
type ProvidersConfig struct {
	ZeroEx  ZeroExConfig  `yaml:"zeroex"`
	OneInch OneInchConfig `yaml:"oneinch"`
	Cow     CowConfig     `yaml:"cow"`
}

// ZeroExConfig 0x Swap API configuration.
type ZeroExConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

// OneInchConfig 1inch Swap API configuration.
type OneInchConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

// CowConfig CoW Protocol API configuration.
type CowConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	DefaultTaker string `yaml:"defaultTaker"`
}

// ChainConfig per-chain overrides.
type ChainConfig struct {
	ChainID      uint64   `yaml:"chainId"`
	RPCEndpoints []string `yaml:"rpcEndpoints"`
}

// NATSConfig quote event publishing configuration. Publishing is disabled
// when URL is empty.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// CORSConfig CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AppConfig is the loaded process-wide configuration.
var AppConfig *Config

// LoadConfig reads the yaml config file (config.local.yaml wins over
// config.yaml when no explicit path is given) and applies env overrides. A
// missing file is not an error: everything has env or built-in defaults.
func LoadConfig(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
		if _, err := os.Stat("config.local.yaml"); err == nil {
			configPath = "config.local.yaml"
			logrus.WithField("path", configPath).Info("using local configuration file")
		}
	}

	var config Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		logrus.WithField("path", configPath).Info("configuration loaded")
	case os.IsNotExist(err):
		logrus.WithField("path", configPath).Info("no config file, using defaults and environment")
	default:
		return fmt.Errorf("failed to read config file: %w", err)
	}

	overrideFromEnv(&config)

	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}

	AppConfig = &config
	return nil
}

// overrideFromEnv applies environment variables over the file values.
func overrideFromEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if key := os.Getenv("ZEROEX_API_KEY"); key != "" {
		config.Providers.ZeroEx.APIKey = key
	}
	if base := os.Getenv("ZEROEX_BASE_URL"); base != "" {
		config.Providers.ZeroEx.BaseURL = base
	}
	if key := os.Getenv("ONEINCH_API_KEY"); key != "" {
		config.Providers.OneInch.APIKey = key
	}
	if base := os.Getenv("ONEINCH_BASE_URL"); base != "" {
		config.Providers.OneInch.BaseURL = base
	}
	if base := os.Getenv("COW_BASE_URL"); base != "" {
		config.Providers.Cow.BaseURL = base
	}
	if taker := os.Getenv("COW_DEFAULT_TAKER"); taker != "" {
		config.Providers.Cow.DefaultTaker = taker
	}

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		config.NATS.URL = natsURL
	}

	// Per-chain RPC endpoints, e.g. ETHEREUM_RPC_ENDPOINTS=url1,url2
	for chainName, chainConfig := range config.Chains {
		envRPC := fmt.Sprintf("%s_RPC_ENDPOINTS", strings.ToUpper(chainName))
		if rpcEndpoints := os.Getenv(envRPC); rpcEndpoints != "" {
			chainConfig.RPCEndpoints = strings.Split(rpcEndpoints, ",")
			config.Chains[chainName] = chainConfig
		}
	}

	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		origins := strings.Split(corsOrigins, ",")
		config.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				config.CORS.AllowedOrigins = append(config.CORS.AllowedOrigins, trimmed)
			}
		}
	}
}
