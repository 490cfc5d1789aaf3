package blockchainwallet

import (
	"fmt"
	"log/slog"

	"github.com/kaigoh/blockchainwallet/wallet_interfaces/btc"
)

// Setup loads (or creates) the config at path, validates it and installs the
// configured logger.
func Setup(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := LoadOrCreateConfig(configPath, defaultConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	InitLogger(cfg.Logging)
	slog.Debug("config loaded", "path", configPath, "host", cfg.API.Host, "port", cfg.API.Port, "wallet", cfg.Wallet.ID)
	return cfg, nil
}

// NewClient builds a wallet API client from cfg. metrics may be nil.
func NewClient(cfg *Config, metrics *btc.Metrics) (*btc.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	return btc.New(cfg.Credentials(),
		btc.WithScheme(cfg.API.Scheme),
		btc.WithHost(cfg.API.Host),
		btc.WithPort(cfg.API.Port),
		btc.WithTransport(btc.NewHTTPTransport(cfg.TransportOptions())),
		btc.WithLogger(slog.Default()),
		btc.WithMetrics(metrics),
	)
}
