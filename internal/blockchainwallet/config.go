package blockchainwallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kaigoh/blockchainwallet/wallet_interfaces/btc"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces the environment overrides, e.g.
// BLOCKCHAINWALLET_WALLET_PASSWORD.
const EnvPrefix = "BLOCKCHAINWALLET"

// Config is the full runtime configuration loaded from config.yml.
// It is treated as immutable once applied to the ConfigStore.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Transport TransportConfig `yaml:"transport,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

type APIConfig struct {
	Scheme string `yaml:"scheme"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
}

type WalletConfig struct {
	ID             string `yaml:"id"`
	Password       string `yaml:"password"`
	SecondPassword string `yaml:"second_password,omitempty"`
}

type TransportConfig struct {
	TimeoutSeconds    int `yaml:"timeout_seconds,omitempty"`
	Retries           int `yaml:"retries,omitempty"`
	RetryBackoffMS    int `yaml:"retry_backoff_ms,omitempty"`
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty"`
	Burst             int `yaml:"burst,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format,omitempty"`
}

// envOverrides keeps secrets out of the config file when wanted. Only
// non-empty values replace what the file says. split_words derives the
// prefixed key (BLOCKCHAINWALLET_API_HOST) and, unlike an explicit envconfig
// tag, never falls back to the bare name (API_HOST).
type envOverrides struct {
	WalletID             string `split_words:"true"`
	WalletPassword       string `split_words:"true"`
	WalletSecondPassword string `split_words:"true"`
	APIHost              string `split_words:"true"`
	APIPort              int    `split_words:"true"`
}

var defaultConfig = &Config{
	API: APIConfig{
		Scheme: btc.DefaultScheme,
		Host:   btc.DefaultHost,
		Port:   btc.DefaultPort,
	},
	Transport: TransportConfig{
		TimeoutSeconds: int(btc.DefaultTimeout / time.Second),
		RetryBackoffMS: int(btc.DefaultRetryBackoff / time.Millisecond),
	},
	Logging: LoggingConfig{
		Level:  "info",
		Format: "text",
	},
}

// Clone returns a copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// Normalize fills defaults and stabilizes casing/whitespace.
func (c *Config) Normalize() {
	c.API.Scheme = strings.ToLower(strings.TrimSpace(c.API.Scheme))
	if c.API.Scheme == "" {
		c.API.Scheme = btc.DefaultScheme
	}
	c.API.Host = strings.TrimSpace(c.API.Host)
	if c.API.Host == "" {
		c.API.Host = btc.DefaultHost
	}
	if c.API.Port == 0 {
		c.API.Port = btc.DefaultPort
	}
	c.Wallet.ID = strings.TrimSpace(c.Wallet.ID)
	if c.Transport.TimeoutSeconds == 0 {
		c.Transport.TimeoutSeconds = int(btc.DefaultTimeout / time.Second)
	}
	if c.Transport.RetryBackoffMS == 0 {
		c.Transport.RetryBackoffMS = int(btc.DefaultRetryBackoff / time.Millisecond)
	}
	if c.Transport.RequestsPerMinute > 0 && c.Transport.Burst <= 0 {
		c.Transport.Burst = 1
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	} else {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that the normalized config is internally consistent.
func (c *Config) Validate() error {
	switch c.API.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("api.scheme must be http or https")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 1 and 65535")
	}
	if c.Wallet.ID == "" {
		return fmt.Errorf("wallet.id is required")
	}
	if c.Wallet.Password == "" {
		return fmt.Errorf("wallet.password is required")
	}
	if c.Transport.TimeoutSeconds < 0 {
		return fmt.Errorf("transport.timeout_seconds must be >= 0")
	}
	if c.Transport.Retries < 0 {
		return fmt.Errorf("transport.retries must be >= 0")
	}
	if c.Transport.RetryBackoffMS < 0 {
		return fmt.Errorf("transport.retry_backoff_ms must be >= 0")
	}
	if c.Transport.RequestsPerMinute < 0 {
		return fmt.Errorf("transport.requests_per_minute must be >= 0")
	}
	if _, ok := parseLogLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if !validLogFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format must be text or json")
	}
	return nil
}

// ApplyEnv overlays BLOCKCHAINWALLET_* variables on top of the file values.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to process env overrides: %w", err)
	}
	if env.WalletID != "" {
		c.Wallet.ID = env.WalletID
	}
	if env.WalletPassword != "" {
		c.Wallet.Password = env.WalletPassword
	}
	if env.WalletSecondPassword != "" {
		c.Wallet.SecondPassword = env.WalletSecondPassword
	}
	if env.APIHost != "" {
		c.API.Host = env.APIHost
	}
	if env.APIPort != 0 {
		c.API.Port = env.APIPort
	}
	return nil
}

func (c *Config) Credentials() btc.Credentials {
	return btc.Credentials{
		WalletID:       c.Wallet.ID,
		Password:       c.Wallet.Password,
		SecondPassword: c.Wallet.SecondPassword,
	}
}

func (c *Config) TransportOptions() btc.TransportConfig {
	return btc.TransportConfig{
		Timeout:           time.Duration(c.Transport.TimeoutSeconds) * time.Second,
		Retries:           c.Transport.Retries,
		RetryBackoff:      time.Duration(c.Transport.RetryBackoffMS) * time.Millisecond,
		RequestsPerMinute: c.Transport.RequestsPerMinute,
		Burst:             c.Transport.Burst,
	}
}

// LoadOrCreateConfig loads path, or writes defaultCfg there when the file
// does not exist yet.
func LoadOrCreateConfig(path string, defaultCfg *Config) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err == nil {
		return cfg, nil
	}

	// Any errors other than file not found?
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := SaveConfig(path, defaultCfg); err != nil {
		return nil, err
	}

	cfg = defaultCfg.Clone()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadConfig reads path, applies env overrides and normalizes the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// SaveConfig normalizes a copy of cfg and writes it as YAML.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	out := cfg.Clone()
	out.Normalize()
	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}

	return saveConfigAtomic(path, data)
}

// saveConfigAtomic writes to a temp file in the same directory and renames it,
// so readers never observe partial writes and fsnotify sees a clean replace.
func saveConfigAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blockchainwallet.config-*.yml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
