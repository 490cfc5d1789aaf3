package blockchainwallet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaigoh/blockchainwallet/wallet_interfaces/btc"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{
		API: APIConfig{Scheme: "HTTP", Host: " 127.0.0.1 ", Port: 3000},
		Wallet: WalletConfig{
			ID:       " wallet-guid ",
			Password: "main-pass",
		},
		Logging: LoggingConfig{Level: "WARN"},
	}
	cfg.Normalize()
	return cfg
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	assert.Equal(t, btc.DefaultScheme, cfg.API.Scheme)
	assert.Equal(t, btc.DefaultHost, cfg.API.Host)
	assert.Equal(t, btc.DefaultPort, cfg.API.Port)
	assert.Equal(t, 15, cfg.Transport.TimeoutSeconds)
	assert.Equal(t, 500, cfg.Transport.RetryBackoffMS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	cfg = testConfig(t)
	assert.Equal(t, "http", cfg.API.Scheme)
	assert.Equal(t, "127.0.0.1", cfg.API.Host)
	assert.Equal(t, "wallet-guid", cfg.Wallet.ID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestNormalizeDefaultsBurstWhenLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transport.RequestsPerMinute = 30
	cfg.Normalize()
	assert.Equal(t, 1, cfg.Transport.Burst)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "scheme", mutate: func(c *Config) { c.API.Scheme = "ftp" }, errMsg: "api.scheme"},
		{name: "port", mutate: func(c *Config) { c.API.Port = 70000 }, errMsg: "api.port"},
		{name: "wallet id", mutate: func(c *Config) { c.Wallet.ID = "" }, errMsg: "wallet.id"},
		{name: "password", mutate: func(c *Config) { c.Wallet.Password = "" }, errMsg: "wallet.password"},
		{name: "retries", mutate: func(c *Config) { c.Transport.Retries = -1 }, errMsg: "transport.retries"},
		{name: "rpm", mutate: func(c *Config) { c.Transport.RequestsPerMinute = -5 }, errMsg: "transport.requests_per_minute"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, errMsg: "logging.level"},
		{name: "log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, errMsg: "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, `
api:
  scheme: https
  host: wallet.internal
  port: 3443
wallet:
  id: abc-123
  password: pw
  second_password: pw2
transport:
  retries: 2
  requests_per_minute: 60
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https", cfg.API.Scheme)
	assert.Equal(t, "wallet.internal", cfg.API.Host)
	assert.Equal(t, 3443, cfg.API.Port)
	assert.Equal(t, btc.Credentials{WalletID: "abc-123", Password: "pw", SecondPassword: "pw2"}, cfg.Credentials())

	opts := cfg.TransportOptions()
	assert.Equal(t, 15*time.Second, opts.Timeout)
	assert.Equal(t, 2, opts.Retries)
	assert.Equal(t, 500*time.Millisecond, opts.RetryBackoff)
	assert.Equal(t, 60, opts.RequestsPerMinute)
	assert.Equal(t, 1, opts.Burst)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "api: [unterminated")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "wallet:\n  id: from-file\n  password: file-pass\n")

	t.Setenv("BLOCKCHAINWALLET_WALLET_PASSWORD", "env-pass")
	t.Setenv("BLOCKCHAINWALLET_WALLET_SECOND_PASSWORD", "env-second")
	t.Setenv("BLOCKCHAINWALLET_API_PORT", "4000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Wallet.ID)
	assert.Equal(t, "env-pass", cfg.Wallet.Password)
	assert.Equal(t, "env-second", cfg.Wallet.SecondPassword)
	assert.Equal(t, 4000, cfg.API.Port)
}

func TestLoadConfigIgnoresUnprefixedEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "api:\n  host: wallet.internal\n  port: 3000\nwallet:\n  id: from-file\n  password: file-pass\n")

	t.Setenv("API_HOST", "elsewhere.example")
	t.Setenv("API_PORT", "8080")
	t.Setenv("WALLET_ID", "other-wallet")
	t.Setenv("WALLET_PASSWORD", "other-pass")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wallet.internal", cfg.API.Host)
	assert.Equal(t, 3000, cfg.API.Port)
	assert.Equal(t, "from-file", cfg.Wallet.ID)
	assert.Equal(t, "file-pass", cfg.Wallet.Password)

	t.Setenv("BLOCKCHAINWALLET_API_HOST", "wallet.prod")
	t.Setenv("BLOCKCHAINWALLET_WALLET_ID", "prod-wallet")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wallet.prod", cfg.API.Host)
	assert.Equal(t, "prod-wallet", cfg.Wallet.ID)
}

func TestLoadConfigEnvOverrideBadPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeConfig(t, path, "wallet:\n  id: w\n  password: p\n")
	t.Setenv("BLOCKCHAINWALLET_API_PORT", "not-a-port")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env overrides")
}

func TestLoadOrCreateConfigWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := LoadOrCreateConfig(path, defaultConfig)
	require.NoError(t, err)
	assert.Equal(t, btc.DefaultHost, cfg.API.Host)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Defaults carry no wallet, so they must not validate.
	require.Error(t, cfg.Validate())
	_, err = Setup(path)
	require.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := testConfig(t)
	cfg.Wallet.SecondPassword = "second"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	require.Error(t, SaveConfig(path, nil))
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := testConfig(t)
	clone := cfg.Clone()
	clone.Wallet.Password = "changed"
	assert.Equal(t, "main-pass", cfg.Wallet.Password)

	var nilCfg *Config
	assert.Nil(t, nilCfg.Clone())
}
