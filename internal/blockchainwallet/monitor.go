package blockchainwallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	walletinterfaces "github.com/kaigoh/blockchainwallet/wallet_interfaces"
	"github.com/kaigoh/blockchainwallet/wallet_interfaces/btc"
)

const DefaultMonitorInterval = time.Minute

type MonitorOptions struct {
	Interval time.Duration
	// MetricsAddr enables /metrics and /healthz when non-empty, e.g. ":9100".
	MetricsAddr string
}

// Monitor polls the wallet balance and address list until ctx is done.
// Config edits are picked up live: credential changes are swapped into the
// running client, API or transport changes rebuild it.
func Monitor(ctx context.Context, configPath string, opts MonitorOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultMonitorInterval
	}

	cfg, err := Setup(configPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := btc.NewMetrics(reg)

	initial, err := NewClient(cfg, metrics)
	if err != nil {
		return err
	}
	var client atomic.Pointer[btc.Client]
	client.Store(initial)

	store := NewConfigStore(configPath, cfg)
	applied := cfg.Clone()
	watcher, err := WatchConfigFile(configPath, store, func(next *Config) {
		applyConfigChange(&client, applied, next, metrics)
		applied = next
	})
	if err != nil {
		slog.Error("config watcher failed to start", "path", configPath, "error", err)
		return err
	}
	defer watcher.Close()
	slog.Info("config watcher started", "path", configPath)

	statuses := NewPollStatusStore()

	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		mux.HandleFunc("GET /healthz", HealthHandler(statuses))
		srv := &http.Server{Addr: opts.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			slog.Info("metrics server listening", "addr", opts.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server exited", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("monitor started", "interval", opts.Interval.String(), "api", initial.BaseURL(), "wallet", cfg.Wallet.ID)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	for {
		statuses.Update(pollOnce(ctx, client.Load()))
		select {
		case <-ctx.Done():
			slog.Info("monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// applyConfigChange is called from the watcher goroutine only, so prev is
// never read concurrently.
func applyConfigChange(client *atomic.Pointer[btc.Client], prev, next *Config, metrics *btc.Metrics) {
	if prev.API == next.API && prev.Transport == next.Transport {
		client.Load().Reconfigure(next.Credentials())
		slog.Info("wallet credentials reloaded", "wallet", next.Wallet.ID)
		return
	}
	rebuilt, err := NewClient(next, metrics)
	if err != nil {
		slog.Error("wallet client rebuild failed", "error", err)
		return
	}
	client.Store(rebuilt)
	slog.Info("wallet client rebuilt", "api", rebuilt.BaseURL(), "wallet", next.Wallet.ID)
}

// pollOnce fetches the wallet balance and address list once.
func pollOnce(ctx context.Context, wallet walletinterfaces.Wallet) PollStatus {
	status := PollStatus{LastChecked: time.Now().UTC()}

	balance, err := wallet.GetWalletBalance(ctx)
	if err != nil {
		status.Message = fmt.Sprintf("balance: %v", err)
		slog.Warn("wallet poll failed", "step", "balance", "error", err)
		return status
	}
	if m, ok := balance.(map[string]any); ok {
		if errMsg, ok := m["error"]; ok {
			status.Message = fmt.Sprintf("balance: %v", errMsg)
			slog.Warn("wallet poll rejected", "step", "balance", "error", errMsg)
			return status
		}
		status.Balance = m["balance"]
	}

	list, err := wallet.ListAddresses(ctx)
	if err != nil {
		status.Message = fmt.Sprintf("list: %v", err)
		slog.Warn("wallet poll failed", "step", "list", "error", err)
		return status
	}
	if m, ok := list.(map[string]any); ok {
		if addrs, ok := m["addresses"].([]any); ok {
			status.Addresses = len(addrs)
		}
	}

	status.Healthy = true
	slog.Info("wallet polled", "balance", status.Balance, "addresses", status.Addresses)
	return status
}
