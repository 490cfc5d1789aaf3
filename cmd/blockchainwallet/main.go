package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/kaigoh/blockchainwallet/internal/blockchainwallet"
	walletinterfaces "github.com/kaigoh/blockchainwallet/wallet_interfaces"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "blockchainwallet",
		Usage: "talk to a merchant wallet API service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yml",
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("BLOCKCHAINWALLET_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "pretty-print JSON output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "new-address",
				Usage:     "generate a new receiving address",
				ArgsUsage: "[label]",
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					return w.GenerateAddress(ctx, cmd.Args().First())
				}),
			},
			{
				Name:      "address-balance",
				Usage:     "show the balance of one address",
				ArgsUsage: "<address>",
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					address, err := requireArg(cmd, "address")
					if err != nil {
						return nil, err
					}
					return w.GetAddressBalance(ctx, address)
				}),
			},
			{
				Name:  "balance",
				Usage: "show the wallet balance",
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					return w.GetWalletBalance(ctx)
				}),
			},
			{
				Name:      "send",
				Usage:     "send an amount to one address",
				ArgsUsage: "<to> <amount>",
				Flags:     append(sendFlags(), &cli.StringFlag{Name: "note", Usage: "public note attached to the payment"}),
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					if cmd.Args().Len() != 2 {
						return nil, fmt.Errorf("usage: blockchainwallet send [options] <to> <amount>")
					}
					opts := sendOptions(cmd)
					opts.Note = cmd.String("note")
					return w.SendCoins(ctx, cmd.Args().Get(0), cmd.Args().Get(1), opts)
				}),
			},
			{
				Name:      "send-many",
				Usage:     "send to several addresses in one transaction",
				ArgsUsage: "<address=amount>...",
				Flags:     sendFlags(),
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					payments, err := blockchainwallet.ParsePayments(cmd.Args().Slice())
					if err != nil {
						return nil, err
					}
					return w.SendCoinsMulti(ctx, payments, sendOptions(cmd))
				}),
			},
			{
				Name:  "list",
				Usage: "list the wallet's addresses",
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					return w.ListAddresses(ctx)
				}),
			},
			{
				Name:      "archive",
				Usage:     "archive an address",
				ArgsUsage: "<address>",
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					address, err := requireArg(cmd, "address")
					if err != nil {
						return nil, err
					}
					return w.ArchiveAddress(ctx, address)
				}),
			},
			{
				Name:      "unarchive",
				Usage:     "restore an archived address",
				ArgsUsage: "<address>",
				Action: withWallet(func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error) {
					address, err := requireArg(cmd, "address")
					if err != nil {
						return nil, err
					}
					return w.UnarchiveAddress(ctx, address)
				}),
			},
			{
				Name:  "monitor",
				Usage: "poll the wallet and expose metrics until interrupted",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Value: blockchainwallet.DefaultMonitorInterval,
						Usage: "time between polls",
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "serve /metrics and /healthz on this address, e.g. :9100",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return blockchainwallet.Monitor(ctx, cmd.String("config"), blockchainwallet.MonitorOptions{
						Interval:    cmd.Duration("interval"),
						MetricsAddr: cmd.String("metrics-addr"),
					})
				},
			},
		},
	}
}

type walletAction func(ctx context.Context, cmd *cli.Command, w walletinterfaces.Wallet) (any, error)

// withWallet loads config, builds a client and prints whatever the service
// returned. Error payloads from the service are printed as-is, not treated as failures.
func withWallet(fn walletAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := blockchainwallet.Setup(cmd.String("config"))
		if err != nil {
			return err
		}
		client, err := blockchainwallet.NewClient(cfg, nil)
		if err != nil {
			return err
		}
		result, err := fn(ctx, cmd, client)
		if err != nil {
			return err
		}
		return blockchainwallet.WriteResult(cmd.Root().Writer, result, cmd.Bool("json"))
	}
}

func sendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "spend only from this address"},
		&cli.StringFlag{Name: "fee", Usage: "transaction fee in satoshi"},
	}
}

func sendOptions(cmd *cli.Command) walletinterfaces.SendOptions {
	return walletinterfaces.SendOptions{
		From: cmd.String("from"),
		Fee:  cmd.String("fee"),
	}
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	value := strings.TrimSpace(cmd.Args().First())
	if cmd.Args().Len() != 1 || value == "" {
		return "", fmt.Errorf("usage: blockchainwallet %s <%s>", cmd.Name, name)
	}
	return value, nil
}
