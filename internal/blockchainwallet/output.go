package blockchainwallet

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	walletinterfaces "github.com/kaigoh/blockchainwallet/wallet_interfaces"
)

// WriteResult prints a decoded API response. Responses are passed through
// untouched, so numbers keep the precision the service sent.
func WriteResult(out io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// ParsePayments turns address=amount arguments into a recipient map.
func ParsePayments(args []string) (walletinterfaces.Payments, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one address=amount pair is required")
	}
	payments := make(walletinterfaces.Payments, len(args))
	for _, arg := range args {
		address, rawAmount, ok := strings.Cut(arg, "=")
		address = strings.TrimSpace(address)
		rawAmount = strings.TrimSpace(rawAmount)
		if !ok || address == "" || rawAmount == "" {
			return nil, fmt.Errorf("invalid payment %q: expected address=amount", arg)
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount for %s: %w", address, err)
		}
		if _, dup := payments[address]; dup {
			return nil, fmt.Errorf("duplicate recipient %s", address)
		}
		payments[address] = amount
	}
	return payments, nil
}
