package walletinterfaces

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Wallet is the merchant wallet API surface. Responses are the decoded JSON
// documents returned by the remote service, untouched.
type Wallet interface {
	GenerateAddress(ctx context.Context, label string) (any, error)
	GetAddressBalance(ctx context.Context, address string) (any, error)
	GetWalletBalance(ctx context.Context) (any, error)
	SendCoins(ctx context.Context, to string, amount any, opts SendOptions) (any, error)
	SendCoinsMulti(ctx context.Context, payments Payments, opts SendOptions) (any, error)
	ListAddresses(ctx context.Context) (any, error)
	ArchiveAddress(ctx context.Context, address string) (any, error)
	UnarchiveAddress(ctx context.Context, address string) (any, error)
}

// SendOptions are the optional payment parameters. Values that fail
// validation are left out of the request so the service applies its defaults.
type SendOptions struct {
	// From is the preferred sending address.
	From string
	// Fee may be a string or any numeric type.
	Fee any
	// Note is a public note attached to single payments.
	Note string
}

// Payments maps recipient addresses to amounts.
type Payments map[string]decimal.Decimal

// MarshalJSON writes amounts as bare JSON numbers.
func (p Payments) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p))
	for address, amount := range p {
		out[address] = json.RawMessage(amount.String())
	}
	return json.Marshal(out)
}
