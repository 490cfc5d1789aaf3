package btc

import (
	"context"
	"encoding/json"
	"fmt"
)

// GenerateAddress creates a new receiving address. The label is always sent,
// even when empty.
func (c *Client) GenerateAddress(ctx context.Context, label string) (any, error) {
	return c.call(ctx, opNewAddress, []param{{name: "label", value: label}}, nil, SendOptions{})
}

// GetAddressBalance returns the balance of one address.
func (c *Client) GetAddressBalance(ctx context.Context, address string) (any, error) {
	return c.call(ctx, opAddressBalance, []param{{name: "address", value: address}}, nil, SendOptions{})
}

// GetWalletBalance returns the balance of the whole wallet. It authenticates
// with the main password only, even when a second password is configured.
func (c *Client) GetWalletBalance(ctx context.Context) (any, error) {
	return c.call(ctx, opBalance, nil, nil, SendOptions{})
}

// SendCoins sends amount to a single address. amount is passed through
// without validation.
func (c *Client) SendCoins(ctx context.Context, to string, amount any, opts SendOptions) (any, error) {
	required := []param{
		{name: "to", value: to},
		{name: "amount", value: formatRequired(amount)},
	}
	return c.call(ctx, opPayment, required, paymentOptionals, opts)
}

// SendCoinsMulti pays several addresses in one transaction. An empty map
// fails with ErrNoRecipients without contacting the service.
func (c *Client) SendCoinsMulti(ctx context.Context, payments Payments, opts SendOptions) (any, error) {
	if len(payments) == 0 {
		return nil, ErrNoRecipients
	}
	recipients, err := json.Marshal(payments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipients: %w", err)
	}
	return c.call(ctx, opSendMany, []param{{name: "recipients", value: string(recipients)}}, sendManyOptionals, opts)
}

// ListAddresses lists the active addresses of the wallet. Like
// GetWalletBalance it never sends the second password.
func (c *Client) ListAddresses(ctx context.Context) (any, error) {
	return c.call(ctx, opList, nil, nil, SendOptions{})
}

func (c *Client) ArchiveAddress(ctx context.Context, address string) (any, error) {
	return c.call(ctx, opArchiveAddress, []param{{name: "address", value: address}}, nil, SendOptions{})
}

// UnarchiveAddress restores an archived address.
func (c *Client) UnarchiveAddress(ctx context.Context, address string) (any, error) {
	return c.call(ctx, opUnarchiveAddress, []param{{name: "address", value: address}}, nil, SendOptions{})
}
