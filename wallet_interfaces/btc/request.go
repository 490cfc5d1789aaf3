package btc

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

type operation struct {
	action string
	// movesFunds marks actions that carry second_password when the wallet
	// has one. balance and list never do.
	movesFunds bool
}

var (
	opNewAddress       = operation{action: "new_address", movesFunds: true}
	opAddressBalance   = operation{action: "address_balance"}
	opBalance          = operation{action: "balance"}
	opPayment          = operation{action: "payment", movesFunds: true}
	opSendMany         = operation{action: "sendmany", movesFunds: true}
	opList             = operation{action: "list"}
	opArchiveAddress   = operation{action: "archive_address", movesFunds: true}
	opUnarchiveAddress = operation{action: "unarchive_address", movesFunds: true}
)

type param struct {
	name  string
	value string
}

// optionalParam is sent only when valid(value(opts)) holds.
type optionalParam struct {
	name  string
	value func(SendOptions) string
	valid func(string) bool
}

var (
	fromParam = optionalParam{
		name:  "from",
		value: func(o SendOptions) string { return o.From },
		valid: isValidFromAddress,
	}
	feeParam = optionalParam{
		name:  "fee",
		value: func(o SendOptions) string { return formatValue(o.Fee) },
		valid: isValidFee,
	}
	noteParam = optionalParam{
		name:  "note",
		value: func(o SendOptions) string { return o.Note },
		valid: func(s string) bool { return strings.TrimSpace(s) != "" },
	}

	paymentOptionals  = []optionalParam{fromParam, feeParam, noteParam}
	sendManyOptionals = []optionalParam{fromParam, feeParam}
)

var fromAddressPattern = regexp.MustCompile(`^[13][A-Za-z0-9]{26,33}$`)

func isValidFromAddress(s string) bool {
	return s != "" && fromAddressPattern.MatchString(s)
}

// isValidFee accepts integer and decimal strings, with optional sign and
// exponent. "0" counts as empty and is dropped. Exponents too large for
// decimal (e.g. "1e99999999999") are rejected and the fee is omitted.
func isValidFee(s string) bool {
	if s == "" || s == "0" {
		return false
	}
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}

// formatValue renders a scalar for the query string. Unsupported types
// render as "" and fail any validation.
func formatValue(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// formatRequired renders a required value as-is; the service validates it.
func formatRequired(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func buildParams(op operation, creds Credentials, required []param, optionals []optionalParam, opts SendOptions) url.Values {
	params := url.Values{}
	params.Set("password", creds.Password)
	for _, p := range required {
		params.Set(p.name, p.value)
	}
	if op.movesFunds && creds.hasSecondPassword() {
		params.Set("second_password", creds.SecondPassword)
	}
	for _, p := range optionals {
		if v := p.value(opts); p.valid(v) {
			params.Set(p.name, v)
		}
	}
	return params
}
