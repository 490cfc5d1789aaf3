package btc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidFromAddress(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: validFromP2P, want: true},
		{in: validFromP2S, want: true},
		{in: "1" + strings.Repeat("a", 26), want: true},
		{in: "3" + strings.Repeat("Z", 33), want: true},
		{in: "1" + strings.Repeat("a", 25), want: false},
		{in: "1" + strings.Repeat("a", 34), want: false},
		{in: "2" + strings.Repeat("a", 30), want: false},
		{in: "1" + strings.Repeat("a", 29) + "-", want: false},
		{in: " " + validFromP2P, want: false},
		{in: "", want: false},
	}
	for _, tc := range cases {
		if got := isValidFromAddress(tc.in); got != tc.want {
			t.Fatalf("isValidFromAddress(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsValidFee(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{in: "50000", want: true},
		{in: "0.0005", want: true},
		{in: "-1", want: true},
		{in: "1e4", want: true},
		{in: " 250", want: true},
		{in: "0.0", want: true},
		{in: "0", want: false},
		{in: "", want: false},
		{in: "high", want: false},
		{in: "1.2.3", want: false},
		{in: "NaN", want: false},
		{in: "1e99999999999", want: false},
	}
	for _, tc := range cases {
		if got := isValidFee(tc.in); got != tc.want {
			t.Fatalf("isValidFee(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestBuildParamsOptionalTable(t *testing.T) {
	creds := Credentials{WalletID: "w", Password: "p", SecondPassword: "s"}
	params := buildParams(opPayment, creds,
		[]param{{name: "to", value: validFromP2P}, {name: "amount", value: "100"}},
		paymentOptionals,
		SendOptions{From: validFromP2S, Fee: 1000, Note: ""},
	)

	assert.Equal(t, "p", params.Get("password"))
	assert.Equal(t, "s", params.Get("second_password"))
	assert.Equal(t, validFromP2P, params.Get("to"))
	assert.Equal(t, "100", params.Get("amount"))
	assert.Equal(t, validFromP2S, params.Get("from"))
	assert.Equal(t, "1000", params.Get("fee"))
	assert.False(t, params.Has("note"))

	readOnly := buildParams(opBalance, creds, nil, nil, SendOptions{})
	assert.Len(t, readOnly, 1)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "50000", formatValue(50000))
	assert.Equal(t, "0.0005", formatValue(0.0005))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "", formatValue(struct{}{}))
	assert.Equal(t, "{}", formatRequired(struct{}{}))
}
