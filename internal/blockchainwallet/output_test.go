package blockchainwallet

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayments(t *testing.T) {
	got, err := ParsePayments([]string{"1AddrOne=0.5", " 3AddrTwo = 1000 "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["1AddrOne"].Equal(decimal.RequireFromString("0.5")))
	assert.True(t, got["3AddrTwo"].Equal(decimal.NewFromInt(1000)))
}

func TestParsePaymentsErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "empty", args: nil, msg: "at least one"},
		{name: "missing equals", args: []string{"1Addr"}, msg: "expected address=amount"},
		{name: "missing amount", args: []string{"1Addr="}, msg: "expected address=amount"},
		{name: "missing address", args: []string{"=5"}, msg: "expected address=amount"},
		{name: "bad amount", args: []string{"1Addr=lots"}, msg: "invalid amount"},
		{name: "duplicate", args: []string{"1Addr=1", "1Addr=2"}, msg: "duplicate recipient"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePayments(tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestWriteResultKeepsNumbers(t *testing.T) {
	v := map[string]any{"balance": json.Number("100000000000000000001"), "addresses": []any{}}

	var compact bytes.Buffer
	require.NoError(t, WriteResult(&compact, v, false))
	assert.Equal(t, `{"addresses":[],"balance":100000000000000000001}`+"\n", compact.String())

	var pretty bytes.Buffer
	require.NoError(t, WriteResult(&pretty, v, true))
	assert.True(t, strings.Contains(pretty.String(), "\n  \"balance\": 100000000000000000001"))
}
