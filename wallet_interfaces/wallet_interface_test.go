package walletinterfaces

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentsMarshalJSON(t *testing.T) {
	payments := Payments{
		"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy": decimal.NewFromFloat(0.2),
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa": decimal.NewFromFloat(0.1),
	}

	b, err := json.Marshal(payments)
	require.NoError(t, err)
	assert.Equal(t, `{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa":0.1,"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy":0.2}`, string(b))

	var decoded map[string]float64
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, 0.1, decoded["1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"])
}

func TestPaymentsMarshalJSONKeepsSatoshiPrecision(t *testing.T) {
	payments := Payments{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa": decimal.NewFromInt(2100000000000000)}

	b, err := json.Marshal(payments)
	require.NoError(t, err)
	assert.Equal(t, `{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa":2100000000000000}`, string(b))
}

func TestPaymentsMarshalJSONEmpty(t *testing.T) {
	b, err := json.Marshal(Payments{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
