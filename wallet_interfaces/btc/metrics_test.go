package btc

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	ok := &recordingGetter{body: []byte(`{"balance":0}`)}
	client, err := New(primaryOnly(), WithTransport(ok), WithMetrics(metrics))
	require.NoError(t, err)
	_, err = client.GetWalletBalance(context.Background())
	require.NoError(t, err)
	_, err = client.GetWalletBalance(context.Background())
	require.NoError(t, err)

	bad := &recordingGetter{body: []byte(`nope`)}
	client, err = New(primaryOnly(), WithTransport(bad), WithMetrics(metrics))
	require.NoError(t, err)
	_, err = client.ListAddresses(context.Background())
	require.Error(t, err)

	down := &recordingGetter{err: errors.New("dial tcp: connection refused")}
	client, err = New(primaryOnly(), WithTransport(down), WithMetrics(metrics))
	require.NoError(t, err)
	_, err = client.ListAddresses(context.Background())
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("balance", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("list", outcomeDecodeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("list", outcomeTransportError)))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.duration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe("balance", outcomeOK, 0) })
}
