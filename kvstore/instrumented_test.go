package kvstore

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	s := NewInstrumentedStore(NewMemoryStore(), metrics, "memory")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	_, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	_, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, "k"))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.operations.WithLabelValues("memory", "get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("memory", "set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("memory", "remove", "ok")))

	metrics.ObserveCorrupt("nlk:a:cards")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.corrupt))
}
