package kvstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storage collectors. Register them once per process.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	corrupt    prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "storage_operations_total",
			Help:      "Storage operations by backend, operation and result.",
		}, []string{"backend", "op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "storage_operation_seconds",
			Help:      "Storage operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"backend", "op"}),
		corrupt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "corrupt_values_total",
			Help:      "Stored values that failed to decode and were treated as absent.",
		}),
	}
	reg.MustRegister(m.operations, m.duration, m.corrupt)
	return m
}

// ObserveCorrupt counts a value that could not be decoded
func (m *Metrics) ObserveCorrupt(key string) {
	m.corrupt.Inc()
}

// InstrumentedStore records metrics around another Store.
type InstrumentedStore struct {
	next    Store
	metrics *Metrics
	backend string
}

// NewInstrumentedStore wraps next
func NewInstrumentedStore(next Store, metrics *Metrics, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics, backend: backend}
}

// Ensure InstrumentedStore implements Store
var _ Store = (*InstrumentedStore)(nil)

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.operations.WithLabelValues(s.backend, op, result).Inc()
	s.metrics.duration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, found, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return value, found, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *InstrumentedStore) Remove(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := s.next.Remove(ctx, keys...)
	s.observe("remove", start, err)
	return err
}

func (s *InstrumentedStore) ListKeys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := s.next.ListKeys(ctx)
	s.observe("list_keys", start, err)
	return keys, err
}
