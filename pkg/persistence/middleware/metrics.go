package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records the latency and outcome of checkpoint store operations.
type StoreMetrics struct {
	Duration *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fsmkit",
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Duration of checkpoint store operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Duration)
	}
	return m
}

// Middleware returns a store middleware that records into m.
func (m *StoreMetrics) Middleware() Middleware {
	return func(next ports.CheckpointStore) ports.CheckpointStore {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

type metricsMiddleware struct {
	next    ports.CheckpointStore
	metrics *StoreMetrics
}

func (m *metricsMiddleware) Save(ctx context.Context, sessionID string, cp *domain.Checkpoint) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, cp)
	m.metrics.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	start := time.Now()
	cp, err := m.next.Load(ctx, sessionID)
	m.metrics.observe("load", start, err)
	return cp, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.metrics.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.metrics.observe("list", start, err)
	return ids, err
}

func (m *StoreMetrics) observe(op string, start time.Time, err error) {
	m.Duration.WithLabelValues(op, outcome(err)).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "not_found"
	}
	return "error"
}
