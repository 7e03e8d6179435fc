package observability

import (
	"context"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fsmkit"

// Metrics holds the Prometheus collectors fed by machine events.
type Metrics struct {
	Transitions    *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	EffectFailures *prometheus.CounterVec
	Restores       prometheus.Counter
	EffectDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of successful transitions",
			},
			[]string{"from", "action", "to"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of actions rejected as invalid for the current state",
			},
			[]string{"state", "action"},
		),
		EffectFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "effect_failures_total",
				Help:      "Total number of transitions aborted by a failing effect",
			},
			[]string{"from", "action"},
		),
		Restores: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "restores_total",
				Help:      "Total number of machines restored to a previous state",
			},
		),
		EffectDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "effect_duration_seconds",
				Help:      "Duration of effect executions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Rejections, m.EffectFailures, m.Restores, m.EffectDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.Action), string(e.To)).Inc()
			m.EffectDuration.WithLabelValues(string(e.Action)).Observe(e.Duration.Seconds())
		},
		OnRejected: func(ctx context.Context, e *domain.RejectionEvent) {
			m.Rejections.WithLabelValues(string(e.State), string(e.Action)).Inc()
		},
		OnEffectFailure: func(ctx context.Context, e *domain.TransitionEvent) {
			m.EffectFailures.WithLabelValues(string(e.From), string(e.Action)).Inc()
			m.EffectDuration.WithLabelValues(string(e.Action)).Observe(e.Duration.Seconds())
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			m.Restores.Inc()
		},
	}
}
