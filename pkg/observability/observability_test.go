package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/fsmkit/internal/logging"
	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turnstile(t *testing.T, pushErr error) *fsm.Table {
	t.Helper()
	table, err := fsm.NewBuilder().
		State("locked").On("coin", "unlocked").Do("unlock", nil).
		State("unlocked").On("push", "locked").Do("lock", func() error { return pushErr }).
		Build()
	require.NoError(t, err)
	return table
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	m, err := fsm.New("locked", turnstile(t, errors.New("stuck")), fsm.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	_, err = m.Dispatch("push")
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
	_, err = m.Dispatch("coin")
	require.NoError(t, err)
	_, err = m.Dispatch("push")
	assert.ErrorIs(t, err, domain.ErrEffectFailure)
	require.NoError(t, m.Restore("locked"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("locked", "coin", "unlocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejections.WithLabelValues("locked", "push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EffectFailures.WithLabelValues("unlocked", "push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Restores))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.EffectDuration))

	count, err := testutil.GatherAndCount(reg, "fsmkit_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug, logging.FormatJSON)

	m, err := fsm.New("locked", turnstile(t, errors.New("stuck")), fsm.WithLifecycleHooks(observability.LoggingHooks(logger)))
	require.NoError(t, err)

	_, _ = m.Dispatch("push")
	_, _ = m.Dispatch("coin")
	_, _ = m.Dispatch("push")
	_ = m.Restore("locked")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"msg":"action rejected"`)
	assert.Contains(t, lines[1], `"msg":"transition"`)
	assert.Contains(t, lines[1], `"to":"unlocked"`)
	assert.Contains(t, lines[2], `"msg":"effect failed"`)
	assert.Contains(t, lines[2], `"err":"stuck"`)
	assert.Contains(t, lines[3], `"msg":"restore"`)
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{OnTransition: func(_ context.Context, _ *domain.TransitionEvent) { order = append(order, "a") }}
	b := domain.LifecycleHooks{OnTransition: func(_ context.Context, _ *domain.TransitionEvent) { order = append(order, "b") }}

	m, err := fsm.New("locked", turnstile(t, nil), fsm.WithLifecycleHooks(observability.Combine(a, domain.LifecycleHooks{}, b)))
	require.NoError(t, err)
	_, err = m.Dispatch("push")
	assert.Error(t, err)
	_, err = m.Dispatch("coin")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, order)
}
