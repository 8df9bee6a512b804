package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/burette"
	"github.com/aretw0/burette/pkg/domain"
)

func strongStrongConfig() domain.Config {
	return domain.Config{
		Analyte: domain.Solute{
			Kind: domain.Acid, Strength: domain.Strong,
			Concentration: 0.1, Volume: 25,
		},
		Titrant: domain.Titrant{
			Solute: domain.Solute{
				Kind: domain.Base, Strength: domain.Strong,
				Concentration: 0.1, Volume: 50,
			},
			DeliveryRate: 5,
		},
	}
}

func TestMetricsFollowRunLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	eng, err := burette.New(strongStrongConfig(),
		burette.WithID("m1"),
		burette.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, eng.Start(ctx))
	for eng.Phase() == domain.PhaseRunning {
		require.NoError(t, eng.Tick(ctx, 1))
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.runsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.runsCompleted))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.equivalences))
	// 50 mL cap at 5 mL per tick.
	assert.Equal(t, float64(10), testutil.ToFloat64(metrics.ticks.WithLabelValues("m1")))
	assert.Equal(t, float64(50), testutil.ToFloat64(metrics.volume.WithLabelValues("m1")))
	assert.InDelta(t, 12.52, testutil.ToFloat64(metrics.ph.WithLabelValues("m1")), 0.01)
}

func TestMetricsForgetDropsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	metrics.Hooks().OnTick(context.Background(), &domain.TickEvent{
		EventBase: domain.EventBase{RunID: "gone"},
		Delta:     1,
		Sample:    domain.Sample{Volume: 1, PH: 2},
	})
	require.Equal(t, 1, testutil.CollectAndCount(metrics.ph))

	metrics.Forget("gone")
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.ph))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.volume))
}

func TestMergedHooksKeepCustomObservers(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	var completions int
	hooks := domain.MergeHooks(metrics.Hooks(), domain.LifecycleHooks{
		OnComplete: func(ctx context.Context, e *domain.RunEvent) { completions++ },
	})

	hooks.OnComplete(context.Background(), &domain.RunEvent{})
	assert.Equal(t, 1, completions)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.runsCompleted))
}
