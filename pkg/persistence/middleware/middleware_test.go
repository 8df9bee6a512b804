package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/burette/pkg/adapters/memory"
	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/persistence/middleware"
	"github.com/aretw0/burette/pkg/ports"
)

func testRun(id string, samples int) *domain.Run {
	run := domain.NewRun(id, domain.Config{
		Analyte: domain.Solute{Kind: domain.Acid, Strength: domain.Strong, Concentration: 0.1, Volume: 25},
		Titrant: domain.Titrant{
			Solute:       domain.Solute{Kind: domain.Base, Strength: domain.Strong, Concentration: 0.1, Volume: 50},
			DeliveryRate: 5,
		},
	})
	for i := 0; i < samples; i++ {
		run.Samples = append(run.Samples, domain.Sample{Volume: float64(i), PH: 1 + float64(i)*0.1})
	}
	return run
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.RunStore) ports.RunStore {
			return &tagged{RunStore: next, hook: func() { order = append(order, name) }}
		}
	}

	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Save(context.Background(), testRun("r", 0)))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

// tagged records the order middlewares see a Save.
type tagged struct {
	ports.RunStore
	hook func()
}

func (s *tagged) Save(ctx context.Context, run *domain.Run) error {
	s.hook()
	return s.RunStore.Save(ctx, run)
}

func TestRetentionDownsamplesOnSave(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewRetention(10)(inner)

	run := testRun("dense", 1000)
	require.NoError(t, store.Save(context.Background(), run))

	// The live run is untouched.
	assert.Len(t, run.Samples, 1000)

	persisted, err := inner.Load(context.Background(), "dense")
	require.NoError(t, err)
	require.Len(t, persisted.Samples, 10)

	// Endpoints survive and order is preserved.
	assert.Equal(t, run.Samples[0], persisted.Samples[0])
	assert.Equal(t, run.Samples[999], persisted.Samples[9])
	for i := 1; i < len(persisted.Samples); i++ {
		assert.Greater(t, persisted.Samples[i].Volume, persisted.Samples[i-1].Volume)
	}
}

func TestRetentionPassesSmallRunsThrough(t *testing.T) {
	inner := memory.NewStore()
	store := middleware.NewRetention(10)(inner)

	require.NoError(t, store.Save(context.Background(), testRun("sparse", 5)))

	persisted, err := inner.Load(context.Background(), "sparse")
	require.NoError(t, err)
	assert.Len(t, persisted.Samples, 5)
}

func TestRetentionRejectsTinyCap(t *testing.T) {
	assert.Panics(t, func() { middleware.NewRetention(1) })
}

func TestLoggingPassesDataThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := middleware.Chain(memory.NewStore(), middleware.NewLogging(logger))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRun("r1", 3)))
	run, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, run.Samples, 3)

	assert.Contains(t, buf.String(), "op=save")
	assert.Contains(t, buf.String(), "op=load")
}

func TestLoggingReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := middleware.Chain(memory.NewStore(), middleware.NewLogging(logger))
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.Contains(t, buf.String(), "level=WARN")
}
