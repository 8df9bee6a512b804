// Package tests provides reusable contract suites that verify adapter
// implementations against the ports they claim to satisfy.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

// RunStoreContract runs a suite of tests to verify that a RunStore
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405.000")

	t.Run("Save and Load", func(t *testing.T) {
		run := contractRun(runID)

		require.NoError(t, store.Save(ctx, run), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, run.Phase, loaded.Phase)
		assert.Equal(t, run.Config, loaded.Config)
		assert.Equal(t, run.Volume, loaded.Volume)
		assert.Equal(t, run.Clock, loaded.Clock)
		assert.Equal(t, run.Stirring, loaded.Stirring)
		assert.Equal(t, run.Samples, loaded.Samples)
		// JSON-backed stores may truncate sub-second precision.
		assert.WithinDuration(t, run.CreatedAt, loaded.CreatedAt, time.Second)
		assert.WithinDuration(t, run.UpdatedAt, loaded.UpdatedAt, time.Second)
	})

	t.Run("Overwrite", func(t *testing.T) {
		run := contractRun(runID)
		run.Volume = 20
		run.Phase = domain.PhaseComplete
		run.Samples = append(run.Samples, domain.Sample{Volume: 20, PH: 12.1})

		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.PhaseComplete, loaded.Phase)
		assert.Equal(t, float64(20), loaded.Volume)
		assert.Len(t, loaded.Samples, 4)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRun(runID)))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "Delete should be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, contractRun(id1)))
		require.NoError(t, store.Save(ctx, contractRun(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})

	t.Run("Isolation", func(t *testing.T) {
		run := contractRun(runID)
		require.NoError(t, store.Save(ctx, run))
		defer func() { _ = store.Delete(ctx, runID) }()

		// Mutating the saved run must not reach the store.
		run.Volume = 999
		run.Samples[0].PH = 999

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 12.5, loaded.Volume)
		assert.Equal(t, 1.0, loaded.Samples[0].PH)

		// Mutating a loaded run must not reach the store either.
		loaded.Stirring = false
		loaded.Samples[0].PH = 999

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.True(t, again.Stirring)
		assert.Equal(t, 1.0, again.Samples[0].PH)
	})
}

func contractRun(id string) *domain.Run {
	run := domain.NewRun(id, domain.Config{
		Analyte: domain.Solute{Kind: domain.Acid, Strength: domain.Strong, Concentration: 0.1, Volume: 25},
		Titrant: domain.Titrant{
			Solute:       domain.Solute{Kind: domain.Base, Strength: domain.Strong, Concentration: 0.1, Volume: 50},
			DeliveryRate: 0.5,
		},
	})
	run.Phase = domain.PhasePaused
	run.Volume = 12.5
	run.Clock = 25
	run.Stirring = true
	run.Samples = []domain.Sample{
		{Volume: 0, PH: 1},
		{Volume: 6.25, PH: 1.3},
		{Volume: 12.5, PH: 1.6},
	}
	return run
}
