package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/burette"
	"github.com/aretw0/burette/pkg/domain"
)

func fastConfig() domain.Config {
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
			DeliveryRate: 50,
		},
	}
}

// recorder collects sink calls for assertions.
type recorder struct {
	samples []domain.Sample
	phases  []domain.Phase
	done    int
	final   *domain.Run
}

func (r *recorder) Sample(run *domain.Run, s domain.Sample) {
	r.samples = append(r.samples, s)
	r.phases = append(r.phases, run.Phase)
}

func (r *recorder) Done(run *domain.Run) {
	r.done++
	r.final = run
}

func TestRunnerDrivesRunToCompletion(t *testing.T) {
	eng, err := burette.New(fastConfig())
	require.NoError(t, err)

	rec := &recorder{}
	r := New(eng,
		WithSink(rec),
		WithInterval(time.Millisecond),
		WithSpeed(1000), // simulated units fly by; ~50 mL in a few ms
	)

	run, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseComplete, run.Phase)
	assert.Equal(t, 50.0, run.Volume, "volume clamps at the cap")
	require.NotEmpty(t, rec.samples)
	assert.Equal(t, 0.0, rec.samples[0].Volume, "initial sample emitted on start")
	assert.Equal(t, 1, rec.done)
	assert.Equal(t, domain.PhaseComplete, rec.final.Phase)

	// Volumes never regress on the way out.
	for i := 1; i < len(rec.samples); i++ {
		assert.GreaterOrEqual(t, rec.samples[i].Volume, rec.samples[i-1].Volume)
	}
}

func TestRunnerHonorsCancellation(t *testing.T) {
	cfg := fastConfig()
	cfg.Titrant.DeliveryRate = 0.001 // slow enough to never finish
	eng, err := burette.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	rec := &recorder{}
	r := New(eng, WithSink(rec), WithInterval(time.Millisecond))
	run, err := r.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, run)
	assert.Equal(t, domain.PhaseRunning, run.Phase, "cancellation leaves the run resumable")
	assert.Equal(t, 1, rec.done)
}

func TestRunnerBudgetStopsTheRun(t *testing.T) {
	cfg := fastConfig()
	cfg.Titrant.DeliveryRate = 0.001
	eng, err := burette.New(cfg)
	require.NoError(t, err)

	r := New(eng, WithInterval(time.Millisecond), WithBudget(15*time.Millisecond))
	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunnerRejectsNonPositiveSpeed(t *testing.T) {
	eng, err := burette.New(fastConfig())
	require.NoError(t, err)

	_, err = New(eng, WithSpeed(0)).Run(context.Background())
	assert.Error(t, err)
}

func TestRunnerResumesNonIdleEngine(t *testing.T) {
	eng, err := burette.New(fastConfig())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, eng.Start(ctx))
	require.NoError(t, eng.Tick(ctx, 0.1))
	before := eng.Volume()

	r := New(eng, WithInterval(time.Millisecond), WithSpeed(1000))
	run, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseComplete, run.Phase)
	assert.Greater(t, run.Volume, before)
}
