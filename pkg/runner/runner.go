package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/burette/internal/logging"
	"github.com/aretw0/burette/pkg/domain"
)

// Engine is the slice of the titration engine the runner drives.
// *burette.Engine satisfies it.
type Engine interface {
	Start(ctx context.Context) error
	Tick(ctx context.Context, dt float64) error
	Phase() domain.Phase
	Snapshot() *domain.Run
}

// Runner paces an engine with a real-time ticker.
type Runner struct {
	engine Engine
	sink   Sink
	logger *slog.Logger

	interval time.Duration
	speed    float64
	budget   time.Duration
}

// Option configures the Runner.
type Option func(*Runner)

// WithSink directs every recorded sample to the given sink.
func WithSink(sink Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithInterval sets the real-time spacing between ticks (default 100ms).
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithSpeed sets how many simulated time units elapse per real second
// (default 1).
func WithSpeed(speed float64) Option {
	return func(r *Runner) {
		r.speed = speed
	}
}

// WithBudget bounds the total wall time of one Run call; zero means
// run until Complete or cancellation.
func WithBudget(d time.Duration) Option {
	return func(r *Runner) {
		r.budget = d
	}
}

// New creates a Runner for the engine.
func New(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:   engine,
		interval: 100 * time.Millisecond,
		speed:    1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sink == nil {
		r.sink = NopSink{}
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// Run starts the engine if it is idle and ticks it until it completes,
// the budget runs out, or the context is canceled. It returns the final
// snapshot; on cancellation the snapshot taken so far is returned along
// with the context error.
func (r *Runner) Run(ctx context.Context) (*domain.Run, error) {
	if r.speed <= 0 {
		return nil, fmt.Errorf("speed must be positive, got %g", r.speed)
	}

	if r.engine.Phase() == domain.PhaseIdle {
		if err := r.engine.Start(ctx); err != nil {
			return nil, err
		}
		r.emit()
	}

	if r.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.budget)
		defer cancel()
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("runner stopped", "reason", ctx.Err())
			r.sink.Done(r.engine.Snapshot())
			return r.engine.Snapshot(), ctx.Err()
		case now := <-ticker.C:
			// Map the actually elapsed wall time, not the nominal
			// interval: a starved ticker still advances correctly.
			dt := r.speed * now.Sub(last).Seconds()
			last = now
			if dt <= 0 {
				continue
			}

			if err := r.engine.Tick(ctx, dt); err != nil {
				r.sink.Done(r.engine.Snapshot())
				return r.engine.Snapshot(), err
			}
			r.emit()

			if r.engine.Phase() == domain.PhaseComplete {
				r.sink.Done(r.engine.Snapshot())
				return r.engine.Snapshot(), nil
			}
		}
	}
}

func (r *Runner) emit() {
	snap := r.engine.Snapshot()
	if len(snap.Samples) == 0 {
		return
	}
	r.sink.Sample(snap, snap.Samples[len(snap.Samples)-1])
}
