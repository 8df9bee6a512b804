package burette

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/burette/internal/runtime"
	"github.com/aretw0/burette/pkg/domain"
)

// Engine is the high-level entry point for driving one titration run.
// It wraps the internal runtime and provides a simplified API for consumers
// that embed a single experiment (CLIs, notebooks, tests). For orchestrating
// many runs against shared storage, see Bench.
type Engine struct {
	machine *runtime.Machine

	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	id        string
	maxVolume float64
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxVolume caps the deliverable titrant volume in mL, overriding the
// config's MaxVolume field and the derived default (twice the equivalence
// volume).
func WithMaxVolume(v float64) Option {
	return func(e *Engine) {
		e.maxVolume = v
	}
}

// WithID sets the run identifier (default: a timestamp-derived ID).
func WithID(id string) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// New initializes an Engine for the given experiment setup. The config is
// validated up front; errors match domain.ErrInvalidConfig.
func New(cfg domain.Config, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.id == "" {
		eng.id = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	if eng.logger != nil {
		eng.logger = eng.logger.With("run_id", eng.id)
	}

	machine, err := runtime.New(eng.id, cfg, eng.machineOptions()...)
	if err != nil {
		return nil, err
	}
	eng.machine = machine
	return eng, nil
}

// Restore rehydrates an Engine from a persisted run snapshot, bypassing
// Start. The snapshot's config is re-validated and its samples replayed;
// corrupt payloads are rejected with the matching domain sentinel.
func Restore(run *domain.Run, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if run != nil {
		eng.id = run.ID
	}
	if eng.logger != nil {
		eng.logger = eng.logger.With("run_id", eng.id)
	}

	machine, err := runtime.Restore(run, eng.machineOptions()...)
	if err != nil {
		return nil, err
	}
	eng.machine = machine
	return eng, nil
}

func (e *Engine) machineOptions() []runtime.Option {
	machineOpts := []runtime.Option{
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithMaxVolume(e.maxVolume),
	}
	if e.logger != nil {
		machineOpts = append(machineOpts, runtime.WithLogger(e.logger))
	}
	return machineOpts
}

// Start begins the titration, recording the initial sample at zero volume.
func (e *Engine) Start(ctx context.Context) error {
	return e.machine.Start(ctx)
}

// Tick advances simulated time by dt units, delivering titrant at the
// configured rate and recording one curve sample.
func (e *Engine) Tick(ctx context.Context, dt float64) error {
	return e.machine.Tick(ctx, dt)
}

// Pause suspends a running titration.
func (e *Engine) Pause(ctx context.Context) error {
	return e.machine.Pause(ctx)
}

// Resume continues a paused titration.
func (e *Engine) Resume(ctx context.Context) error {
	return e.machine.Resume(ctx)
}

// ToggleStir flips the stirring flag and returns the new value.
func (e *Engine) ToggleStir(ctx context.Context) (bool, error) {
	return e.machine.ToggleStir(ctx)
}

// Reset returns the run to its pristine idle state, discarding the curve.
func (e *Engine) Reset(ctx context.Context) error {
	return e.machine.Reset(ctx)
}

// ID returns the run identifier.
func (e *Engine) ID() string { return e.machine.ID() }

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() domain.Phase { return e.machine.Phase() }

// Volume returns the titrant volume delivered so far, in mL.
func (e *Engine) Volume() float64 { return e.machine.Volume() }

// Clock returns the simulated time elapsed while running.
func (e *Engine) Clock() float64 { return e.machine.Clock() }

// Stirring reports whether the magnetic stirrer is on.
func (e *Engine) Stirring() bool { return e.machine.Stirring() }

// PH returns the current solution pH without recording a sample.
func (e *Engine) PH() float64 { return e.machine.PH() }

// Config returns the validated experiment setup.
func (e *Engine) Config() domain.Config { return e.machine.Config() }

// MaxVolume returns the effective titrant volume cap in mL.
func (e *Engine) MaxVolume() float64 { return e.machine.MaxVolume() }

// Curve returns a copy of the recorded titration curve.
func (e *Engine) Curve() []domain.Sample { return e.machine.Curve() }

// Equivalence returns the theoretical equivalence point for this setup.
func (e *Engine) Equivalence() domain.Sample { return e.machine.Equivalence() }

// Snapshot returns an isolated copy of the run suitable for persistence
// via a ports.RunStore and later Restore.
func (e *Engine) Snapshot() *domain.Run { return e.machine.Snapshot() }
