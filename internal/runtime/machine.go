// Package runtime implements the titration run state machine.
//
// A Machine exclusively owns the state of one run: its phase, the
// cumulative delivered volume, the simulated clock and the recorded
// curve. It never spawns goroutines and keeps no internal timer; time
// only advances through injected ticks. A Machine is not safe for
// concurrent use, callers serialize access (the Bench does this per
// run).
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/burette/internal/logging"
	"github.com/aretw0/burette/pkg/chem"
	"github.com/aretw0/burette/pkg/domain"
)

// Machine drives one titration run through its lifecycle.
type Machine struct {
	run       *domain.Run
	curve     *domain.Curve
	maxVolume float64
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	// equivalenceReached latches the one-shot equivalence hook.
	equivalenceReached bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithMaxVolume overrides the delivery cap in mL, taking precedence
// over both the config field and the derived default.
func WithMaxVolume(v float64) Option {
	return func(m *Machine) {
		m.maxVolume = v
	}
}

// New creates an idle machine for a validated config.
func New(id string, cfg domain.Config, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		run:   domain.NewRun(id, cfg),
		curve: domain.NewCurve(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.finishInit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Restore rebuilds a machine directly into a saved snapshot, bypassing
// Start. The config is re-validated and the stored samples are replayed
// through the curve, so a tampered payload surfaces
// domain.ErrNonMonotonicVolume here instead of corrupting later ticks.
// Nothing else is recomputed.
func Restore(run *domain.Run, opts ...Option) (*Machine, error) {
	if run == nil {
		return nil, fmt.Errorf("restore: %w", domain.ErrRunNotFound)
	}
	if err := run.Config.Validate(); err != nil {
		return nil, err
	}
	if !run.Phase.Valid() {
		return nil, fmt.Errorf("restore: unknown phase %q: %w", string(run.Phase), domain.ErrInvalidState)
	}

	m := &Machine{
		run:   run.Clone(),
		curve: domain.NewCurve(),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, s := range run.Samples {
		if err := m.curve.Append(s); err != nil {
			return nil, fmt.Errorf("restore curve: %w", err)
		}
	}
	if err := m.finishInit(); err != nil {
		return nil, err
	}

	m.equivalenceReached = m.run.Volume >= chem.EquivalenceVolume(m.run.Config)
	return m, nil
}

func (m *Machine) finishInit() error {
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	switch {
	case m.maxVolume == 0:
		m.maxVolume = chem.MaxVolume(m.run.Config)
	case m.maxVolume < 0, math.IsNaN(m.maxVolume), math.IsInf(m.maxVolume, 0):
		return &domain.ConfigError{Field: "max_volume", Reason: "must be positive and finite when set"}
	}
	return nil
}

// Start moves an idle run to Running and records the initial sample at
// zero delivered volume. The config is validated again at the gate.
func (m *Machine) Start(ctx context.Context) error {
	if m.run.Phase != domain.PhaseIdle {
		return &domain.StateError{Op: "start", Phase: m.run.Phase}
	}
	if err := m.run.Config.Validate(); err != nil {
		return err
	}

	initial := domain.Sample{Volume: 0, PH: chem.PH(m.run.Config, 0)}
	if err := m.curve.Append(initial); err != nil {
		return err
	}

	prev := m.run.Phase
	m.run.Phase = domain.PhaseRunning
	m.touch()

	m.logger.Debug("run started", "run", m.run.ID, "initial_ph", initial.PH, "max_volume", m.maxVolume)
	if m.hooks.OnStart != nil {
		m.hooks.OnStart(ctx, &domain.RunEvent{
			EventBase: m.eventBase(domain.EventRunStart),
			Phase:     m.run.Phase,
			Previous:  prev,
		})
	}
	m.emitPhaseChange(ctx, prev)
	return nil
}

// Tick advances the simulated clock by dt and delivers
// rate*dt mL of titrant, clamped so the cumulative volume never
// exceeds the cap. Reaching the cap completes the run on the same
// tick. Only Running accepts ticks.
func (m *Machine) Tick(ctx context.Context, dt float64) error {
	if m.run.Phase != domain.PhaseRunning {
		return &domain.StateError{Op: "tick", Phase: m.run.Phase}
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("delta %v: %w", dt, domain.ErrInvalidDelta)
	}

	volume := m.run.Volume + m.run.Config.Titrant.DeliveryRate*dt
	completed := false
	if volume >= m.maxVolume {
		volume = m.maxVolume
		completed = true
	}

	sample := domain.Sample{Volume: volume, PH: chem.PH(m.run.Config, volume)}
	if err := m.curve.Append(sample); err != nil {
		return err
	}

	m.run.Volume = volume
	m.run.Clock += dt
	m.touch()

	if m.hooks.OnTick != nil {
		m.hooks.OnTick(ctx, &domain.TickEvent{
			EventBase: m.eventBase(domain.EventTick),
			Delta:     dt,
			Clock:     m.run.Clock,
			Sample:    sample,
			Stirring:  m.run.Stirring,
		})
	}

	if veq := chem.EquivalenceVolume(m.run.Config); !m.equivalenceReached && volume >= veq {
		m.equivalenceReached = true
		m.logger.Debug("equivalence reached", "run", m.run.ID, "volume", volume, "ph", sample.PH)
		if m.hooks.OnEquivalence != nil {
			m.hooks.OnEquivalence(ctx, &domain.EquivalenceEvent{
				EventBase:         m.eventBase(domain.EventEquivalence),
				Sample:            sample,
				EquivalenceVolume: veq,
			})
		}
	}

	if completed {
		prev := m.run.Phase
		m.run.Phase = domain.PhaseComplete
		m.touch()
		m.logger.Debug("run complete", "run", m.run.ID, "volume", m.run.Volume, "clock", m.run.Clock)
		if m.hooks.OnComplete != nil {
			m.hooks.OnComplete(ctx, &domain.RunEvent{
				EventBase: m.eventBase(domain.EventRunComplete),
				Phase:     m.run.Phase,
				Previous:  prev,
			})
		}
		m.emitPhaseChange(ctx, prev)
	}
	return nil
}

// Pause suspends a running titration. No sample is recorded and the
// volume is untouched.
func (m *Machine) Pause(ctx context.Context) error {
	if m.run.Phase != domain.PhaseRunning {
		return &domain.StateError{Op: "pause", Phase: m.run.Phase}
	}
	prev := m.run.Phase
	m.run.Phase = domain.PhasePaused
	m.touch()
	m.emitPhaseChange(ctx, prev)
	return nil
}

// Resume continues a paused titration.
func (m *Machine) Resume(ctx context.Context) error {
	if m.run.Phase != domain.PhasePaused {
		return &domain.StateError{Op: "resume", Phase: m.run.Phase}
	}
	prev := m.run.Phase
	m.run.Phase = domain.PhaseRunning
	m.touch()
	m.emitPhaseChange(ctx, prev)
	return nil
}

// ToggleStir flips the cosmetic stirring flag and reports the new
// value. It never records a sample and never changes volume or pH.
func (m *Machine) ToggleStir(ctx context.Context) (bool, error) {
	if m.run.Phase != domain.PhaseRunning && m.run.Phase != domain.PhasePaused {
		return false, &domain.StateError{Op: "stir", Phase: m.run.Phase}
	}
	m.run.Stirring = !m.run.Stirring
	m.touch()
	m.logger.Debug("stirring toggled", "run", m.run.ID, "stirring", m.run.Stirring)
	return m.run.Stirring, nil
}

// Reset returns the run to Idle from any phase: volume and clock back
// to zero, curve emptied, stirring off. The config is retained.
func (m *Machine) Reset(ctx context.Context) error {
	prev := m.run.Phase
	m.run.Phase = domain.PhaseIdle
	m.run.Volume = 0
	m.run.Clock = 0
	m.run.Stirring = false
	m.curve.Reset()
	m.equivalenceReached = false
	m.touch()

	m.logger.Debug("run reset", "run", m.run.ID, "from", string(prev))
	if prev != domain.PhaseIdle {
		m.emitPhaseChange(ctx, prev)
	}
	return nil
}

// Snapshot returns a deep copy of the run, with the samples
// materialized from the curve. Safe to hand to stores and callers.
func (m *Machine) Snapshot() *domain.Run {
	snap := m.run.Clone()
	snap.Samples = m.curve.Samples()
	return snap
}

// ID returns the run identifier.
func (m *Machine) ID() string { return m.run.ID }

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() domain.Phase { return m.run.Phase }

// Volume returns the cumulative delivered titrant in mL.
func (m *Machine) Volume() float64 { return m.run.Volume }

// Clock returns the elapsed simulated time.
func (m *Machine) Clock() float64 { return m.run.Clock }

// Stirring reports the cosmetic stirring flag.
func (m *Machine) Stirring() bool { return m.run.Stirring }

// Config returns the experiment configuration.
func (m *Machine) Config() domain.Config { return m.run.Config }

// MaxVolume returns the effective delivery cap in mL.
func (m *Machine) MaxVolume() float64 { return m.maxVolume }

// PH computes the pH at the current volume without mutating anything.
func (m *Machine) PH() float64 {
	return chem.PH(m.run.Config, m.run.Volume)
}

// Curve returns a copy of the recorded samples.
func (m *Machine) Curve() []domain.Sample {
	return m.curve.Samples()
}

// Equivalence returns the stoichiometric equivalence point for the
// configured solutions.
func (m *Machine) Equivalence() domain.Sample {
	return chem.EquivalencePoint(m.run.Config)
}

func (m *Machine) emitPhaseChange(ctx context.Context, prev domain.Phase) {
	if m.hooks.OnPhaseChange == nil {
		return
	}
	m.hooks.OnPhaseChange(ctx, &domain.RunEvent{
		EventBase: m.eventBase(domain.EventPhaseChange),
		Phase:     m.run.Phase,
		Previous:  prev,
	})
}

func (m *Machine) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		RunID:     m.run.ID,
	}
}

func (m *Machine) touch() {
	m.run.UpdatedAt = time.Now()
}
