package burette

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/burette/internal/logging"
	"github.com/aretw0/burette/internal/runtime"
	"github.com/aretw0/burette/pkg/chem"
	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
	"github.com/aretw0/burette/pkg/session"
)

// Bench orchestrates many titration runs against shared storage. It keeps
// live machines for the runs this process is driving, lazily restores
// persisted runs on access, and serializes all operations per run through
// a session.Manager (optionally backed by a distributed locker).
//
// Every mutation is persisted after it is applied. When persistence fails
// the in-memory run keeps its advanced state and the error reports the
// failed save.
type Bench struct {
	manager *session.Manager

	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	locker    ports.DistributedLocker
	maxVolume float64

	mu       sync.RWMutex
	machines map[string]*runtime.Machine
}

var _ ports.Workbench = (*Bench)(nil)

// BenchOption configures a Bench.
type BenchOption func(*Bench)

// WithBenchHooks registers observability hooks applied to every run the
// bench drives.
func WithBenchHooks(hooks domain.LifecycleHooks) BenchOption {
	return func(b *Bench) {
		b.hooks = hooks
	}
}

// WithBenchLogger sets a structured logger for the bench and its runs.
func WithBenchLogger(logger *slog.Logger) BenchOption {
	return func(b *Bench) {
		b.logger = logger
	}
}

// WithBenchLocker enables distributed locking so multiple replicas can
// share one store without racing on the same run.
func WithBenchLocker(locker ports.DistributedLocker) BenchOption {
	return func(b *Bench) {
		b.locker = locker
	}
}

// WithBenchMaxVolume caps the deliverable titrant volume for every run,
// overriding per-config values.
func WithBenchMaxVolume(v float64) BenchOption {
	return func(b *Bench) {
		b.maxVolume = v
	}
}

// NewBench creates a Bench persisting runs to the given store.
func NewBench(store ports.RunStore, opts ...BenchOption) *Bench {
	b := &Bench{
		machines: make(map[string]*runtime.Machine),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	managerOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(b.locker))
	}
	b.manager = session.NewManager(store, managerOpts...)
	return b
}

// StartRun registers a new run under the given ID and starts it. An empty
// ID is replaced with a timestamp-derived one. Returns domain.ErrRunExists
// if the ID is already taken, live or persisted.
func (b *Bench) StartRun(ctx context.Context, id string, cfg domain.Config) (*domain.Run, error) {
	if id == "" {
		id = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}

	machine, err := runtime.New(id, cfg, b.machineOptions(id)...)
	if err != nil {
		return nil, err
	}

	// Reserving the idle snapshot first makes concurrent starts of the
	// same ID race on the store, not on the live map.
	if err := b.manager.Reserve(ctx, machine.Snapshot()); err != nil {
		return nil, err
	}
	if err := machine.Start(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.machines[id] = machine
	b.mu.Unlock()

	snap := machine.Snapshot()
	if err := b.manager.Save(ctx, snap); err != nil {
		b.logger.Warn("failed to persist started run", "run_id", id, "err", err)
		return nil, fmt.Errorf("persist run %q: %w", id, err)
	}
	return snap, nil
}

// Tick advances a running experiment by delta time units.
func (b *Bench) Tick(ctx context.Context, id string, delta float64) (*domain.Run, error) {
	return b.mutate(ctx, id, func(ctx context.Context, m *runtime.Machine) error {
		return m.Tick(ctx, delta)
	})
}

// Pause suspends a running experiment.
func (b *Bench) Pause(ctx context.Context, id string) (*domain.Run, error) {
	return b.mutate(ctx, id, func(ctx context.Context, m *runtime.Machine) error {
		return m.Pause(ctx)
	})
}

// Resume continues a paused experiment.
func (b *Bench) Resume(ctx context.Context, id string) (*domain.Run, error) {
	return b.mutate(ctx, id, func(ctx context.Context, m *runtime.Machine) error {
		return m.Resume(ctx)
	})
}

// ToggleStir flips the stirring flag of an active experiment.
func (b *Bench) ToggleStir(ctx context.Context, id string) (*domain.Run, error) {
	return b.mutate(ctx, id, func(ctx context.Context, m *runtime.Machine) error {
		_, err := m.ToggleStir(ctx)
		return err
	})
}

// Reset returns an experiment to its pristine idle state.
func (b *Bench) Reset(ctx context.Context, id string) (*domain.Run, error) {
	return b.mutate(ctx, id, func(ctx context.Context, m *runtime.Machine) error {
		return m.Reset(ctx)
	})
}

// Get retrieves the current snapshot of a run, restoring it from storage
// if it is not live in this process.
func (b *Bench) Get(ctx context.Context, id string) (*domain.Run, error) {
	var snap *domain.Run
	err := b.manager.WithLock(ctx, id, func(ctx context.Context) error {
		machine, err := b.liveOrRestore(ctx, id)
		if err != nil {
			return err
		}
		snap = machine.Snapshot()
		return nil
	})
	return snap, err
}

// Curve returns the recorded titration curve of a run.
func (b *Bench) Curve(ctx context.Context, id string) ([]domain.Sample, error) {
	run, err := b.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return run.Samples, nil
}

// Equivalence returns the theoretical equivalence point of a run.
func (b *Bench) Equivalence(ctx context.Context, id string) (domain.Sample, error) {
	run, err := b.Get(ctx, id)
	if err != nil {
		return domain.Sample{}, err
	}
	return chem.EquivalencePoint(run.Config), nil
}

// List returns the IDs of all known runs, live or persisted, sorted.
func (b *Bench) List(ctx context.Context) ([]string, error) {
	ids, err := b.manager.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	b.mu.RLock()
	for id := range b.machines {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	b.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}

// Remove discards a run from live state and storage.
func (b *Bench) Remove(ctx context.Context, id string) error {
	return b.manager.WithLock(ctx, id, func(ctx context.Context) error {
		b.mu.Lock()
		delete(b.machines, id)
		b.mu.Unlock()
		return b.manager.Store().Delete(ctx, id)
	})
}

// mutate runs op against the live (or lazily restored) machine under the
// per-run lock, then persists the resulting snapshot.
func (b *Bench) mutate(ctx context.Context, id string, op func(context.Context, *runtime.Machine) error) (*domain.Run, error) {
	var snap *domain.Run
	err := b.manager.WithLock(ctx, id, func(ctx context.Context) error {
		machine, err := b.liveOrRestore(ctx, id)
		if err != nil {
			return err
		}
		if err := op(ctx, machine); err != nil {
			return err
		}

		snap = machine.Snapshot()
		// Save through the store directly: WithLock is already held and
		// the manager's locks are not reentrant.
		if err := b.manager.Store().Save(ctx, snap); err != nil {
			b.logger.Warn("failed to persist run", "run_id", id, "err", err)
			return fmt.Errorf("persist run %q: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// liveOrRestore returns the machine driving the run, hydrating it from the
// store on first access. Callers must hold the per-run lock.
func (b *Bench) liveOrRestore(ctx context.Context, id string) (*runtime.Machine, error) {
	b.mu.RLock()
	machine, ok := b.machines[id]
	b.mu.RUnlock()
	if ok {
		return machine, nil
	}

	run, err := b.manager.Store().Load(ctx, id)
	if err != nil {
		return nil, err
	}
	machine, err = runtime.Restore(run, b.machineOptions(id)...)
	if err != nil {
		return nil, fmt.Errorf("restore run %q: %w", id, err)
	}

	b.mu.Lock()
	b.machines[id] = machine
	b.mu.Unlock()
	return machine, nil
}

func (b *Bench) machineOptions(id string) []runtime.Option {
	return []runtime.Option{
		runtime.WithLifecycleHooks(b.hooks),
		runtime.WithLogger(b.logger.With("run_id", id)),
		runtime.WithMaxVolume(b.maxVolume),
	}
}
