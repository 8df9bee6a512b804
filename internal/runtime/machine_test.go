package runtime

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aretw0/burette/pkg/chem"
	"github.com/aretw0/burette/pkg/domain"
)

func testConfig() domain.Config {
	return domain.Config{
		Analyte: domain.Solute{Kind: domain.Acid, Strength: domain.Strong, Concentration: 0.1, Volume: 25},
		Titrant: domain.Titrant{
			Solute:       domain.Solute{Kind: domain.Base, Strength: domain.Strong, Concentration: 0.1, Volume: 50},
			DeliveryRate: 0.5,
		},
	}
}

func newRunning(t *testing.T, opts ...Option) *Machine {
	t.Helper()
	m, err := New("exp-1", testConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return m
}

func TestMachineStart(t *testing.T) {
	m, err := New("exp-1", testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Phase() != domain.PhaseIdle {
		t.Fatalf("fresh machine phase = %v, want idle", m.Phase())
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if m.Phase() != domain.PhaseRunning {
		t.Errorf("phase after Start = %v, want running", m.Phase())
	}

	curve := m.Curve()
	if len(curve) != 1 {
		t.Fatalf("curve after Start has %d samples, want 1", len(curve))
	}
	if curve[0].Volume != 0 {
		t.Errorf("initial sample volume = %v, want 0", curve[0].Volume)
	}
	if want := chem.PH(testConfig(), 0); curve[0].PH != want {
		t.Errorf("initial sample pH = %v, want %v", curve[0].PH, want)
	}
}

func TestMachineStartTwice(t *testing.T) {
	m := newRunning(t)

	err := m.Start(context.Background())
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second Start: err = %v, want ErrInvalidState", err)
	}

	var stateErr *domain.StateError
	if !errors.As(err, &stateErr) || stateErr.Op != "start" || stateErr.Phase != domain.PhaseRunning {
		t.Errorf("StateError = %+v, want op=start phase=running", stateErr)
	}
}

func TestMachineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Analyte.Concentration = -1

	if _, err := New("exp-1", cfg); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("New with bad config: err = %v, want ErrInvalidConfig", err)
	}
}

func TestMachineTickAdvances(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()

	if err := m.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if m.Volume() != 0.5 {
		t.Errorf("Volume = %v, want 0.5 (rate 0.5 * dt 1)", m.Volume())
	}
	if m.Clock() != 1 {
		t.Errorf("Clock = %v, want 1", m.Clock())
	}

	curve := m.Curve()
	if len(curve) != 2 {
		t.Fatalf("curve has %d samples, want 2", len(curve))
	}
	if want := chem.PH(m.Config(), 0.5); curve[1].PH != want {
		t.Errorf("sample pH = %v, want %v", curve[1].PH, want)
	}
}

func TestMachineTickOutsideRunning(t *testing.T) {
	ctx := context.Background()

	t.Run("idle", func(t *testing.T) {
		m, _ := New("exp-1", testConfig())
		if err := m.Tick(ctx, 1); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Tick in idle: err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("paused", func(t *testing.T) {
		m := newRunning(t)
		if err := m.Pause(ctx); err != nil {
			t.Fatalf("Pause: %v", err)
		}
		if err := m.Tick(ctx, 1); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Tick in paused: err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("complete", func(t *testing.T) {
		m := newRunning(t, WithMaxVolume(1))
		if err := m.Tick(ctx, 10); err != nil {
			t.Fatalf("Tick to cap: %v", err)
		}
		if m.Phase() != domain.PhaseComplete {
			t.Fatalf("phase = %v, want complete", m.Phase())
		}
		if err := m.Tick(ctx, 1); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Tick in complete: err = %v, want ErrInvalidState", err)
		}
	})
}

func TestMachineTickBadDelta(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := m.Tick(ctx, dt); !errors.Is(err, domain.ErrInvalidDelta) {
			t.Errorf("Tick(%v): err = %v, want ErrInvalidDelta", dt, err)
		}
	}

	if m.Volume() != 0 || m.Clock() != 0 || len(m.Curve()) != 1 {
		t.Errorf("rejected ticks mutated state: volume=%v clock=%v samples=%d",
			m.Volume(), m.Clock(), len(m.Curve()))
	}
}

func TestMachinePauseResume(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()

	samplesBefore := len(m.Curve())
	if err := m.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if m.Phase() != domain.PhasePaused {
		t.Errorf("phase = %v, want paused", m.Phase())
	}
	if len(m.Curve()) != samplesBefore {
		t.Error("Pause recorded a sample")
	}

	if err := m.Pause(ctx); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Pause while paused: err = %v, want ErrInvalidState", err)
	}

	if err := m.Resume(ctx); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if m.Phase() != domain.PhaseRunning {
		t.Errorf("phase = %v, want running", m.Phase())
	}
	if err := m.Resume(ctx); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Resume while running: err = %v, want ErrInvalidState", err)
	}

	if err := m.Tick(ctx, 1); err != nil {
		t.Errorf("Tick after resume: %v", err)
	}
}

func TestMachineToggleStir(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()

	samplesBefore := len(m.Curve())
	volumeBefore := m.Volume()

	on, err := m.ToggleStir(ctx)
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want true, nil", on, err)
	}
	off, err := m.ToggleStir(ctx)
	if err != nil || off {
		t.Fatalf("second toggle = %v, %v; want false, nil", off, err)
	}

	if err := m.Pause(ctx); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if _, err := m.ToggleStir(ctx); err != nil {
		t.Errorf("ToggleStir while paused: %v", err)
	}

	if len(m.Curve()) != samplesBefore || m.Volume() != volumeBefore {
		t.Error("stirring affected the curve or volume")
	}

	idle, _ := New("exp-2", testConfig())
	if _, err := idle.ToggleStir(ctx); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("ToggleStir in idle: err = %v, want ErrInvalidState", err)
	}
}

func TestMachineCompletesAtCap(t *testing.T) {
	m := newRunning(t, WithMaxVolume(10))
	ctx := context.Background()

	// One oversized tick jumps straight to the cap without exceeding it.
	if err := m.Tick(ctx, 1000); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if m.Volume() != 10 {
		t.Errorf("Volume = %v, want clamped to 10", m.Volume())
	}
	if m.Phase() != domain.PhaseComplete {
		t.Errorf("phase = %v, want complete", m.Phase())
	}

	last, _ := lastSample(m.Curve())
	if last.Volume != 10 {
		t.Errorf("final sample volume = %v, want 10", last.Volume)
	}
}

func TestMachineEndToEndEquivalence(t *testing.T) {
	// 0.1 M acid (25 mL) vs 0.1 M base at 0.5 mL per unit: equivalence
	// after 50 ticks of dt=1, completion at the 2x default cap after 100.
	var equivalences int
	var completions int
	hooks := domain.LifecycleHooks{
		OnEquivalence: func(ctx context.Context, ev *domain.EquivalenceEvent) {
			equivalences++
			if math.Abs(ev.Sample.PH-7) > 1e-9 {
				t.Errorf("equivalence sample pH = %v, want 7", ev.Sample.PH)
			}
		},
		OnComplete: func(ctx context.Context, ev *domain.RunEvent) {
			completions++
		},
	}

	m, err := New("exp-1", testConfig(), WithLifecycleHooks(hooks))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ticks := 0
	for m.Phase() == domain.PhaseRunning {
		if err := m.Tick(ctx, 1); err != nil {
			t.Fatalf("Tick %d: %v", ticks, err)
		}
		ticks++
		if ticks > 1000 {
			t.Fatal("run never completed")
		}
	}

	if ticks != 100 {
		t.Errorf("completed after %d ticks, want 100", ticks)
	}
	if equivalences != 1 {
		t.Errorf("equivalence fired %d times, want 1", equivalences)
	}
	if completions != 1 {
		t.Errorf("completion fired %d times, want 1", completions)
	}
	if m.Volume() != 50 {
		t.Errorf("final volume = %v, want 50", m.Volume())
	}
}

func TestMachinePhaseChangeHooks(t *testing.T) {
	var edges []string
	hooks := domain.LifecycleHooks{
		OnPhaseChange: func(ctx context.Context, ev *domain.RunEvent) {
			edges = append(edges, string(ev.Previous)+">"+string(ev.Phase))
		},
	}

	m, err := New("exp-1", testConfig(), WithLifecycleHooks(hooks), WithMaxVolume(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Pause(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Resume(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Tick(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"idle>running",
		"running>paused",
		"paused>running",
		"running>complete",
		"complete>idle",
	}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v, want %v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Fatalf("edges = %v, want %v", edges, want)
		}
	}
}

func TestMachineReset(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := m.Tick(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.ToggleStir(ctx); err != nil {
		t.Fatal(err)
	}

	if err := m.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if m.Phase() != domain.PhaseIdle {
		t.Errorf("phase = %v, want idle", m.Phase())
	}
	if m.Volume() != 0 || m.Clock() != 0 || m.Stirring() {
		t.Errorf("reset left state: volume=%v clock=%v stirring=%v", m.Volume(), m.Clock(), m.Stirring())
	}
	if len(m.Curve()) != 0 {
		t.Errorf("curve kept %d samples after reset", len(m.Curve()))
	}

	// A reset machine starts over cleanly.
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start after reset: %v", err)
	}
	if err := m.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick after reset: %v", err)
	}

	// Reset in idle is allowed and keeps everything zeroed.
	fresh, _ := New("exp-2", testConfig())
	if err := fresh.Reset(ctx); err != nil {
		t.Errorf("Reset in idle: %v", err)
	}
}

func TestMachineEquivalenceRefiresAfterReset(t *testing.T) {
	var fired int
	hooks := domain.LifecycleHooks{
		OnEquivalence: func(ctx context.Context, ev *domain.EquivalenceEvent) { fired++ },
	}

	m, err := New("exp-1", testConfig(), WithLifecycleHooks(hooks))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	runToComplete := func() {
		if err := m.Start(ctx); err != nil {
			t.Fatal(err)
		}
		for m.Phase() == domain.PhaseRunning {
			if err := m.Tick(ctx, 10); err != nil {
				t.Fatal(err)
			}
		}
	}

	runToComplete()
	if err := m.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	runToComplete()

	if fired != 2 {
		t.Errorf("equivalence fired %d times across two runs, want 2", fired)
	}
}

func TestMachineSnapshotIsolated(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()
	if err := m.Tick(ctx, 1); err != nil {
		t.Fatal(err)
	}

	snap := m.Snapshot()
	if snap.Phase != domain.PhaseRunning || len(snap.Samples) != 2 {
		t.Fatalf("snapshot = phase %v with %d samples", snap.Phase, len(snap.Samples))
	}

	snap.Samples[0].PH = 99
	snap.Volume = 1000

	if m.Curve()[0].PH == 99 || m.Volume() == 1000 {
		t.Error("snapshot mutation leaked into the machine")
	}
}

func TestMachineRestore(t *testing.T) {
	ctx := context.Background()
	m := newRunning(t)
	for i := 0; i < 10; i++ {
		if err := m.Tick(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Pause(ctx); err != nil {
		t.Fatal(err)
	}

	snap := m.Snapshot()

	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Phase() != domain.PhasePaused {
		t.Errorf("restored phase = %v, want paused", restored.Phase())
	}
	if restored.Volume() != m.Volume() || restored.Clock() != m.Clock() {
		t.Errorf("restored volume/clock = %v/%v, want %v/%v",
			restored.Volume(), restored.Clock(), m.Volume(), m.Clock())
	}
	if len(restored.Curve()) != len(m.Curve()) {
		t.Errorf("restored curve has %d samples, want %d", len(restored.Curve()), len(m.Curve()))
	}

	// The restored run continues where it stopped, bypassing Start.
	if err := restored.Resume(ctx); err != nil {
		t.Fatalf("Resume restored: %v", err)
	}
	if err := restored.Tick(ctx, 1); err != nil {
		t.Fatalf("Tick restored: %v", err)
	}
}

func TestMachineRestoreDoesNotRefireEquivalence(t *testing.T) {
	ctx := context.Background()
	m := newRunning(t)
	for m.Volume() < 30 {
		if err := m.Tick(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}

	var fired int
	hooks := domain.LifecycleHooks{
		OnEquivalence: func(ctx context.Context, ev *domain.EquivalenceEvent) { fired++ },
	}
	restored, err := Restore(m.Snapshot(), WithLifecycleHooks(hooks))
	if err != nil {
		t.Fatal(err)
	}
	if err := restored.Tick(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if fired != 0 {
		t.Errorf("equivalence refired %d times on a run already past it", fired)
	}
}

func TestMachineRestoreRejectsCorruptPayloads(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := m.Tick(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("non-monotonic samples", func(t *testing.T) {
		snap := m.Snapshot()
		snap.Samples[1], snap.Samples[2] = snap.Samples[2], snap.Samples[1]
		if _, err := Restore(snap); !errors.Is(err, domain.ErrNonMonotonicVolume) {
			t.Errorf("Restore: err = %v, want ErrNonMonotonicVolume", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		snap := m.Snapshot()
		snap.Config.Titrant.Concentration = math.NaN()
		if _, err := Restore(snap); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("Restore: err = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("unknown phase", func(t *testing.T) {
		snap := m.Snapshot()
		snap.Phase = "titrating"
		if _, err := Restore(snap); !errors.Is(err, domain.ErrInvalidState) {
			t.Errorf("Restore: err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("nil run", func(t *testing.T) {
		if _, err := Restore(nil); !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("Restore(nil): err = %v, want ErrRunNotFound", err)
		}
	})
}

func TestMachineMaxVolumeOption(t *testing.T) {
	cfg := testConfig()
	cfg.MaxVolume = 30

	m, err := New("exp-1", cfg, WithMaxVolume(12))
	if err != nil {
		t.Fatal(err)
	}
	if m.MaxVolume() != 12 {
		t.Errorf("MaxVolume = %v, option should beat the config field", m.MaxVolume())
	}

	m, err = New("exp-2", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.MaxVolume() != 30 {
		t.Errorf("MaxVolume = %v, want config field 30", m.MaxVolume())
	}

	m, err = New("exp-3", testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m.MaxVolume() != 50 {
		t.Errorf("MaxVolume = %v, want derived default 50", m.MaxVolume())
	}

	if _, err := New("exp-4", testConfig(), WithMaxVolume(-1)); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("negative cap: err = %v, want ErrInvalidConfig", err)
	}
}

func TestMachinePHQueryDoesNotMutate(t *testing.T) {
	m := newRunning(t)
	ctx := context.Background()
	if err := m.Pause(ctx); err != nil {
		t.Fatal(err)
	}

	before := len(m.Curve())
	_ = m.PH()
	_ = m.Equivalence()

	if len(m.Curve()) != before {
		t.Error("read-only queries appended samples")
	}
}

func lastSample(samples []domain.Sample) (domain.Sample, bool) {
	if len(samples) == 0 {
		return domain.Sample{}, false
	}
	return samples[len(samples)-1], true
}
