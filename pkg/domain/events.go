package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventTick        EventType = "tick"
	EventPhaseChange EventType = "phase_change"
	EventEquivalence EventType = "equivalence"
	EventRunComplete EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent describes a lifecycle edge: start, completion or any other
// phase change.
type RunEvent struct {
	EventBase
	Phase    Phase `json:"phase"`
	Previous Phase `json:"previous,omitempty"`
}

// TickEvent describes one accepted tick and the sample it recorded.
type TickEvent struct {
	EventBase
	Delta    float64 `json:"delta"`
	Clock    float64 `json:"clock"`
	Sample   Sample  `json:"sample"`
	Stirring bool    `json:"stirring"`
}

// EquivalenceEvent fires once per run, on the tick whose cumulative
// volume first reaches the stoichiometric equivalence volume.
type EquivalenceEvent struct {
	EventBase
	Sample            Sample  `json:"sample"`
	EquivalenceVolume float64 `json:"equivalence_volume"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil; dispatch skips missing callbacks.
type LifecycleHooks struct {
	OnStart       func(context.Context, *RunEvent)
	OnTick        func(context.Context, *TickEvent)
	OnPhaseChange func(context.Context, *RunEvent)
	OnEquivalence func(context.Context, *EquivalenceEvent)
	OnComplete    func(context.Context, *RunEvent)
}

// MergeHooks composes hook sets so that several observers (metrics,
// logging, streaming) can listen to the same run. Callbacks fire in
// argument order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		h := h
		prev := merged

		if h.OnStart != nil {
			prevFn, fn := prev.OnStart, h.OnStart
			merged.OnStart = func(ctx context.Context, ev *RunEvent) {
				if prevFn != nil {
					prevFn(ctx, ev)
				}
				fn(ctx, ev)
			}
		}
		if h.OnTick != nil {
			prevFn, fn := prev.OnTick, h.OnTick
			merged.OnTick = func(ctx context.Context, ev *TickEvent) {
				if prevFn != nil {
					prevFn(ctx, ev)
				}
				fn(ctx, ev)
			}
		}
		if h.OnPhaseChange != nil {
			prevFn, fn := prev.OnPhaseChange, h.OnPhaseChange
			merged.OnPhaseChange = func(ctx context.Context, ev *RunEvent) {
				if prevFn != nil {
					prevFn(ctx, ev)
				}
				fn(ctx, ev)
			}
		}
		if h.OnEquivalence != nil {
			prevFn, fn := prev.OnEquivalence, h.OnEquivalence
			merged.OnEquivalence = func(ctx context.Context, ev *EquivalenceEvent) {
				if prevFn != nil {
					prevFn(ctx, ev)
				}
				fn(ctx, ev)
			}
		}
		if h.OnComplete != nil {
			prevFn, fn := prev.OnComplete, h.OnComplete
			merged.OnComplete = func(ctx context.Context, ev *RunEvent) {
				if prevFn != nil {
					prevFn(ctx, ev)
				}
				fn(ctx, ev)
			}
		}
	}
	return merged
}
