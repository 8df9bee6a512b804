package domain

import (
	"time"
)

// Phase is the lifecycle stage of a titration run.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhasePaused   Phase = "paused"
	PhaseComplete Phase = "complete"
)

// Valid reports whether the phase is one of the declared constants.
func (p Phase) Valid() bool {
	switch p {
	case PhaseIdle, PhaseRunning, PhasePaused, PhaseComplete:
		return true
	}
	return false
}

// Run is the complete serializable snapshot of one titration session.
//
// Volume is the cumulative titrant delivered in mL, Clock the elapsed
// simulated time. Samples hold the recorded curve in insertion order.
// A Run round-trips through JSON without loss; restoring one rebuilds
// the session exactly where it stopped.
type Run struct {
	ID        string    `json:"id"`
	Phase     Phase     `json:"phase"`
	Config    Config    `json:"config"`
	Volume    float64   `json:"volume"`
	Clock     float64   `json:"clock"`
	Stirring  bool      `json:"stirring"`
	Samples   []Sample  `json:"samples,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRun creates an idle run for the given config.
func NewRun(id string, cfg Config) *Run {
	now := time.Now()
	return &Run{
		ID:        id,
		Phase:     PhaseIdle,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers can hold snapshots without
// aliasing the owner's sample slice.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	next := *r
	if r.Samples != nil {
		next.Samples = make([]Sample, len(r.Samples))
		copy(next.Samples, r.Samples)
	}
	return &next
}
