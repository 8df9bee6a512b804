package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes callers are expected to branch on.
var (
	// ErrInvalidConfig marks an experiment setup that failed validation.
	ErrInvalidConfig = errors.New("invalid experiment config")

	// ErrInvalidState marks an operation attempted in a phase that does
	// not permit it.
	ErrInvalidState = errors.New("invalid run state")

	// ErrNonMonotonicVolume marks a curve append whose volume regresses.
	ErrNonMonotonicVolume = errors.New("non-monotonic curve volume")

	// ErrRunNotFound is returned by stores when no run exists for an ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunExists is returned when starting a run under an ID that is
	// already taken.
	ErrRunExists = errors.New("run already exists")

	// ErrInvalidDelta marks a tick with a non-positive or non-finite
	// time delta.
	ErrInvalidDelta = errors.New("tick delta must be positive and finite")

	// ErrReagentNotFound is returned by catalogs when no reagent exists
	// for an ID.
	ErrReagentNotFound = errors.New("reagent not found")
)

// ConfigError reports which config field failed validation and why.
// It matches ErrInvalidConfig via errors.Is.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// StateError reports an operation rejected by the run lifecycle, with
// the phase it was attempted in. It matches ErrInvalidState via errors.Is.
type StateError struct {
	Op    string
	Phase Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, string(e.Phase))
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
