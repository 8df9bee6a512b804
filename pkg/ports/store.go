package ports

import (
	"context"

	"github.com/aretw0/burette/pkg/domain"
)

// RunStore defines the interface for persisting titration runs.
// This allows for durable experiments, enabling "Stop & Resume" workflows.
type RunStore interface {
	// Save persists the run under its own ID, overwriting any previous
	// snapshot. Implementations must store a copy: later mutation of the
	// passed run must not affect what Load returns.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves the run for a given ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Run, error)

	// Delete removes the run for a given ID. Deleting an absent run is
	// not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all persisted runs.
	List(ctx context.Context) ([]string, error)
}
