package ports

import (
	"context"

	"github.com/aretw0/burette/pkg/domain"
)

// Workbench defines the driving surface for multi-run orchestration.
// This is the primary interface used by adapters (e.g. HTTP, MCP) that
// manage many concurrent experiments against shared storage.
//
// Mutating operations return the run snapshot after the change so adapters
// can respond and publish diffs without a second round trip.
type Workbench interface {
	// StartRun registers a new run under the given ID and starts it.
	// Returns domain.ErrRunExists if the ID is already taken.
	StartRun(ctx context.Context, id string, cfg domain.Config) (*domain.Run, error)

	// Tick advances a running experiment by delta time units.
	Tick(ctx context.Context, id string, delta float64) (*domain.Run, error)

	// Pause suspends a running experiment.
	Pause(ctx context.Context, id string) (*domain.Run, error)

	// Resume continues a paused experiment.
	Resume(ctx context.Context, id string) (*domain.Run, error)

	// ToggleStir flips the stirring flag of an active experiment.
	ToggleStir(ctx context.Context, id string) (*domain.Run, error)

	// Reset returns an experiment to its pristine idle state.
	Reset(ctx context.Context, id string) (*domain.Run, error)

	// Get retrieves the current snapshot of a run, restoring it from
	// storage if it is not live in this process.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// Curve returns the recorded titration curve of a run.
	Curve(ctx context.Context, id string) ([]domain.Sample, error)

	// Equivalence returns the theoretical equivalence point of a run.
	Equivalence(ctx context.Context, id string) (domain.Sample, error)

	// List returns the IDs of all known runs, live or persisted.
	List(ctx context.Context) ([]string, error)

	// Remove discards a run from live state and storage.
	Remove(ctx context.Context, id string) error
}
