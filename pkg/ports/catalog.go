package ports

import (
	"context"

	"github.com/aretw0/burette/pkg/domain"
)

// Catalog defines how reagent metadata is retrieved.
// This allows the storage layer (Loam, memory) to be decoupled.
type Catalog interface {
	// Get retrieves one reagent by ID.
	// Returns domain.ErrReagentNotFound if no such reagent exists.
	Get(ctx context.Context, id string) (*domain.Reagent, error)

	// List returns every reagent in the catalog, ordered by ID.
	List(ctx context.Context) ([]domain.Reagent, error)
}
