package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/burette/pkg/domain"
)

// Catalog implements ports.Catalog using an in-memory map.
type Catalog struct {
	reagents map[string]domain.Reagent
}

// NewCatalog creates a catalog from the provided reagents. Every entry is
// validated and IDs must be unique.
func NewCatalog(reagents ...domain.Reagent) (*Catalog, error) {
	data := make(map[string]domain.Reagent, len(reagents))
	for _, r := range reagents {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("reagent %q: %w", r.ID, err)
		}
		if _, exists := data[r.ID]; exists {
			return nil, fmt.Errorf("duplicate reagent ID %q", r.ID)
		}
		data[r.ID] = r
	}
	return &Catalog{reagents: data}, nil
}

// StandardShelf returns the stock reagents every installation ships with:
// the common strong pairs plus the classic weak teaching species.
func StandardShelf() []domain.Reagent {
	return []domain.Reagent{
		{
			ID: "hcl", Name: "Hydrochloric acid", Formula: "HCl",
			Kind: domain.Acid, Strength: domain.Strong,
			Description: "Fully dissociating monoprotic acid, the default strong analyte.",
		},
		{
			ID: "naoh", Name: "Sodium hydroxide", Formula: "NaOH",
			Kind: domain.Base, Strength: domain.Strong,
			Description: "Fully dissociating base, the default strong titrant.",
		},
		{
			ID: "koh", Name: "Potassium hydroxide", Formula: "KOH",
			Kind: domain.Base, Strength: domain.Strong,
		},
		{
			ID: "acetic-acid", Name: "Acetic acid", Formula: "CH3COOH",
			Kind: domain.Acid, Strength: domain.Weak, DissociationConstant: 1.8e-5,
			Description: "The classic weak acid; buffers around pKa 4.74.",
		},
		{
			ID: "formic-acid", Name: "Formic acid", Formula: "HCOOH",
			Kind: domain.Acid, Strength: domain.Weak, DissociationConstant: 1.8e-4,
		},
		{
			ID: "ammonia", Name: "Ammonia", Formula: "NH3",
			Kind: domain.Base, Strength: domain.Weak, DissociationConstant: 1.8e-5,
			Description: "The classic weak base; buffers around pOH 4.74.",
		},
	}
}

// NewStandardCatalog creates a catalog preloaded with StandardShelf.
func NewStandardCatalog() *Catalog {
	cat, err := NewCatalog(StandardShelf()...)
	if err != nil {
		// The standard shelf is validated by tests; failing here means a
		// broken build, not bad user input.
		panic(err)
	}
	return cat
}

// Get retrieves one reagent by ID.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Reagent, error) {
	r, ok := c.reagents[id]
	if !ok {
		return nil, fmt.Errorf("reagent %q: %w", id, domain.ErrReagentNotFound)
	}
	return &r, nil
}

// List returns every reagent ordered by ID.
func (c *Catalog) List(ctx context.Context) ([]domain.Reagent, error) {
	out := make([]domain.Reagent, 0, len(c.reagents))
	for _, r := range c.reagents {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
