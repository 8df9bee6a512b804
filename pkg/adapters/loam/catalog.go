// Package loam adapts a loam document repository to the reagent catalog
// port. Each markdown file on the shelf is one reagent: YAML frontmatter
// carries the chemistry (kind, strength, dissociation constant), the body
// is the free-form description shown by presentation layers.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/burette/internal/dto"
	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

// Catalog implements ports.Catalog over a typed loam repository.
type Catalog struct {
	repo *loam.TypedRepository[dto.ReagentMeta]
}

var _ ports.Catalog = (*Catalog)(nil)

// New wraps an already initialized typed repository.
func New(repo *loam.TypedRepository[dto.ReagentMeta]) *Catalog {
	return &Catalog{repo: repo}
}

// Open initializes a read-only strict loam repository at dir and wraps
// it. Strict mode keeps frontmatter numeric types consistent across the
// markdown and JSON loaders.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid shelf path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam shelf: %w", err)
	}
	return New(loam.NewTypedRepository[dto.ReagentMeta](repo)), nil
}

// Get retrieves one reagent by ID. Loam resolves "hcl" to hcl.md, so
// callers never pass extensions.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Reagent, error) {
	doc, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reagent %q: %w", id, domain.ErrReagentNotFound)
	}
	r := doc.Data.Reagent(trimExtension(doc.ID), strings.TrimSpace(doc.Content))
	return &r, nil
}

// List returns every reagent on the shelf ordered by ID.
func (c *Catalog) List(ctx context.Context) ([]domain.Reagent, error) {
	docs, err := c.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf: %w", err)
	}

	out := make([]domain.Reagent, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Data.Reagent(trimExtension(doc.ID), strings.TrimSpace(doc.Content)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Watch reports the IDs of shelf documents as they change, until the
// context is canceled. Loam debounces bursts internally.
func (c *Catalog) Watch(ctx context.Context) (<-chan string, error) {
	events, err := c.repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start shelf watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
