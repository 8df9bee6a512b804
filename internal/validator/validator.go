// Package validator performs integrity checks over reagent shelves and
// experiment files, backing the `burette validate` command.
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

// ValidateCatalog checks every reagent the catalog exposes: legal kind
// and strength values, unique IDs, and a positive dissociation constant
// on weak species. All problems are collected before reporting so one
// pass surfaces the whole state of the shelf.
func ValidateCatalog(ctx context.Context, catalog ports.Catalog) error {
	reagents, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}
	if len(reagents) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	var problems []string
	seen := make(map[string]bool, len(reagents))
	for _, r := range reagents {
		if seen[r.ID] {
			problems = append(problems, fmt.Sprintf("duplicate reagent ID '%s'", r.ID))
			continue
		}
		seen[r.ID] = true

		if err := r.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d problems:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// ValidateExperiment checks an experiment config the way Start would.
func ValidateExperiment(cfg domain.Config) error {
	return cfg.Validate()
}
