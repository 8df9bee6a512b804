package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

// Experiment is the on-disk description of one titration setup. A
// solution either spells out its chemistry inline or names a reagent
// from the catalog and only adds concentration and volume.
type Experiment struct {
	ID      string       `yaml:"id" json:"id"`
	Analyte SolutionSpec `yaml:"analyte" json:"analyte"`
	Titrant SolutionSpec `yaml:"titrant" json:"titrant"`

	// DeliveryRate is in mL per simulated time unit.
	DeliveryRate float64 `yaml:"delivery_rate" json:"delivery_rate"`
	MaxVolume    float64 `yaml:"max_volume" json:"max_volume"`
}

// SolutionSpec describes one solution in an experiment file.
type SolutionSpec struct {
	Reagent              string  `yaml:"reagent" json:"reagent"`
	Kind                 string  `yaml:"kind" json:"kind"`
	Strength             string  `yaml:"strength" json:"strength"`
	Concentration        float64 `yaml:"concentration" json:"concentration"`
	Volume               float64 `yaml:"volume" json:"volume"`
	DissociationConstant float64 `yaml:"dissociation_constant" json:"dissociation_constant"`
}

// LoadExperiment reads an experiment file. The format follows the
// extension: .json is decoded as JSON, everything else as YAML.
func LoadExperiment(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment file: %w", err)
	}

	var exp Experiment
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &exp)
	} else {
		err = yaml.Unmarshal(data, &exp)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing experiment file %s: %w", path, err)
	}
	return &exp, nil
}

// Config resolves the experiment into a validated domain config,
// looking up reagent references against the catalog. A nil catalog is
// fine as long as no solution names a reagent.
func (e *Experiment) Config(ctx context.Context, catalog ports.Catalog) (domain.Config, error) {
	analyte, err := e.Analyte.solute(ctx, catalog, "analyte")
	if err != nil {
		return domain.Config{}, err
	}
	titrant, err := e.Titrant.solute(ctx, catalog, "titrant")
	if err != nil {
		return domain.Config{}, err
	}

	cfg := domain.Config{
		Analyte: analyte,
		Titrant: domain.Titrant{
			Solute:       titrant,
			DeliveryRate: e.DeliveryRate,
		},
		MaxVolume: e.MaxVolume,
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (s SolutionSpec) solute(ctx context.Context, catalog ports.Catalog, role string) (domain.Solute, error) {
	if s.Reagent != "" {
		if catalog == nil {
			return domain.Solute{}, fmt.Errorf("%s references reagent %q but no catalog is configured", role, s.Reagent)
		}
		reagent, err := catalog.Get(ctx, s.Reagent)
		if err != nil {
			return domain.Solute{}, fmt.Errorf("%s: %w", role, err)
		}
		return reagent.Solute(s.Concentration, s.Volume), nil
	}

	return domain.Solute{
		Kind:                 domain.Kind(s.Kind),
		Strength:             domain.Strength(s.Strength),
		Concentration:        s.Concentration,
		Volume:               s.Volume,
		DissociationConstant: s.DissociationConstant,
	}, nil
}
