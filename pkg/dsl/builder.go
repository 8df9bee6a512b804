package dsl

import (
	"errors"

	"github.com/aretw0/burette/pkg/domain"
)

// Builder manages the experiment construction.
type Builder struct {
	analyte *SolutionBuilder
	titrant *SolutionBuilder
	rate    float64
	cap     float64
}

// NewExperiment creates a new experiment builder.
func NewExperiment() *Builder {
	return &Builder{}
}

// Analyte sets the solution in the flask.
func (b *Builder) Analyte(s *SolutionBuilder) *Builder {
	b.analyte = s
	return b
}

// Titrant sets the solution delivered from the burette.
func (b *Builder) Titrant(s *SolutionBuilder) *Builder {
	b.titrant = s
	return b
}

// DeliveryRate sets the titrant flow in mL per simulated time unit.
func (b *Builder) DeliveryRate(rate float64) *Builder {
	b.rate = rate
	return b
}

// MaxVolume caps the deliverable titrant volume in mL. Unset, the cap
// defaults to twice the equivalence volume.
func (b *Builder) MaxVolume(v float64) *Builder {
	b.cap = v
	return b
}

// Build compiles and validates the config. Validation errors match
// domain.ErrInvalidConfig.
func (b *Builder) Build() (domain.Config, error) {
	if b.analyte == nil {
		return domain.Config{}, errors.New("experiment has no analyte")
	}
	if b.titrant == nil {
		return domain.Config{}, errors.New("experiment has no titrant")
	}

	cfg := domain.Config{
		Analyte: b.analyte.solute,
		Titrant: domain.Titrant{
			Solute:       b.titrant.solute,
			DeliveryRate: b.rate,
		},
		MaxVolume: b.cap,
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}
