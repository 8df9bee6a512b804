package chem

import (
	"github.com/aretw0/burette/pkg/domain"
)

// EquivalenceVolume returns the titrant volume (mL) at which delivered
// moles equal the analyte's moles under 1:1 stoichiometry:
// (Ca * Va) / Ct. It depends only on the config, so it can be derived
// before, during or after a run.
func EquivalenceVolume(cfg domain.Config) float64 {
	return cfg.Analyte.Concentration * cfg.Analyte.Volume / cfg.Titrant.Concentration
}

// EquivalencePoint returns the equivalence volume together with the pH
// the calculator reports there.
func EquivalencePoint(cfg domain.Config) domain.Sample {
	v := EquivalenceVolume(cfg)
	return domain.Sample{Volume: v, PH: PH(cfg, v)}
}

// DefaultMaxVolume is the volume cap applied when the config does not
// set one: twice the stoichiometric requirement, enough to show the
// full post-equivalence branch of the curve.
func DefaultMaxVolume(cfg domain.Config) float64 {
	return 2 * EquivalenceVolume(cfg)
}

// MaxVolume resolves the effective delivery cap for a config.
func MaxVolume(cfg domain.Config) float64 {
	if cfg.MaxVolume > 0 {
		return cfg.MaxVolume
	}
	return DefaultMaxVolume(cfg)
}
