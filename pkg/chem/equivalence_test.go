package chem

import (
	"testing"
)

func TestEquivalenceVolume(t *testing.T) {
	cfg := strongStrongConfig()
	approx(t, "EquivalenceVolume", EquivalenceVolume(cfg), 25, 1e-9)

	cfg.Analyte.Concentration = 0.05
	cfg.Analyte.Volume = 30
	approx(t, "EquivalenceVolume", EquivalenceVolume(cfg), 15, 1e-9)
}

func TestEquivalencePoint(t *testing.T) {
	cfg := strongStrongConfig()

	point := EquivalencePoint(cfg)
	approx(t, "point volume", point.Volume, 25, 1e-9)
	if point.PH != 7 {
		t.Errorf("strong/strong equivalence pH = %v, want exactly 7", point.PH)
	}

	weak := weakAcidConfig()
	point = EquivalencePoint(weak)
	approx(t, "weak point pH", point.PH, 8.7218, 1e-3)
}

func TestMaxVolume(t *testing.T) {
	cfg := strongStrongConfig()
	approx(t, "default cap", MaxVolume(cfg), 50, 1e-9)

	cfg.MaxVolume = 40
	approx(t, "explicit cap", MaxVolume(cfg), 40, 1e-9)
}
