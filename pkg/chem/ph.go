package chem

import (
	"math"

	"github.com/aretw0/burette/pkg/domain"
)

const (
	// minConcentration floors every logarithm operand so extreme mixes
	// degrade to the pH bounds instead of producing -Inf or NaN.
	minConcentration = 1e-14

	// equivalenceTol is the relative tolerance under which analyte and
	// titrant moles count as equal.
	equivalenceTol = 1e-9
)

// PH computes the pH of the mixture after volumeAdded mL of titrant.
//
// It is a total function: any finite non-negative volume yields a value
// in [0,14]; negative or non-finite volumes are treated as zero. Moles
// are tracked in mmol (molarity times mL), which cancels out in every
// concentration ratio. Stoichiometry is 1:1 throughout.
//
// Pairings resolve as follows: strong/strong uses excess-species
// arithmetic with pH 7 at equivalence; weak/strong uses the
// Henderson-Hasselbalch buffer region, the pure-solution approximation
// at zero titrant and conjugate hydrolysis at equivalence; weak/weak
// and same-kind pairs treat every species as fully dissociated, with
// same-kind concentrations adding instead of neutralizing.
func PH(cfg domain.Config, volumeAdded float64) float64 {
	if math.IsNaN(volumeAdded) || math.IsInf(volumeAdded, 0) || volumeAdded < 0 {
		volumeAdded = 0
	}

	analyte := cfg.Analyte
	titrant := cfg.Titrant

	ma := analyte.Concentration * analyte.Volume
	mt := titrant.Concentration * volumeAdded
	total := analyte.Volume + volumeAdded

	var ph float64
	switch {
	case analyte.Kind == titrant.Kind:
		// Degenerate self-titration: nothing neutralizes, the dominant
		// species just accumulates.
		ph = strongPH(analyte.Kind, (ma+mt)/total)
	case analyte.Strength == domain.Strong && titrant.Strength == domain.Strong:
		ph = strongStrong(analyte.Kind, titrant.Kind, ma, mt, total)
	case analyte.Strength == domain.Weak && titrant.Strength == domain.Weak:
		// Full-dissociation approximation: no buffer region is modeled.
		ph = strongStrong(analyte.Kind, titrant.Kind, ma, mt, total)
	case analyte.Strength == domain.Weak:
		ph = weakAnalyte(analyte, titrant, ma, mt, total)
	default:
		ph = weakTitrant(analyte, titrant, ma, mt, total)
	}

	return clampPH(ph)
}

// strongStrong handles two fully dissociated species of opposite kinds.
func strongStrong(analyteKind, titrantKind domain.Kind, ma, mt, total float64) float64 {
	switch {
	case molesEqual(ma, mt):
		return 7
	case mt < ma:
		return strongPH(analyteKind, (ma-mt)/total)
	default:
		return strongPH(titrantKind, (mt-ma)/total)
	}
}

// weakAnalyte handles a weak analyte titrated with a strong titrant of
// the opposite kind.
func weakAnalyte(analyte domain.Solute, titrant domain.Titrant, ma, mt, total float64) float64 {
	pk := -math.Log10(analyte.DissociationConstant)

	// Fixed landmarks of this setup: the pure solution before the first
	// drop and the conjugate hydrolysis value at the equivalence volume.
	initial := pScale(analyte.Kind, 0.5*(pk-log10Floor(analyte.Concentration)))
	eqv := conjugateShift(analyte.Kind, 0.5*(pk+log10Floor(ma/totalAtEquivalence(analyte, titrant, ma))))

	switch {
	case mt == 0:
		return initial
	case molesEqual(ma, mt):
		return eqv
	case mt < ma:
		// Henderson-Hasselbalch only holds while both buffer components
		// are present; bound it by the landmarks on either end.
		hh := pScale(analyte.Kind, pk+log10Floor(mt/(ma-mt)))
		return boundBetween(hh, initial, eqv)
	default:
		// Excess strong titrant swamps the conjugate.
		return strongPH(titrant.Kind, (mt-ma)/total)
	}
}

// weakTitrant handles a strong analyte titrated with a weak titrant of
// the opposite kind: the mirror of weakAnalyte around the equivalence
// point.
func weakTitrant(analyte domain.Solute, titrant domain.Titrant, ma, mt, total float64) float64 {
	pk := -math.Log10(titrant.DissociationConstant)
	eqv := conjugateShift(titrant.Kind, 0.5*(pk+log10Floor(ma/totalAtEquivalence(analyte, titrant, ma))))

	switch {
	case molesEqual(ma, mt):
		return eqv
	case mt < ma:
		// The strong analyte is still in excess.
		return strongPH(analyte.Kind, (ma-mt)/total)
	default:
		// Excess weak titrant buffered by its own conjugate. The buffer
		// value only holds once real excess accumulates; pin the start
		// of the region to the equivalence value.
		hh := pScale(titrant.Kind, pk+log10Floor(ma/(mt-ma)))
		if titrant.Kind == domain.Acid {
			return math.Min(hh, eqv)
		}
		return math.Max(hh, eqv)
	}
}

// strongPH maps a fully dissociated concentration to pH by kind.
func strongPH(kind domain.Kind, concentration float64) float64 {
	logC := log10Floor(concentration)
	if kind == domain.Acid {
		return -logC
	}
	return 14 + logC
}

// pScale reads a p-scale value as pH: directly for acids, mirrored
// through pOH for bases.
func pScale(kind domain.Kind, value float64) float64 {
	if kind == domain.Acid {
		return value
	}
	return 14 - value
}

// conjugateShift applies the hydrolysis displacement from neutral: the
// conjugate of a weak acid is basic, the conjugate of a weak base acidic.
func conjugateShift(weakKind domain.Kind, shift float64) float64 {
	if weakKind == domain.Acid {
		return 7 + shift
	}
	return 7 - shift
}

// totalAtEquivalence returns the mixture volume once exactly enough
// titrant for neutralization has been delivered.
func totalAtEquivalence(analyte domain.Solute, titrant domain.Titrant, ma float64) float64 {
	return analyte.Volume + ma/titrant.Concentration
}

// boundBetween clamps v into the closed interval spanned by a and b,
// whichever order they come in.
func boundBetween(v, a, b float64) float64 {
	lo, hi := math.Min(a, b), math.Max(a, b)
	return math.Min(math.Max(v, lo), hi)
}

// molesEqual compares mole counts under the relative equivalence
// tolerance.
func molesEqual(a, b float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= equivalenceTol*scale
}

// log10Floor takes log10 with the concentration floor applied.
func log10Floor(c float64) float64 {
	if c < minConcentration {
		c = minConcentration
	}
	return math.Log10(c)
}

func clampPH(ph float64) float64 {
	return math.Max(0, math.Min(14, ph))
}
