package dsl

import "github.com/aretw0/burette/pkg/domain"

// SolutionBuilder provides a fluent API for configuring one solution.
type SolutionBuilder struct {
	solute domain.Solute
}

// StrongAcid starts a fully dissociating acid.
func StrongAcid() *SolutionBuilder {
	return &SolutionBuilder{solute: domain.Solute{Kind: domain.Acid, Strength: domain.Strong}}
}

// StrongBase starts a fully dissociating base.
func StrongBase() *SolutionBuilder {
	return &SolutionBuilder{solute: domain.Solute{Kind: domain.Base, Strength: domain.Strong}}
}

// WeakAcid starts a weak acid with the given Ka.
func WeakAcid(ka float64) *SolutionBuilder {
	return &SolutionBuilder{solute: domain.Solute{
		Kind: domain.Acid, Strength: domain.Weak, DissociationConstant: ka,
	}}
}

// WeakBase starts a weak base with the given Kb.
func WeakBase(kb float64) *SolutionBuilder {
	return &SolutionBuilder{solute: domain.Solute{
		Kind: domain.Base, Strength: domain.Weak, DissociationConstant: kb,
	}}
}

// Reagent starts a solution from a catalog record.
func Reagent(r domain.Reagent) *SolutionBuilder {
	return &SolutionBuilder{solute: r.Solute(0, 0)}
}

// Molar sets the concentration in mol/L.
func (s *SolutionBuilder) Molar(concentration float64) *SolutionBuilder {
	s.solute.Concentration = concentration
	return s
}

// Milliliters sets the solution volume.
func (s *SolutionBuilder) Milliliters(volume float64) *SolutionBuilder {
	s.solute.Volume = volume
	return s
}
