package domain

import "fmt"

// Reagent is a catalog entry describing a stock chemical that can play
// the analyte or titrant role. Description carries free-form markdown
// shown by presentation layers.
type Reagent struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Formula              string   `json:"formula,omitempty"`
	Kind                 Kind     `json:"kind"`
	Strength             Strength `json:"strength"`
	DissociationConstant float64  `json:"dissociation_constant,omitempty"`
	Description          string   `json:"description,omitempty"`
}

// Validate checks catalog integrity for one entry.
func (r Reagent) Validate() error {
	if r.ID == "" {
		return &ConfigError{Field: "reagent.id", Reason: "must not be empty"}
	}
	if !r.Kind.Valid() {
		return &ConfigError{Field: "reagent.kind", Reason: fmt.Sprintf("unknown kind %q for %s", string(r.Kind), r.ID)}
	}
	if !r.Strength.Valid() {
		return &ConfigError{Field: "reagent.strength", Reason: fmt.Sprintf("unknown strength %q for %s", string(r.Strength), r.ID)}
	}
	if r.Strength == Weak && !positiveFinite(r.DissociationConstant) {
		return &ConfigError{Field: "reagent.dissociation_constant", Reason: fmt.Sprintf("weak reagent %s requires a positive, finite Ka/Kb", r.ID)}
	}
	return nil
}

// Solute builds a solution of this reagent at the given molar
// concentration and volume (mL).
func (r Reagent) Solute(concentration, volume float64) Solute {
	return Solute{
		Kind:                 r.Kind,
		Strength:             r.Strength,
		Concentration:        concentration,
		Volume:               volume,
		DissociationConstant: r.DissociationConstant,
	}
}

// Titrant builds a titrant solution of this reagent with the given
// delivery rate (mL per simulated time unit).
func (r Reagent) Titrant(concentration, volume, rate float64) Titrant {
	return Titrant{
		Solute:       r.Solute(concentration, volume),
		DeliveryRate: rate,
	}
}
