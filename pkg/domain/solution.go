package domain

import (
	"fmt"
	"math"
)

// Kind classifies a solute as a proton donor or acceptor.
type Kind string

const (
	Acid Kind = "acid"
	Base Kind = "base"
)

// Valid reports whether the kind is one of the declared constants.
func (k Kind) Valid() bool {
	return k == Acid || k == Base
}

// Strength classifies how completely a solute dissociates in water.
type Strength string

const (
	Strong Strength = "strong"
	Weak   Strength = "weak"
)

// Valid reports whether the strength is one of the declared constants.
func (s Strength) Valid() bool {
	return s == Strong || s == Weak
}

// Solute describes one solution taking part in a titration.
//
// Concentration is molar (mol/L) and Volume is in mL. DissociationConstant
// holds Ka for weak acids and Kb for weak bases; it is ignored for strong
// species, which are treated as fully dissociated.
type Solute struct {
	Kind                 Kind     `json:"kind"`
	Strength             Strength `json:"strength"`
	Concentration        float64  `json:"concentration"`
	Volume               float64  `json:"volume"`
	DissociationConstant float64  `json:"dissociation_constant,omitempty"`
}

// Titrant is the solution delivered from the burette into the analyte.
// DeliveryRate is in mL per simulated time unit.
type Titrant struct {
	Solute
	DeliveryRate float64 `json:"delivery_rate"`
}

// Config describes one complete experiment setup.
//
// MaxVolume caps the titrant volume that can ever be delivered, in mL.
// Zero means "derive a default" (twice the equivalence volume).
type Config struct {
	Analyte   Solute  `json:"analyte"`
	Titrant   Titrant `json:"titrant"`
	MaxVolume float64 `json:"max_volume,omitempty"`
}

// Validate checks every numeric field for physical plausibility and every
// enum for a legal value. All downstream computation assumes a config that
// passed this check. Returned errors match ErrInvalidConfig via errors.Is.
func (c Config) Validate() error {
	if err := c.Analyte.validate("analyte"); err != nil {
		return err
	}
	if err := c.Titrant.Solute.validate("titrant"); err != nil {
		return err
	}
	if !positiveFinite(c.Titrant.DeliveryRate) {
		return &ConfigError{Field: "titrant.delivery_rate", Reason: "must be positive and finite"}
	}
	if c.MaxVolume != 0 && !positiveFinite(c.MaxVolume) {
		return &ConfigError{Field: "max_volume", Reason: "must be positive and finite when set"}
	}
	return nil
}

func (s Solute) validate(field string) error {
	if !s.Kind.Valid() {
		return &ConfigError{Field: field + ".kind", Reason: fmt.Sprintf("unknown kind %q", string(s.Kind))}
	}
	if !s.Strength.Valid() {
		return &ConfigError{Field: field + ".strength", Reason: fmt.Sprintf("unknown strength %q", string(s.Strength))}
	}
	if !positiveFinite(s.Concentration) {
		return &ConfigError{Field: field + ".concentration", Reason: "must be positive and finite"}
	}
	if !positiveFinite(s.Volume) {
		return &ConfigError{Field: field + ".volume", Reason: "must be positive and finite"}
	}
	if s.Strength == Weak && !positiveFinite(s.DissociationConstant) {
		return &ConfigError{Field: field + ".dissociation_constant", Reason: "weak species require a positive, finite Ka/Kb"}
	}
	return nil
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsNaN(x) && !math.IsInf(x, 0)
}
