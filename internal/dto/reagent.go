package dto

import (
	"github.com/aretw0/burette/pkg/domain"
)

// ReagentMeta is the frontmatter header of a reagent document on the
// shelf. It uses "mapstructure" tags so loam's typed repository can
// decode standard YAML frontmatter keys.
type ReagentMeta struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Formula  string `json:"formula" mapstructure:"formula"`
	Kind     string `json:"kind" mapstructure:"kind"`
	Strength string `json:"strength" mapstructure:"strength"`

	// DissociationConstant is Ka for weak acids and Kb for weak bases.
	// Strong species leave it unset.
	DissociationConstant float64 `json:"dissociation_constant" mapstructure:"dissociation_constant"`
}

// Reagent converts the frontmatter plus the document body into the
// domain record. docID fills in a missing ID; the body becomes the
// description.
func (m ReagentMeta) Reagent(docID, body string) domain.Reagent {
	id := m.ID
	if id == "" {
		id = docID
	}
	return domain.Reagent{
		ID:                   id,
		Name:                 m.Name,
		Formula:              m.Formula,
		Kind:                 domain.Kind(m.Kind),
		Strength:             domain.Strength(m.Strength),
		DissociationConstant: m.DissociationConstant,
		Description:          body,
	}
}

// FromReagent builds the frontmatter for a domain record, used by the
// shelf generator.
func FromReagent(r domain.Reagent) ReagentMeta {
	return ReagentMeta{
		ID:                   r.ID,
		Name:                 r.Name,
		Formula:              r.Formula,
		Kind:                 string(r.Kind),
		Strength:             string(r.Strength),
		DissociationConstant: r.DissociationConstant,
	}
}
