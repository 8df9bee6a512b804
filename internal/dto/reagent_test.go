package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/burette/pkg/domain"
)

func TestReagentConversion(t *testing.T) {
	meta := ReagentMeta{
		Name:                 "Acetic acid",
		Formula:              "CH3COOH",
		Kind:                 "acid",
		Strength:             "weak",
		DissociationConstant: 1.8e-5,
	}

	r := meta.Reagent("acetic-acid", "The classic weak acid.")

	assert.Equal(t, "acetic-acid", r.ID, "doc ID fills in a missing frontmatter ID")
	assert.Equal(t, domain.Acid, r.Kind)
	assert.Equal(t, domain.Weak, r.Strength)
	assert.Equal(t, 1.8e-5, r.DissociationConstant)
	assert.Equal(t, "The classic weak acid.", r.Description)
	assert.NoError(t, r.Validate())
}

func TestReagentExplicitIDWins(t *testing.T) {
	meta := ReagentMeta{ID: "hcl", Kind: "acid", Strength: "strong"}
	r := meta.Reagent("hcl.md", "")
	assert.Equal(t, "hcl", r.ID)
}

func TestRoundTripThroughFrontmatter(t *testing.T) {
	want := domain.Reagent{
		ID: "ammonia", Name: "Ammonia", Formula: "NH3",
		Kind: domain.Base, Strength: domain.Weak,
		DissociationConstant: 1.8e-5,
		Description:          "Buffers around pOH 4.74.",
	}

	meta := FromReagent(want)
	got := meta.Reagent("", want.Description)
	assert.Equal(t, want, got)
}
