package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySpecialization(t *testing.T) {
	cases := []struct {
		name        string
		title       string
		description string
		want        Specialization
	}{
		{"faucet leak", "Kitchen faucet leaking", "water everywhere under the sink", SpecializationPlumbing},
		{"outlet", "Dead outlet in bedroom", "no power from the wall socket", SpecializationElectrical},
		{"no heat", "Heating not working", "the furnace won't turn on", SpecializationHVAC},
		{"cabinet", "Broken cabinet hinge", "the kitchen cabinet door fell off", SpecializationCarpentry},
		{"peeling wall", "Peeling paint in hallway", "", SpecializationPainting},
		{"stuck lock", "Front door lock jammed", "key won't turn", SpecializationLocksmith},
		{"fridge", "Refrigerator not cooling", "food is spoiling", SpecializationApplianceRepair},
		{"no keywords", "Something is off", "not sure what exactly", SpecializationGeneral},
		{"case insensitive", "LEAK under the BATHROOM SINK", "", SpecializationPlumbing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySpecialization(tc.title, tc.description))
		})
	}
}

func TestClassifySpecializationFirstMatchWins(t *testing.T) {
	// Plumbing is scanned before electrical, so mixed text lands on plumbing.
	got := ClassifySpecialization("Leaking pipe near an outlet", "")
	assert.Equal(t, SpecializationPlumbing, got)
}
