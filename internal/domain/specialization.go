package domain

import "strings"

// Specialization enumerates maintenance skill categories.
type Specialization string

const (
	SpecializationPlumbing        Specialization = "PLUMBING"
	SpecializationElectrical      Specialization = "ELECTRICAL"
	SpecializationHVAC            Specialization = "HVAC"
	SpecializationCarpentry       Specialization = "CARPENTRY"
	SpecializationPainting        Specialization = "PAINTING"
	SpecializationLocksmith       Specialization = "LOCKSMITH"
	SpecializationApplianceRepair Specialization = "APPLIANCE_REPAIR"
	SpecializationGeneral         Specialization = "GENERAL_MAINTENANCE"
)

// specializationKeywords is scanned in order; the first category with a match
// wins. Keywords are matched case-insensitively against title+description.
var specializationKeywords = []struct {
	category Specialization
	keywords []string
}{
	{SpecializationPlumbing, []string{"leak", "faucet", "pipe", "drain", "toilet", "sink", "water heater", "clog", "sewer"}},
	{SpecializationElectrical, []string{"electric", "outlet", "wiring", "breaker", "light fixture", "power", "sparks", "short circuit"}},
	{SpecializationHVAC, []string{"hvac", "heating", "furnace", "air condition", "thermostat", "ventilation", "radiator", "boiler"}},
	{SpecializationCarpentry, []string{"door frame", "cabinet", "shelf", "wood", "drywall", "floorboard", "carpentry", "trim"}},
	{SpecializationPainting, []string{"paint", "wall stain", "peeling", "touch-up", "repaint"}},
	{SpecializationLocksmith, []string{"lock", "key", "deadbolt", "latch", "door won't open"}},
	{SpecializationApplianceRepair, []string{"refrigerator", "fridge", "dishwasher", "oven", "stove", "washer", "dryer", "microwave", "appliance"}},
}

// ClassifySpecialization suggests the worker category for free-text request
// content. Best effort; callers may override the suggestion.
func ClassifySpecialization(title, description string) Specialization {
	text := strings.ToLower(title + " " + description)
	for _, group := range specializationKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(text, keyword) {
				return group.category
			}
		}
	}
	return SpecializationGeneral
}
