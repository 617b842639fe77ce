package model

// CanonicalLang is the language the base record is authored in. The
// canonical translation row is derived directly from the draft; every
// other row is a machine-translated copy.
const CanonicalLang = "en"

// SupportedLangs is the fixed, ordered set of languages every record is
// translated into. Iteration order is deterministic on purpose: the
// translation batcher paces external calls per language.
var SupportedLangs = []string{"en", "fr", "es", "de", "it", "nl"}

// TargetLangs returns the supported languages minus the canonical one.
func TargetLangs() []string {
	out := make([]string, 0, len(SupportedLangs)-1)
	for _, l := range SupportedLangs {
		if l != CanonicalLang {
			out = append(out, l)
		}
	}
	return out
}

// Translation is one (plant, language) row. The canonical-language row
// is authoritative; a missing non-canonical row is tolerated.
type Translation struct {
	PlantID string `json:"plant_id"`
	Lang    string `json:"lang"`

	// Single-string translatables
	Description    string `json:"description,omitempty"`
	CareAdvice     string `json:"care_advice,omitempty"`
	PruningAdvice  string `json:"pruning_advice,omitempty"`
	HarvestAdvice  string `json:"harvest_advice,omitempty"`
	NutritionFacts string `json:"nutrition_facts,omitempty"`

	// List-of-string translatables
	CommonNames     []string `json:"common_names,omitempty"`
	EdibleParts     []string `json:"edible_parts,omitempty"`
	CompanionPlants []string `json:"companion_plants,omitempty"`
	CommonPests     []string `json:"common_pests,omitempty"`
	CommonDiseases  []string `json:"common_diseases,omitempty"`
}

// CanonicalTranslation derives the authoritative canonical-language row
// from an assembled draft.
func CanonicalTranslation(p *Plant) Translation {
	return Translation{
		PlantID:         p.ID,
		Lang:            CanonicalLang,
		Description:     p.Description,
		CareAdvice:      p.CareAdvice,
		PruningAdvice:   p.PruningAdvice,
		HarvestAdvice:   p.HarvestAdvice,
		NutritionFacts:  p.NutritionFacts,
		CommonNames:     p.CommonNames,
		EdibleParts:     p.EdibleParts,
		CompanionPlants: p.CompanionPlants,
		CommonPests:     p.CommonPests,
		CommonDiseases:  p.CommonDiseases,
	}
}
