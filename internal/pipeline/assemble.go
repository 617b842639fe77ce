package pipeline

import (
	"strconv"
	"strings"

	"github.com/verdant-labs/flora-cli/internal/model"
)

// Assemble merges raw AI payloads into the draft, coercing the loosely
// typed output into canonical shapes and filling defaults for fields
// required downstream. The draft's ID and Name are re-asserted at the
// end: AI output must never override record identity.
func Assemble(draft *model.Plant, payloads map[string]SectionPayload) {
	id, name := draft.ID, draft.Name

	if pl, ok := payloads["taxonomy"]; ok {
		applyTaxonomy(draft, pl)
	}
	if pl, ok := payloads["care"]; ok {
		applyCare(draft, pl)
	}
	if pl, ok := payloads["growth"]; ok {
		applyGrowth(draft, pl)
	}
	if pl, ok := payloads["ecology"]; ok {
		applyEcology(draft, pl)
	}
	if pl, ok := payloads["consumption"]; ok {
		applyConsumption(draft, pl)
	}
	if pl, ok := payloads["advisory"]; ok {
		applyAdvisory(draft, pl)
	}
	if pl, ok := payloads["colors"]; ok {
		applyColors(draft, pl)
	}
	if pl, ok := payloads["watering"]; ok {
		applyWatering(draft, pl)
	}
	if pl, ok := payloads["culinary"]; ok {
		applyCulinary(draft, pl)
	}

	draft.ID, draft.Name = id, name
	applyDefaults(draft)
}

func applyTaxonomy(d *model.Plant, pl SectionPayload) {
	d.ScientificName = coerceString(pl["scientific_name"], d.ScientificName)
	d.Family = coerceString(pl["family"], d.Family)
	d.Genus = coerceString(pl["genus"], d.Genus)
	d.PlantType = coerceString(pl["plant_type"], d.PlantType)
	if names := coerceList(pl["common_names"]); len(names) > 0 {
		d.CommonNames = names
	}
}

func applyCare(d *model.Plant, pl SectionPayload) {
	d.Light = coerceString(pl["light"], d.Light)
	d.Soil = coerceString(pl["soil"], d.Soil)
	d.WaterNeed = coerceString(pl["water_need"], d.WaterNeed)
	d.Hardiness = coerceString(pl["hardiness"], d.Hardiness)
	d.Difficulty = coerceString(pl["difficulty"], d.Difficulty)
	d.GrowthRate = coerceString(pl["growth_rate"], d.GrowthRate)
	d.HeightCM = coerceInt(pl["height_cm"], d.HeightCM)
	d.SpreadCM = coerceInt(pl["spread_cm"], d.SpreadCM)
	d.Indoor = coerceBool(pl["indoor"], d.Indoor)
	d.PetSafe = coerceBool(pl["pet_safe"], d.PetSafe)
	d.Toxicity = coerceString(pl["toxicity"], d.Toxicity)
}

func applyGrowth(d *model.Plant, pl SectionPayload) {
	if m := coerceMonths(pl["sowing_months"]); len(m) > 0 {
		d.SowingMonths = m
	}
	if m := coerceMonths(pl["flowering_months"]); len(m) > 0 {
		d.FloweringMonths = m
	}
	if m := coerceMonths(pl["fruiting_months"]); len(m) > 0 {
		d.FruitingMonths = m
	}
	d.GerminationDays = coerceInt(pl["germination_days"], d.GerminationDays)
}

func applyEcology(d *model.Plant, pl SectionPayload) {
	if origins := coerceList(pl["origins"]); len(origins) > 0 {
		d.Origins = origins
	}
	if polls := coerceList(pl["pollinators"]); len(polls) > 0 {
		d.Pollinators = polls
	}
	d.BeeFriendly = coerceBool(pl["bee_friendly"], d.BeeFriendly)
}

func applyConsumption(d *model.Plant, pl SectionPayload) {
	d.Edible = coerceBool(pl["edible"], d.Edible)
	if parts := coerceList(pl["edible_parts"]); len(parts) > 0 {
		d.EdibleParts = parts
	}
	d.Medicinal = coerceBool(pl["medicinal"], d.Medicinal)
	d.NutritionFacts = coerceString(pl["nutrition_facts"], d.NutritionFacts)
}

func applyAdvisory(d *model.Plant, pl SectionPayload) {
	d.Description = coerceString(pl["description"], d.Description)
	d.CareAdvice = coerceString(pl["care_advice"], d.CareAdvice)
	d.PruningAdvice = coerceString(pl["pruning_advice"], d.PruningAdvice)
	d.HarvestAdvice = coerceString(pl["harvest_advice"], d.HarvestAdvice)
	if comps := coerceList(pl["companion_plants"]); len(comps) > 0 {
		d.CompanionPlants = comps
	}
	if pests := coerceList(pl["common_pests"]); len(pests) > 0 {
		d.CommonPests = pests
	}
	if diseases := coerceList(pl["common_diseases"]); len(diseases) > 0 {
		d.CommonDiseases = diseases
	}
	for _, s := range coerceList(pl["sources"]) {
		name, rest := splitPipe(s)
		if name == "" {
			continue
		}
		d.Sources = append(d.Sources, model.Source{Name: name, URL: firstPart(rest)})
	}
}

func applyColors(d *model.Plant, pl SectionPayload) {
	for _, c := range coerceList(pl["colors"]) {
		part, name := "", c
		if idx := strings.IndexByte(c, ':'); idx >= 0 {
			part, name = strings.TrimSpace(c[:idx]), strings.TrimSpace(c[idx+1:])
		}
		if name == "" {
			continue
		}
		d.Colors = append(d.Colors, model.Color{Name: name, Part: part})
	}
}

func applyWatering(d *model.Plant, pl SectionPayload) {
	for _, s := range coerceList(pl["schedules"]) {
		parts := strings.SplitN(s, ":", 3)
		sched := model.WateringSchedule{Season: strings.TrimSpace(parts[0]), IntervalDays: 7}
		if sched.Season == "" {
			continue
		}
		if len(parts) > 1 {
			if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && n > 0 {
				sched.IntervalDays = n
			}
		}
		if len(parts) > 2 {
			sched.Amount = strings.TrimSpace(parts[2])
		}
		d.WateringSchedules = append(d.WateringSchedules, sched)
	}
}

func applyCulinary(d *model.Plant, pl SectionPayload) {
	for _, s := range coerceList(pl["infusions"]) {
		name, rest := splitPipe(s)
		if name == "" {
			continue
		}
		ingredients, prep := splitPipe(rest)
		d.InfusionMixes = append(d.InfusionMixes, model.InfusionMix{
			Name:        name,
			Ingredients: splitComma(ingredients),
			Preparation: prep,
		})
	}
	for _, s := range coerceList(pl["recipes"]) {
		name, rest := splitPipe(s)
		if name == "" {
			continue
		}
		ingredients, instructions := splitPipe(rest)
		d.Recipes = append(d.Recipes, model.Recipe{
			Name:         name,
			Ingredients:  splitComma(ingredients),
			Instructions: instructions,
		})
	}
}

// Placeholder defaults for fields that downstream constraints require
// to be non-empty. Deliberately generic rather than inferred.
var (
	defaultOrigins         = []string{"Unknown"}
	defaultSowingMonths    = []string{"March", "April"}
	defaultFloweringMonths = []string{"June", "July"}
	defaultFruitingMonths  = []string{"August", "September"}
)

func applyDefaults(d *model.Plant) {
	if d.Status == "" {
		d.Status = model.StatusInProgress
	}
	if len(d.Origins) == 0 {
		d.Origins = append([]string(nil), defaultOrigins...)
	}
	if len(d.SowingMonths) == 0 {
		d.SowingMonths = append([]string(nil), defaultSowingMonths...)
	}
	if len(d.FloweringMonths) == 0 {
		d.FloweringMonths = append([]string(nil), defaultFloweringMonths...)
	}
	if len(d.FruitingMonths) == 0 {
		d.FruitingMonths = append([]string(nil), defaultFruitingMonths...)
	}
	if len(d.WateringSchedules) == 0 {
		d.WateringSchedules = []model.WateringSchedule{
			{Season: "all year", IntervalDays: 7, Amount: "moderate"},
		}
	}
}

// --- coercion helpers ---
//
// Each helper is total: malformed values fall back to the caller's
// default instead of raising.

func coerceString(v any, def string) string {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "unknown") {
			return def
		}
		return s
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return def
	}
}

func coerceInt(v any, def int) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		s := strings.TrimSpace(val)
		// Tolerate unit suffixes like "120 cm".
		if idx := strings.IndexByte(s, ' '); idx > 0 {
			s = s[:idx]
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		return def
	default:
		return def
	}
}

func coerceBool(v any, def bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0":
			return false
		}
		return def
	default:
		return def
	}
}

func coerceList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item, ""); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		return splitComma(val)
	default:
		return nil
	}
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// coerceMonths normalizes month lists: numbers 1-12, any casing, or
// abbreviations all map onto full English month names. Unrecognized
// entries are dropped.
func coerceMonths(v any) []string {
	var out []string
	for _, item := range coerceList(v) {
		if n, err := strconv.Atoi(item); err == nil {
			if n >= 1 && n <= 12 {
				out = append(out, monthNames[n-1])
			}
			continue
		}
		lower := strings.ToLower(item)
		for _, m := range monthNames {
			if strings.HasPrefix(strings.ToLower(m), lower) && len(lower) >= 3 {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func splitPipe(s string) (string, string) {
	if idx := strings.IndexByte(s, '|'); idx >= 0 {
		return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
	}
	return strings.TrimSpace(s), ""
}

func firstPart(s string) string {
	first, _ := splitPipe(s)
	return first
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
