package model

import "time"

// Status marks how far a plant record has progressed through ingestion.
type Status string

const (
	// StatusInProgress is set when the base record is first written and
	// later stages (images, translations) are still running.
	StatusInProgress Status = "in_progress"
	// StatusComplete is set once every stage has finished.
	StatusComplete Status = "complete"
)

// ImageRole tags the purpose of a stored plant image.
type ImageRole string

const (
	RolePrimary   ImageRole = "primary"
	RoleDiscovery ImageRole = "discovery"
	RoleOther     ImageRole = "other"
)

// Plant is the in-memory draft record accumulated by the ingestion
// pipeline and, once assembled, the canonical base record. ID and Name
// are fixed the moment they are set; everything else may be overwritten
// by later stages.
type Plant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`

	// Taxonomy
	ScientificName string `json:"scientific_name,omitempty"`
	Family         string `json:"family,omitempty"`
	Genus          string `json:"genus,omitempty"`
	PlantType      string `json:"plant_type,omitempty"`

	// Care
	Light      string `json:"light,omitempty"`
	Soil       string `json:"soil,omitempty"`
	WaterNeed  string `json:"water_need,omitempty"`
	Hardiness  string `json:"hardiness,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	GrowthRate string `json:"growth_rate,omitempty"`
	HeightCM   int    `json:"height_cm,omitempty"`
	SpreadCM   int    `json:"spread_cm,omitempty"`
	Indoor     bool   `json:"indoor,omitempty"`
	PetSafe    bool   `json:"pet_safe,omitempty"`
	Toxicity   string `json:"toxicity,omitempty"`

	// Growth timing
	SowingMonths    []string `json:"sowing_months,omitempty"`
	FloweringMonths []string `json:"flowering_months,omitempty"`
	FruitingMonths  []string `json:"fruiting_months,omitempty"`
	GerminationDays int      `json:"germination_days,omitempty"`

	// Ecology
	Origins     []string `json:"origins,omitempty"`
	Pollinators []string `json:"pollinators,omitempty"`
	BeeFriendly bool     `json:"bee_friendly,omitempty"`

	// Consumption
	Edible         bool     `json:"edible,omitempty"`
	EdibleParts    []string `json:"edible_parts,omitempty"`
	Medicinal      bool     `json:"medicinal,omitempty"`
	NutritionFacts string   `json:"nutrition_facts,omitempty"`

	// Advisory free text
	Description   string `json:"description,omitempty"`
	CareAdvice    string `json:"care_advice,omitempty"`
	PruningAdvice string `json:"pruning_advice,omitempty"`
	HarvestAdvice string `json:"harvest_advice,omitempty"`

	// List collections
	CommonNames     []string `json:"common_names,omitempty"`
	CompanionPlants []string `json:"companion_plants,omitempty"`
	CommonPests     []string `json:"common_pests,omitempty"`
	CommonDiseases  []string `json:"common_diseases,omitempty"`

	// Side-table families, replaced wholesale on every persistence pass.
	Colors            []Color            `json:"colors,omitempty"`
	Images            []Image            `json:"images,omitempty"`
	WateringSchedules []WateringSchedule `json:"watering_schedules,omitempty"`
	Sources           []Source           `json:"sources,omitempty"`
	Contributors      []Contributor      `json:"contributors,omitempty"`
	InfusionMixes     []InfusionMix      `json:"infusion_mixes,omitempty"`
	Recipes           []Recipe           `json:"recipes,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Color is a flower/foliage color row.
type Color struct {
	Name string `json:"name"`
	Part string `json:"part,omitempty"` // flower, foliage, fruit
}

// Image is a stored plant image with its acquisition source.
type Image struct {
	URL    string    `json:"url"`
	Source string    `json:"source"`
	Role   ImageRole `json:"role"`
}

// WateringSchedule describes watering cadence for one season.
type WateringSchedule struct {
	Season       string `json:"season"`
	IntervalDays int    `json:"interval_days"`
	Amount       string `json:"amount,omitempty"`
}

// Source is an external reference the record was derived from.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Contributor credits a person involved in creating the record.
type Contributor struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// InfusionMix is an herbal infusion using this plant.
type InfusionMix struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
}

// Recipe is a culinary recipe using this plant.
type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}
