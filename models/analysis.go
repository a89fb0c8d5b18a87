package models

import (
	"time"

	"gorm.io/gorm"
)

// Input types accepted by the analysis pipeline.
const (
	InputTypeText    = "text"
	InputTypeBarcode = "barcode"
	InputTypeImage   = "image"
	InputTypeVoice   = "voice"
)

// UserPreferences is the dietary context an analysis runs against.
type UserPreferences struct {
	DietPreferences      []string `json:"diet_preferences"`
	AllergenRestrictions []string `json:"allergen_restrictions"`
}

// FoodAnalysisInput is constructed once per request and never mutated.
type FoodAnalysisInput struct {
	Type            string           `json:"type"` // text | barcode | image | voice
	Data            string           `json:"data"`
	UserID          uint             `json:"user_id,omitempty"`
	UserPreferences *UserPreferences `json:"user_preferences,omitempty"`
}

// FoodItem is a single recognized food with the user's original phrasing.
// Name is never translated or rewritten.
type FoodItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Confidence float64 `json:"confidence"` // in [0,1]
}

// NutritionProfile carries macro/micronutrient values. Missing and zero are
// different facts: a nil field means the source did not report it, and must
// not be collapsed to 0 before the presentation boundary.
type NutritionProfile struct {
	Calories      *float64 `json:"calories,omitempty"`
	ProteinG      *float64 `json:"protein_g,omitempty"`
	CarbsG        *float64 `json:"carbs_g,omitempty"`
	FatG          *float64 `json:"fat_g,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	FiberG        *float64 `json:"fiber_g,omitempty"`
	SugarG        *float64 `json:"sugar_g,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
	CholesterolMg *float64 `json:"cholesterol_mg,omitempty"`
	VitaminCMg    *float64 `json:"vitamin_c_mg,omitempty"`
	IronMg        *float64 `json:"iron_mg,omitempty"`
	CalciumMg     *float64 `json:"calcium_mg,omitempty"`

	// Percent-daily-value entries, consumed only by the scorer. Sources
	// fill fixed nutrient slots (vitamin C, iron, calcium) so Add keeps
	// entries aligned when profiles are summed.
	MicronutrientsPercentDV []float64 `json:"micronutrients_percent_dv,omitempty"`
}

// Float wraps a literal for the optional fields above.
func Float(v float64) *float64 { return &v }

// Clone returns a deep copy.
func (p *NutritionProfile) Clone() *NutritionProfile {
	if p == nil {
		return nil
	}
	out := &NutritionProfile{}
	for _, f := range []struct {
		src *float64
		dst **float64
	}{
		{p.Calories, &out.Calories},
		{p.ProteinG, &out.ProteinG},
		{p.CarbsG, &out.CarbsG},
		{p.FatG, &out.FatG},
		{p.SaturatedFatG, &out.SaturatedFatG},
		{p.FiberG, &out.FiberG},
		{p.SugarG, &out.SugarG},
		{p.SodiumMg, &out.SodiumMg},
		{p.CholesterolMg, &out.CholesterolMg},
		{p.VitaminCMg, &out.VitaminCMg},
		{p.IronMg, &out.IronMg},
		{p.CalciumMg, &out.CalciumMg},
	} {
		if f.src != nil {
			v := *f.src
			*f.dst = &v
		}
	}
	if p.MicronutrientsPercentDV != nil {
		out.MicronutrientsPercentDV = append([]float64(nil), p.MicronutrientsPercentDV...)
	}
	return out
}

// Scale returns a copy with every reported field multiplied by factor.
// Unreported fields stay unreported.
func (p *NutritionProfile) Scale(factor float64) *NutritionProfile {
	out := p.Clone()
	if out == nil {
		return nil
	}
	for _, f := range []**float64{
		&out.Calories, &out.ProteinG, &out.CarbsG, &out.FatG,
		&out.SaturatedFatG, &out.FiberG, &out.SugarG, &out.SodiumMg,
		&out.CholesterolMg, &out.VitaminCMg, &out.IronMg, &out.CalciumMg,
	} {
		if *f != nil {
			v := **f * factor
			*f = &v
		}
	}
	for i := range out.MicronutrientsPercentDV {
		out.MicronutrientsPercentDV[i] *= factor
	}
	return out
}

// Add accumulates other into p field-wise. A field becomes reported as soon
// as any contributing profile reports it.
func (p *NutritionProfile) Add(other *NutritionProfile) {
	if other == nil {
		return
	}
	acc := func(dst **float64, src *float64) {
		if src == nil {
			return
		}
		if *dst == nil {
			v := *src
			*dst = &v
			return
		}
		**dst += *src
	}
	acc(&p.Calories, other.Calories)
	acc(&p.ProteinG, other.ProteinG)
	acc(&p.CarbsG, other.CarbsG)
	acc(&p.FatG, other.FatG)
	acc(&p.SaturatedFatG, other.SaturatedFatG)
	acc(&p.FiberG, other.FiberG)
	acc(&p.SugarG, other.SugarG)
	acc(&p.SodiumMg, other.SodiumMg)
	acc(&p.CholesterolMg, other.CholesterolMg)
	acc(&p.VitaminCMg, other.VitaminCMg)
	acc(&p.IronMg, other.IronMg)
	acc(&p.CalciumMg, other.CalciumMg)
	for i, dv := range other.MicronutrientsPercentDV {
		if i < len(p.MicronutrientsPercentDV) {
			p.MicronutrientsPercentDV[i] += dv
		} else {
			p.MicronutrientsPercentDV = append(p.MicronutrientsPercentDV, dv)
		}
	}
}

// Or returns the field value, or 0 when unreported. Presentation boundary only.
func Or(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ScoreBreakdown itemizes every penalty and bonus so a score is auditable.
// All values are rounded to 2 decimal places.
type ScoreBreakdown struct {
	BaseScore           float64 `json:"base_score"`
	PenaltySugar        float64 `json:"penalty_sugar"`
	PenaltySodium       float64 `json:"penalty_sodium"`
	PenaltySaturatedFat float64 `json:"penalty_saturated_fat"`
	BonusFiber          float64 `json:"bonus_fiber"`
	BonusProtein        float64 `json:"bonus_protein"`
	BonusMicronutrients float64 `json:"bonus_micronutrients"`
	FinalScore          float64 `json:"final_score"`
}

// NutritionScore is fully derived from a per-100g NutritionProfile.
type NutritionScore struct {
	Score     int            `json:"score"` // in [0,100]
	Grade     string         `json:"grade"` // A | B | C | D
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// DietVerdict is the per-diet outcome of a compatibility check.
type DietVerdict struct {
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason"`
}

type DietViolation struct {
	Diet                 string   `json:"diet"`
	ViolatingIngredients []string `json:"violating_ingredients"`
}

type AllergenWarning struct {
	Allergen   string `json:"allergen"`
	Ingredient string `json:"ingredient"`
	Message    string `json:"message"`
}

// DietCompatibilityResult holds independent diet and allergen passes.
// UnverifiedIngredients lists taxonomy misses: unknown is never assumed safe.
type DietCompatibilityResult struct {
	Diets                 map[string]DietVerdict `json:"diets"`
	Violations            []DietViolation        `json:"violations"`
	AllergenWarnings      []AllergenWarning      `json:"allergen_warnings"`
	UnverifiedIngredients []string               `json:"unverified_ingredients"`
	Warnings              []string               `json:"warnings"`
}

// ResolvedFoodItem pairs a recognized item with the nutrition the resolver
// found for it. Profile is nil and Confidence 0 when every source failed.
type ResolvedFoodItem struct {
	FoodItem
	Grams   float64           `json:"grams"`
	Source  string            `json:"source,omitempty"`
	Profile *NutritionProfile `json:"profile,omitempty"`
	Note    string            `json:"note,omitempty"`
}

// AnalysisMetadata is the provenance block attached to every result.
type AnalysisMetadata struct {
	RequestID        string   `json:"request_id"`
	Source           string   `json:"source"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	Confidence       float64  `json:"confidence"` // in [0,1]
	CacheHit         bool     `json:"cache_hit"`
	ItemsRequested   int      `json:"items_requested"`
	ItemsResolved    int      `json:"items_resolved"`
	Warnings         []string `json:"warnings,omitempty"`
}

// FoodAnalysisResult is the externally visible aggregate. Immutable once
// constructed; the cache hands out deep copies so callers cannot corrupt a
// cached entry.
type FoodAnalysisResult struct {
	Items             []ResolvedFoodItem       `json:"items"`
	TotalCalories     float64                  `json:"total_calories"`
	TotalProteinG     float64                  `json:"total_protein_g"`
	TotalCarbsG       float64                  `json:"total_carbs_g"`
	TotalFatG         float64                  `json:"total_fat_g"`
	DetailedNutrition *NutritionProfile        `json:"detailed_nutrition,omitempty"`
	NutritionScore    *NutritionScore          `json:"nutrition_score,omitempty"`
	DietCompatibility *DietCompatibilityResult `json:"diet_compatibility,omitempty"`
	HealthSuggestions []string                 `json:"health_suggestions"`
	AnalysisMetadata  AnalysisMetadata         `json:"analysis_metadata"`
}

// FoodAnalysis is the persisted history row for an authenticated user's
// analysis. ResultJSON carries the full FoodAnalysisResult.
type FoodAnalysis struct {
	gorm.Model
	UserID        uint   `gorm:"index"`
	RequestID     string `gorm:"size:36;index"`
	InputType     string `gorm:"size:16"`
	Query         string `gorm:"type:text"`
	Source        string `gorm:"size:32"`
	Confidence    float64
	CacheHit      bool
	Score         int
	Grade         string `gorm:"size:1"`
	TotalCalories float64
	ResultJSON    []byte `gorm:"type:jsonb"`
	AnalyzedAt    time.Time
}
