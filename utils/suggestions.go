package utils

import (
	"fmt"

	"github.com/yenugah80/METRICS-sub000/models"
)

// BuildHealthSuggestions derives human-readable suggestions from the score
// breakdown and the compatibility result. Rule-based on purpose: suggestions
// ship with every cached result, so they have to be reproducible.
func BuildHealthSuggestions(score *models.NutritionScore, compat *models.DietCompatibilityResult) []string {
	var out []string
	if score != nil {
		b := score.Breakdown
		if b.PenaltySugar >= 12 {
			out = append(out, "High in sugar — consider a lower-sugar alternative or a smaller portion.")
		}
		if b.PenaltySodium >= 30 {
			out = append(out, "High in sodium — balance the rest of the day with low-sodium foods.")
		}
		if b.PenaltySaturatedFat >= 12 {
			out = append(out, "High in saturated fat — leaner cuts or plant oils are a better daily pattern.")
		}
		if b.BonusFiber >= 10 {
			out = append(out, "Good fiber content — supports a healthy dietary pattern.")
		} else if b.BonusFiber < 4 {
			out = append(out, "Low in fiber — pair with vegetables, fruits, or whole grains.")
		}
		if b.BonusProtein >= 18 {
			out = append(out, "Excellent protein content.")
		}
		if score.Grade == "A" {
			out = append(out, "Great choice overall.")
		}
	}
	if compat != nil {
		for _, w := range compat.AllergenWarnings {
			out = append(out, fmt.Sprintf("Allergen warning: %s.", w.Message))
		}
		for _, v := range compat.Violations {
			out = append(out, fmt.Sprintf("Not %s-compatible: contains %s.",
				v.Diet, joinMax(v.ViolatingIngredients, 3)))
		}
		for _, u := range compat.UnverifiedIngredients {
			out = append(out, fmt.Sprintf("Could not verify %q against the ingredient taxonomy — check the label if you have dietary restrictions.", u))
		}
	}
	return out
}

func joinMax(items []string, max int) string {
	if len(items) <= max {
		out := ""
		for i, it := range items {
			if i > 0 {
				out += ", "
			}
			out += it
		}
		return out
	}
	return fmt.Sprintf("%s and %d more", joinMax(items[:max], max), len(items)-max)
}
