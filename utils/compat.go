package utils

import (
	"fmt"
	"strings"

	"github.com/yenugah80/METRICS-sub000/models"
)

// CheckDietCompatibility inspects each ingredient against the static
// taxonomy and reports, per requested diet, whether the ingredient set is
// compatible. Diet and allergen checks are independent passes: an
// allergen-unsafe food can still be keto-compatible and must not be passed
// off as safe just because its diet verdicts are clean.
//
// Pure and deterministic — same inputs, same output, no I/O.
func CheckDietCompatibility(ingredients, diets, allergens []string) *models.DietCompatibilityResult {
	res := &models.DietCompatibilityResult{
		Diets: make(map[string]models.DietVerdict, len(diets)),
	}

	type lookedUp struct {
		name string
		tags *IngredientTags
	}
	resolved := make([]lookedUp, 0, len(ingredients))
	for _, ing := range ingredients {
		tags := LookupIngredient(ing)
		resolved = append(resolved, lookedUp{name: ing, tags: tags})
		if tags == nil {
			res.UnverifiedIngredients = append(res.UnverifiedIngredients, ing)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("cannot verify compatibility of %q: ingredient not in the verified taxonomy", ing))
		}
	}

	// Diet pass
	for _, diet := range diets {
		dietNorm := strings.ToLower(strings.TrimSpace(diet))
		var violating []string
		for _, r := range resolved {
			if r.tags == nil {
				continue // surfaced above as unverified, not as a violation
			}
			for _, bad := range r.tags.IncompatibleDiets {
				if bad == dietNorm {
					violating = append(violating, r.name)
					break
				}
			}
		}
		if len(violating) > 0 {
			res.Diets[diet] = models.DietVerdict{
				Compatible: false,
				Reason:     fmt.Sprintf("contains %s", strings.Join(violating, ", ")),
			}
			res.Violations = append(res.Violations, models.DietViolation{
				Diet:                 diet,
				ViolatingIngredients: violating,
			})
		} else {
			reason := "no incompatible ingredients found"
			if len(res.UnverifiedIngredients) > 0 {
				reason = "no incompatible ingredients found among verified ingredients"
			}
			res.Diets[diet] = models.DietVerdict{Compatible: true, Reason: reason}
		}
	}

	// Allergen pass — independent of the diet verdicts
	for _, allergen := range allergens {
		allergenNorm := normalizeAllergen(allergen)
		for _, r := range resolved {
			if r.tags == nil {
				continue
			}
			for _, tag := range r.tags.Allergens {
				if tag == allergenNorm {
					res.AllergenWarnings = append(res.AllergenWarnings, models.AllergenWarning{
						Allergen:   allergen,
						Ingredient: r.name,
						Message:    fmt.Sprintf("%q contains %s", r.name, allergen),
					})
					break
				}
			}
		}
	}

	return res
}

// normalizeAllergen maps user phrasing onto the taxonomy's allergen tags.
func normalizeAllergen(a string) string {
	n := strings.ToLower(strings.TrimSpace(a))
	n = strings.ReplaceAll(n, " ", "_")
	switch n {
	case "nut", "nuts", "tree_nut", "treenut":
		return AllergenTreeNuts
	case "peanut":
		return AllergenPeanuts
	case "egg":
		return AllergenEggs
	case "milk", "lactose":
		return AllergenDairy
	case "seafood":
		return AllergenShellfish
	}
	return n
}
