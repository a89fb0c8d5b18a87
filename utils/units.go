package utils

import "strings"

// gramsPerUnit is the fixed conversion table for supported units.
// "piece" and "serving" are treated as a 100g portion, the same convention
// the upstream databases use for their per-100g records.
var gramsPerUnit = map[string]float64{
	"g":        1,
	"gram":     1,
	"grams":    1,
	"kg":       1000,
	"mg":       0.001,
	"oz":       28.35,
	"ounce":    28.35,
	"ounces":   28.35,
	"lb":       453.59,
	"cup":      240,
	"cups":     240,
	"tbsp":     15,
	"tsp":      5,
	"ml":       1, // density 1 assumed for liquids
	"l":        1000,
	"piece":    100,
	"pieces":   100,
	"pc":       100,
	"pcs":      100,
	"serving":  100,
	"servings": 100,
	"portion":  100,
	"slice":    30,
	"slices":   30,
}

// ToGrams converts quantity+unit into grams. An unrecognized unit never
// hard-fails: it falls back to a 100g serving and reports known=false so the
// resolver can apply a confidence penalty.
func ToGrams(quantity float64, unit string) (grams float64, known bool) {
	if quantity <= 0 {
		quantity = 1
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if factor, ok := gramsPerUnit[u]; ok {
		return quantity * factor, true
	}
	return quantity * 100, false
}
