package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/yenugah80/METRICS-sub000/models"
)

// FoodTableService is the offline fallback: a compiled-in table of common
// whole foods with per-100g values transcribed from USDA reference data. It
// answers when the live databases are unreachable or have no match, at a
// lower confidence than a live verified hit.
type FoodTableService struct{}

func NewFoodTableService() *FoodTableService { return &FoodTableService{} }

func (s *FoodTableService) Name() string            { return SourceFoodTable }
func (s *FoodTableService) BaseConfidence() float64 { return 0.7 }

type foodTableRow struct {
	calories, protein, carbs, fat, satFat, fiber, sugar float64
	sodiumMg, cholesterolMg                             float64
	vitaminCMg, ironMg, calciumMg                       float64
}

// All values per 100g.
var foodTable = map[string]foodTableRow{
	"chicken breast": {calories: 165, protein: 31, carbs: 0, fat: 3.6, satFat: 1.0, fiber: 0, sugar: 0, sodiumMg: 74, cholesterolMg: 85, vitaminCMg: 0, ironMg: 1.0, calciumMg: 15},
	"chicken thigh":  {calories: 209, protein: 26, carbs: 0, fat: 10.9, satFat: 3.0, fiber: 0, sugar: 0, sodiumMg: 88, cholesterolMg: 94, ironMg: 1.3, calciumMg: 12},
	"beef":           {calories: 250, protein: 26, carbs: 0, fat: 15, satFat: 6.0, fiber: 0, sugar: 0, sodiumMg: 72, cholesterolMg: 90, ironMg: 2.6, calciumMg: 18},
	"pork":           {calories: 242, protein: 27, carbs: 0, fat: 14, satFat: 5.0, fiber: 0, sugar: 0, sodiumMg: 62, cholesterolMg: 80, ironMg: 0.9, calciumMg: 19},
	"salmon":         {calories: 208, protein: 20, carbs: 0, fat: 13, satFat: 3.1, fiber: 0, sugar: 0, sodiumMg: 59, cholesterolMg: 55, ironMg: 0.3, calciumMg: 9},
	"tuna":           {calories: 132, protein: 28, carbs: 0, fat: 1.3, satFat: 0.4, fiber: 0, sugar: 0, sodiumMg: 47, cholesterolMg: 47, ironMg: 1.0, calciumMg: 10},
	"shrimp":         {calories: 99, protein: 24, carbs: 0.2, fat: 0.3, satFat: 0.1, fiber: 0, sugar: 0, sodiumMg: 111, cholesterolMg: 189, ironMg: 0.5, calciumMg: 70},
	"egg":            {calories: 155, protein: 13, carbs: 1.1, fat: 11, satFat: 3.3, fiber: 0, sugar: 1.1, sodiumMg: 124, cholesterolMg: 373, ironMg: 1.8, calciumMg: 50},
	"tofu":           {calories: 76, protein: 8, carbs: 1.9, fat: 4.8, satFat: 0.7, fiber: 0.3, sugar: 0.6, sodiumMg: 7, ironMg: 5.4, calciumMg: 350},
	"white rice":     {calories: 130, protein: 2.7, carbs: 28, fat: 0.3, satFat: 0.1, fiber: 0.4, sugar: 0.1, sodiumMg: 1, ironMg: 0.2, calciumMg: 10},
	"brown rice":     {calories: 112, protein: 2.3, carbs: 24, fat: 0.8, satFat: 0.2, fiber: 1.8, sugar: 0.2, sodiumMg: 5, ironMg: 0.5, calciumMg: 10},
	"pasta":          {calories: 131, protein: 5.0, carbs: 25, fat: 1.1, satFat: 0.2, fiber: 1.8, sugar: 0.6, sodiumMg: 1, ironMg: 1.3, calciumMg: 7},
	"bread":          {calories: 265, protein: 9, carbs: 49, fat: 3.2, satFat: 0.7, fiber: 2.7, sugar: 5, sodiumMg: 491, ironMg: 3.6, calciumMg: 144},
	"oats":           {calories: 389, protein: 17, carbs: 66, fat: 6.9, satFat: 1.2, fiber: 10.6, sugar: 1, sodiumMg: 2, ironMg: 4.7, calciumMg: 54},
	"potato":         {calories: 77, protein: 2, carbs: 17, fat: 0.1, satFat: 0, fiber: 2.2, sugar: 0.8, sodiumMg: 6, vitaminCMg: 19.7, ironMg: 0.8, calciumMg: 12},
	"apple":          {calories: 52, protein: 0.3, carbs: 14, fat: 0.2, satFat: 0, fiber: 2.4, sugar: 10, sodiumMg: 1, vitaminCMg: 4.6, ironMg: 0.1, calciumMg: 6},
	"banana":         {calories: 89, protein: 1.1, carbs: 23, fat: 0.3, satFat: 0.1, fiber: 2.6, sugar: 12, sodiumMg: 1, vitaminCMg: 8.7, ironMg: 0.3, calciumMg: 5},
	"orange":         {calories: 47, protein: 0.9, carbs: 12, fat: 0.1, satFat: 0, fiber: 2.4, sugar: 9, sodiumMg: 0, vitaminCMg: 53.2, ironMg: 0.1, calciumMg: 40},
	"broccoli":       {calories: 34, protein: 2.8, carbs: 7, fat: 0.4, satFat: 0.1, fiber: 2.6, sugar: 1.7, sodiumMg: 33, vitaminCMg: 89.2, ironMg: 0.7, calciumMg: 47},
	"spinach":        {calories: 23, protein: 2.9, carbs: 3.6, fat: 0.4, satFat: 0.1, fiber: 2.2, sugar: 0.4, sodiumMg: 79, vitaminCMg: 28.1, ironMg: 2.7, calciumMg: 99},
	"carrot":         {calories: 41, protein: 0.9, carbs: 10, fat: 0.2, satFat: 0, fiber: 2.8, sugar: 4.7, sodiumMg: 69, vitaminCMg: 5.9, ironMg: 0.3, calciumMg: 33},
	"avocado":        {calories: 160, protein: 2, carbs: 9, fat: 15, satFat: 2.1, fiber: 6.7, sugar: 0.7, sodiumMg: 7, vitaminCMg: 10, ironMg: 0.6, calciumMg: 12},
	"milk":           {calories: 61, protein: 3.2, carbs: 4.8, fat: 3.3, satFat: 1.9, fiber: 0, sugar: 5.1, sodiumMg: 43, cholesterolMg: 10, calciumMg: 113},
	"yogurt":         {calories: 59, protein: 10, carbs: 3.6, fat: 0.4, satFat: 0.1, fiber: 0, sugar: 3.2, sodiumMg: 36, cholesterolMg: 5, calciumMg: 110},
	"cheese":         {calories: 402, protein: 25, carbs: 1.3, fat: 33, satFat: 21, fiber: 0, sugar: 0.5, sodiumMg: 621, cholesterolMg: 105, calciumMg: 721},
	"almond":         {calories: 579, protein: 21, carbs: 22, fat: 50, satFat: 3.8, fiber: 12.5, sugar: 4.4, sodiumMg: 1, ironMg: 3.7, calciumMg: 269},
	"peanut butter":  {calories: 588, protein: 25, carbs: 20, fat: 50, satFat: 10, fiber: 6, sugar: 9, sodiumMg: 17, ironMg: 1.9, calciumMg: 43},
	"lentil":         {calories: 116, protein: 9, carbs: 20, fat: 0.4, satFat: 0.1, fiber: 7.9, sugar: 1.8, sodiumMg: 2, ironMg: 3.3, calciumMg: 19},
	"olive oil":      {calories: 884, protein: 0, carbs: 0, fat: 100, satFat: 13.8, fiber: 0, sugar: 0, sodiumMg: 2},
}

var foodTableWordSplit = regexp.MustCompile(`[^a-z]+`)

// Lookup matches free-text naming against the table: exact normalized name
// first, then the longest table key contained in the query. "grilled chicken
// breast" matches "chicken breast" before "chicken thigh" never would.
func (s *FoodTableService) Lookup(_ context.Context, query string) (*models.NutritionProfile, error) {
	norm := strings.ToLower(strings.TrimSpace(query))
	if row, ok := foodTable[norm]; ok {
		return row.profile(), nil
	}

	padded := " " + strings.Join(foodTableWordSplit.Split(norm, -1), " ") + " "
	bestKey := ""
	for key := range foodTable {
		if strings.Contains(padded, " "+key+" ") && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		row := foodTable[bestKey]
		return row.profile(), nil
	}
	return nil, nil
}

func (r foodTableRow) profile() *models.NutritionProfile {
	p := &models.NutritionProfile{
		Calories:      models.Float(r.calories),
		ProteinG:      models.Float(r.protein),
		CarbsG:        models.Float(r.carbs),
		FatG:          models.Float(r.fat),
		SaturatedFatG: models.Float(r.satFat),
		FiberG:        models.Float(r.fiber),
		SugarG:        models.Float(r.sugar),
		SodiumMg:      models.Float(r.sodiumMg),
	}
	if r.cholesterolMg > 0 {
		p.CholesterolMg = models.Float(r.cholesterolMg)
	}
	if r.vitaminCMg > 0 {
		p.VitaminCMg = models.Float(r.vitaminCMg)
	}
	if r.ironMg > 0 {
		p.IronMg = models.Float(r.ironMg)
	}
	if r.calciumMg > 0 {
		p.CalciumMg = models.Float(r.calciumMg)
	}
	p.MicronutrientsPercentDV = microPercentDV(p)
	return p
}
