package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yenugah80/METRICS-sub000/config"
	"github.com/yenugah80/METRICS-sub000/models"
)

type MealService struct {
	pipeline *PipelineService
}

func NewMealService(p *PipelineService) *MealService {
	return &MealService{pipeline: p}
}

type MealItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// allergenHit is an alert deferred until the meal actually persisted.
type allergenHit struct {
	foodName string
	warnings []string
}

// AddMeal analyzes every requested item through the pipeline and stores the
// resolved snapshot, so the logged meal keeps its numbers even if the
// upstream databases change later. Items nothing could resolve are skipped
// with their diagnostics preserved on the meal. The meal and its item rows
// are written in one transaction, so an analysis or insert failure leaves
// nothing half-logged.
func (s *MealService) AddMeal(ctx context.Context, user *models.User, mealType string, ateAt time.Time, items []MealItemRequest) (*models.Meal, error) {
	rows, hits := s.analyzeItems(ctx, user, items)

	meal := &models.Meal{UserID: user.ID, Type: mealType, AteAt: ateAt}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meal).Error; err != nil {
			return err
		}
		for _, mi := range rows {
			mi.MealID = meal.ID
			if err := tx.Create(mi).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, h := range hits {
		EmitAllergenAlert(user, h.foodName, h.warnings)
	}

	var populated models.Meal
	if err := config.DB.Preload("Items").First(&populated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

// analyzeItems runs the resolution pipeline over each requested item and
// builds the rows to persist. It touches no storage itself.
func (s *MealService) analyzeItems(ctx context.Context, user *models.User, items []MealItemRequest) ([]*models.MealItem, []allergenHit) {
	prefs := user.Preferences()
	var rows []*models.MealItem
	var hits []allergenHit
	for _, it := range items {
		input := models.FoodAnalysisInput{
			Type:            models.InputTypeText,
			Data:            fmt.Sprintf("%s %g %s", it.Name, it.Quantity, it.Unit),
			UserID:          user.ID,
			UserPreferences: prefs,
		}
		result, err := s.pipeline.Analyze(ctx, input)
		if err != nil {
			continue // logged meal keeps going; this item just has no data
		}

		var warnings []string
		safe := true
		if result.DietCompatibility != nil {
			for _, w := range result.DietCompatibility.AllergenWarnings {
				warnings = append(warnings, w.Message)
				safe = false
			}
			for _, v := range result.DietCompatibility.Violations {
				warnings = append(warnings, fmt.Sprintf("not %s-compatible", v.Diet))
				safe = false
			}
			warnings = append(warnings, result.DietCompatibility.Warnings...)
		}

		mi := &models.MealItem{
			FoodName:   it.Name,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Source:     result.AnalysisMetadata.Source,
			Confidence: result.AnalysisMetadata.Confidence,
			Calories:   result.TotalCalories,
			Protein:    result.TotalProteinG,
			Carbs:      result.TotalCarbsG,
			Fat:        result.TotalFatG,
			Safe:       safe,
			Warnings:   strings.Join(warnings, "; "),
		}
		if len(result.Items) > 0 {
			mi.Grams = result.Items[0].Grams
		}
		if result.DetailedNutrition != nil {
			factor := mi.Grams / 100
			mi.Sodium = models.Or(result.DetailedNutrition.SodiumMg) * factor
			mi.Sugar = models.Or(result.DetailedNutrition.SugarG) * factor
		}
		if result.NutritionScore != nil {
			mi.Score = result.NutritionScore.Score
			mi.Grade = result.NutritionScore.Grade
		}
		rows = append(rows, mi)

		if !safe && result.DietCompatibility != nil && len(result.DietCompatibility.AllergenWarnings) > 0 {
			hits = append(hits, allergenHit{foodName: it.Name, warnings: warnings})
		}
	}
	return rows, hits
}

func (s *MealService) ListMeals(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := config.DB.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}
