package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yenugah80/METRICS-sub000/logger"
	"github.com/yenugah80/METRICS-sub000/models"
	"github.com/yenugah80/METRICS-sub000/utils"
)

// PipelineService is the façade over the whole analysis flow. One request is
// a single linear pass: validate -> cache lookup -> (hit | resolve -> score
// -> compatibility -> cache write). There is no retry loop in here; retries
// belong to the caller.
type PipelineService struct {
	resolver *ResolverService
	cache    Cache
	db       *gorm.DB // optional: persists history rows when set
}

func NewPipelineService(resolver *ResolverService, cache Cache, db *gorm.DB) *PipelineService {
	return &PipelineService{resolver: resolver, cache: cache, db: db}
}

// Analyze is the single entry point. Only two failures are caller-visible:
// ErrInvalidInput (malformed request, fails before any I/O) and
// ErrNoItemsResolved (nothing recognized — no fabricated nutrition). All
// other trouble degrades into confidence penalties and metadata warnings.
func (p *PipelineService) Analyze(ctx context.Context, input models.FoodAnalysisInput) (*models.FoodAnalysisResult, error) {
	start := time.Now()
	requestID := uuid.NewString()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	key := AnalysisCacheKey(input)
	if entry := p.cache.Get(key); entry != nil {
		result := entry.Result
		result.AnalysisMetadata.RequestID = requestID
		result.AnalysisMetadata.CacheHit = true
		result.AnalysisMetadata.ProcessingTimeMs = time.Since(start).Milliseconds()
		logger.Debug("analysis cache hit",
			zap.String("request_id", requestID), zap.Int64("hit_count", entry.HitCount))
		return result, nil
	}

	var (
		res *Resolution
		err error
	)
	switch input.Type {
	case models.InputTypeBarcode:
		res, err = p.resolver.ResolveBarcode(ctx, input.Data)
	case models.InputTypeImage:
		res, err = p.resolver.ResolveImage(ctx, input.Data)
	default: // text and voice transcripts resolve identically
		res, err = p.resolver.ResolveText(ctx, input.Data)
	}
	if err != nil {
		if err == ErrNoItemsResolved {
			return p.failureResult(requestID, input, start, nil), ErrNoItemsResolved
		}
		// vision or parsing failed outright before any item existed
		logger.Error("resolution failed", zap.String("request_id", requestID), zap.Error(err))
		return p.failureResult(requestID, input, start, res), ErrNoItemsResolved
	}
	if res.Resolved == 0 {
		return p.failureResult(requestID, input, start, res), ErrNoItemsResolved
	}

	// Scoring runs on the per-100g projection of the aggregated totals, so
	// the score can be re-derived from detailed_nutrition at any time.
	var score *models.NutritionScore
	per100g := res.Totals
	if res.TotalGrams > 0 {
		per100g = res.Totals.Scale(100 / res.TotalGrams)
	}
	score = utils.ScoreNutrition(per100g)

	var diets, allergens []string
	if input.UserPreferences != nil {
		diets = input.UserPreferences.DietPreferences
		allergens = input.UserPreferences.AllergenRestrictions
	}
	// Every requested item goes through the safety pass, resolved or not: a
	// food no source could resolve must still surface as unverified rather
	// than silently pass as compatible.
	ingredients := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		ingredients = append(ingredients, it.Name)
	}
	compat := utils.CheckDietCompatibility(ingredients, diets, allergens)

	result := &models.FoodAnalysisResult{
		Items:             res.Items,
		TotalCalories:     models.Or(res.Totals.Calories),
		TotalProteinG:     models.Or(res.Totals.ProteinG),
		TotalCarbsG:       models.Or(res.Totals.CarbsG),
		TotalFatG:         models.Or(res.Totals.FatG),
		DetailedNutrition: per100g,
		NutritionScore:    score,
		DietCompatibility: compat,
		HealthSuggestions: utils.BuildHealthSuggestions(score, compat),
		AnalysisMetadata: models.AnalysisMetadata{
			RequestID:        requestID,
			Source:           res.Source,
			Confidence:       utils.Clamp(res.Confidence, 0, 1),
			CacheHit:         false,
			ItemsRequested:   len(res.Items),
			ItemsResolved:    res.Resolved,
			Warnings:         res.Warnings,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
	}

	p.cache.Set(key, result)
	p.persistHistory(input, result)

	logger.Info("analysis complete",
		zap.String("request_id", requestID),
		zap.String("source", res.Source),
		zap.Int("resolved", res.Resolved),
		zap.Int("requested", len(res.Items)),
		zap.Float64("confidence", result.AnalysisMetadata.Confidence))
	return result, nil
}

func validateInput(input models.FoodAnalysisInput) error {
	switch input.Type {
	case models.InputTypeText, models.InputTypeBarcode, models.InputTypeImage, models.InputTypeVoice:
	default:
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidInput, input.Type)
	}
	if input.Data == "" {
		return fmt.Errorf("%w: missing data", ErrInvalidInput)
	}
	return nil
}

// failureResult is the explicit, human-readable failure shape: no fabricated
// nutrition numbers, just an explanation. Never cached.
func (p *PipelineService) failureResult(requestID string, input models.FoodAnalysisInput, start time.Time, res *Resolution) *models.FoodAnalysisResult {
	var items []models.ResolvedFoodItem
	var warnings []string
	requested := 0
	if res != nil {
		items = res.Items
		warnings = res.Warnings
		requested = len(res.Items)
	}
	return &models.FoodAnalysisResult{
		Items: items,
		HealthSuggestions: []string{
			"We could not verify nutrition data for this input. Nothing was matched against our food databases — please try a more specific description or a clearer photo.",
		},
		AnalysisMetadata: models.AnalysisMetadata{
			RequestID:        requestID,
			Source:           "",
			Confidence:       0,
			CacheHit:         false,
			ItemsRequested:   requested,
			ItemsResolved:    0,
			Warnings:         warnings,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
	}
}

func (p *PipelineService) persistHistory(input models.FoodAnalysisInput, result *models.FoodAnalysisResult) {
	if p.db == nil || input.UserID == 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	query := input.Data
	if input.Type == models.InputTypeImage && len(query) > 64 {
		query = query[:64] // don't store whole image payloads as text
	}
	row := models.FoodAnalysis{
		UserID:        input.UserID,
		RequestID:     result.AnalysisMetadata.RequestID,
		InputType:     input.Type,
		Query:         query,
		Source:        result.AnalysisMetadata.Source,
		Confidence:    result.AnalysisMetadata.Confidence,
		CacheHit:      result.AnalysisMetadata.CacheHit,
		TotalCalories: result.TotalCalories,
		ResultJSON:    raw,
		AnalyzedAt:    time.Now(),
	}
	if result.NutritionScore != nil {
		row.Score = result.NutritionScore.Score
		row.Grade = result.NutritionScore.Grade
	}
	if err := p.db.Create(&row).Error; err != nil {
		logger.Warn("failed to persist analysis history", zap.Error(err))
	}
}
