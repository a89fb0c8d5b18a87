package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yenugah80/METRICS-sub000/models"
)

func newTestPipeline(barcode BarcodeSource) *PipelineService {
	chain := []NutritionSource{NewFoodTableService()}
	resolver := NewResolverService(chain, barcode, nil)
	return NewPipelineService(resolver, NewMemoryCache(), nil)
}

func TestAnalyzeInvalidInput(t *testing.T) {
	p := newTestPipeline(nil)

	cases := []models.FoodAnalysisInput{
		{Type: "telepathy", Data: "lunch"},
		{Type: models.InputTypeText, Data: ""},
		{},
	}
	for _, in := range cases {
		if _, err := p.Analyze(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Analyze(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestAnalyzeEndToEndText(t *testing.T) {
	p := newTestPipeline(nil)

	out, err := p.Analyze(context.Background(), models.FoodAnalysisInput{
		Type: models.InputTypeText,
		Data: "grilled chicken breast 150g",
	})
	if err != nil {
		t.Fatal(err)
	}

	if out.TotalCalories < 230 || out.TotalCalories > 260 {
		t.Errorf("TotalCalories = %v, want roughly 150g of chicken breast", out.TotalCalories)
	}
	if out.NutritionScore == nil {
		t.Fatal("expected a nutrition score")
	}
	if g := out.NutritionScore.Grade; g != "A" && g != "B" {
		t.Errorf("Grade = %q, want A or B for plain chicken breast", g)
	}
	if out.AnalysisMetadata.Confidence < 0.6 {
		t.Errorf("Confidence = %v, want >= 0.6", out.AnalysisMetadata.Confidence)
	}
	if out.AnalysisMetadata.CacheHit {
		t.Error("first analysis must not be a cache hit")
	}
	if out.AnalysisMetadata.Source != SourceFoodTable {
		t.Errorf("Source = %q, want %q", out.AnalysisMetadata.Source, SourceFoodTable)
	}
	if out.AnalysisMetadata.RequestID == "" {
		t.Error("missing request id")
	}
}

func TestAnalyzeCacheHitIsIdempotent(t *testing.T) {
	p := newTestPipeline(nil)
	in := models.FoodAnalysisInput{Type: models.InputTypeText, Data: "white rice 1 cup"}

	first, err := p.Analyze(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Analyze(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if !second.AnalysisMetadata.CacheHit {
		t.Fatal("second identical request should be served from cache")
	}
	if second.AnalysisMetadata.RequestID == first.AnalysisMetadata.RequestID {
		t.Error("each request keeps its own request id")
	}

	// everything except request id, latency and the hit flag must be identical
	norm := func(r *models.FoodAnalysisResult) *models.FoodAnalysisResult {
		c := cloneResult(r)
		c.AnalysisMetadata.RequestID = ""
		c.AnalysisMetadata.ProcessingTimeMs = 0
		c.AnalysisMetadata.CacheHit = false
		return c
	}
	a, _ := json.Marshal(norm(first))
	b, _ := json.Marshal(norm(second))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("cached result diverged:\nfirst:  %s\nsecond: %s", a, b)
	}
}

func TestAnalyzeNormalizedInputsShareCacheEntry(t *testing.T) {
	p := newTestPipeline(nil)

	if _, err := p.Analyze(context.Background(), models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "Apple",
	}); err != nil {
		t.Fatal(err)
	}
	out, err := p.Analyze(context.Background(), models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "  apple!! ",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !out.AnalysisMetadata.CacheHit {
		t.Error("formatting variants of one input should share a cache entry")
	}
}

func TestAnalyzeBarcodeNotFound(t *testing.T) {
	p := newTestPipeline(&fakeBarcodeSource{name: "off"}) // always misses
	in := models.FoodAnalysisInput{Type: models.InputTypeBarcode, Data: "4000000000000"}

	out, err := p.Analyze(context.Background(), in)
	if !errors.Is(err, ErrNoItemsResolved) {
		t.Fatalf("err = %v, want ErrNoItemsResolved", err)
	}
	if out == nil {
		t.Fatal("failure result must still be returned")
	}
	if len(out.HealthSuggestions) == 0 || !strings.Contains(out.HealthSuggestions[0], "could not verify") {
		t.Errorf("HealthSuggestions = %v, want a human-readable explanation", out.HealthSuggestions)
	}
	if out.TotalCalories != 0 || out.NutritionScore != nil {
		t.Error("failure result must not fabricate nutrition numbers")
	}

	// failures are never cached
	if p.cache.Exists(AnalysisCacheKey(in)) {
		t.Error("failed analysis must not be cached")
	}
}

func TestAnalyzeAppliesPreferences(t *testing.T) {
	p := newTestPipeline(nil)

	out, err := p.Analyze(context.Background(), models.FoodAnalysisInput{
		Type: models.InputTypeText,
		Data: "cheese 50g",
		UserPreferences: &models.UserPreferences{
			DietPreferences:      []string{"vegan"},
			AllergenRestrictions: []string{"dairy"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	compat := out.DietCompatibility
	if compat == nil {
		t.Fatal("expected a compatibility result")
	}
	if v := compat.Diets["vegan"]; v.Compatible {
		t.Errorf("vegan verdict = %+v, want incompatible for cheese", v)
	}
	if len(compat.AllergenWarnings) == 0 {
		t.Error("expected a dairy allergen warning")
	}
}

func TestAnalyzeUnresolvedItemsStillReachSafetyPass(t *testing.T) {
	p := newTestPipeline(nil)

	out, err := p.Analyze(context.Background(), models.FoodAnalysisInput{
		Type: models.InputTypeText,
		Data: "apple and xylocarp pudding",
		UserPreferences: &models.UserPreferences{
			DietPreferences:      []string{"vegan"},
			AllergenRestrictions: []string{"peanuts"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.AnalysisMetadata.ItemsResolved != 1 {
		t.Fatalf("ItemsResolved = %d, want only the apple resolved", out.AnalysisMetadata.ItemsResolved)
	}

	compat := out.DietCompatibility
	if compat == nil {
		t.Fatal("expected a compatibility result")
	}

	found := false
	for _, u := range compat.UnverifiedIngredients {
		if u == "xylocarp pudding" {
			found = true
		}
	}
	if !found {
		t.Errorf("unverified = %v, want the unresolved item listed", compat.UnverifiedIngredients)
	}

	warned := false
	for _, w := range compat.Warnings {
		if strings.Contains(w, "cannot verify") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("warnings = %v, want a cannot-verify warning for the unresolved item", compat.Warnings)
	}

	// the clean verdict must be scoped to the ingredients that were checked
	if v := compat.Diets["vegan"]; !v.Compatible || !strings.Contains(v.Reason, "verified") {
		t.Errorf("vegan verdict = %+v, want compatible with qualified wording", v)
	}
}

func TestAnalyzeVoiceResolvesAsText(t *testing.T) {
	p := newTestPipeline(nil)

	out, err := p.Analyze(context.Background(), models.FoodAnalysisInput{
		Type: models.InputTypeVoice,
		Data: "banana",
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.AnalysisMetadata.ItemsResolved != 1 {
		t.Errorf("ItemsResolved = %d, want 1", out.AnalysisMetadata.ItemsResolved)
	}
}
