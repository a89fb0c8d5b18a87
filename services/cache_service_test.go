package services

import (
	"sync"
	"testing"
	"time"

	"github.com/yenugah80/METRICS-sub000/models"
)

func TestAnalysisCacheKeyTextNormalization(t *testing.T) {
	prefs := &models.UserPreferences{DietPreferences: []string{"vegan"}}
	base := AnalysisCacheKey(models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "chicken breast", UserPreferences: prefs,
	})

	same := []string{
		"Chicken Breast",
		"  chicken breast  ",
		"chicken   breast",
		"chicken breast!!",
		"  chicken   breast!!",
		"CHICKEN, BREAST",
	}
	for _, data := range same {
		key := AnalysisCacheKey(models.FoodAnalysisInput{
			Type: models.InputTypeText, Data: data, UserPreferences: prefs,
		})
		if key != base {
			t.Errorf("key for %q differs from canonical form", data)
		}
	}

	other := AnalysisCacheKey(models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "chicken thigh", UserPreferences: prefs,
	})
	if other == base {
		t.Error("different foods produced the same key")
	}
}

func TestAnalysisCacheKeyBarcodeNormalization(t *testing.T) {
	a := AnalysisCacheKey(models.FoodAnalysisInput{Type: models.InputTypeBarcode, Data: "0123456789012"})
	b := AnalysisCacheKey(models.FoodAnalysisInput{Type: models.InputTypeBarcode, Data: " 0123-4567-89012 "})
	if a != b {
		t.Error("barcode keys should ignore separators and whitespace")
	}
}

func TestAnalysisCacheKeyTypeSeparation(t *testing.T) {
	text := AnalysisCacheKey(models.FoodAnalysisInput{Type: models.InputTypeText, Data: "123456"})
	barcode := AnalysisCacheKey(models.FoodAnalysisInput{Type: models.InputTypeBarcode, Data: "123456"})
	if text == barcode {
		t.Error("same payload under different input types must not collide")
	}
}

func TestAnalysisCacheKeyPreferenceOrderInsensitive(t *testing.T) {
	a := AnalysisCacheKey(models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "salad",
		UserPreferences: &models.UserPreferences{
			DietPreferences:      []string{"vegan", "keto"},
			AllergenRestrictions: []string{"dairy", "peanuts"},
		},
	})
	b := AnalysisCacheKey(models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "salad",
		UserPreferences: &models.UserPreferences{
			DietPreferences:      []string{"Keto", "VEGAN"},
			AllergenRestrictions: []string{"peanuts", "dairy"},
		},
	})
	if a != b {
		t.Error("preference order and casing must not change the key")
	}

	c := AnalysisCacheKey(models.FoodAnalysisInput{
		Type: models.InputTypeText, Data: "salad",
		UserPreferences: &models.UserPreferences{DietPreferences: []string{"vegan"}},
	})
	if c == a {
		t.Error("different preference sets must produce different keys")
	}
}

func cachedResult(calories float64) *models.FoodAnalysisResult {
	return &models.FoodAnalysisResult{
		TotalCalories: calories,
		Items: []models.ResolvedFoodItem{
			{FoodItem: models.FoodItem{Name: "apple", Quantity: 1, Unit: "piece"}, Grams: 100},
		},
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	c.Set("k", cachedResult(95))

	e := c.Get("k")
	if e == nil {
		t.Fatal("expected a hit")
	}
	if e.Result.TotalCalories != 95 {
		t.Errorf("TotalCalories = %v, want 95", e.Result.TotalCalories)
	}
	if !c.Exists("k") {
		t.Error("Exists should report the live entry")
	}
	if c.Get("missing") != nil {
		t.Error("miss should return nil")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("k", cachedResult(10))
	if c.Get("k") == nil {
		t.Fatal("fresh entry should hit")
	}

	current = current.Add(AnalysisCacheTTL + time.Minute)
	if c.Get("k") != nil {
		t.Error("expired entry should miss")
	}
	if c.Exists("k") {
		t.Error("expired entry should be evicted")
	}
}

func TestMemoryCacheHitCount(t *testing.T) {
	c := NewMemoryCache()
	c.Set("k", cachedResult(10))

	for want := int64(1); want <= 3; want++ {
		e := c.Get("k")
		if e == nil {
			t.Fatal("expected a hit")
		}
		if e.HitCount != want {
			t.Errorf("HitCount = %d, want %d", e.HitCount, want)
		}
	}
}

func TestMemoryCacheCopyOnWrite(t *testing.T) {
	c := NewMemoryCache()
	orig := cachedResult(50)
	c.Set("k", orig)

	// mutating the original after Set must not affect the cache
	orig.TotalCalories = 999
	orig.Items[0].Name = "mutated"

	first := c.Get("k")
	if first.Result.TotalCalories != 50 || first.Result.Items[0].Name != "apple" {
		t.Fatalf("cache stored a shared reference: %+v", first.Result)
	}

	// mutating a returned copy must not affect later reads
	first.Result.TotalCalories = 777
	second := c.Get("k")
	if second.Result.TotalCalories != 50 {
		t.Errorf("returned entry shares memory with the cache: %v", second.Result.TotalCalories)
	}
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache()
	c.Set("k", cachedResult(50))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Set("k", cachedResult(50))
				if e := c.Get("k"); e != nil && e.Result.TotalCalories != 50 {
					t.Errorf("torn read: %v", e.Result.TotalCalories)
				}
				c.Exists("k")
			}
		}()
	}
	wg.Wait()
}
