package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yenugah80/METRICS-sub000/models"
)

const offDefaultBaseURL = "https://world.openfoodfacts.org"

type OpenFoodFactsService struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFactsService() *OpenFoodFactsService {
	return &OpenFoodFactsService{
		baseURL: offDefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewOpenFoodFactsServiceWithBase is used by tests to point at a stub server.
func NewOpenFoodFactsServiceWithBase(baseURL string, client *http.Client) *OpenFoodFactsService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenFoodFactsService{baseURL: baseURL, client: client}
}

func (s *OpenFoodFactsService) Name() string            { return SourceOpenFoodFacts }
func (s *OpenFoodFactsService) BaseConfidence() float64 { return 0.95 }

// offProductResponse is the strict subset we accept from the v2 product
// endpoint. Nutriment values arrive as numbers or numeric strings, so
// json.Number keeps both parseable.
type offProductResponse struct {
	Status  int `json:"status"` // 1 = found, 0 = unknown barcode
	Product struct {
		ProductName string `json:"product_name"`
		Nutriments  struct {
			EnergyKcal100g  json.Number `json:"energy-kcal_100g"`
			Proteins100g    json.Number `json:"proteins_100g"`
			Carbs100g       json.Number `json:"carbohydrates_100g"`
			Fat100g         json.Number `json:"fat_100g"`
			SatFat100g      json.Number `json:"saturated-fat_100g"`
			Fiber100g       json.Number `json:"fiber_100g"`
			Sugars100g      json.Number `json:"sugars_100g"`
			Sodium100g      json.Number `json:"sodium_100g"` // grams in OFF
			Cholesterol100g json.Number `json:"cholesterol_100g"`
			VitaminC100g    json.Number `json:"vitamin-c_100g"`
			Iron100g        json.Number `json:"iron_100g"`
			Calcium100g     json.Number `json:"calcium_100g"`
		} `json:"nutriments"`
	} `json:"product"`
}

// LookupBarcode resolves a product by barcode and maps its per-100g
// nutriments into the canonical profile. Returns ("", nil, nil) for an
// unknown barcode.
func (s *OpenFoodFactsService) LookupBarcode(ctx context.Context, code string) (string, *models.NutritionProfile, error) {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create Open Food Facts request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to call Open Food Facts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read Open Food Facts response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("open food facts API error %d: %s", resp.StatusCode, string(body))
	}

	var pr offProductResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return "", nil, fmt.Errorf("failed to parse Open Food Facts JSON: %w", err)
	}
	if pr.Status != 1 {
		return "", nil, nil
	}

	n := pr.Product.Nutriments
	profile := &models.NutritionProfile{
		Calories:      offNum(n.EnergyKcal100g, 0, 1000),
		ProteinG:      offNum(n.Proteins100g, 0, 100),
		CarbsG:        offNum(n.Carbs100g, 0, 100),
		FatG:          offNum(n.Fat100g, 0, 100),
		SaturatedFatG: offNum(n.SatFat100g, 0, 100),
		FiberG:        offNum(n.Fiber100g, 0, 100),
		SugarG:        offNum(n.Sugars100g, 0, 100),
		CholesterolMg: scaleOpt(offNum(n.Cholesterol100g, 0, 10), 1000), // g -> mg
		VitaminCMg:    scaleOpt(offNum(n.VitaminC100g, 0, 10), 1000),
		IronMg:        scaleOpt(offNum(n.Iron100g, 0, 1), 1000),
		CalciumMg:     scaleOpt(offNum(n.Calcium100g, 0, 10), 1000),
	}
	// OFF reports sodium in grams per 100g
	profile.SodiumMg = scaleOpt(offNum(n.Sodium100g, 0, 100), 1000)

	if profile.Calories == nil && profile.ProteinG == nil && profile.FatG == nil && profile.CarbsG == nil {
		return "", nil, nil
	}

	profile.MicronutrientsPercentDV = microPercentDV(profile)
	return pr.Product.ProductName, profile, nil
}

// offNum parses a nutriment value, dropping absent or implausible readings.
// Dropping means nil, not zero: an out-of-range value is unknown data.
func offNum(n json.Number, min, max float64) *float64 {
	if n.String() == "" {
		return nil
	}
	v, err := n.Float64()
	if err != nil || v < min || v > max {
		return nil
	}
	return &v
}

func scaleOpt(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := *v * factor
	return &scaled
}
