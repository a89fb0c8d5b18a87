package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/yenugah80/METRICS-sub000/models"
)

const usdaDefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

// FoodData Central nutrient numbers for the fields we canonicalize.
const (
	usdaNutrientEnergy      = 1008 // kcal
	usdaNutrientProtein     = 1003 // g
	usdaNutrientCarbs       = 1005 // g
	usdaNutrientFat         = 1004 // g
	usdaNutrientSatFat      = 1258 // g
	usdaNutrientFiber       = 1079 // g
	usdaNutrientSugar       = 2000 // g
	usdaNutrientSodium      = 1093 // mg
	usdaNutrientCholesterol = 1253 // mg
	usdaNutrientVitaminC    = 1162 // mg
	usdaNutrientIron        = 1089 // mg
	usdaNutrientCalcium     = 1087 // mg
)

// Daily values (FDA, adults) used to express micros as %DV for the scorer.
const (
	dvVitaminCMg = 90.0
	dvIronMg     = 18.0
	dvCalciumMg  = 1300.0
)

type USDAService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewUSDAService initializes the adapter with credentials and HTTP client.
func NewUSDAService() *USDAService {
	return &USDAService{
		apiKey:  os.Getenv("USDA_API_KEY"),
		baseURL: usdaDefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewUSDAServiceWithBase is used by tests to point the adapter at a stub server.
func NewUSDAServiceWithBase(baseURL string, client *http.Client) *USDAService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &USDAService{apiKey: "test", baseURL: baseURL, client: client}
}

func (s *USDAService) Name() string            { return SourceUSDA }
func (s *USDAService) BaseConfidence() float64 { return 0.92 }

// usdaSearchResponse is the strict shape we accept from the /foods/search
// endpoint. Upstream schema drift stops at this boundary.
type usdaSearchResponse struct {
	Foods []struct {
		FdcID         int    `json:"fdcId"`
		Description   string `json:"description"`
		FoodNutrients []struct {
			NutrientID int      `json:"nutrientId"`
			UnitName   string   `json:"unitName"`
			Value      *float64 `json:"value"`
		} `json:"foodNutrients"`
	} `json:"foods"`
}

// Lookup searches FoodData Central by name and maps the top hit into the
// canonical per-100g profile. Returns (nil, nil) when USDA has no match.
func (s *USDAService) Lookup(ctx context.Context, query string) (*models.NutritionProfile, error) {
	u := fmt.Sprintf("%s/foods/search?api_key=%s&query=%s&pageSize=1&dataType=Foundation,SR%%20Legacy",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create USDA request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call USDA search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read USDA response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usda API error %d: %s", resp.StatusCode, string(body))
	}

	var sr usdaSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse USDA JSON: %w", err)
	}
	if len(sr.Foods) == 0 {
		return nil, nil
	}

	profile := &models.NutritionProfile{}
	for _, n := range sr.Foods[0].FoodNutrients {
		if n.Value == nil {
			continue
		}
		v := *n.Value
		switch n.NutrientID {
		case usdaNutrientEnergy:
			profile.Calories = models.Float(v)
		case usdaNutrientProtein:
			profile.ProteinG = models.Float(v)
		case usdaNutrientCarbs:
			profile.CarbsG = models.Float(v)
		case usdaNutrientFat:
			profile.FatG = models.Float(v)
		case usdaNutrientSatFat:
			profile.SaturatedFatG = models.Float(v)
		case usdaNutrientFiber:
			profile.FiberG = models.Float(v)
		case usdaNutrientSugar:
			profile.SugarG = models.Float(v)
		case usdaNutrientSodium:
			profile.SodiumMg = models.Float(v)
		case usdaNutrientCholesterol:
			profile.CholesterolMg = models.Float(v)
		case usdaNutrientVitaminC:
			profile.VitaminCMg = models.Float(v)
		case usdaNutrientIron:
			profile.IronMg = models.Float(v)
		case usdaNutrientCalcium:
			profile.CalciumMg = models.Float(v)
		}
	}

	if profile.Calories == nil && profile.ProteinG == nil && profile.FatG == nil && profile.CarbsG == nil {
		// A record with no usable macros is a miss, not a hit.
		return nil, nil
	}

	profile.MicronutrientsPercentDV = microPercentDV(profile)
	return profile, nil
}

// microPercentDV expresses the reported micros as %DV entries for the scorer.
// Slots are fixed (vitamin C, iron, calcium) so entries stay
// nutrient-aligned when profiles are summed; unreported micros hold 0.
func microPercentDV(p *models.NutritionProfile) []float64 {
	dv := make([]float64, 3)
	if p.VitaminCMg != nil {
		dv[0] = *p.VitaminCMg / dvVitaminCMg * 100
	}
	if p.IronMg != nil {
		dv[1] = *p.IronMg / dvIronMg * 100
	}
	if p.CalciumMg != nil {
		dv[2] = *p.CalciumMg / dvCalciumMg * 100
	}
	return dv
}
