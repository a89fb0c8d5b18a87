package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yenugah80/METRICS-sub000/models"
)

// EstimatorService is the last resort of the text fallback chain: an
// OpenAI-compatible chat model asked for a per-100g estimate. Estimates are
// capped at 0.45 confidence and tagged "openai" so callers can always tell
// estimated data from verified data.
type EstimatorService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewEstimatorService() *EstimatorService {
	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &EstimatorService{
		apiKey:  os.Getenv("LLM_API_KEY"),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *EstimatorService) Name() string            { return SourceOpenAI }
func (s *EstimatorService) BaseConfidence() float64 { return 0.45 }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type estimatePayload struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein_g"`
	Carbs    *float64 `json:"carbs_g"`
	Fat      *float64 `json:"fat_g"`
	SatFat   *float64 `json:"saturated_fat_g"`
	Fiber    *float64 `json:"fiber_g"`
	Sugar    *float64 `json:"sugar_g"`
	SodiumMg *float64 `json:"sodium_mg"`
}

// Lookup asks the model for a per-100g estimate of the named food. A missing
// API key is a transport failure, not a not-found.
func (s *EstimatorService) Lookup(ctx context.Context, query string) (*models.NutritionProfile, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY not configured")
	}

	prompt := fmt.Sprintf(`Provide estimated nutrition per 100g for: %s

Return ONLY a JSON object:
{"calories": float, "protein_g": float, "carbs_g": float, "fat_g": float, "saturated_fat_g": float, "fiber_g": float, "sugar_g": float, "sodium_mg": float}
Omit any field you cannot estimate.`, query)

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a nutrition database. Answer with average per-100g values for the food described."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal estimator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create estimator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call estimator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read estimator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("estimator API error %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to parse estimator JSON: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("estimator returned no choices")
	}

	// Strip possible markdown fences around the JSON
	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var est estimatePayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &est); err != nil {
		return nil, fmt.Errorf("failed to parse estimate payload: %w", err)
	}

	profile := &models.NutritionProfile{
		Calories:      capOpt(est.Calories, 900), // pure fat is ~900 kcal/100g
		ProteinG:      capOpt(est.Protein, 100),
		CarbsG:        capOpt(est.Carbs, 100),
		FatG:          capOpt(est.Fat, 100),
		SaturatedFatG: capOpt(est.SatFat, 100),
		FiberG:        capOpt(est.Fiber, 100),
		SugarG:        capOpt(est.Sugar, 100),
		SodiumMg:      capOpt(est.SodiumMg, 40000),
	}
	if profile.Calories == nil && profile.ProteinG == nil && profile.FatG == nil && profile.CarbsG == nil {
		return nil, nil
	}
	return profile, nil
}

// capOpt bounds an estimate to a physically possible range per 100g.
func capOpt(v *float64, max float64) *float64 {
	if v == nil {
		return nil
	}
	val := *v
	if val < 0 {
		return nil
	}
	if val > max {
		val = max
	}
	return &val
}
