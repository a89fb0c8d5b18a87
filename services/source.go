package services

import (
	"context"

	"github.com/yenugah80/METRICS-sub000/models"
)

// Source names recorded in provenance metadata.
const (
	SourceUSDA          = "usda"
	SourceOpenFoodFacts = "openfoodfacts"
	SourceFoodTable     = "food_table"
	SourceOpenAI        = "openai"
	SourceMixed         = "mixed"
	SourceCache         = "cache"
)

// NutritionSource is the uniform lookup contract every name-based adapter
// implements. Lookup returns (nil, nil) when the source definitively has no
// match; an error means the transport failed. Adapters never fabricate
// values — fields the upstream payload lacks stay nil in the profile, since
// zero and unknown are different nutritional facts.
type NutritionSource interface {
	Name() string
	// BaseConfidence is the trust band for a hit from this source:
	// verified databases >= 0.9, the static table ~0.7, LLM estimates <= 0.5.
	BaseConfidence() float64
	Lookup(ctx context.Context, query string) (*models.NutritionProfile, error)
}

// BarcodeSource resolves a product by barcode. Barcodes are not meaningfully
// searchable in the name-based sources, so this is a separate contract.
type BarcodeSource interface {
	Name() string
	BaseConfidence() float64
	LookupBarcode(ctx context.Context, code string) (string, *models.NutritionProfile, error)
}

// VisionExtractor turns a food photo into candidate items. The items' names
// are re-resolved through the text chain afterwards; vision-model nutrition
// guesses are never trusted directly.
type VisionExtractor interface {
	ExtractFoodItems(ctx context.Context, base64Img string) ([]models.FoodItem, error)
}
