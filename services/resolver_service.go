package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yenugah80/METRICS-sub000/logger"
	"github.com/yenugah80/METRICS-sub000/models"
	"github.com/yenugah80/METRICS-sub000/utils"
)

const defaultSourceTimeout = 4 * time.Second

// unknown units fall back to a 100g serving with this confidence penalty
const unknownUnitPenalty = 0.1

// ResolverService walks the per-input-type fallback chains and aggregates
// multi-item requests into totals. The chain for one item is strictly
// sequential — a faster low-confidence source must never win a race against
// a verified one — but independent items of one request are independent.
type ResolverService struct {
	textChain     []NutritionSource // tried in order: usda -> food table -> llm
	barcodeSource BarcodeSource
	vision        VisionExtractor
	sourceTimeout time.Duration
}

func NewResolverService(textChain []NutritionSource, barcode BarcodeSource, vision VisionExtractor) *ResolverService {
	return &ResolverService{
		textChain:     textChain,
		barcodeSource: barcode,
		vision:        vision,
		sourceTimeout: defaultSourceTimeout,
	}
}

// Resolution is the outcome of resolving one request's items.
type Resolution struct {
	Items      []models.ResolvedFoodItem
	Totals     *models.NutritionProfile
	TotalGrams float64
	Source     string
	Confidence float64
	Resolved   int
	Warnings   []string
}

// ResolveText parses a free-text description ("grilled chicken breast 150g,
// white rice 1 cup") into items and resolves each through the text chain.
func (r *ResolverService) ResolveText(ctx context.Context, text string) (*Resolution, error) {
	items := ParseFoodText(text)
	if len(items) == 0 {
		return nil, ErrNoItemsResolved
	}
	return r.ResolveItems(ctx, items), nil
}

// ResolveBarcode resolves a single product by barcode. Barcodes only exist
// in Open Food Facts, so there is no fallback chain here: a miss is final.
func (r *ResolverService) ResolveBarcode(ctx context.Context, code string) (*Resolution, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.sourceTimeout)
	defer cancel()

	name, profile, err := r.barcodeSource.LookupBarcode(lookupCtx, code)
	if err != nil {
		warning := fmt.Sprintf("%s: source unavailable", r.barcodeSource.Name())
		if errors.Is(err, context.DeadlineExceeded) {
			warning = fmt.Sprintf("%s: timeout", r.barcodeSource.Name())
		}
		logger.Warn("barcode lookup failed", zap.String("barcode", code), zap.Error(err))
		return &Resolution{Warnings: []string{warning}}, nil
	}
	if profile == nil {
		return &Resolution{
			Warnings: []string{fmt.Sprintf("barcode %s not found in %s", code, r.barcodeSource.Name())},
		}, nil
	}

	if name == "" {
		name = code
	}
	item := models.ResolvedFoodItem{
		FoodItem: models.FoodItem{
			Name:       name,
			Quantity:   1,
			Unit:       "serving",
			Confidence: r.barcodeSource.BaseConfidence(),
		},
		Grams:   100,
		Source:  r.barcodeSource.Name(),
		Profile: profile,
	}
	return &Resolution{
		Items:      []models.ResolvedFoodItem{item},
		Totals:     profile.Clone(),
		TotalGrams: 100,
		Source:     r.barcodeSource.Name(),
		Confidence: item.Confidence,
		Resolved:   1,
	}, nil
}

// ResolveImage extracts candidate items from a photo, then re-resolves each
// name through the text chain for verified nutrition.
func (r *ResolverService) ResolveImage(ctx context.Context, base64Img string) (*Resolution, error) {
	items, err := r.vision.ExtractFoodItems(ctx, base64Img)
	if err != nil {
		return nil, fmt.Errorf("vision extraction failed: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoItemsResolved
	}
	res := r.ResolveItems(ctx, items)
	// items carry the vision model's own uncertainty on top of the source's
	for i := range res.Items {
		if res.Items[i].Profile != nil && items[i].Confidence < res.Items[i].Confidence {
			res.Items[i].Confidence = items[i].Confidence
		}
	}
	res.Confidence = minItemConfidence(res.Items)
	return res, nil
}

// ResolveItems runs the text fallback chain for every item, scales each hit
// by the item's normalized gram weight, and sums totals. An item no source
// can resolve stays in Items at confidence 0 with a diagnostic note and is
// excluded from Totals — graceful degradation over total failure.
func (r *ResolverService) ResolveItems(ctx context.Context, items []models.FoodItem) *Resolution {
	res := &Resolution{Totals: &models.NutritionProfile{}}
	sources := map[string]bool{}

	for _, item := range items {
		grams, knownUnit := utils.ToGrams(item.Quantity, item.Unit)
		resolved := models.ResolvedFoodItem{FoodItem: item, Grams: grams}

		profile, source, warnings := r.lookupChain(ctx, item.Name)
		res.Warnings = append(res.Warnings, warnings...)

		if profile == nil {
			resolved.Confidence = 0
			resolved.Note = "unresolved: no source had a match"
			res.Items = append(res.Items, resolved)
			continue
		}

		confidence := sourceConfidence(r.textChain, source)
		if !knownUnit {
			confidence = utils.Clamp(confidence-unknownUnitPenalty, 0.1, 1)
			resolved.Note = fmt.Sprintf("unknown unit %q: assumed 100g serving", item.Unit)
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%s: unknown unit %q, assumed 100g serving", item.Name, item.Unit))
		}

		resolved.Source = source
		resolved.Confidence = confidence
		resolved.Profile = profile
		res.Items = append(res.Items, resolved)

		res.Totals.Add(profile.Scale(grams / 100))
		res.TotalGrams += grams
		res.Resolved++
		sources[source] = true
	}

	res.Source = summarizeSources(sources)
	res.Confidence = minItemConfidence(res.Items)
	if res.Resolved < len(items) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d of %d items resolved", res.Resolved, len(items)))
	}
	return res
}

// lookupChain tries each source in order under its own timeout. A timeout is
// tagged distinctly from "confirmed absent" but both advance the chain.
func (r *ResolverService) lookupChain(ctx context.Context, name string) (*models.NutritionProfile, string, []string) {
	var warnings []string
	for _, src := range r.textChain {
		lookupCtx, cancel := context.WithTimeout(ctx, r.sourceTimeout)
		profile, err := src.Lookup(lookupCtx, name)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				warnings = append(warnings, fmt.Sprintf("%s: timeout", src.Name()))
				logger.Warn("source timed out", zap.String("source", src.Name()), zap.String("query", name))
			} else {
				warnings = append(warnings, fmt.Sprintf("%s: source unavailable", src.Name()))
				logger.Warn("source failed", zap.String("source", src.Name()), zap.String("query", name), zap.Error(err))
			}
			continue
		}
		if profile == nil {
			continue // confirmed not found, next source
		}
		logger.Debug("resolved item", zap.String("source", src.Name()), zap.String("query", name))
		return profile, src.Name(), warnings
	}
	return nil, "", warnings
}

func sourceConfidence(chain []NutritionSource, name string) float64 {
	for _, src := range chain {
		if src.Name() == name {
			return src.BaseConfidence()
		}
	}
	return 0.5
}

// minItemConfidence takes the minimum over resolved items — one bad estimate
// must drag the whole result's trust signal down, not be averaged away.
func minItemConfidence(items []models.ResolvedFoodItem) float64 {
	min := 1.0
	any := false
	for _, it := range items {
		if it.Profile == nil {
			continue
		}
		any = true
		if it.Confidence < min {
			min = it.Confidence
		}
	}
	if !any {
		return 0
	}
	return min
}

func summarizeSources(sources map[string]bool) string {
	switch len(sources) {
	case 0:
		return ""
	case 1:
		for s := range sources {
			return s
		}
	}
	return SourceMixed
}

var quantityPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(g|gram|grams|kg|mg|oz|ounce|ounces|lb|cup|cups|tbsp|tsp|ml|l|piece|pieces|pc|pcs|serving|servings|slice|slices)?\b\.?\s*$`)

// ParseFoodText splits a description into items on commas/" and " and pulls
// a trailing quantity+unit off each segment ("grilled chicken breast 150g"
// -> name "grilled chicken breast", 150 g). Segments without a quantity
// default to one serving.
func ParseFoodText(text string) []models.FoodItem {
	segments := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' })
	var expanded []string
	for _, seg := range segments {
		for _, part := range strings.Split(seg, " and ") {
			if part = strings.TrimSpace(part); part != "" {
				expanded = append(expanded, part)
			}
		}
	}

	var items []models.FoodItem
	for _, seg := range expanded {
		name := seg
		quantity := 1.0
		unit := "serving"
		if m := quantityPattern.FindStringSubmatch(seg); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				rest := strings.TrimSpace(seg[:len(seg)-len(m[0])])
				if rest != "" { // "2 eggs" style leaves nothing before the number
					quantity = v
					if m[2] != "" {
						unit = strings.ToLower(m[2])
					}
					name = rest
				}
			}
		}
		items = append(items, models.FoodItem{
			Name:       name,
			Quantity:   quantity,
			Unit:       unit,
			Confidence: 1,
		})
	}
	return items
}
