package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yenugah80/METRICS-sub000/models"
)

// fakeSource is a scriptable NutritionSource for chain tests.
type fakeSource struct {
	name       string
	confidence float64
	profiles   map[string]*models.NutritionProfile
	err        error
	calls      []string
}

func (f *fakeSource) Name() string            { return f.name }
func (f *fakeSource) BaseConfidence() float64 { return f.confidence }

func (f *fakeSource) Lookup(ctx context.Context, query string) (*models.NutritionProfile, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[query], nil
}

func per100g(calories, protein, carbs, fat float64) *models.NutritionProfile {
	return &models.NutritionProfile{
		Calories: models.Float(calories),
		ProteinG: models.Float(protein),
		CarbsG:   models.Float(carbs),
		FatG:     models.Float(fat),
	}
}

func TestResolveItemsFallbackOrder(t *testing.T) {
	primary := &fakeSource{name: "primary", confidence: 0.92, profiles: map[string]*models.NutritionProfile{}}
	secondary := &fakeSource{name: "secondary", confidence: 0.7, profiles: map[string]*models.NutritionProfile{
		"oatmeal": per100g(68, 2.4, 12, 1.4),
	}}
	last := &fakeSource{name: "last", confidence: 0.45, profiles: map[string]*models.NutritionProfile{}}

	r := NewResolverService([]NutritionSource{primary, secondary, last}, nil, nil)
	res := r.ResolveItems(context.Background(), []models.FoodItem{
		{Name: "oatmeal", Quantity: 100, Unit: "g", Confidence: 1},
	})

	if res.Resolved != 1 {
		t.Fatalf("Resolved = %d, want 1", res.Resolved)
	}
	if res.Items[0].Source != "secondary" {
		t.Errorf("Source = %q, want the second source in the chain", res.Items[0].Source)
	}
	if len(primary.calls) != 1 {
		t.Errorf("primary should have been tried first, calls = %v", primary.calls)
	}
	if len(last.calls) != 0 {
		t.Errorf("chain must stop at the first hit, last source got calls %v", last.calls)
	}
	if res.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want the hitting source's 0.7", res.Confidence)
	}
}

func TestResolveItemsGracefulDegradation(t *testing.T) {
	src := &fakeSource{name: "db", confidence: 0.9, profiles: map[string]*models.NutritionProfile{
		"apple":  per100g(52, 0.3, 14, 0.2),
		"banana": per100g(89, 1.1, 23, 0.3),
	}}
	r := NewResolverService([]NutritionSource{src}, nil, nil)

	res := r.ResolveItems(context.Background(), []models.FoodItem{
		{Name: "apple", Quantity: 100, Unit: "g", Confidence: 1},
		{Name: "unknown gruel", Quantity: 100, Unit: "g", Confidence: 1},
		{Name: "banana", Quantity: 100, Unit: "g", Confidence: 1},
	})

	if res.Resolved != 2 {
		t.Fatalf("Resolved = %d, want 2", res.Resolved)
	}
	if len(res.Items) != 3 {
		t.Fatalf("all requested items must stay in the result, got %d", len(res.Items))
	}

	failed := res.Items[1]
	if failed.Confidence != 0 || failed.Profile != nil {
		t.Errorf("unresolved item = %+v, want confidence 0 and no profile", failed)
	}
	if !strings.Contains(failed.Note, "unresolved") {
		t.Errorf("Note = %q, want an unresolved diagnostic", failed.Note)
	}

	// totals cover only the resolved items: 52 + 89
	if got := models.Or(res.Totals.Calories); got != 141 {
		t.Errorf("total calories = %v, want 141", got)
	}

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "2 of 3 items resolved") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a partial-resolution warning", res.Warnings)
	}
}

func TestResolveItemsMinConfidence(t *testing.T) {
	verified := &fakeSource{name: "verified", confidence: 0.92, profiles: map[string]*models.NutritionProfile{
		"rice": per100g(130, 2.7, 28, 0.3),
	}}
	estimate := &fakeSource{name: "estimate", confidence: 0.45, profiles: map[string]*models.NutritionProfile{
		"mystery stew": per100g(150, 8, 10, 9),
	}}
	r := NewResolverService([]NutritionSource{verified, estimate}, nil, nil)

	res := r.ResolveItems(context.Background(), []models.FoodItem{
		{Name: "rice", Quantity: 100, Unit: "g", Confidence: 1},
		{Name: "mystery stew", Quantity: 100, Unit: "g", Confidence: 1},
	})

	if res.Confidence != 0.45 {
		t.Errorf("Confidence = %v, want the minimum 0.45, never an average", res.Confidence)
	}
	if res.Source != SourceMixed {
		t.Errorf("Source = %q, want %q", res.Source, SourceMixed)
	}
}

func TestResolveItemsUnknownUnitPenalty(t *testing.T) {
	src := &fakeSource{name: "db", confidence: 0.9, profiles: map[string]*models.NutritionProfile{
		"trail mix": per100g(460, 13, 45, 29),
	}}
	r := NewResolverService([]NutritionSource{src}, nil, nil)

	res := r.ResolveItems(context.Background(), []models.FoodItem{
		{Name: "trail mix", Quantity: 2, Unit: "handful", Confidence: 1},
	})

	item := res.Items[0]
	if item.Grams != 200 {
		t.Errorf("Grams = %v, want 100g per unknown unit", item.Grams)
	}
	if want := 0.9 - 0.1; item.Confidence != want {
		t.Errorf("Confidence = %v, want %v after unknown-unit penalty", item.Confidence, want)
	}
	if !strings.Contains(item.Note, "unknown unit") {
		t.Errorf("Note = %q, want unknown-unit note", item.Note)
	}
}

func TestLookupChainTimeoutVsUnavailable(t *testing.T) {
	timedOut := &fakeSource{name: "slow", confidence: 0.9, err: context.DeadlineExceeded}
	down := &fakeSource{name: "down", confidence: 0.8, err: errors.New("connection refused")}
	working := &fakeSource{name: "table", confidence: 0.7, profiles: map[string]*models.NutritionProfile{
		"bread": per100g(265, 9, 49, 3.2),
	}}
	r := NewResolverService([]NutritionSource{timedOut, down, working}, nil, nil)

	res := r.ResolveItems(context.Background(), []models.FoodItem{
		{Name: "bread", Quantity: 100, Unit: "g", Confidence: 1},
	})

	if res.Resolved != 1 || res.Items[0].Source != "table" {
		t.Fatalf("chain should have reached the working source: %+v", res.Items)
	}

	var sawTimeout, sawUnavailable bool
	for _, w := range res.Warnings {
		if w == "slow: timeout" {
			sawTimeout = true
		}
		if w == "down: source unavailable" {
			sawUnavailable = true
		}
	}
	if !sawTimeout {
		t.Errorf("warnings = %v, want a timeout tag for the slow source", res.Warnings)
	}
	if !sawUnavailable {
		t.Errorf("warnings = %v, want an unavailable tag for the down source", res.Warnings)
	}
}

type fakeBarcodeSource struct {
	name    string
	product string
	profile *models.NutritionProfile
	err     error
}

func (f *fakeBarcodeSource) Name() string            { return f.name }
func (f *fakeBarcodeSource) BaseConfidence() float64 { return 0.95 }
func (f *fakeBarcodeSource) LookupBarcode(ctx context.Context, code string) (string, *models.NutritionProfile, error) {
	return f.product, f.profile, f.err
}

func TestResolveBarcodeFound(t *testing.T) {
	bs := &fakeBarcodeSource{name: "off", product: "Granola Bar", profile: per100g(471, 10, 64, 20)}
	r := NewResolverService(nil, bs, nil)

	res, err := r.ResolveBarcode(context.Background(), "123456789")
	if err != nil {
		t.Fatal(err)
	}
	if res.Resolved != 1 || res.Items[0].Name != "Granola Bar" {
		t.Fatalf("res = %+v", res)
	}
	if res.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", res.Confidence)
	}
}

func TestResolveBarcodeNotFound(t *testing.T) {
	bs := &fakeBarcodeSource{name: "off"} // nil profile, nil error
	r := NewResolverService(nil, bs, nil)

	res, err := r.ResolveBarcode(context.Background(), "000000000")
	if err != nil {
		t.Fatal(err)
	}
	if res.Resolved != 0 || len(res.Items) != 0 {
		t.Fatalf("res = %+v, want empty resolution", res)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "not found") {
		t.Errorf("warnings = %v, want not-found", res.Warnings)
	}
}

type fakeVision struct {
	items []models.FoodItem
	err   error
}

func (f *fakeVision) ExtractFoodItems(ctx context.Context, base64Img string) ([]models.FoodItem, error) {
	return f.items, f.err
}

func TestResolveImageVisionConfidenceCaps(t *testing.T) {
	src := &fakeSource{name: "db", confidence: 0.9, profiles: map[string]*models.NutritionProfile{
		"pizza": per100g(266, 11, 33, 10),
	}}
	vision := &fakeVision{items: []models.FoodItem{
		{Name: "pizza", Quantity: 1, Unit: "serving", Confidence: 0.6},
	}}
	r := NewResolverService([]NutritionSource{src}, nil, vision)

	res, err := r.ResolveImage(context.Background(), "base64data")
	if err != nil {
		t.Fatal(err)
	}
	// the vision model's 0.6 is lower than the source's 0.9 and must win
	if res.Items[0].Confidence != 0.6 {
		t.Errorf("Confidence = %v, want the vision model's 0.6", res.Items[0].Confidence)
	}
	if res.Confidence != 0.6 {
		t.Errorf("overall Confidence = %v, want 0.6", res.Confidence)
	}
}

func TestParseFoodText(t *testing.T) {
	cases := []struct {
		in   string
		want []models.FoodItem
	}{
		{
			"grilled chicken breast 150g",
			[]models.FoodItem{{Name: "grilled chicken breast", Quantity: 150, Unit: "g", Confidence: 1}},
		},
		{
			"oatmeal 1 cup, banana",
			[]models.FoodItem{
				{Name: "oatmeal", Quantity: 1, Unit: "cup", Confidence: 1},
				{Name: "banana", Quantity: 1, Unit: "serving", Confidence: 1},
			},
		},
		{
			"toast 2 slices and scrambled eggs",
			[]models.FoodItem{
				{Name: "toast", Quantity: 2, Unit: "slices", Confidence: 1},
				{Name: "scrambled eggs", Quantity: 1, Unit: "serving", Confidence: 1},
			},
		},
		{"", nil},
		{" , ; ", nil},
	}
	for _, c := range cases {
		got := ParseFoodText(c.in)
		if len(got) != len(c.want) {
			t.Errorf("ParseFoodText(%q) = %+v, want %+v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("ParseFoodText(%q)[%d] = %+v, want %+v", c.in, i, got[i], c.want[i])
			}
		}
	}
}
