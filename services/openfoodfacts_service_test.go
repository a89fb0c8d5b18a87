package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yenugah80/METRICS-sub000/models"
)

const offProductBody = `{
  "status": 1,
  "product": {
    "product_name": "Whole Milk",
    "nutriments": {
      "energy-kcal_100g": 61,
      "proteins_100g": "3.2",
      "carbohydrates_100g": 4.8,
      "fat_100g": 3.3,
      "saturated-fat_100g": 1.9,
      "sugars_100g": 5.1,
      "sodium_100g": 0.043,
      "calcium_100g": 0.113
    }
  }
}`

func TestOFFLookupBarcodeFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/api/v2/product/3033490004521.json") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(offProductBody))
	}))
	defer srv.Close()

	s := NewOpenFoodFactsServiceWithBase(srv.URL, srv.Client())
	name, p, err := s.LookupBarcode(context.Background(), "3033490004521")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Whole Milk" {
		t.Errorf("name = %q", name)
	}
	if p == nil {
		t.Fatal("expected a profile")
	}
	// numeric strings parse the same as numbers
	if models.Or(p.ProteinG) != 3.2 {
		t.Errorf("ProteinG = %v, want 3.2", models.Or(p.ProteinG))
	}
	// sodium and calcium arrive in grams and are canonicalized to mg
	if models.Or(p.SodiumMg) != 43 {
		t.Errorf("SodiumMg = %v, want 43", models.Or(p.SodiumMg))
	}
	if models.Or(p.CalciumMg) != 113 {
		t.Errorf("CalciumMg = %v, want 113", models.Or(p.CalciumMg))
	}
	// fields the product does not report stay nil
	if p.FiberG != nil {
		t.Errorf("FiberG = %v, want nil", *p.FiberG)
	}
}

func TestOFFLookupBarcodeUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	}))
	defer srv.Close()

	s := NewOpenFoodFactsServiceWithBase(srv.URL, srv.Client())
	name, p, err := s.LookupBarcode(context.Background(), "0000000000000")
	if err != nil {
		t.Fatalf("unknown barcode is a miss, not an error: %v", err)
	}
	if name != "" || p != nil {
		t.Errorf("got (%q, %+v), want empty miss", name, p)
	}
}

func TestOFFLookupBarcodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewOpenFoodFactsServiceWithBase(srv.URL, srv.Client())
	if _, _, err := s.LookupBarcode(context.Background(), "123"); err == nil {
		t.Error("5xx must surface as a transport error")
	}
}

func TestOFFImplausibleValuesDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 1, "product": {"product_name": "Bad Data", "nutriments": {
			"energy-kcal_100g": 61,
			"proteins_100g": 3500,
			"sugars_100g": -4
		}}}`))
	}))
	defer srv.Close()

	s := NewOpenFoodFactsServiceWithBase(srv.URL, srv.Client())
	_, p, err := s.LookupBarcode(context.Background(), "111")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("calories alone still make a usable profile")
	}
	if p.ProteinG != nil {
		t.Errorf("ProteinG = %v, want implausible value dropped to nil", *p.ProteinG)
	}
	if p.SugarG != nil {
		t.Errorf("SugarG = %v, want negative value dropped to nil", *p.SugarG)
	}
}
