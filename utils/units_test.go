package utils

import "testing"

func TestToGrams(t *testing.T) {
	cases := []struct {
		qty   float64
		unit  string
		grams float64
		known bool
	}{
		{150, "g", 150, true},
		{1, "kg", 1000, true},
		{2, "oz", 56.7, true},
		{1, "cup", 240, true},
		{2, "slices", 60, true},
		{1, "serving", 100, true},
		{3, "pieces", 300, true},
		{1, "  G ", 1, true}, // unit is trimmed and lowercased
		{2, "handful", 200, false},
		{1, "", 100, false},
	}
	for _, c := range cases {
		grams, known := ToGrams(c.qty, c.unit)
		if grams != c.grams || known != c.known {
			t.Errorf("ToGrams(%v, %q) = (%v, %v), want (%v, %v)",
				c.qty, c.unit, grams, known, c.grams, c.known)
		}
	}
}

func TestToGramsNonPositiveQuantity(t *testing.T) {
	grams, known := ToGrams(0, "g")
	if grams != 1 || !known {
		t.Errorf("ToGrams(0, g) = (%v, %v), want quantity defaulted to 1", grams, known)
	}
	grams, _ = ToGrams(-2, "serving")
	if grams != 100 {
		t.Errorf("ToGrams(-2, serving) = %v, want 100", grams)
	}
}
