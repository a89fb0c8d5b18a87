package utils

import (
	"math"

	"github.com/yenugah80/METRICS-sub000/models"
)

// Scoring constants — all thresholds are per 100g.
const (
	scoreBase = 100.0

	sugarFreeAllowanceG   = 5.0  // grams of sugar before any penalty
	sugarPenaltyPerGram   = 1.2  // max 30
	sugarPenaltySpanG     = 25.0
	sodiumFreeAllowanceMg = 300.0
	sodiumPenaltySpanMg   = 1400.0
	sodiumPenaltyDivisor  = 14.0 // max 100
	satFatFreeAllowanceG  = 2.0
	satFatPenaltySpanG    = 18.0
	satFatPenaltyPerGram  = 2.0 // max 36

	fiberBonusCapG      = 10.0
	fiberBonusPerGram   = 2.0 // max 20
	proteinBonusCapG    = 20.0
	proteinBonusPerGram = 1.2 // max 24

	microDVThreshold   = 10.0 // percent DV that counts toward the bonus
	microBonusPerCount = 1.5
	microBonusCap      = 20.0

	gradeAMin = 85
	gradeBMin = 70
	gradeCMin = 55
)

// Clamp limits x to [lo, hi]. Every penalty and bonus in the scorer is built
// on it, so it is exported and tested on its own.
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// ScoreNutrition computes the 0–100 health score for a per-100g profile.
// Deterministic and side-effect-free: the same profile always produces the
// same score, which is what makes cached results re-verifiable.
//
// Unreported fields contribute nothing — a missing sugar value is not a zero
// sugar fact, so it earns neither penalty nor bonus.
func ScoreNutrition(per100g *models.NutritionProfile) *models.NutritionScore {
	sugar := models.Or(per100g.SugarG)
	sodium := models.Or(per100g.SodiumMg)
	satFat := models.Or(per100g.SaturatedFatG)
	fiber := models.Or(per100g.FiberG)
	protein := models.Or(per100g.ProteinG)

	penaltySugar := Clamp(sugar-sugarFreeAllowanceG, 0, sugarPenaltySpanG) * sugarPenaltyPerGram
	penaltySodium := Clamp(sodium-sodiumFreeAllowanceMg, 0, sodiumPenaltySpanMg) / sodiumPenaltyDivisor
	penaltySatFat := Clamp(satFat-satFatFreeAllowanceG, 0, satFatPenaltySpanG) * satFatPenaltyPerGram

	bonusFiber := Clamp(fiber, 0, fiberBonusCapG) * fiberBonusPerGram
	bonusProtein := Clamp(protein, 0, proteinBonusCapG) * proteinBonusPerGram

	microCount := 0
	for _, dv := range per100g.MicronutrientsPercentDV {
		if dv >= microDVThreshold {
			microCount++
		}
	}
	bonusMicro := math.Min(math.Round(float64(microCount)*microBonusPerCount), microBonusCap)

	raw := scoreBase - penaltySugar - penaltySodium - penaltySatFat +
		bonusFiber + bonusProtein + bonusMicro
	final := math.Round(Clamp(raw, 0, 100))

	return &models.NutritionScore{
		Score: int(final),
		Grade: GradeForScore(int(final)),
		Breakdown: models.ScoreBreakdown{
			BaseScore:           scoreBase,
			PenaltySugar:        round2(penaltySugar),
			PenaltySodium:       round2(penaltySodium),
			PenaltySaturatedFat: round2(penaltySatFat),
			BonusFiber:          round2(bonusFiber),
			BonusProtein:        round2(bonusProtein),
			BonusMicronutrients: round2(bonusMicro),
			FinalScore:          final,
		},
	}
}

// GradeForScore maps a final score to its letter grade.
func GradeForScore(score int) string {
	switch {
	case score >= gradeAMin:
		return "A"
	case score >= gradeBMin:
		return "B"
	case score >= gradeCMin:
		return "C"
	default:
		return "D"
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
