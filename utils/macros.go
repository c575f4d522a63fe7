package utils

import (
	"math"

	"github.com/FlowDomain/NutriLog/models"
)

// Atwater factors, kcal per gram.
const (
	CarbKcalPerGram    = 4.0
	ProteinKcalPerGram = 4.0
	FatKcalPerGram     = 9.0
)

// MacroPercentages is each macro's share of total calories, in whole percent.
type MacroPercentages struct {
	Carbs   int `json:"carbs"`
	Protein int `json:"protein"`
	Fats    int `json:"fats"`
}

// CalculateCalories converts macro grams to whole kilocalories. Inputs are
// assumed non-negative; nothing here clamps them.
func CalculateCalories(m models.Macros) int {
	return int(math.Round(m.Carbs*CarbKcalPerGram + m.Protein*ProteinKcalPerGram + m.Fats*FatKcalPerGram))
}

// CalculateMacrosForQuantity scales a per-serving profile to quantity grams,
// rounding each component to one decimal. baseServingSize must be > 0.
func CalculateMacrosForQuantity(base models.Macros, baseServingSize, quantity float64) models.Macros {
	ratio := quantity / baseServingSize
	return models.Macros{
		Carbs:   RoundTo(base.Carbs*ratio, 1),
		Protein: RoundTo(base.Protein*ratio, 1),
		Fats:    RoundTo(base.Fats*ratio, 1),
	}
}

// CalculateMacroPercentages returns {0,0,0} for a zero-calorie input.
func CalculateMacroPercentages(m models.Macros) MacroPercentages {
	total := float64(CalculateCalories(m))
	if total == 0 {
		return MacroPercentages{}
	}
	return MacroPercentages{
		Carbs:   int(math.Round(m.Carbs * CarbKcalPerGram / total * 100)),
		Protein: int(math.Round(m.Protein * ProteinKcalPerGram / total * 100)),
		Fats:    int(math.Round(m.Fats * FatKcalPerGram / total * 100)),
	}
}

// SumMacros adds up macros and rounds the result to one decimal so repeated
// float addition of one-decimal values does not leak noise into stored totals.
func SumMacros(ms ...models.Macros) models.Macros {
	var out models.Macros
	for _, m := range ms {
		out = out.Add(m)
	}
	return models.Macros{
		Carbs:   RoundTo(out.Carbs, 1),
		Protein: RoundTo(out.Protein, 1),
		Fats:    RoundTo(out.Fats, 1),
	}
}

func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
