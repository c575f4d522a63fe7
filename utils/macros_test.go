package utils

import (
	"testing"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCalories(t *testing.T) {
	tests := []struct {
		name   string
		macros models.Macros
		want   int
	}{
		{"atwater factors", models.Macros{Carbs: 50, Protein: 20, Fats: 10}, 370},
		{"all zero", models.Macros{}, 0},
		{"rounds half up", models.Macros{Carbs: 0.125}, 1},
		{"fractional grams", models.Macros{Carbs: 10.2, Protein: 3.3, Fats: 1.1}, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateCalories(tt.macros))
		})
	}
}

func TestCalculateMacrosForQuantity(t *testing.T) {
	base := models.Macros{Carbs: 10, Protein: 5, Fats: 2}

	assert.Equal(t, models.Macros{Carbs: 5, Protein: 2.5, Fats: 1}, CalculateMacrosForQuantity(base, 100, 50))
	assert.Equal(t, models.Macros{Carbs: 30, Protein: 15, Fats: 6}, CalculateMacrosForQuantity(base, 100, 300))
	assert.Equal(t, base, CalculateMacrosForQuantity(base, 100, 100))

	// 33/100 * 10 = 3.3, 33/100 * 5 = 1.65 -> 1.7, 33/100 * 2 = 0.66 -> 0.7
	assert.Equal(t, models.Macros{Carbs: 3.3, Protein: 1.7, Fats: 0.7}, CalculateMacrosForQuantity(base, 100, 33))
}

func TestCalculateMacroPercentages(t *testing.T) {
	t.Run("zero calories", func(t *testing.T) {
		assert.Equal(t, MacroPercentages{}, CalculateMacroPercentages(models.Macros{}))
	})

	t.Run("exact split", func(t *testing.T) {
		got := CalculateMacroPercentages(models.Macros{Carbs: 100, Protein: 75, Fats: 100.0 / 3})
		assert.Equal(t, MacroPercentages{Carbs: 40, Protein: 30, Fats: 30}, got)
	})

	inputs := []models.Macros{
		{Carbs: 50, Protein: 20, Fats: 10},
		{Carbs: 1, Protein: 1, Fats: 1},
		{Carbs: 123.4, Protein: 7.7, Fats: 45.6},
		{Fats: 12},
		{Protein: 3.5},
	}
	for _, m := range inputs {
		p := CalculateMacroPercentages(m)
		sum := p.Carbs + p.Protein + p.Fats
		assert.InDelta(t, 100, sum, 1, "percentages of %+v sum to %d", m, sum)
	}
}

func TestSumMacros(t *testing.T) {
	got := SumMacros(
		models.Macros{Carbs: 0.1, Protein: 0.2, Fats: 0.7},
		models.Macros{Carbs: 0.2, Protein: 0.1, Fats: 0.6},
	)
	assert.Equal(t, models.Macros{Carbs: 0.3, Protein: 0.3, Fats: 1.3}, got)
	assert.Equal(t, models.Macros{}, SumMacros())
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 24.2, RoundTo(24.221, 1))
	assert.Equal(t, 1.65, RoundTo(1.6549, 2))
	assert.Equal(t, 3.0, RoundTo(2.5, 0))
}
