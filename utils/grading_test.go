package utils

import (
	"testing"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMealGrade_PerfectBalance(t *testing.T) {
	got := CalculateMealGrade(models.Macros{Carbs: 100, Protein: 75, Fats: 100.0 / 3}, DefaultMacroTargets)

	assert.Equal(t, models.GradeA, got.Grade)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "Excellent macro balance! Your meal is well-balanced.", got.Feedback)
}

func TestCalculateMealGrade_AllFat(t *testing.T) {
	// 0/0/100 against 40/30/30: deviations 40+30+70, avg 46.67, score 100-93.3
	got := CalculateMealGrade(models.Macros{Fats: 10}, DefaultMacroTargets)

	assert.Equal(t, models.GradeD, got.Grade)
	assert.Equal(t, 7, got.Score)
	assert.Equal(t,
		"Poor macro balance. This meal is far from your targets. This meal has not enough carbs, not enough protein, too much fat.",
		got.Feedback)
}

func TestCalculateMealGrade_ScoreClampsAtZero(t *testing.T) {
	got := CalculateMealGrade(models.Macros{}, models.MacroTargets{Carbs: 100, Protein: 100, Fats: 100})

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, models.GradeD, got.Grade)
}

func TestCalculateMealGrade_ZeroCalorieMeal(t *testing.T) {
	got := CalculateMealGrade(models.Macros{}, DefaultMacroTargets)

	// deviations 40/30/30 -> avg 33.3 -> score 33.3
	assert.Equal(t, models.GradeD, got.Grade)
	assert.Equal(t, 33, got.Score)
	assert.Contains(t, got.Feedback, "not enough carbs, not enough protein, not enough fat.")
}

func TestCalculateMealGrade_TargetsNotSummingTo100(t *testing.T) {
	targets := models.MacroTargets{Carbs: 50, Protein: 50, Fats: 50}
	got := CalculateMealGrade(models.Macros{Carbs: 100, Protein: 75, Fats: 100.0 / 3}, targets)

	// deviations 10/20/20 -> avg 16.67 -> 66.67
	assert.Equal(t, models.GradeC, got.Grade)
	assert.Equal(t, 67, got.Score)
	assert.Contains(t, got.Feedback, "This meal has not enough protein, not enough fat.")
}

func TestCalculateMealGrade_FeedbackOnlyOverThreshold(t *testing.T) {
	// 55/25/20 in calorie terms: carbs dev 15 (not over), protein 5, fats 10
	got := CalculateMealGrade(models.Macros{Carbs: 137.5, Protein: 62.5, Fats: 200.0 / 9}, DefaultMacroTargets)

	assert.Equal(t, models.GradeB, got.Grade)
	assert.Equal(t, 80, got.Score)
	assert.Equal(t, "Good macro balance. Close to your targets.", got.Feedback)
	assert.NotContains(t, got.Feedback, "This meal has")
}

func TestGrader_LetterFor(t *testing.T) {
	g := NewGrader(DefaultGradingConfig())
	tests := []struct {
		score float64
		want  models.Grade
	}{
		{100, models.GradeA},
		{85, models.GradeA},
		{84.99, models.GradeB},
		{70, models.GradeB},
		{69.5, models.GradeC},
		{50, models.GradeC},
		{49.9, models.GradeD},
		{0, models.GradeD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.LetterFor(tt.score), "score %v", tt.score)
	}
}

func TestGrader_CustomConfig(t *testing.T) {
	cfg := DefaultGradingConfig()
	cfg.PenaltyFactor = 1
	cfg.FeedbackThreshold = 50
	require.NoError(t, cfg.Validate())

	got := NewGrader(cfg).Grade(models.Macros{Fats: 10}, DefaultMacroTargets)

	assert.Equal(t, 53, got.Score)
	assert.Equal(t, models.GradeC, got.Grade)
	assert.Contains(t, got.Feedback, "This meal has too much fat.")
}

func TestGradingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GradingConfig)
		wantErr bool
	}{
		{"defaults", func(*GradingConfig) {}, false},
		{"zero penalty", func(c *GradingConfig) { c.PenaltyFactor = 0 }, true},
		{"negative threshold", func(c *GradingConfig) { c.FeedbackThreshold = -1 }, true},
		{"thresholds out of order", func(c *GradingConfig) { c.Thresholds.B = 90 }, true},
		{"a above 100", func(c *GradingConfig) { c.Thresholds.A = 101 }, true},
		{"c below 0", func(c *GradingConfig) { c.Thresholds.C = -5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGradingConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
