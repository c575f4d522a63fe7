package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/FlowDomain/NutriLog/models"
)

// DefaultMacroTargets is used for users who never set their own split.
var DefaultMacroTargets = models.MacroTargets{Carbs: 40, Protein: 30, Fats: 30}

// GradeThresholds are the minimum scores for A, B and C. Anything below C is D.
type GradeThresholds struct {
	A float64
	B float64
	C float64
}

// GradingConfig holds the tunable constants of meal grading.
type GradingConfig struct {
	PenaltyFactor     float64
	FeedbackThreshold float64
	Thresholds        GradeThresholds
	DefaultTargets    models.MacroTargets
}

func DefaultGradingConfig() GradingConfig {
	return GradingConfig{
		PenaltyFactor:     2,
		FeedbackThreshold: 15,
		Thresholds:        GradeThresholds{A: 85, B: 70, C: 50},
		DefaultTargets:    DefaultMacroTargets,
	}
}

func (c GradingConfig) Validate() error {
	if c.PenaltyFactor <= 0 {
		return errors.New("penalty_factor must be positive")
	}
	if c.FeedbackThreshold < 0 {
		return errors.New("feedback_threshold must not be negative")
	}
	t := c.Thresholds
	if t.A > 100 || t.C < 0 || !(t.A > t.B && t.B > t.C) {
		return fmt.Errorf("thresholds must descend within [0,100], got a=%v b=%v c=%v", t.A, t.B, t.C)
	}
	return nil
}

type GradeResult struct {
	Grade    models.Grade `json:"grade"`
	Score    int          `json:"score"`
	Feedback string       `json:"feedback"`
}

// Grader scores a meal's calorie split against target percentages. It holds
// no mutable state and is safe for concurrent use.
type Grader struct {
	cfg GradingConfig
}

func NewGrader(cfg GradingConfig) *Grader {
	return &Grader{cfg: cfg}
}

var defaultGrader = NewGrader(DefaultGradingConfig())

// CalculateMealGrade grades with the built-in constants.
func CalculateMealGrade(actual models.Macros, targets models.MacroTargets) GradeResult {
	return defaultGrader.Grade(actual, targets)
}

func (g *Grader) Config() GradingConfig { return g.cfg }

// Grade accepts any targets, including ones that do not sum to 100.
func (g *Grader) Grade(actual models.Macros, targets models.MacroTargets) GradeResult {
	pct := CalculateMacroPercentages(actual)

	carbsDev := math.Abs(float64(pct.Carbs) - targets.Carbs)
	proteinDev := math.Abs(float64(pct.Protein) - targets.Protein)
	fatsDev := math.Abs(float64(pct.Fats) - targets.Fats)
	avgDev := (carbsDev + proteinDev + fatsDev) / 3

	score := math.Max(0, math.Min(100, 100-avgDev*g.cfg.PenaltyFactor))
	grade := g.LetterFor(score)

	var issues []string
	if carbsDev > g.cfg.FeedbackThreshold {
		issues = append(issues, directional(float64(pct.Carbs) > targets.Carbs, "too many carbs", "not enough carbs"))
	}
	if proteinDev > g.cfg.FeedbackThreshold {
		issues = append(issues, directional(float64(pct.Protein) > targets.Protein, "too much protein", "not enough protein"))
	}
	if fatsDev > g.cfg.FeedbackThreshold {
		issues = append(issues, directional(float64(pct.Fats) > targets.Fats, "too much fat", "not enough fat"))
	}

	feedback := gradeFeedback[grade]
	if len(issues) > 0 {
		feedback += " This meal has " + strings.Join(issues, ", ") + "."
	}

	return GradeResult{
		Grade:    grade,
		Score:    int(math.Round(score)),
		Feedback: feedback,
	}
}

// LetterFor maps a score to a letter using the configured thresholds.
func (g *Grader) LetterFor(score float64) models.Grade {
	switch {
	case score >= g.cfg.Thresholds.A:
		return models.GradeA
	case score >= g.cfg.Thresholds.B:
		return models.GradeB
	case score >= g.cfg.Thresholds.C:
		return models.GradeC
	default:
		return models.GradeD
	}
}

var gradeFeedback = map[models.Grade]string{
	models.GradeA: "Excellent macro balance! Your meal is well-balanced.",
	models.GradeB: "Good macro balance. Close to your targets.",
	models.GradeC: "Fair macro balance. Consider adjusting your portions.",
	models.GradeD: "Poor macro balance. This meal is far from your targets.",
}

func directional(over bool, high, low string) string {
	if over {
		return high
	}
	return low
}
