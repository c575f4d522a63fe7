package utils

import (
	"fmt"
	"math"

	"github.com/FlowDomain/NutriLog/models"
)

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

var goalAdjustments = map[models.Goal]float64{
	models.GoalLoseWeight: -500,
	models.GoalMaintain:   0,
	models.GoalGainWeight: 300,
	models.GoalGainMuscle: 500,
}

var recommendedMacros = map[models.Goal]models.MacroTargets{
	models.GoalLoseWeight: {Carbs: 35, Protein: 35, Fats: 30},
	models.GoalMaintain:   {Carbs: 40, Protein: 30, Fats: 30},
	models.GoalGainWeight: {Carbs: 45, Protein: 25, Fats: 30},
	models.GoalGainMuscle: {Carbs: 40, Protein: 35, Fats: 25},
}

// ValidActivityLevel reports whether level has a known multiplier.
func ValidActivityLevel(level models.ActivityLevel) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// CalculateBMR uses Mifflin-St Jeor. Genders other than male/female get the
// mean of both equations.
func CalculateBMR(weightKg, heightCm float64, age int, gender models.Gender) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case models.GenderMale:
		return base + 5
	case models.GenderFemale:
		return base - 161
	default:
		return ((base + 5) + (base - 161)) / 2
	}
}

func CalculateTDEE(bmr float64, level models.ActivityLevel) (int, error) {
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("unknown activity level %q", level)
	}
	return int(math.Round(bmr * mult)), nil
}

func CalculateRecommendedCalories(
	weightKg, heightCm float64,
	age int,
	gender models.Gender,
	level models.ActivityLevel,
	goal models.Goal,
) (int, error) {
	tdee, err := CalculateTDEE(CalculateBMR(weightKg, heightCm, age, gender), level)
	if err != nil {
		return 0, err
	}
	adj, ok := goalAdjustments[goal]
	if !ok {
		return 0, fmt.Errorf("unknown goal %q", goal)
	}
	return int(math.Round(float64(tdee) + adj)), nil
}

// GetRecommendedMacros falls back to the default split for unknown goals.
func GetRecommendedMacros(goal models.Goal) models.MacroTargets {
	if t, ok := recommendedMacros[goal]; ok {
		return t
	}
	return DefaultMacroTargets
}
