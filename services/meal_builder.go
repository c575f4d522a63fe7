package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
)

type MealFoodRequest struct {
	FoodID   string  `json:"food_id"`
	Quantity float64 `json:"quantity"` // grams
}

type CreateMealInput struct {
	Name     string            `json:"name"`
	MealType models.MealType   `json:"meal_type"`
	Date     time.Time         `json:"date"`
	Foods    []MealFoodRequest `json:"foods"`
	Notes    string            `json:"notes,omitempty"`
}

// UnmarshalJSON accepts date as a plain YYYY-MM-DD day (local midnight) or
// an RFC 3339 timestamp, like the list and analytics query parameters.
func (in *CreateMealInput) UnmarshalJSON(b []byte) error {
	type plain CreateMealInput
	var aux struct {
		plain
		Date string `json:"date"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*in = CreateMealInput(aux.plain)
	in.Date = time.Time{}
	if aux.Date != "" {
		d, err := utils.ParseDay(aux.Date, time.Local)
		if err != nil {
			return invalidf("date must be YYYY-MM-DD or RFC 3339, got %q", aux.Date)
		}
		in.Date = d
	}
	return nil
}

func (in CreateMealInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("name is required")
	}
	if !in.MealType.Valid() {
		return invalidf("meal_type must be breakfast, lunch, dinner or snack")
	}
	if in.Date.IsZero() {
		return invalidf("date is required")
	}
	if len(in.Foods) == 0 {
		return invalidf("at least one food is required")
	}
	for i, f := range in.Foods {
		if f.FoodID == "" {
			return invalidf("foods[%d].food_id is required", i)
		}
		if f.Quantity < 1 {
			return invalidf("foods[%d].quantity must be at least 1", i)
		}
	}
	return nil
}

// FoodIDs returns the distinct food ids referenced by the input.
func (in CreateMealInput) FoodIDs() []string {
	seen := make(map[string]struct{}, len(in.Foods))
	ids := make([]string, 0, len(in.Foods))
	for _, f := range in.Foods {
		if _, ok := seen[f.FoodID]; ok {
			continue
		}
		seen[f.FoodID] = struct{}{}
		ids = append(ids, f.FoodID)
	}
	return ids
}

// BuildMeal resolves every line against refs, scales it, and freezes totals
// and grade. A food id missing from refs yields ErrFoodNotFound.
func BuildMeal(
	userID uint,
	in CreateMealInput,
	refs map[string]models.FoodReference,
	targets models.MacroTargets,
	grader *utils.Grader,
) (*models.Meal, utils.GradeResult, error) {
	lines := make([]models.MealFood, 0, len(in.Foods))
	lineMacros := make([]models.Macros, 0, len(in.Foods))
	total := 0

	for _, item := range in.Foods {
		ref, ok := refs[item.FoodID]
		if !ok {
			return nil, utils.GradeResult{}, ErrFoodNotFound
		}
		macros := utils.CalculateMacrosForQuantity(ref.Macros, ref.ServingSize, item.Quantity)
		kcal := utils.CalculateCalories(macros)

		lines = append(lines, models.MealFood{
			FoodID:   ref.ID,
			FoodName: ref.Name,
			Quantity: item.Quantity,
			Calories: kcal,
			Macros:   macros,
		})
		lineMacros = append(lineMacros, macros)
		total += kcal
	}

	totalMacros := utils.SumMacros(lineMacros...)
	result := grader.Grade(totalMacros, targets)

	return &models.Meal{
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		MealType:      in.MealType,
		Date:          in.Date,
		Foods:         lines,
		TotalCalories: total,
		TotalMacros:   totalMacros,
		Grade:         result.Grade,
		GradeScore:    result.Score,
		Notes:         in.Notes,
	}, result, nil
}
