package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	oats = models.FoodReference{ID: "oats", Name: "Rolled oats", ServingSize: 100,
		Macros: models.Macros{Carbs: 66, Protein: 17, Fats: 7}}
	eggs = models.FoodReference{ID: "eggs", Name: "Boiled egg", ServingSize: 50,
		Macros: models.Macros{Carbs: 0.6, Protein: 6.3, Fats: 5.3}}
)

func validMealInput() CreateMealInput {
	return CreateMealInput{
		Name:     "Breakfast bowl",
		MealType: models.MealBreakfast,
		Date:     time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC),
		Foods: []MealFoodRequest{
			{FoodID: "oats", Quantity: 50},
			{FoodID: "eggs", Quantity: 100},
		},
	}
}

func TestBuildMeal(t *testing.T) {
	refs := map[string]models.FoodReference{"oats": oats, "eggs": eggs}
	grader := utils.NewGrader(utils.DefaultGradingConfig())

	m, result, err := BuildMeal(7, validMealInput(), refs, utils.DefaultMacroTargets, grader)
	require.NoError(t, err)

	require.Len(t, m.Foods, 2)
	assert.Equal(t, models.MealFood{
		FoodID: "oats", FoodName: "Rolled oats", Quantity: 50, Calories: 198,
		Macros: models.Macros{Carbs: 33, Protein: 8.5, Fats: 3.5},
	}, m.Foods[0])
	assert.Equal(t, models.MealFood{
		FoodID: "eggs", FoodName: "Boiled egg", Quantity: 100, Calories: 151,
		Macros: models.Macros{Carbs: 1.2, Protein: 12.6, Fats: 10.6},
	}, m.Foods[1])

	assert.Equal(t, uint(7), m.UserID)
	assert.Equal(t, 349, m.TotalCalories)
	assert.Equal(t, models.Macros{Carbs: 34.2, Protein: 21.1, Fats: 14.1}, m.TotalMacros)

	want := grader.Grade(m.TotalMacros, utils.DefaultMacroTargets)
	assert.Equal(t, want, result)
	assert.Equal(t, want.Grade, m.Grade)
	assert.Equal(t, want.Score, m.GradeScore)
}

func TestBuildMeal_TotalCaloriesIsSumOfLines(t *testing.T) {
	refs := map[string]models.FoodReference{"oats": oats, "eggs": eggs}
	in := validMealInput()
	in.Foods = append(in.Foods, MealFoodRequest{FoodID: "oats", Quantity: 37})

	m, _, err := BuildMeal(1, in, refs, utils.DefaultMacroTargets, utils.NewGrader(utils.DefaultGradingConfig()))
	require.NoError(t, err)

	sum := 0
	for _, l := range m.Foods {
		assert.Equal(t, utils.CalculateCalories(l.Macros), l.Calories)
		sum += l.Calories
	}
	assert.Equal(t, sum, m.TotalCalories)
}

func TestBuildMeal_MissingFood(t *testing.T) {
	refs := map[string]models.FoodReference{"oats": oats}

	_, _, err := BuildMeal(1, validMealInput(), refs, utils.DefaultMacroTargets, utils.NewGrader(utils.DefaultGradingConfig()))
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestCreateMealInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateMealInput)
	}{
		{"blank name", func(in *CreateMealInput) { in.Name = "  " }},
		{"bad meal type", func(in *CreateMealInput) { in.MealType = "brunch" }},
		{"zero date", func(in *CreateMealInput) { in.Date = time.Time{} }},
		{"no foods", func(in *CreateMealInput) { in.Foods = nil }},
		{"missing food id", func(in *CreateMealInput) { in.Foods[0].FoodID = "" }},
		{"quantity below one gram", func(in *CreateMealInput) { in.Foods[1].Quantity = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMealInput()
			tt.mutate(&in)
			assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
		})
	}

	assert.NoError(t, validMealInput().Validate())
}

func TestCreateMealInput_FoodIDs(t *testing.T) {
	in := validMealInput()
	in.Foods = append(in.Foods, MealFoodRequest{FoodID: "oats", Quantity: 10})
	assert.Equal(t, []string{"oats", "eggs"}, in.FoodIDs())
}

func TestPoorMealMessage(t *testing.T) {
	m := &models.Meal{Name: "Late fries"}
	r := utils.GradeResult{Grade: models.GradeD, Score: 31, Feedback: "Poor macro balance."}

	assert.Equal(t, "Late fries scored D (31/100). Poor macro balance.", poorMealMessage(m, r))
}

func TestCreateMealInput_DateForms(t *testing.T) {
	const body = `{"name":"Lunch","meal_type":"lunch","date":%q,"foods":[{"food_id":"oats","quantity":50}]}`

	var in CreateMealInput
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(body, "2026-05-20")), &in))
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.Local), in.Date)
	assert.Equal(t, "Lunch", in.Name)
	assert.Equal(t, []MealFoodRequest{{FoodID: "oats", Quantity: 50}}, in.Foods)

	in = CreateMealInput{}
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(body, "2026-05-20T08:15:00Z")), &in))
	assert.True(t, in.Date.Equal(time.Date(2026, 5, 20, 8, 15, 0, 0, time.UTC)))

	in = CreateMealInput{}
	err := json.Unmarshal([]byte(fmt.Sprintf(body, "20/05/2026")), &in)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "date must be YYYY-MM-DD or RFC 3339")

	in = CreateMealInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Lunch"}`), &in))
	assert.ErrorContains(t, in.Validate(), "date is required")
}
