package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Meal is written once when logged. Totals and grade are frozen at that
// point and never recomputed from the catalog.
type Meal struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	MealType      MealType   `gorm:"size:16;index" json:"meal_type"`
	Date          time.Time  `gorm:"index;not null" json:"date"`
	Foods         []MealFood `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"foods"`
	TotalCalories int        `json:"total_calories"`
	TotalMacros   Macros     `gorm:"embedded;embeddedPrefix:total_" json:"total_macros"`
	Grade         Grade      `gorm:"size:1" json:"grade"`
	GradeScore    int        `json:"grade_score"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MealFood is the quantity-scaled snapshot of one food inside a meal.
type MealFood struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	MealID   string  `gorm:"size:36;index;not null" json:"-"`
	FoodID   string  `gorm:"size:36;not null" json:"food_id"`
	FoodName string  `json:"food_name"`
	Quantity float64 `json:"quantity"` // grams
	Calories int     `json:"calories"`
	Macros   Macros  `gorm:"embedded" json:"macros"`
}
