package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyLog caches one user's totals for one calendar day. It is rebuilt from
// that day's meals whenever a meal is logged or deleted.
type DailyLog struct {
	gorm.Model
	UserID uint      `gorm:"uniqueIndex:idx_daily_log_user_date;not null" json:"user_id"`
	Date   time.Time `gorm:"uniqueIndex:idx_daily_log_user_date;not null" json:"date"` // local midnight

	TotalCalories     int    `json:"total_calories"`
	TotalMacros       Macros `gorm:"embedded;embeddedPrefix:total_" json:"total_macros"`
	MealCount         int    `json:"meal_count"`
	AverageGradeScore int    `json:"average_grade_score"`
	AverageGrade      Grade  `gorm:"size:1" json:"average_grade"`

	CalorieTarget  *int  `json:"calorie_target,omitempty"`
	MetCalorieGoal *bool `json:"met_calorie_goal,omitempty"`
}
