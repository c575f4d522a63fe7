package models

import (
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalMaintain   Goal = "maintain"
	GoalGainWeight Goal = "gain_weight"
	GoalGainMuscle Goal = "gain_muscle"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalMaintain, GoalGainWeight, GoalGainMuscle:
		return true
	}
	return false
}

// User is the account plus its biometric profile. Every profile field is
// optional; a nil pointer means the user never filled it in.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`

	Age                *int           `json:"age,omitempty"`
	Gender             *Gender        `gorm:"size:16" json:"gender,omitempty"`
	Height             *float64       `json:"height,omitempty"` // cm
	Weight             *float64       `json:"weight,omitempty"` // kg
	ActivityLevel      *ActivityLevel `gorm:"size:16" json:"activity_level,omitempty"`
	Goal               *Goal          `gorm:"size:16" json:"goal,omitempty"`
	DailyCalorieTarget *int           `json:"daily_calorie_target,omitempty"`
	MacroTargets       *MacroTargets  `gorm:"serializer:json" json:"macro_targets,omitempty"`
	ProfilePicture     string         `json:"profile_picture,omitempty"`
}
