package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FoodSource string

const (
	FoodSourceUser   FoodSource = "user"
	FoodSourceSystem FoodSource = "system"
)

// Food is a catalog entry with its per-serving macro profile. System foods
// have UserID 0 and are visible to everyone.
type Food struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      uint       `gorm:"index" json:"user_id"`
	Name        string     `gorm:"not null;index" json:"name"`
	Description string     `json:"description,omitempty"`
	ServingSize float64    `gorm:"not null" json:"serving_size"` // grams
	Calories    int        `json:"calories"`
	Macros      Macros     `gorm:"embedded" json:"macros"`
	IsPublic    bool       `gorm:"index" json:"is_public"`
	Category    string     `gorm:"index" json:"category,omitempty"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Source      FoodSource `gorm:"size:16;index" json:"source"`
	UsageCount  int        `json:"usage_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Source == "" {
		f.Source = FoodSourceUser
	}
	return nil
}

// VisibleTo reports whether userID may read this food.
func (f *Food) VisibleTo(userID uint) bool {
	return f.Source == FoodSourceSystem || f.UserID == userID || f.IsPublic
}

func (f *Food) Reference() FoodReference {
	return FoodReference{
		ID:          f.ID,
		Name:        f.Name,
		ServingSize: f.ServingSize,
		Macros:      f.Macros,
	}
}

// FoodReference is the resolved nutrition profile a meal line is scaled from.
type FoodReference struct {
	ID          string
	Name        string
	ServingSize float64
	Macros      Macros
}
