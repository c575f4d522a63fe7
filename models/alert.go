package models

import "time"

const (
	AlertWarning = "warning"
	AlertInfo    = "info"
)

type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Type      string    `gorm:"size:20" json:"type"` // "warning" | "info"
	Message   string    `gorm:"type:text" json:"message"`
	MealID    string    `gorm:"size:36" json:"meal_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
