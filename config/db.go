package config

import (
	"fmt"

	"github.com/FlowDomain/NutriLog/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens postgres and migrates every model.
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.Meal{},
		&models.MealFood{},
		&models.DailyLog{},
		&models.Alert{},
		&models.UserDevice{},
	)
	if err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}
	return db, nil
}
