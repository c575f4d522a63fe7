package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite database with every model the services
// touch migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "nutrilog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Food{},
		&models.Meal{},
		&models.MealFood{},
		&models.DailyLog{},
		&models.Alert{},
	))
	return db
}

type serviceFixture struct {
	db       *gorm.DB
	user     models.User
	other    models.User
	foods    *FoodService
	profiles *ProfileService
	daily    *DailyLogService
	alerts   *AlertBus
	meals    *MealService
}

// newServiceFixture wires the meal pipeline on SQLite with two users, two
// system foods (oats, butter) and one food owned by the first user (eggs).
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := newTestDB(t)
	log := discardLogger()
	grader := utils.NewGrader(utils.DefaultGradingConfig())

	f := &serviceFixture{
		db:    db,
		user:  models.User{Email: "asha@example.com", Password: "x", Name: "Asha"},
		other: models.User{Email: "ben@example.com", Password: "x", Name: "Ben"},
	}
	require.NoError(t, db.Create(&f.user).Error)
	require.NoError(t, db.Create(&f.other).Error)
	require.NoError(t, db.Create(&[]models.Food{
		{ID: "oats", Name: "Rolled oats", ServingSize: 100, Source: models.FoodSourceSystem,
			Macros: models.Macros{Carbs: 66, Protein: 17, Fats: 7}},
		{ID: "butter", Name: "Butter", ServingSize: 100, Source: models.FoodSourceSystem,
			Macros: models.Macros{Carbs: 0.1, Protein: 0.9, Fats: 81}},
		{ID: "eggs", Name: "Boiled egg", ServingSize: 50, UserID: f.user.ID,
			Macros: models.Macros{Carbs: 0.6, Protein: 6.3, Fats: 5.3}},
	}).Error)

	f.foods = NewFoodService(db, nil)
	f.profiles = NewProfileService(db, nil, utils.DefaultMacroTargets, log)
	f.daily = NewDailyLogService(db, grader)
	f.alerts = NewAlertBus(db, nil, nil, log)
	f.meals = NewMealService(db, f.foods, f.profiles, f.daily, f.alerts, NewRealtimeHub(log), grader, log)
	return f
}

func localDay(day, hour int) time.Time {
	return time.Date(2026, 5, day, hour, 0, 0, 0, time.Local)
}

// breakfast is oats 50g + eggs 100g: 349 kcal.
func breakfast(at time.Time) CreateMealInput {
	return CreateMealInput{
		Name:     "Breakfast bowl",
		MealType: models.MealBreakfast,
		Date:     at,
		Foods:    []MealFoodRequest{{FoodID: "oats", Quantity: 50}, {FoodID: "eggs", Quantity: 100}},
	}
}

// buttery is butter 20g: 147 kcal, almost all fat.
func buttery(at time.Time) CreateMealInput {
	return CreateMealInput{
		Name:     "Butter pat",
		MealType: models.MealSnack,
		Date:     at,
		Foods:    []MealFoodRequest{{FoodID: "butter", Quantity: 20}},
	}
}

func (f *serviceFixture) addMeal(t *testing.T, userID uint, in CreateMealInput) *models.Meal {
	t.Helper()
	m, _, err := f.meals.AddMeal(context.Background(), userID, in)
	require.NoError(t, err)
	return m
}
