package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"gorm.io/gorm"
)

type MealService struct {
	db       *gorm.DB
	foods    *FoodService
	profiles *ProfileService
	daily    *DailyLogService
	alerts   *AlertBus
	events   EventPublisher
	grader   *utils.Grader
	log      *slog.Logger
	reports  ReportCache
}

func NewMealService(
	db *gorm.DB,
	foods *FoodService,
	profiles *ProfileService,
	daily *DailyLogService,
	alerts *AlertBus,
	events EventPublisher,
	grader *utils.Grader,
	log *slog.Logger,
) *MealService {
	return &MealService{
		db:       db,
		foods:    foods,
		profiles: profiles,
		daily:    daily,
		alerts:   alerts,
		events:   events,
		grader:   grader,
		log:      log,
	}
}

// UseReportCache makes meal changes drop the user's cached analytics reports.
func (s *MealService) UseReportCache(c ReportCache) {
	s.reports = c
}

func (s *MealService) invalidateReports(ctx context.Context, userID uint) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Invalidate(ctx, userID); err != nil {
		s.log.Warn("invalidate report cache", "user_id", userID, "error", err)
	}
}

// AddMeal resolves, grades and stores a meal, then refreshes the day's log
// and notifies the user. Side effects after the insert never fail the call.
func (s *MealService) AddMeal(ctx context.Context, userID uint, in CreateMealInput) (*models.Meal, utils.GradeResult, error) {
	if err := in.Validate(); err != nil {
		return nil, utils.GradeResult{}, err
	}

	ids := in.FoodIDs()
	refs, err := s.foods.References(ctx, userID, ids)
	if err != nil {
		return nil, utils.GradeResult{}, err
	}
	targets, calorieTarget, err := s.profiles.Targets(ctx, userID)
	if err != nil {
		return nil, utils.GradeResult{}, err
	}

	meal, result, err := BuildMeal(userID, in, refs, targets, s.grader)
	if err != nil {
		return nil, utils.GradeResult{}, err
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, utils.GradeResult{}, err
	}
	s.log.Info("meal logged",
		"user_id", userID, "meal_id", meal.ID, "grade", meal.Grade, "score", meal.GradeScore)

	if err := s.foods.IncrementUsage(ctx, ids); err != nil {
		s.log.Warn("increment food usage", "meal_id", meal.ID, "error", err)
	}
	if _, err := s.daily.Recompute(ctx, userID, meal.Date, calorieTarget); err != nil {
		s.log.Error("refresh daily log", "user_id", userID, "error", err)
	}
	s.invalidateReports(ctx, userID)
	if s.events != nil {
		s.events.Publish(userID, Event{Kind: EventMealLogged, Data: meal})
	}
	if meal.Grade == models.GradeD && s.alerts != nil {
		alert := &models.Alert{
			UserID:  userID,
			Type:    models.AlertWarning,
			Message: poorMealMessage(meal, result),
			MealID:  meal.ID,
		}
		if err := s.alerts.Emit(ctx, alert); err != nil {
			s.log.Error("emit poor meal alert", "meal_id", meal.ID, "error", err)
		}
	}
	return meal, result, nil
}

func poorMealMessage(m *models.Meal, r utils.GradeResult) string {
	return fmt.Sprintf("%s scored %s (%d/100). %s", m.Name, r.Grade, r.Score, r.Feedback)
}

// MealQuery narrows ListMeals. Date selects one calendar day and wins over
// Start/End; zero values are ignored.
type MealQuery struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

// ListMeals returns the user's meals, newest first.
func (s *MealService) ListMeals(ctx context.Context, userID uint, q MealQuery) ([]models.Meal, error) {
	tx := s.db.WithContext(ctx).Preload("Foods").Where("user_id = ?", userID)
	switch {
	case !q.Date.IsZero():
		tx = tx.Where("date BETWEEN ? AND ?", utils.DayStart(q.Date), utils.DayEnd(q.Date))
	default:
		if !q.Start.IsZero() {
			tx = tx.Where("date >= ?", utils.DayStart(q.Start))
		}
		if !q.End.IsZero() {
			tx = tx.Where("date <= ?", utils.DayEnd(q.End))
		}
	}

	meals := []models.Meal{}
	err := tx.Order("date DESC").Find(&meals).Error
	return meals, err
}

func (s *MealService) GetMeal(ctx context.Context, userID uint, id string) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).Preload("Foods").Where("id = ?", id).First(&meal).Error; err != nil {
		return nil, notFound(err, "meal")
	}
	if meal.UserID != userID {
		return nil, ErrForbidden
	}
	return &meal, nil
}

// DeleteMeal removes an owned meal with its lines and rebuilds that day's log.
func (s *MealService) DeleteMeal(ctx context.Context, userID uint, id string) error {
	meal, err := s.GetMeal(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meal{}, "id = ?", meal.ID).Error
	})
	if err != nil {
		return err
	}
	s.log.Info("meal deleted", "user_id", userID, "meal_id", meal.ID)

	_, calorieTarget, err := s.profiles.Targets(ctx, userID)
	if err != nil {
		s.log.Warn("load calorie target", "user_id", userID, "error", err)
	}
	if _, err := s.daily.Recompute(ctx, userID, meal.Date, calorieTarget); err != nil {
		s.log.Error("refresh daily log", "user_id", userID, "error", err)
	}
	s.invalidateReports(ctx, userID)
	if s.events != nil {
		s.events.Publish(userID, Event{Kind: EventMealDeleted, Data: map[string]string{"id": meal.ID}})
	}
	return nil
}
