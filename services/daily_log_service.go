package services

import (
	"context"
	"math"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"gorm.io/gorm"
)

// calorieGoalTolerance is the fraction of the target a day may miss by and
// still count as on goal.
const calorieGoalTolerance = 0.10

type DailyLogService struct {
	db     *gorm.DB
	grader *utils.Grader
}

func NewDailyLogService(db *gorm.DB, grader *utils.Grader) *DailyLogService {
	return &DailyLogService{db: db, grader: grader}
}

// SummarizeDay folds one day's meals into a DailyLog row. day is normalized
// to midnight in its own location.
func SummarizeDay(userID uint, day time.Time, meals []models.Meal, calorieTarget *int, grader *utils.Grader) models.DailyLog {
	log := models.DailyLog{
		UserID:        userID,
		Date:          utils.DayStart(day),
		MealCount:     len(meals),
		CalorieTarget: calorieTarget,
	}

	macros := make([]models.Macros, 0, len(meals))
	scoreSum := 0
	for _, m := range meals {
		log.TotalCalories += m.TotalCalories
		macros = append(macros, m.TotalMacros)
		scoreSum += m.GradeScore
	}
	log.TotalMacros = utils.SumMacros(macros...)

	if len(meals) > 0 {
		avg := float64(scoreSum) / float64(len(meals))
		log.AverageGradeScore = int(math.Round(avg))
		log.AverageGrade = grader.LetterFor(avg)
	}

	if calorieTarget != nil && *calorieTarget > 0 {
		target := float64(*calorieTarget)
		met := math.Abs(float64(log.TotalCalories)-target) <= target*calorieGoalTolerance
		log.MetCalorieGoal = &met
	}
	return log
}

// Recompute rebuilds the user's log for the calendar day containing day. A day
// left without meals loses its row.
func (s *DailyLogService) Recompute(ctx context.Context, userID uint, day time.Time, calorieTarget *int) (*models.DailyLog, error) {
	day = day.In(time.Local)
	start, end := utils.DayStart(day), utils.DayEnd(day)

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Find(&meals).Error; err != nil {
		return nil, err
	}

	if len(meals) == 0 {
		err := s.db.WithContext(ctx).
			Unscoped().
			Where("user_id = ? AND date = ?", userID, start).
			Delete(&models.DailyLog{}).Error
		return nil, err
	}

	summary := SummarizeDay(userID, start, meals, calorieTarget, s.grader)

	// struct conditions are copied onto the row when it has to be created
	row := models.DailyLog{UserID: userID, Date: start}
	err := s.db.WithContext(ctx).
		Where(models.DailyLog{UserID: userID, Date: start}).
		Assign(map[string]any{
			"total_calories":      summary.TotalCalories,
			"total_carbs":         summary.TotalMacros.Carbs,
			"total_protein":       summary.TotalMacros.Protein,
			"total_fats":          summary.TotalMacros.Fats,
			"meal_count":          summary.MealCount,
			"average_grade_score": summary.AverageGradeScore,
			"average_grade":       summary.AverageGrade,
			"calorie_target":      summary.CalorieTarget,
			"met_calorie_goal":    summary.MetCalorieGoal,
		}).
		FirstOrCreate(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns logs between start and end (inclusive calendar days), oldest
// first. Zero bounds are open.
func (s *DailyLogService) List(ctx context.Context, userID uint, start, end time.Time) ([]models.DailyLog, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !start.IsZero() {
		q = q.Where("date >= ?", utils.DayStart(start))
	}
	if !end.IsZero() {
		q = q.Where("date <= ?", utils.DayEnd(end))
	}

	logs := []models.DailyLog{}
	err := q.Order("date ASC").Find(&logs).Error
	return logs, err
}

// LoggedDays returns every calendar day the user logged a meal on, oldest
// first. It reads one row per day rather than one per meal.
func (s *DailyLogService) LoggedDays(ctx context.Context, userID uint) ([]time.Time, error) {
	var days []time.Time
	err := s.db.WithContext(ctx).
		Model(&models.DailyLog{}).
		Where("user_id = ? AND meal_count > 0", userID).
		Order("date ASC").
		Pluck("date", &days).Error
	return days, err
}
