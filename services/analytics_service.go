package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"gorm.io/gorm"
)

// TextMailer sends a plain-text email.
type TextMailer interface {
	SendText(ctx context.Context, to, subject, body string) error
}

type AnalyticsService struct {
	db     *gorm.DB
	daily  *DailyLogService
	mailer TextMailer
	cache  ReportCache
	now    func() time.Time
}

// NewAnalyticsService accepts a nil mailer; EmailReport then reports ErrUnavailable.
func NewAnalyticsService(db *gorm.DB, daily *DailyLogService, mailer TextMailer) *AnalyticsService {
	return &AnalyticsService{db: db, daily: daily, mailer: mailer, now: time.Now}
}

// UseCache serves repeated report requests from c.
func (s *AnalyticsService) UseCache(c ReportCache) {
	s.cache = c
}

// Report builds the analytics report for period, or for the single day date
// when it is set.
func (s *AnalyticsService) Report(ctx context.Context, userID uint, period string, date *time.Time) (*AnalyticsReport, error) {
	now := s.now()

	// the key is taken before any meal is read; see ReportCache
	var cacheKey string
	if s.cache != nil {
		if key, err := s.cache.Key(ctx, userID, reportVariant(period, date, now)); err == nil {
			if cached, ok := s.cache.Get(ctx, key); ok {
				return cached, nil
			}
			cacheKey = key
		}
	}

	var firstMeal *time.Time
	if date == nil && period != PeriodWeek && period != PeriodMonth {
		first, err := s.firstMealDate(ctx, userID)
		if err != nil {
			return nil, err
		}
		firstMeal = first
	}
	rng := ResolveRange(period, date, now, firstMeal)

	var meals []models.Meal
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, rng.Start, rng.End).
		Order("date ASC").
		Find(&meals).Error; err != nil {
		return nil, err
	}

	logged, err := s.daily.LoggedDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := BuildAnalyticsReport(meals, rng, logged, now)

	if cacheKey != "" {
		// a failed write only costs the next request a rebuild
		_ = s.cache.Set(ctx, cacheKey, report)
	}
	return report, nil
}

func (s *AnalyticsService) firstMealDate(ctx context.Context, userID uint) (*time.Time, error) {
	var dates []time.Time
	if err := s.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("user_id = ?", userID).
		Order("date ASC").
		Limit(1).
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}
	return &dates[0], nil
}

// EmailReport mails the summary section of the period's report to the user.
func (s *AnalyticsService) EmailReport(ctx context.Context, userID uint, period string) error {
	if s.mailer == nil {
		return fmt.Errorf("email report: %w", ErrUnavailable)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return notFound(err, "user")
	}
	report, err := s.Report(ctx, userID, period, nil)
	if err != nil {
		return err
	}

	subject, body := FormatReportEmail(user.Name, report)
	return s.mailer.SendText(ctx, user.Email, subject, body)
}

// FormatReportEmail renders the plain-text report email.
func FormatReportEmail(name string, r *AnalyticsReport) (subject, body string) {
	subject = fmt.Sprintf("Your nutrition report: %s to %s", r.Period.StartDate, r.Period.EndDate)

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", name)
	}
	sm := r.Summary
	fmt.Fprintf(&b, "Here is your summary for %s to %s (%d days).\n\n", r.Period.StartDate, r.Period.EndDate, r.Period.Days)
	fmt.Fprintf(&b, "Meals logged: %d\n", sm.TotalMeals)
	fmt.Fprintf(&b, "Total calories: %d kcal\n", sm.TotalCalories)
	fmt.Fprintf(&b, "Average per day: %d kcal\n", sm.AverageCaloriesPerDay)
	fmt.Fprintf(&b, "Macros: %.1fg carbs, %.1fg protein, %.1fg fats\n",
		sm.TotalMacros.Carbs, sm.TotalMacros.Protein, sm.TotalMacros.Fats)
	fmt.Fprintf(&b, "Average grade score: %d/100\n", sm.AverageGradeScore)
	fmt.Fprintf(&b, "Grades: A %d, B %d, C %d, D %d\n",
		r.GradeDistribution.A, r.GradeDistribution.B, r.GradeDistribution.C, r.GradeDistribution.D)
	fmt.Fprintf(&b, "Current streak: %d days (longest %d)\n", sm.CurrentStreak, sm.LongestStreak)

	if len(r.BestMeals) > 0 {
		best := r.BestMeals[0]
		fmt.Fprintf(&b, "\nBest meal: %s (%s, %d/100)\n", best.Name, best.Grade, best.GradeScore)
	}
	return subject, b.String()
}
