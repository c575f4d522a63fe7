package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyticsOverFixture(f *serviceFixture, now time.Time) *AnalyticsService {
	svc := NewAnalyticsService(f.db, f.daily, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func TestAnalyticsService_ReportOverStoredMeals(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	uid := f.user.ID

	f.addMeal(t, uid, breakfast(time.Date(2026, 4, 1, 8, 0, 0, 0, time.Local)))
	for _, d := range []int{18, 19, 20} {
		f.addMeal(t, uid, breakfast(localDay(d, 8)))
	}
	f.addMeal(t, uid, buttery(localDay(20, 12)))
	f.addMeal(t, f.other.ID, buttery(localDay(20, 12)))

	svc := newAnalyticsOverFixture(f, localDay(20, 18))

	week, err := svc.Report(ctx, uid, PeriodWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, week.Summary.TotalMeals)
	assert.Equal(t, 3*349+147, week.Summary.TotalCalories)
	assert.Equal(t, 3, week.Summary.CurrentStreak)
	assert.Equal(t, 3, week.Summary.LongestStreak)
	assert.Equal(t, 1, week.GradeDistribution.D)
	assert.Equal(t, 1, week.MealTypeDistribution.Snack)
	require.Len(t, week.DailyBreakdown, 3)
	assert.Equal(t, "2026-05-20", week.DailyBreakdown[2].Date)
	assert.Equal(t, 2, week.DailyBreakdown[2].Meals)

	all, err := svc.Report(ctx, uid, PeriodAll, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, all.Summary.TotalMeals)
	assert.Equal(t, "2026-04-01", all.Period.StartDate)

	day := localDay(19, 0)
	single, err := svc.Report(ctx, uid, PeriodWeek, &day)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Summary.TotalMeals)
	assert.Equal(t, 349, single.Summary.TotalCalories)
}

func TestAnalyticsService_CacheDroppedOnMealChange(t *testing.T) {
	f := newServiceFixture(t)
	_, client := setupTestRedis(t)
	cache := NewRedisReportCache(client)
	ctx := context.Background()
	uid := f.user.ID

	svc := newAnalyticsOverFixture(f, localDay(20, 18))
	svc.UseCache(cache)
	f.meals.UseReportCache(cache)

	f.addMeal(t, uid, breakfast(localDay(20, 8)))
	before, err := svc.Report(ctx, uid, PeriodWeek, nil)
	require.NoError(t, err)
	require.Equal(t, 1, before.Summary.TotalMeals)

	f.addMeal(t, uid, buttery(localDay(20, 12)))
	after, err := svc.Report(ctx, uid, PeriodWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Summary.TotalMeals, "logging a meal must not leave a stale report")

	again, err := svc.Report(ctx, uid, PeriodWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, after.Summary, again.Summary)
	assert.Equal(t, after.DailyBreakdown, again.DailyBreakdown)
}
