package services

import (
	"math"
	"sort"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
)

const rankedMealCount = 5

// DateRange is inclusive on both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days is the range length rounded up to whole days.
func (r DateRange) Days() int {
	return int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
}

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// ResolveRange turns the request's period/date into a concrete range. A
// specific date wins over the period. firstMeal is only consulted for "all"
// and may be nil for users without meals. Unknown periods behave like "all".
func ResolveRange(period string, date *time.Time, now time.Time, firstMeal *time.Time) DateRange {
	if date != nil {
		d := date.In(now.Location())
		return DateRange{Start: utils.DayStart(d), End: utils.DayEnd(d)}
	}
	switch period {
	case PeriodWeek:
		return DateRange{Start: now.AddDate(0, 0, -7), End: now}
	case PeriodMonth:
		return DateRange{Start: now.AddDate(0, 0, -30), End: now}
	}
	if firstMeal != nil {
		return DateRange{Start: firstMeal.In(now.Location()), End: now}
	}
	return DateRange{Start: now.AddDate(0, 0, -30), End: now}
}

type AnalyticsSummary struct {
	TotalMeals            int           `json:"total_meals"`
	TotalCalories         int           `json:"total_calories"`
	AverageCaloriesPerDay int           `json:"average_calories_per_day"`
	TotalMacros           models.Macros `json:"total_macros"`
	AverageGradeScore     int           `json:"average_grade_score"`
	CurrentStreak         int           `json:"current_streak"`
	LongestStreak         int           `json:"longest_streak"`
}

type GradeDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
}

type MealTypeDistribution struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snack"`
}

type DailyBreakdown struct {
	Date         string        `json:"date"`
	Calories     int           `json:"calories"`
	Macros       models.Macros `json:"macros"`
	Meals        int           `json:"meals"`
	AverageGrade int           `json:"average_grade"`
}

type RankedMeal struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Date       time.Time    `json:"date"`
	Grade      models.Grade `json:"grade"`
	GradeScore int          `json:"grade_score"`
	Calories   int          `json:"calories"`
}

type ReportPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

type AnalyticsReport struct {
	Summary              AnalyticsSummary     `json:"summary"`
	GradeDistribution    GradeDistribution    `json:"grade_distribution"`
	MealTypeDistribution MealTypeDistribution `json:"meal_type_distribution"`
	DailyBreakdown       []DailyBreakdown     `json:"daily_breakdown"`
	BestMeals            []RankedMeal         `json:"best_meals"`
	WorstMeals           []RankedMeal         `json:"worst_meals"`
	Period               ReportPeriod         `json:"period"`
}

// BuildAnalyticsReport aggregates meals that fall in rng. loggedDays holds the
// dates of every meal the user ever logged and drives the streaks; when nil
// the meals themselves are used. Calendar days are taken in now's location.
// The result is always well formed, even for no meals.
func BuildAnalyticsReport(meals []models.Meal, rng DateRange, loggedDays []time.Time, now time.Time) *AnalyticsReport {
	loc := now.Location()

	sorted := make([]models.Meal, len(meals))
	copy(sorted, meals)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	report := &AnalyticsReport{
		DailyBreakdown: []DailyBreakdown{},
		BestMeals:      []RankedMeal{},
		WorstMeals:     []RankedMeal{},
		Period: ReportPeriod{
			StartDate: utils.DateKey(rng.Start, loc),
			EndDate:   utils.DateKey(rng.End, loc),
			Days:      rng.Days(),
		},
	}

	var (
		macros     []models.Macros
		scoreTotal int
		byDay      = map[string]*DailyBreakdown{}
		dayMacros  = map[string][]models.Macros{}
		dayScores  = map[string]int{}
		dayOrder   []string
	)
	for _, m := range sorted {
		report.Summary.TotalCalories += m.TotalCalories
		macros = append(macros, m.TotalMacros)
		scoreTotal += m.GradeScore

		switch m.Grade {
		case models.GradeA:
			report.GradeDistribution.A++
		case models.GradeB:
			report.GradeDistribution.B++
		case models.GradeC:
			report.GradeDistribution.C++
		case models.GradeD:
			report.GradeDistribution.D++
		}

		switch m.MealType {
		case models.MealBreakfast:
			report.MealTypeDistribution.Breakfast++
		case models.MealLunch:
			report.MealTypeDistribution.Lunch++
		case models.MealDinner:
			report.MealTypeDistribution.Dinner++
		case models.MealSnack:
			report.MealTypeDistribution.Snack++
		}

		key := utils.DateKey(m.Date, loc)
		day, ok := byDay[key]
		if !ok {
			day = &DailyBreakdown{Date: key}
			byDay[key] = day
			dayOrder = append(dayOrder, key)
		}
		day.Calories += m.TotalCalories
		day.Meals++
		dayMacros[key] = append(dayMacros[key], m.TotalMacros)
		dayScores[key] += m.GradeScore
	}

	n := len(sorted)
	report.Summary.TotalMeals = n
	report.Summary.TotalMacros = utils.SumMacros(macros...)
	if n > 0 {
		days := max(1, rng.Days())
		report.Summary.AverageCaloriesPerDay = int(math.Round(float64(report.Summary.TotalCalories) / float64(days)))
		report.Summary.AverageGradeScore = int(math.Round(float64(scoreTotal) / float64(n)))
	}

	sort.Strings(dayOrder)
	for _, key := range dayOrder {
		day := byDay[key]
		day.Macros = utils.SumMacros(dayMacros[key]...)
		day.AverageGrade = int(math.Round(float64(dayScores[key]) / float64(day.Meals)))
		report.DailyBreakdown = append(report.DailyBreakdown, *day)
	}

	report.BestMeals, report.WorstMeals = rankMeals(sorted)

	if loggedDays == nil {
		loggedDays = make([]time.Time, 0, n)
		for _, m := range sorted {
			loggedDays = append(loggedDays, m.Date)
		}
	}
	keys := dayKeySet(loggedDays, loc)
	report.Summary.CurrentStreak = CurrentStreak(keys, now)
	report.Summary.LongestStreak = LongestStreak(keys)

	return report
}

// rankMeals returns up to five best meals (highest score first) and up to
// five worst meals (lowest score first). With fewer than ten meals the two
// lists overlap.
func rankMeals(meals []models.Meal) (best, worst []RankedMeal) {
	byScore := make([]models.Meal, len(meals))
	copy(byScore, meals)
	sort.SliceStable(byScore, func(i, j int) bool { return byScore[i].GradeScore > byScore[j].GradeScore })

	k := min(rankedMealCount, len(byScore))
	best = make([]RankedMeal, 0, k)
	for _, m := range byScore[:k] {
		best = append(best, rankedMeal(m))
	}
	worst = make([]RankedMeal, 0, k)
	for i := len(byScore) - 1; i >= len(byScore)-k; i-- {
		worst = append(worst, rankedMeal(byScore[i]))
	}
	return best, worst
}

func rankedMeal(m models.Meal) RankedMeal {
	return RankedMeal{
		ID:         m.ID,
		Name:       m.Name,
		Date:       m.Date,
		Grade:      m.Grade,
		GradeScore: m.GradeScore,
		Calories:   m.TotalCalories,
	}
}

func dayKeySet(days []time.Time, loc *time.Location) map[string]struct{} {
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[utils.DateKey(d, loc)] = struct{}{}
	}
	return set
}

// CurrentStreak counts consecutive logged days ending today. A user who has
// not logged today has no current streak.
func CurrentStreak(days map[string]struct{}, now time.Time) int {
	streak := 0
	for {
		key := now.AddDate(0, 0, -streak).Format(utils.DateLayout)
		if _, ok := days[key]; !ok {
			return streak
		}
		streak++
	}
}

// LongestStreak finds the longest run of calendar-consecutive days.
func LongestStreak(days map[string]struct{}) int {
	if len(days) == 0 {
		return 0
	}
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	longest, run := 1, 1
	prev, _ := time.Parse(utils.DateLayout, keys[0])
	for _, k := range keys[1:] {
		cur, _ := time.Parse(utils.DateLayout, k)
		// keys parse as UTC midnights, so a one-day step is exactly 24h
		if cur.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		prev = cur
	}
	return longest
}
