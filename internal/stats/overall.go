package stats

import (
	"math"
	"time"

	"github.com/meltforce/replog/internal/models"
)

// OverallStats is the account-wide summary for one stats request.
type OverallStats struct {
	CurrentStreak     int         `json:"currentStreak"`
	LongestStreak     int         `json:"longestStreak"`
	TotalWorkoutDays  int         `json:"totalWorkoutDays"`
	TotalExercises    int         `json:"totalExercises"`
	PeriodTotal       DailyTotals `json:"periodTotal"`
	LifetimeAverage   DailyTotals `json:"lifetimeAverage"`
	ComparisonPercent int         `json:"comparisonPercent"`
}

// ComposeOverall builds the whole-account summary. periodLogs and
// allTimeLogs carry the request's category filter; allLogs is the complete,
// unfiltered history, because streaks are never scoped to a category or
// exercise.
//
// ComparisonPercent folds reps and count into one scalar before comparing
// actual against expected. The two units are summed without normalization;
// that conflation is inherited behavior that downstream consumers depend on,
// not something to correct here.
func ComposeOverall(periodLogs, allTimeLogs, allLogs []models.LogEntry, daysInPeriod int, today time.Time) OverallStats {
	streaks := CalcStreaks(allLogs, today)

	o := OverallStats{
		CurrentStreak: streaks.Current,
		LongestStreak: streaks.Longest,
	}

	days := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, l := range periodLogs {
		o.PeriodTotal.Reps += l.Reps
		o.PeriodTotal.Count += l.Count
		days[DayKey(l.Date)] = struct{}{}
		names[l.ExerciseName] = struct{}{}
	}
	o.TotalWorkoutDays = len(days)
	o.TotalExercises = len(names)

	o.LifetimeAverage = lifetimeAverage(allTimeLogs)

	expected := (o.LifetimeAverage.Reps + o.LifetimeAverage.Count) * daysInPeriod
	actual := o.PeriodTotal.Reps + o.PeriodTotal.Count
	if expected > 0 {
		o.ComparisonPercent = int(math.Round(float64(actual-expected) / float64(expected) * 100))
	}

	return o
}
