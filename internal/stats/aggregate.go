package stats

import (
	"math"

	"github.com/meltforce/replog/internal/models"
)

// DailyTotals pairs the two quantities a log entry can carry.
type DailyTotals struct {
	Reps  int `json:"reps"`
	Count int `json:"count"`
}

// ExerciseStats is the derived per-exercise view for one stats request.
// It is recomputed on every query and never persisted.
type ExerciseStats struct {
	ExerciseName        string                 `json:"exerciseName"`
	DailyData           map[string]DailyTotals `json:"dailyData"`
	Totals              DailyTotals            `json:"totals"`
	LifetimeAverage     DailyTotals            `json:"lifetimeAverage"`
	DaysInPeriod        int                    `json:"daysInPeriod"`
	ExpectedFromAverage DailyTotals            `json:"expectedFromAverage"`
}

// AggregateExercises groups the period logs by exercise name and attaches a
// lifetime baseline computed from each exercise's complete history.
//
// The result preserves first-seen order from periodLogs (explicit index map,
// not map iteration). Exercises with history but no activity in the period
// are not included: aggregation is period-driven, history only supplies
// baselines for exercises that were active.
func AggregateExercises(periodLogs, allTimeLogs []models.LogEntry, daysInPeriod int) []ExerciseStats {
	grouped := make([]*ExerciseStats, 0)
	index := make(map[string]int)

	for _, l := range periodLogs {
		i, ok := index[l.ExerciseName]
		if !ok {
			i = len(grouped)
			index[l.ExerciseName] = i
			grouped = append(grouped, &ExerciseStats{
				ExerciseName: l.ExerciseName,
				DailyData:    make(map[string]DailyTotals),
				DaysInPeriod: daysInPeriod,
			})
		}
		ex := grouped[i]

		day := DayKey(l.Date)
		dt := ex.DailyData[day]
		dt.Reps += l.Reps
		dt.Count += l.Count
		ex.DailyData[day] = dt

		ex.Totals.Reps += l.Reps
		ex.Totals.Count += l.Count
	}

	for _, ex := range grouped {
		history := filterByExercise(allTimeLogs, ex.ExerciseName)
		if len(history) == 0 {
			// Period logs are a subset of all-time logs, so this should not
			// happen; lifetime figures stay 0.
			continue
		}
		ex.LifetimeAverage = lifetimeAverage(history)
		ex.ExpectedFromAverage = DailyTotals{
			Reps:  ex.LifetimeAverage.Reps * daysInPeriod,
			Count: ex.LifetimeAverage.Count * daysInPeriod,
		}
	}

	out := make([]ExerciseStats, len(grouped))
	for i, ex := range grouped {
		out[i] = *ex
	}
	return out
}

// lifetimeAverage computes the per-day average over the inclusive day span
// between the earliest and latest entry in history. A zero-length span
// yields zero averages rather than an error.
func lifetimeAverage(history []models.LogEntry) DailyTotals {
	if len(history) == 0 {
		return DailyTotals{}
	}

	first, last := Day(history[0].Date), Day(history[0].Date)
	var reps, count int
	for _, l := range history {
		d := Day(l.Date)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
		reps += l.Reps
		count += l.Count
	}

	span := spanDays(first, last)
	if span <= 0 {
		return DailyTotals{}
	}
	return DailyTotals{
		Reps:  roundDiv(reps, span),
		Count: roundDiv(count, span),
	}
}

// roundDiv divides total by days and rounds to the nearest integer, ties
// away from zero. This is the single rounding convention for all averages.
func roundDiv(total, days int) int {
	return int(math.Round(float64(total) / float64(days)))
}

func filterByExercise(logs []models.LogEntry, name string) []models.LogEntry {
	var out []models.LogEntry
	for _, l := range logs {
		if l.ExerciseName == name {
			out = append(out, l)
		}
	}
	return out
}
