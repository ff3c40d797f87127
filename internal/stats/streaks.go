package stats

import (
	"sort"
	"time"

	"github.com/meltforce/replog/internal/models"
)

// Streaks holds consecutive-day activity runs.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// CalcStreaks computes the current and longest consecutive-day streaks from
// the user's complete log history. Streaks are account-wide: any log entry
// marks its day active, regardless of exercise or category. Duplicate
// entries on one day collapse to a single active day before counting.
//
// The current streak only exists when the most recent active day is today or
// yesterday; otherwise it is 0.
func CalcStreaks(logs []models.LogEntry, today time.Time) Streaks {
	if len(logs) == 0 {
		return Streaks{}
	}

	seen := make(map[time.Time]struct{})
	days := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		d := Day(l.Date)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			days = append(days, d)
		}
	}
	// Most recent first.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	var s Streaks

	// Current streak: anchor at today (or yesterday, when today has no log
	// yet) and walk the active-day list backward one calendar day at a time.
	// The first day strictly before the walk position ends the run.
	todayDay := Day(today)
	anchor := time.Time{}
	if _, ok := seen[todayDay]; ok {
		anchor = todayDay
	} else if y := todayDay.AddDate(0, 0, -1); hasDay(seen, y) {
		anchor = y
	}
	if !anchor.IsZero() {
		check := anchor
		for _, d := range days {
			if d.Equal(check) {
				s.Current++
				check = check.AddDate(0, 0, -1)
			} else if d.Before(check) {
				break
			}
		}
	}

	// Longest streak: every active day is a candidate run start; extend while
	// each next day in the descending list is exactly one day earlier. An
	// isolated day is a run of 1.
	for i := range days {
		run := 1
		for j := i + 1; j < len(days); j++ {
			if days[j-1].Sub(days[j]) == 24*time.Hour {
				run++
			} else {
				break
			}
		}
		if run > s.Longest {
			s.Longest = run
		}
	}

	return s
}

func hasDay(set map[time.Time]struct{}, d time.Time) bool {
	_, ok := set[d]
	return ok
}
