package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/meltforce/replog/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultPeriodDays is the trailing window length used when the caller
// supplies no (or an invalid) period.
const DefaultPeriodDays = 7

// LogQuery narrows a store lookup. Zero Start/End mean unbounded in that
// direction; an empty Category matches all categories. End is exclusive.
type LogQuery struct {
	Start    time.Time
	End      time.Time
	Category models.Category
}

// Store is the single capability the engine needs from its collaborator.
// Result order is unspecified; the engine does its own grouping.
type Store interface {
	QueryLogs(ctx context.Context, userID int, q LogQuery) ([]models.LogEntry, error)
}

// Report is the combined result of one stats computation. It serializes
// directly to the wire shape.
type Report struct {
	Exercises []ExerciseStats `json:"exercises"`
	Overall   OverallStats    `json:"overall"`
}

// Engine orchestrates the stats computation: fetch snapshots from the store,
// aggregate per exercise, compose the overall summary. It holds no mutable
// state, so concurrent Compute calls are safe.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine creates an Engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Compute builds the per-exercise and overall stats for the trailing window
// of days ending today, inclusive. Non-positive days falls back to
// DefaultPeriodDays. The three store queries have no ordering dependency and
// run concurrently; any fetch failure aborts the whole computation.
func (e *Engine) Compute(ctx context.Context, userID int, days int, category models.Category) (*Report, error) {
	if days <= 0 {
		days = DefaultPeriodDays
	}

	today := Day(e.now())
	start := today.AddDate(0, 0, -(days - 1))
	end := today.AddDate(0, 0, 1) // exclusive: through end of today

	var periodLogs, allTimeLogs, allLogs []models.LogEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		periodLogs, err = e.store.QueryLogs(gctx, userID, LogQuery{Start: start, End: end, Category: category})
		if err != nil {
			return fmt.Errorf("fetching period logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		allTimeLogs, err = e.store.QueryLogs(gctx, userID, LogQuery{Category: category})
		if err != nil {
			return fmt.Errorf("fetching all-time logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Streaks are category-unfiltered by definition.
		var err error
		allLogs, err = e.store.QueryLogs(gctx, userID, LogQuery{})
		if err != nil {
			return fmt.Errorf("fetching streak logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{
		Exercises: AggregateExercises(periodLogs, allTimeLogs, days),
		Overall:   ComposeOverall(periodLogs, allTimeLogs, allLogs, days, today),
	}, nil
}
