package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/stats"
)

// Compile-time check: *DB satisfies the stats engine's Store.
var _ stats.Store = (*DB)(nil)

const logColumns = `id, user_id, exercise_id, exercise_name, category, date, reps, count, created_at`

// InsertLog inserts a log entry and returns it with its generated ID and
// creation timestamp.
func (db *DB) InsertLog(ctx context.Context, entry models.LogEntry) (*models.LogEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO logs (id, user_id, exercise_id, exercise_name, category, date, reps, count)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING `+logColumns,
		entry.ID, entry.UserID, entry.ExerciseID, entry.ExerciseName,
		entry.Category, entry.Date, entry.Reps, entry.Count)

	inserted, err := scanLog(row)
	if err != nil {
		return nil, fmt.Errorf("inserting log: %w", err)
	}
	return inserted, nil
}

// QueryLogs retrieves a user's log entries, optionally narrowed by date
// range and category. This is the single query capability the stats engine
// consumes. Zero Start/End mean unbounded; End is exclusive.
//
// Order is date descending with created_at as tiebreak, matching the list
// endpoints; the stats engine treats the order as unspecified.
func (db *DB) QueryLogs(ctx context.Context, userID int, q stats.LogQuery) ([]models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE user_id = $1`
	args := []any{userID}

	if !q.Start.IsZero() {
		args = append(args, q.Start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !q.End.IsZero() {
		args = append(args, q.End)
		query += fmt.Sprintf(" AND date < $%d", len(args))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying logs: %w", err)
	}
	defer rows.Close()

	return scanLogRows(rows)
}

// QueryLogsByDay retrieves a user's log entries for one calendar day,
// optionally narrowed by category.
func (db *DB) QueryLogsByDay(ctx context.Context, userID int, day time.Time, category models.Category) ([]models.LogEntry, error) {
	start := stats.Day(day)
	return db.QueryLogs(ctx, userID, stats.LogQuery{
		Start:    start,
		End:      start.AddDate(0, 0, 1),
		Category: category,
	})
}

// UpdateLog sets new reps/count values on a user's log entry. Returns the
// updated entry, or pgx.ErrNoRows if the entry does not exist or belongs to
// another user.
func (db *DB) UpdateLog(ctx context.Context, userID int, id uuid.UUID, reps, count int) (*models.LogEntry, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE logs SET reps = $1, count = $2
		 WHERE id = $3 AND user_id = $4
		 RETURNING `+logColumns,
		reps, count, id, userID)

	updated, err := scanLog(row)
	if err != nil {
		return nil, fmt.Errorf("updating log: %w", err)
	}
	return updated, nil
}

// DeleteLog removes a user's log entry. Deleting a missing entry is not an
// error; the operation is idempotent.
func (db *DB) DeleteLog(ctx context.Context, userID int, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM logs WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("deleting log: %w", err)
	}
	return nil
}

func scanLog(row pgx.Row) (*models.LogEntry, error) {
	var l models.LogEntry
	if err := row.Scan(&l.ID, &l.UserID, &l.ExerciseID, &l.ExerciseName,
		&l.Category, &l.Date, &l.Reps, &l.Count, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanLogRows(rows pgx.Rows) ([]models.LogEntry, error) {
	var out []models.LogEntry
	for rows.Next() {
		var l models.LogEntry
		if err := rows.Scan(&l.ID, &l.UserID, &l.ExerciseID, &l.ExerciseName,
			&l.Category, &l.Date, &l.Reps, &l.Count, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
