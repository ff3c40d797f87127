package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/replog/internal/models"
)

// InsertExercise inserts an exercise and returns it with its generated ID.
func (db *DB) InsertExercise(ctx context.Context, ex models.Exercise) (*models.Exercise, error) {
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	var out models.Exercise
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, user_id, name, category)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, user_id, name, category, created_at`,
		ex.ID, ex.UserID, ex.Name, ex.Category,
	).Scan(&out.ID, &out.UserID, &out.Name, &out.Category, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &out, nil
}

// QueryExercises retrieves a user's exercises, newest first, optionally
// narrowed to one category.
func (db *DB) QueryExercises(ctx context.Context, userID int, category models.Category) ([]models.Exercise, error) {
	query := `SELECT id, user_id, name, category, created_at FROM exercises WHERE user_id = $1`
	args := []any{userID}
	if category != "" {
		args = append(args, category)
		query += " AND category = $2"
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Name, &ex.Category, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteExercise removes a user's exercise. Existing log entries keep their
// denormalized exercise name, so history and stats are unaffected.
func (db *DB) DeleteExercise(ctx context.Context, userID int, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	return nil
}
