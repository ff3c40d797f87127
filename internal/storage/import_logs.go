package storage

import (
	"context"
	"fmt"
	"time"
)

// ImportResult summarizes a bulk import request.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportLog is an audit record of a single import operation.
type ImportLog struct {
	ID           int64     `json:"id"`
	UserID       int       `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	Received     int       `json:"received"`
	Imported     int       `json:"imported"`
	DurationMs   int       `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}

// InsertImportLog creates a new import audit record and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (user_id, source, received, imported, duration_ms, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		log.UserID, log.Source, log.Received, log.Imported, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// QueryImportLogs returns the most recent import audit records for a user.
func (db *DB) QueryImportLogs(ctx context.Context, userID, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, source, received, imported, duration_ms, error_message
		 FROM import_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.Source, &l.Received,
			&l.Imported, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
