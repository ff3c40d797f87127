package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int
	EntriesInserted int
	EntriesRejected int

	RejectedReasons []string
}

// exportEntry is one log entry in an export file. Export files are JSON
// arrays of these objects, one file per export run.
type exportEntry struct {
	ExerciseName string `json:"exerciseName"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	Reps         int    `json:"reps"`
	Count        int    `json:"count"`
}

// Importer reads JSON export files from a directory and inserts log entries
// into the database. A SQLite state database keeps track of files already
// imported so runs are idempotent at file granularity.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	userID int
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case every file is
// processed on every run.
func New(db *storage.DB, state *StateDB, userID int, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, userID: userID, log: log, dryRun: dryRun}
}

// Import processes all .json files under the given export directory.
func (imp *Importer) Import(ctx context.Context, exportDir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(exportDir, "*.json"))
	if err != nil {
		return &imp.stats, fmt.Errorf("listing %s: %w", exportDir, err)
	}

	for _, f := range files {
		if err := imp.importFile(ctx, exportDir, f); err != nil {
			return &imp.stats, fmt.Errorf("importing %s: %w", filepath.Base(f), err)
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, exportDir, path string) error {
	relPath, err := filepath.Rel(exportDir, path)
	if err != nil {
		relPath = filepath.Base(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		imp.log.Warn("stat failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	var hash string
	if imp.state != nil {
		hash, err = HashFile(path)
		if err != nil {
			imp.log.Warn("hash failed", "file", relPath, "error", err)
			imp.stats.FilesErrored++
			return nil
		}
		done, err := imp.state.IsImported(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", relPath, err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		imp.log.Warn("read failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	entries, rejected, err := ParseExport(data)
	if err != nil {
		imp.log.Warn("parse failed", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	imp.stats.EntriesRejected += len(rejected)
	imp.stats.RejectedReasons = append(imp.stats.RejectedReasons, rejected...)

	if len(entries) == 0 {
		imp.stats.FilesSkipped++
		return nil
	}

	imp.stats.FilesProcessed++
	if imp.dryRun {
		imp.stats.EntriesInserted += len(entries)
		return nil
	}

	for _, entry := range entries {
		entry.UserID = imp.userID
		if _, err := imp.db.InsertLog(ctx, entry); err != nil {
			return fmt.Errorf("inserting %q: %w", entry.ExerciseName, err)
		}
		imp.stats.EntriesInserted++
	}

	if imp.state != nil {
		if err := imp.state.MarkImported(relPath, info.Size(), hash); err != nil {
			return fmt.Errorf("marking %s imported: %w", relPath, err)
		}
	}
	return nil
}

// ParseExport decodes an export file into log entries. Entries that fail
// validation are reported as rejection reasons rather than aborting the file.
func ParseExport(data []byte) ([]models.LogEntry, []string, error) {
	var raw []exportEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decoding export: %w", err)
	}

	var entries []models.LogEntry
	var rejected []string
	for i, e := range raw {
		entry, err := convertEntry(e)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rejected, nil
}

func convertEntry(e exportEntry) (models.LogEntry, error) {
	if e.ExerciseName == "" {
		return models.LogEntry{}, fmt.Errorf("missing exerciseName")
	}
	category := models.Category(e.Category)
	if !category.Valid() {
		return models.LogEntry{}, fmt.Errorf("unknown category %q", e.Category)
	}
	if e.Date == "" {
		return models.LogEntry{}, fmt.Errorf("missing date")
	}

	date, err := time.Parse(time.RFC3339, e.Date)
	if err != nil {
		date, err = time.Parse("2006-01-02", e.Date)
		if err != nil {
			return models.LogEntry{}, fmt.Errorf("invalid date %q", e.Date)
		}
	}

	return models.LogEntry{
		ExerciseName: e.ExerciseName,
		Category:     category,
		Date:         date,
		Reps:         max(e.Reps, 0),
		Count:        max(e.Count, 0),
	}, nil
}
