package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meltforce/replog/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestParseExport verifies a well-formed export file decodes into log entries
// and that invalid entries are collected as rejections instead of failing the file.
func TestParseExport(t *testing.T) {
	data := []byte(`[
		{"exerciseName": "pushups", "category": "arms", "date": "2026-08-15", "reps": 20},
		{"exerciseName": "squats", "category": "thighs", "date": "2026-08-15T07:30:00Z", "count": 3},
		{"exerciseName": "", "category": "arms", "date": "2026-08-15", "reps": 5},
		{"exerciseName": "curls", "category": "shoulders", "date": "2026-08-15", "reps": 10},
		{"exerciseName": "plank", "category": "core", "date": "not-a-date", "reps": 1}
	]`)

	entries, rejected, err := ParseExport(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if len(rejected) != 3 {
		t.Errorf("got %d rejections, want 3: %v", len(rejected), rejected)
	}

	if entries[0].ExerciseName != "pushups" || entries[0].Reps != 20 {
		t.Errorf("entry 0 = %+v, want pushups with 20 reps", entries[0])
	}
	wantDate := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if !entries[0].Date.Equal(wantDate) {
		t.Errorf("entry 0 date = %v, want %v", entries[0].Date, wantDate)
	}
	if entries[1].Category != models.CategoryThighs || entries[1].Count != 3 {
		t.Errorf("entry 1 = %+v, want thighs with count 3", entries[1])
	}
}

// TestParseExportNegativeValues verifies negative reps and counts are clamped
// to zero, matching the API's create behavior.
func TestParseExportNegativeValues(t *testing.T) {
	data := []byte(`[{"exerciseName": "situps", "category": "core", "date": "2026-08-15", "reps": -10, "count": -2}]`)

	entries, rejected, err := ParseExport(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	if entries[0].Reps != 0 || entries[0].Count != 0 {
		t.Errorf("reps = %d, count = %d, want both 0", entries[0].Reps, entries[0].Count)
	}
}

// TestParseExportInvalidJSON verifies malformed JSON fails the whole file.
func TestParseExportInvalidJSON(t *testing.T) {
	if _, _, err := ParseExport([]byte(`{"not": "an array"}`)); err == nil {
		t.Error("expected error for non-array export")
	}
	if _, _, err := ParseExport([]byte(`[{]`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

// TestStateDBRoundTrip verifies the import state database records files and
// detects changed content via size/hash mismatch.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	done, err := state.IsImported("export-1.json", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh state reports file as imported")
	}

	if err := state.MarkImported("export-1.json", 100, "abc"); err != nil {
		t.Fatal(err)
	}

	done, err = state.IsImported("export-1.json", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}

	// Same path with different content must be re-imported.
	done, err = state.IsImported("export-1.json", 120, "def")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("changed file reported as already imported")
	}
}

// TestHashFile verifies file hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	writeFile(t, path, `[{"exerciseName":"pushups","category":"arms","date":"2026-08-15","reps":20}]`)

	h1, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("hash not stable: %q vs %q", h1, h2)
	}

	writeFile(t, path, `[]`)
	h3, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after content change")
	}
}
