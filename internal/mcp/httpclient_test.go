package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/stats"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func testEntry(name string, category models.Category, date time.Time, reps int) models.LogEntry {
	return models.LogEntry{
		ID:           uuid.New(),
		UserID:       1,
		ExerciseName: name,
		Category:     category,
		Date:         date,
		Reps:         reps,
	}
}

// TestQueryLogs verifies the HTTP client sends the category filter and
// correctly parses the JSON array response.
func TestQueryLogs(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/logs": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("category"); got != "arms" {
				t.Errorf("category=%q, want arms", got)
			}
			writeTestJSON(t, w, []models.LogEntry{
				testEntry("pushups", models.CategoryArms, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 20),
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	logs, err := client.QueryLogs(context.Background(), 1, stats.LogQuery{Category: models.CategoryArms})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	if logs[0].ExerciseName != "pushups" {
		t.Errorf("exerciseName=%q, want pushups", logs[0].ExerciseName)
	}
}

// TestQueryLogsWindow verifies the client applies the query window to the
// response, since the list endpoint has no range parameters.
func TestQueryLogsWindow(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/logs": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.LogEntry{
				testEntry("pushups", models.CategoryArms, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 20),
				testEntry("pushups", models.CategoryArms, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 15),
				testEntry("pushups", models.CategoryArms, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), 10),
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	q := stats.LogQuery{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), // exclusive
	}
	logs, err := client.QueryLogs(context.Background(), 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	if logs[0].Reps != 15 {
		t.Errorf("reps=%d, want 15", logs[0].Reps)
	}
}

// TestQueryExercises verifies the exercises endpoint parsing.
func TestQueryExercises(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.Exercise{
				{ID: uuid.New(), UserID: 1, Name: "squats", Category: models.CategoryThighs},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	exercises, err := client.QueryExercises(context.Background(), 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 {
		t.Fatalf("got %d exercises, want 1", len(exercises))
	}
	if exercises[0].Name != "squats" {
		t.Errorf("name=%q, want squats", exercises[0].Name)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-200 responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/logs": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.QueryLogs(context.Background(), 1, stats.LogQuery{})
	if err != nil {
		return
	}
	t.Fatal("expected error for 500 response")
}
