package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/replog/internal/models"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}

// TestHandleStatsInvalidCategory verifies that an unknown category is rejected
// before any queries run.
func TestHandleStatsInvalidCategory(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?category=shoulders", nil)
	rec := httptest.NewRecorder()

	s.handleStats(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// TestBuildLogEntry verifies payload validation for log creation: required
// fields, category checking, and clamping of negative values.
func TestBuildLogEntry(t *testing.T) {
	tests := []struct {
		name    string
		req     logRequest
		wantErr bool
	}{
		{"valid", logRequest{ExerciseName: "pushups", Category: "arms", Reps: 20}, false},
		{"missing name", logRequest{Category: "arms"}, true},
		{"unknown category", logRequest{ExerciseName: "pushups", Category: "shoulders"}, true},
		{"bad exercise id", logRequest{ExerciseName: "pushups", Category: "arms", ExerciseID: "not-a-uuid"}, true},
		{"bad date", logRequest{ExerciseName: "pushups", Category: "arms", Date: "yesterday"}, true},
		{"date only", logRequest{ExerciseName: "squats", Category: "thighs", Date: "2026-08-15"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildLogEntry(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("buildLogEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestBuildLogEntryClampsNegatives verifies negative reps and counts are
// stored as zero rather than rejected.
func TestBuildLogEntryClampsNegatives(t *testing.T) {
	entry, err := buildLogEntry(logRequest{ExerciseName: "plank", Category: "core", Reps: -5, Count: -3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Reps != 0 || entry.Count != 0 {
		t.Errorf("reps = %d, count = %d, want both 0", entry.Reps, entry.Count)
	}
	if entry.Category != models.CategoryCore {
		t.Errorf("category = %q, want %q", entry.Category, models.CategoryCore)
	}
}

// TestParseFlexTime verifies that both RFC3339 timestamps and bare dates are accepted.
func TestParseFlexTime(t *testing.T) {
	got, err := parseFlexTime("2026-08-15T10:30:00Z")
	if err != nil {
		t.Fatalf("RFC3339: %v", err)
	}
	if got.Hour() != 10 {
		t.Errorf("hour = %d, want 10", got.Hour())
	}

	got, err = parseFlexTime("2026-08-15")
	if err != nil {
		t.Fatalf("date-only: %v", err)
	}
	want := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := parseFlexTime("last tuesday"); err == nil {
		t.Error("expected error for unparseable input")
	}
}

// TestAPIKeyAuth verifies the X-API-Key middleware: missing key is 401,
// wrong key is 403, correct key passes through.
func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"correct key", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/import", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
