package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/stats"
	"github.com/meltforce/replog/internal/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	// Invalid or missing days falls back to the engine's default period.
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	category := models.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category: " + string(category)})
		return
	}

	report, err := s.engine.Compute(r.Context(), userIDFromContext(r), days, category)
	if err != nil {
		s.log.Error("stats computation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r)

	category := models.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category: " + string(category)})
		return
	}

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		logs, err := s.db.QueryLogsByDay(r.Context(), userID, day, category)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, logs)
		return
	}

	logs, err := s.db.QueryLogs(r.Context(), userID, stats.LogQuery{Category: category})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

type logRequest struct {
	ExerciseID   string `json:"exerciseId"`
	ExerciseName string `json:"exerciseName"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	Reps         int    `json:"reps"`
	Count        int    `json:"count"`
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	entry, err := buildLogEntry(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	entry.UserID = userIDFromContext(r)

	created, err := s.db.InsertLog(r.Context(), entry)
	if err != nil {
		s.log.Error("log insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// buildLogEntry validates and converts an incoming log payload. Negative
// reps and counts are clamped to zero rather than rejected.
func buildLogEntry(req logRequest) (models.LogEntry, error) {
	if req.ExerciseName == "" {
		return models.LogEntry{}, errors.New("exerciseName is required")
	}
	category := models.Category(req.Category)
	if !category.Valid() {
		return models.LogEntry{}, errors.New("unknown category: " + req.Category)
	}

	date := time.Now()
	if req.Date != "" {
		var err error
		date, err = parseFlexTime(req.Date)
		if err != nil {
			return models.LogEntry{}, errors.New("invalid date: " + req.Date)
		}
	}

	entry := models.LogEntry{
		ExerciseName: req.ExerciseName,
		Category:     category,
		Date:         date,
		Reps:         max(req.Reps, 0),
		Count:        max(req.Count, 0),
	}
	if req.ExerciseID != "" {
		id, err := uuid.Parse(req.ExerciseID)
		if err != nil {
			return models.LogEntry{}, errors.New("invalid exerciseId")
		}
		entry.ExerciseID = id
	}
	return entry, nil
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log ID"})
		return
	}

	var req struct {
		Reps  int `json:"reps"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	updated, err := s.db.UpdateLog(r.Context(), userIDFromContext(r), id, max(req.Reps, 0), max(req.Count, 0))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "log not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log ID"})
		return
	}
	if err := s.db.DeleteLog(r.Context(), userIDFromContext(r), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	category := models.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category: " + string(category)})
		return
	}

	exercises, err := s.db.QueryExercises(r.Context(), userIDFromContext(r), category)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	category := models.Category(req.Category)
	if !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category: " + req.Category})
		return
	}

	exercise, err := s.db.InsertExercise(r.Context(), models.Exercise{
		UserID:   userIDFromContext(r),
		Name:     req.Name,
		Category: category,
	})
	if err != nil {
		s.log.Error("exercise insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	if err := s.db.DeleteExercise(r.Context(), userIDFromContext(r), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var reqs []logRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	start := time.Now()
	userID := userIDFromContext(r)
	result := storage.ImportResult{}
	for _, req := range reqs {
		entry, err := buildLogEntry(req)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		entry.UserID = userID
		if _, err := s.db.InsertLog(r.Context(), entry); err != nil {
			s.log.Error("import insert failed", "exercise", entry.ExerciseName, "error", err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Imported++
	}

	audit := storage.ImportLog{
		UserID:     userID,
		Source:     "api",
		Received:   len(reqs),
		Imported:   result.Imported,
		DurationMs: int(time.Since(start).Milliseconds()),
	}
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		audit.ErrorMessage = &msg
	}
	if _, err := s.db.InsertImportLog(r.Context(), audit); err != nil {
		s.log.Error("import audit insert failed", "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.db.QueryImportLogs(r.Context(), userIDFromContext(r), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseFlexTime accepts RFC3339 timestamps or bare dates.
func parseFlexTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
