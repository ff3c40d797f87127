package mcp

import (
	"context"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/stats"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// parseCategory validates an optional category argument. Empty means no filter.
func parseCategory(s string) (models.Category, bool) {
	category := models.Category(s)
	if category != "" && !category.Valid() {
		return "", false
	}
	return category, true
}

// --- Tool definitions ---

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Full stats report: per-exercise daily breakdowns with lifetime averages and expected totals, plus overall streaks and a period-vs-history comparison percentage."),
	mcp.WithString("days", mcp.Description("Period length in days. Defaults to 7.")),
	mcp.WithString("category", mcp.Description("Filter exercises by category"), mcp.Enum("arms", "core", "thighs", "back")),
)

var toolGetStreaks = mcp.NewTool("get_streaks",
	mcp.WithDescription("Current and longest workout streaks in consecutive days. Streaks count any logged activity regardless of category."),
)

var toolGetLogs = mcp.NewTool("get_logs",
	mcp.WithDescription("Query raw workout log entries with optional date range and category filter. Entries are ordered newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("category", mcp.Description("Filter by category"), mcp.Enum("arms", "core", "thighs", "back")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the user's exercises with their categories."),
	mcp.WithString("category", mcp.Description("Filter by category"), mcp.Enum("arms", "core", "thighs", "back")),
)

// --- Tool handlers ---

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// The engine falls back to its default period for zero or negative days.
	days, _ := strconv.Atoi(req.GetString("days", ""))

	category, ok := parseCategory(req.GetString("category", ""))
	if !ok {
		return mcp.NewToolResultError("unknown category: " + req.GetString("category", "")), nil
	}

	uid := UserIDFromContext(ctx)
	report, err := h.engine.Compute(ctx, uid, days, category)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStreaks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	logs, err := h.ds.QueryLogs(ctx, uid, stats.LogQuery{})
	if err != nil {
		h.log.Error("mcp get_streaks", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	streaks := stats.CalcStreaks(logs, stats.Day(time.Now()))
	result, err := mcp.NewToolResultJSON(streaks)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	category, ok := parseCategory(req.GetString("category", ""))
	if !ok {
		return mcp.NewToolResultError("unknown category: " + req.GetString("category", "")), nil
	}

	uid := UserIDFromContext(ctx)
	logs, err := h.ds.QueryLogs(ctx, uid, stats.LogQuery{Start: start, End: end, Category: category})
	if err != nil {
		h.log.Error("mcp get_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, ok := parseCategory(req.GetString("category", ""))
	if !ok {
		return mcp.NewToolResultError("unknown category: " + req.GetString("category", "")), nil
	}

	uid := UserIDFromContext(ctx)
	exercises, err := h.ds.QueryExercises(ctx, uid, category)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
