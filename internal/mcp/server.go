package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/replog/internal/stats"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepLog exercise tracking server. Query workout logs, exercises, streaks, and period-over-history stats. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, engine: stats.NewEngine(ds), log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolGetStreaks, Handler: h.getStreaks},
		server.ServerTool{Tool: toolGetLogs, Handler: h.getLogs},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWeeklyReport, Handler: h.weeklyReport},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	engine *stats.Engine
	log    *slog.Logger
}

// --- Resource definitions ---

var resWeeklyReport = mcp.NewResource(
	"replog://weekly_report",
	"Weekly Report",
	mcp.WithResourceDescription("Per-exercise and overall stats for the last 7 days, compared against lifetime averages"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"replog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises defined by the user, with their categories"),
	mcp.WithMIMEType("application/json"),
)
