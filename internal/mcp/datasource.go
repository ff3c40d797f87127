package mcp

import (
	"context"

	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/stats"
	"github.com/meltforce/replog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. It embeds
// stats.Store so a stats.Engine can run on top of either backend.
type DataSource interface {
	stats.Store
	QueryExercises(ctx context.Context, userID int, category models.Category) ([]models.Exercise, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
