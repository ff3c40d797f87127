package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/replog/internal/models"
	"github.com/meltforce/replog/internal/stats"
)

// HTTPClient implements DataSource by calling the RepLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// QueryLogs fetches log entries over the REST API. The list endpoint has no
// range parameters, so the query window is applied client-side. The user ID
// is ignored: the remote server scopes data to the connection's identity.
func (c *HTTPClient) QueryLogs(ctx context.Context, _ int, q stats.LogQuery) ([]models.LogEntry, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", string(q.Category))
	}

	body, err := c.get(ctx, "/api/v1/logs", params)
	if err != nil {
		return nil, err
	}

	var logs []models.LogEntry
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode logs: %w", err)
	}

	return filterWindow(logs, q), nil
}

// filterWindow keeps entries with Start <= Date < End. Zero bounds are open.
func filterWindow(logs []models.LogEntry, q stats.LogQuery) []models.LogEntry {
	if q.Start.IsZero() && q.End.IsZero() {
		return logs
	}
	filtered := logs[:0]
	for _, l := range logs {
		if !q.Start.IsZero() && l.Date.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && !l.Date.Before(q.End) {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}

func (c *HTTPClient) QueryExercises(ctx context.Context, _ int, category models.Category) ([]models.Exercise, error) {
	params := url.Values{}
	if category != "" {
		params.Set("category", string(category))
	}

	body, err := c.get(ctx, "/api/v1/exercises", params)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}
