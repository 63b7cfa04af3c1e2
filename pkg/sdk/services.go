package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// SearchResult is a single page hit.
type SearchResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
	Category    string `json:"category"`
}

// SearchResponse is the outcome of a search query.
type SearchResponse struct {
	Active  bool           `json:"active"`
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// Search runs a site search. Queries shorter than the server's
// activation threshold come back with Active false and no results.
func (c *Client) Search(ctx context.Context, query string) (SearchResponse, error) {
	var out SearchResponse
	err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &out)
	return out, err
}

// RecentSearches returns this client's remembered queries, most recent first.
func (c *Client) RecentSearches(ctx context.Context) ([]string, error) {
	var out struct {
		Queries []string `json:"queries"`
	}
	err := c.do(ctx, http.MethodGet, "/api/search/recent", nil, &out)
	return out.Queries, err
}

// ReplaySearch re-runs a remembered query.
func (c *Client) ReplaySearch(ctx context.Context, query string) (SearchResponse, error) {
	var out SearchResponse
	err := c.do(ctx, http.MethodPost, "/api/search/replay",
		map[string]string{"query": query}, &out)
	return out, err
}

// GetDraft returns the saved scan request draft, empty when none exists.
func (c *Client) GetDraft(ctx context.Context) (map[string]string, error) {
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	err := c.do(ctx, http.MethodGet, "/api/draft", nil, &out)
	return out.Fields, err
}

// SaveDraft persists the form fields as a draft.
func (c *Client) SaveDraft(ctx context.Context, fields map[string]string) error {
	return c.do(ctx, http.MethodPut, "/api/draft", fields, nil)
}

// ClearDraft discards the saved draft.
func (c *Client) ClearDraft(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/draft", nil, nil)
}

// SubmitResponse reports an accepted scan request.
type SubmitResponse struct {
	Reference string   `json:"reference"`
	Notices   []Notice `json:"notices,omitempty"`
}

// SubmitRequest submits a scan request form. On success the reference
// number identifies the submission in follow-up correspondence.
func (c *Client) SubmitRequest(ctx context.Context, fields map[string]string) (SubmitResponse, error) {
	var out SubmitResponse
	err := c.do(ctx, http.MethodPost, "/api/requests", fields, &out)
	return out, err
}

// ThemeResponse carries the active theme after a read or toggle.
type ThemeResponse struct {
	Theme   string   `json:"theme"`
	Notices []Notice `json:"notices,omitempty"`
}

// Theme returns the client's active theme.
func (c *Client) Theme(ctx context.Context) (ThemeResponse, error) {
	var out ThemeResponse
	err := c.do(ctx, http.MethodGet, "/api/theme", nil, &out)
	return out, err
}

// ToggleTheme flips between dark and light mode.
func (c *Client) ToggleTheme(ctx context.Context) (ThemeResponse, error) {
	var out ThemeResponse
	err := c.do(ctx, http.MethodPost, "/api/theme/toggle", nil, &out)
	return out, err
}

// Preferences holds the client's display preferences.
type Preferences struct {
	Theme         string `json:"theme"`
	FontSize      string `json:"fontSize"`
	ReducedMotion bool   `json:"reducedMotion"`
}

// GetPreferences returns the stored preferences.
func (c *Client) GetPreferences(ctx context.Context) (Preferences, error) {
	var out Preferences
	err := c.do(ctx, http.MethodGet, "/api/preferences", nil, &out)
	return out, err
}

// PreferencesUpdate is a partial change; nil fields are left untouched.
type PreferencesUpdate struct {
	FontSize      *string `json:"fontSize,omitempty"`
	ReducedMotion *bool   `json:"reducedMotion,omitempty"`
}

// UpdatePreferences applies a partial update and returns the merged result.
func (c *Client) UpdatePreferences(ctx context.Context, u PreferencesUpdate) (Preferences, error) {
	var out Preferences
	err := c.do(ctx, http.MethodPut, "/api/preferences", u, &out)
	return out, err
}

// HealthReport is the server's component health summary.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health returns the server health report. A degraded server answers
// with 503, surfaced as an *Error.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var out HealthReport
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}
