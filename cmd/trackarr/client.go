package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Client wraps HTTP calls to the trackarr server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new trackarr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// API response types (mirror server types)

type StatusResponse struct {
	Version       string `json:"version"`
	Authenticated bool   `json:"authenticated"`
	ImportRunning bool   `json:"import_running"`
}

type StatsResponse struct {
	Movies           int `json:"movies"`
	Series           int `json:"series"`
	MovieWatches     int `json:"movie_watches"`
	EpisodeWatches   int `json:"episode_watches"`
	RatedEntries     int `json:"rated_entries"`
	WatchlistEntries int `json:"watchlist_entries"`
}

type ContentResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	TraktID     int64     `json:"trakt_id,omitempty"`
	TMDBID      *int64    `json:"tmdb_id,omitempty"`
	Title       string    `json:"title"`
	Year        int       `json:"year,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	OnWatchlist bool      `json:"on_watchlist"`
	AddedAt     time.Time `json:"added_at"`
}

type ListContentResponse struct {
	Items  []ContentResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type ImportOptions struct {
	Movies    bool `json:"movies"`
	Series    bool `json:"series"`
	Watchlist bool `json:"watchlist"`
	Ratings   bool `json:"ratings"`
}

type PreviewCategory struct {
	Total     int `json:"total"`
	InLibrary int `json:"in_library"`
	New       int `json:"new"`
}

type PreviewResponse struct {
	Movies           PreviewCategory `json:"movies"`
	Series           PreviewCategory `json:"series"`
	Watchlist        PreviewCategory `json:"watchlist"`
	TotalItems       int             `json:"total_items"`
	AlreadyInLibrary int             `json:"already_in_library"`
	NewItems         int             `json:"new_items"`
}

type StartImportResponse struct {
	RunID string `json:"run_id"`
}

type ImportStatusResponse struct {
	RunID           string   `json:"run_id,omitempty"`
	InProgress      bool     `json:"in_progress"`
	CurrentItem     string   `json:"current_item,omitempty"`
	Completed       int      `json:"completed"`
	Total           int      `json:"total"`
	Errors          []string `json:"errors"`
	CancelRequested bool     `json:"cancel_requested"`
}

type SyncResultResponse struct {
	NewMovieWatches       int      `json:"new_movie_watches"`
	NewEpisodeWatches     int      `json:"new_episode_watches"`
	UpdatedWatchlistItems int      `json:"updated_watchlist_items"`
	Errors                []string `json:"errors"`
}

type SyncStatusResponse struct {
	Authenticated   bool       `json:"authenticated"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	AutoSyncEnabled bool       `json:"auto_sync_enabled"`
}

type DeviceAuthResponse struct {
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	DeviceCode      string `json:"device_code"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type PollAuthResponse struct {
	Authenticated bool `json:"authenticated"`
	Pending       bool `json:"pending"`
}

type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

// Typed endpoint wrappers

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Stats() (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.get("/api/v1/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListContent(contentType string, watchlistOnly bool, limit int) (*ListContentResponse, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	if contentType != "" {
		q.Set("type", contentType)
	}
	if watchlistOnly {
		q.Set("on_watchlist", "true")
	}
	var resp ListContentResponse
	if err := c.get("/api/v1/content?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteContent(id int64) error {
	return c.delete(fmt.Sprintf("/api/v1/content/%d", id))
}

func (c *Client) UpdateContent(id int64, body any) (*ContentResponse, error) {
	var resp ContentResponse
	req, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/v1/content/%d", c.baseURL, id), bytes.NewReader(req))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()
	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("server error %d: %s", httpResp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ImportPreview(opts ImportOptions) (*PreviewResponse, error) {
	var resp PreviewResponse
	if err := c.post("/api/v1/import/preview", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) StartImport(opts ImportOptions) (*StartImportResponse, error) {
	var resp StartImportResponse
	if err := c.post("/api/v1/import", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ImportStatus() (*ImportStatusResponse, error) {
	var resp ImportStatusResponse
	if err := c.get("/api/v1/import/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CancelImport() (*ImportStatusResponse, error) {
	var resp ImportStatusResponse
	if err := c.post("/api/v1/import/cancel", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Sync() (*SyncResultResponse, error) {
	var resp SyncResultResponse
	if err := c.post("/api/v1/sync", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Resync(since time.Time) (*SyncResultResponse, error) {
	var resp SyncResultResponse
	body := map[string]any{"since": since.Format(time.RFC3339)}
	if err := c.post("/api/v1/sync/resync", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncStatus() (*SyncStatusResponse, error) {
	var resp SyncStatusResponse
	if err := c.get("/api/v1/sync/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) BeginDeviceAuth() (*DeviceAuthResponse, error) {
	var resp DeviceAuthResponse
	if err := c.post("/api/v1/auth/device", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PollDeviceAuth(deviceCode string) (*PollAuthResponse, error) {
	var resp PollAuthResponse
	body := map[string]string{"device_code": deviceCode}
	if err := c.post("/api/v1/auth/device/poll", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// printJSON writes indented JSON to stdout.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
