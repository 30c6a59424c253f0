package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"

// ErrNotFound is returned when an item doesn't exist in TMDB.
var ErrNotFound = errors.New("not found in TMDB")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	url := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, path, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movie Movie
	if err := c.getJSON(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetSeries fetches series metadata by TMDB ID.
func (c *Client) GetSeries(ctx context.Context, tmdbID int64) (*Series, error) {
	var series Series
	if err := c.getJSON(ctx, fmt.Sprintf("/3/tv/%d", tmdbID), &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// GetSeason fetches one season's episode list, including air dates.
func (c *Client) GetSeason(ctx context.Context, tmdbID int64, seasonNumber int) (*Season, error) {
	var season Season
	if err := c.getJSON(ctx, fmt.Sprintf("/3/tv/%d/season/%d", tmdbID, seasonNumber), &season); err != nil {
		return nil, err
	}
	return &season, nil
}
