package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"
	pageLimit      = 100
)

// Sentinel errors for Trakt API responses.
var (
	ErrNotAuthenticated = errors.New("not authenticated with trakt")
	ErrAuthPending      = errors.New("device authorization pending")
	ErrDeviceExpired    = errors.New("device code expired")
	ErrRateLimited      = errors.New("rate limited: too many requests")
)

// Client is a Trakt API v2 client.
//
// All data fetches require an access token set via SetTokens (or restored
// at construction with WithTokens). The client refreshes expired tokens
// transparently and reports new pairs through the on-refresh callback so
// the caller can persist them.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	log          *slog.Logger
	onRefresh    func(TokenPair)

	mu     sync.RWMutex
	tokens TokenPair
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

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "trakt")
	}
}

// WithTokens restores a previously persisted token pair.
func WithTokens(tokens TokenPair) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithTokenRefreshCallback registers a callback invoked whenever the client
// obtains a new token pair (device flow completion or refresh).
func WithTokenRefreshCallback(fn func(TokenPair)) Option {
	return func(c *Client) {
		c.onRefresh = fn
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a new Trakt client.
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Trakt allows 1000 calls per 5 minutes; stay comfortably under.
		limiter: rate.NewLimiter(rate.Limit(3), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAuthenticated reports whether the client holds an access token.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens.AccessToken != ""
}

// SetTokens replaces the stored token pair.
func (c *Client) SetTokens(tokens TokenPair) {
	c.mu.Lock()
	c.tokens = tokens
	c.mu.Unlock()
}

// Tokens returns a copy of the stored token pair.
func (c *Client) Tokens() TokenPair {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

func (c *Client) setHeaders(req *http.Request, authed bool) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", apiVersion)
	req.Header.Set("trakt-api-key", c.clientID)
	if authed {
		c.mu.RLock()
		token := c.tokens.AccessToken
		c.mu.RUnlock()
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// DeviceCode starts the device OAuth flow.
func (c *Client) DeviceCode(ctx context.Context) (*DeviceCode, error) {
	var code DeviceCode
	err := c.post(ctx, "/oauth/device/code", map[string]string{
		"client_id": c.clientID,
	}, &code)
	if err != nil {
		return nil, fmt.Errorf("device code: %w", err)
	}
	return &code, nil
}

// PollToken polls for the OAuth token after the user has entered the code.
// Returns ErrAuthPending while the user has not yet authorized.
func (c *Client) PollToken(ctx context.Context, deviceCode string) (*TokenPair, error) {
	body, err := json.Marshal(map[string]string{
		"code":          deviceCode,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/device/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	c.setHeaders(req, false)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute token request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var tokens TokenPair
		if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}
		c.storeTokens(tokens)
		return &tokens, nil
	case http.StatusBadRequest:
		return nil, ErrAuthPending
	case http.StatusGone:
		return nil, ErrDeviceExpired
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("token poll failed: %s", resp.Status)
	}
}

// refresh exchanges the refresh token for a new pair.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.RLock()
	refreshToken := c.tokens.RefreshToken
	c.mu.RUnlock()
	if refreshToken == "" {
		return ErrNotAuthenticated
	}

	var tokens TokenPair
	err := c.post(ctx, "/oauth/token", map[string]string{
		"refresh_token": refreshToken,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"redirect_uri":  "urn:ietf:wg:oauth:2.0:oob",
		"grant_type":    "refresh_token",
	}, &tokens)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	c.storeTokens(tokens)
	if c.log != nil {
		c.log.Debug("refreshed trakt access token")
	}
	return nil
}

func (c *Client) storeTokens(tokens TokenPair) {
	c.mu.Lock()
	c.tokens = tokens
	c.mu.Unlock()
	if c.onRefresh != nil {
		c.onRefresh(tokens)
	}
}

// post sends an unauthenticated JSON POST and decodes the response into v.
func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, false)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("trakt %s: %s - %s", path, resp.Status, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transientStatus reports whether an HTTP status is worth retrying.
func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("trakt api: status %d: %s", e.status, e.body)
}

// get performs an authenticated GET with rate limiting and retries,
// decoding the response body into v. It returns the response headers so
// callers can read pagination counts.
func (c *Client) get(ctx context.Context, path string, query url.Values, v any) (http.Header, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var header http.Header
	attemptedRefresh := false

	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			c.setHeaders(req, true)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("execute request: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusUnauthorized {
				if attemptedRefresh {
					return retry.Unrecoverable(ErrNotAuthenticated)
				}
				attemptedRefresh = true
				if err := c.refresh(ctx); err != nil {
					return retry.Unrecoverable(err)
				}
				return fmt.Errorf("access token expired, retrying after refresh")
			}
			if resp.StatusCode != http.StatusOK {
				respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				herr := &httpStatusError{status: resp.StatusCode, body: string(respBody)}
				if transientStatus(resp.StatusCode) {
					return herr
				}
				return retry.Unrecoverable(herr)
			}

			header = resp.Header
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return header, nil
}

// pageCount reads the page count from Trakt's pagination headers.
func pageCount(h http.Header) int {
	n, _ := strconv.Atoi(h.Get("X-Pagination-Page-Count"))
	return n
}

// WatchedMovies fetches every watched movie (one entry per movie, most
// recent watch time).
func (c *Client) WatchedMovies(ctx context.Context) ([]WatchedMovie, error) {
	var wire []watchedMovieWire
	if _, err := c.get(ctx, "/sync/watched/movies", nil, &wire); err != nil {
		return nil, err
	}

	movies := make([]WatchedMovie, 0, len(wire))
	for _, w := range wire {
		movies = append(movies, WatchedMovie{
			Movie:     w.Movie,
			WatchedAt: w.LastWatchedAt,
			Plays:     w.Plays,
		})
	}
	return movies, nil
}

// WatchedMoviesSince fetches movie watch events since the given time, one
// entry per watch event, oldest data last as returned by the API.
func (c *Client) WatchedMoviesSince(ctx context.Context, since time.Time) ([]WatchedMovie, error) {
	items, err := c.history(ctx, "/sync/history/movies", since)
	if err != nil {
		return nil, err
	}

	var movies []WatchedMovie
	for _, it := range items {
		if it.Movie == nil {
			continue
		}
		watchedAt := it.WatchedAt
		movies = append(movies, WatchedMovie{
			Movie:     *it.Movie,
			WatchedAt: &watchedAt,
			Plays:     1,
		})
	}
	return movies, nil
}

// WatchedShows fetches every watched show with all watched episodes.
func (c *Client) WatchedShows(ctx context.Context) ([]WatchedShow, error) {
	var wire []watchedShowWire
	if _, err := c.get(ctx, "/sync/watched/shows", nil, &wire); err != nil {
		return nil, err
	}

	shows := make([]WatchedShow, 0, len(wire))
	for _, w := range wire {
		shows = append(shows, w.flatten())
	}
	return shows, nil
}

// WatchedShowsSince fetches episode watch events since the given time,
// grouped by show in first-seen order.
func (c *Client) WatchedShowsSince(ctx context.Context, since time.Time) ([]WatchedShow, error) {
	items, err := c.history(ctx, "/sync/history/episodes", since)
	if err != nil {
		return nil, err
	}

	var order []int
	byShow := make(map[int]*WatchedShow)
	for _, it := range items {
		if it.Show == nil || it.Episode == nil {
			continue
		}
		id := it.Show.IDs.Trakt
		ws, ok := byShow[id]
		if !ok {
			ws = &WatchedShow{Show: *it.Show}
			byShow[id] = ws
			order = append(order, id)
		}
		watchedAt := it.WatchedAt
		ws.Episodes = append(ws.Episodes, EpisodeRef{
			Season:    it.Episode.Season,
			Number:    it.Episode.Number,
			WatchedAt: &watchedAt,
		})
		ws.Plays++
		if ws.LastWatchedAt == nil || watchedAt.After(*ws.LastWatchedAt) {
			ws.LastWatchedAt = &watchedAt
		}
	}

	shows := make([]WatchedShow, 0, len(order))
	for _, id := range order {
		shows = append(shows, *byShow[id])
	}
	return shows, nil
}

// history pages through a /sync/history endpoint from the given start time.
func (c *Client) history(ctx context.Context, path string, since time.Time) ([]historyItem, error) {
	var all []historyItem
	for page := 1; ; page++ {
		query := url.Values{
			"start_at": {since.UTC().Format(time.RFC3339)},
			"page":     {strconv.Itoa(page)},
			"limit":    {strconv.Itoa(pageLimit)},
		}

		var items []historyItem
		header, err := c.get(ctx, path, query, &items)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if len(items) == 0 || page >= pageCount(header) {
			break
		}
	}
	return all, nil
}

// Watchlist fetches the complete watchlist.
func (c *Client) Watchlist(ctx context.Context) ([]WatchlistItem, error) {
	var all []WatchlistItem
	for page := 1; ; page++ {
		query := url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(pageLimit)},
		}

		var items []WatchlistItem
		header, err := c.get(ctx, "/sync/watchlist", query, &items)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if len(items) == 0 || page >= pageCount(header) {
			break
		}
	}
	return all, nil
}

// Ratings fetches all movie and show ratings.
func (c *Client) Ratings(ctx context.Context) ([]Rating, error) {
	var ratings []Rating
	if _, err := c.get(ctx, "/sync/ratings", nil, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
