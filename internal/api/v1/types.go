package v1

import (
	"encoding/json"
	"time"

	"github.com/vmunix/trackarr/internal/library"
)

type contentResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	TraktID     int64     `json:"trakt_id,omitempty"`
	TMDBID      *int64    `json:"tmdb_id,omitempty"`
	IMDBID      *string   `json:"imdb_id,omitempty"`
	Title       string    `json:"title"`
	Year        int       `json:"year,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	PosterPath  string    `json:"poster_path,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
	OnWatchlist bool      `json:"on_watchlist"`
	AddedAt     time.Time `json:"added_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func contentToResponse(c *library.Content) contentResponse {
	return contentResponse{
		ID:          c.ID,
		Type:        string(c.Type),
		TraktID:     c.TraktID,
		TMDBID:      c.TMDBID,
		IMDBID:      c.IMDBID,
		Title:       c.Title,
		Year:        c.Year,
		Overview:    c.Overview,
		PosterPath:  c.PosterPath,
		Rating:      c.Rating,
		OnWatchlist: c.OnWatchlist,
		AddedAt:     c.AddedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type listContentResponse struct {
	Items  []contentResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type addContentRequest struct {
	Type        string `json:"type"`
	TraktID     int64  `json:"trakt_id"`
	TMDBID      *int64 `json:"tmdb_id"`
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Rating      *int   `json:"rating"`
	OnWatchlist bool   `json:"on_watchlist"`
}

type updateContentRequest struct {
	Rating      *int  `json:"rating"`
	OnWatchlist *bool `json:"on_watchlist"`
}

type episodeResponse struct {
	ID      int64      `json:"id"`
	Season  int        `json:"season"`
	Episode int        `json:"episode"`
	Title   string     `json:"title,omitempty"`
	AirDate *time.Time `json:"air_date,omitempty"`
}

func episodeToResponse(e *library.Episode) episodeResponse {
	return episodeResponse{
		ID:      e.ID,
		Season:  e.Season,
		Episode: e.Episode,
		Title:   e.Title,
		AirDate: e.AirDate,
	}
}

type listEpisodesResponse struct {
	Items []episodeResponse `json:"items"`
	Total int               `json:"total"`
}

type watchResponse struct {
	ID        int64      `json:"id"`
	Season    *int       `json:"season,omitempty"`
	Episode   *int       `json:"episode,omitempty"`
	WatchedAt *time.Time `json:"watched_at,omitempty"`
	Source    string     `json:"source"`
}

type listWatchesResponse struct {
	Items []watchResponse `json:"items"`
	Total int             `json:"total"`
}

type addWatchRequest struct {
	Season    *int       `json:"season"`
	Episode   *int       `json:"episode"`
	WatchedAt *time.Time `json:"watched_at"`
}

type startImportResponse struct {
	RunID string `json:"run_id"`
}

type resyncRequest struct {
	Since time.Time `json:"since"`
}

type statusResponse struct {
	Version       string `json:"version"`
	Authenticated bool   `json:"authenticated"`
	ImportRunning bool   `json:"import_running"`
}

type deviceAuthResponse struct {
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	DeviceCode      string `json:"device_code"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type pollAuthRequest struct {
	DeviceCode string `json:"device_code"`
}

type pollAuthResponse struct {
	Authenticated bool `json:"authenticated"`
	Pending       bool `json:"pending"`
}

type eventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type listEventsResponse struct {
	Items []eventResponse `json:"items"`
	Total int             `json:"total"`
}
