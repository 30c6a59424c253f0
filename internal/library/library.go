// Package library manages tracked content (movies, series) and watch rows.
package library

import (
	"time"
)

// ContentType distinguishes movies from series.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// WatchSource records which path created a watch row.
type WatchSource string

const (
	SourceImport WatchSource = "import"
	SourceSync   WatchSource = "sync"
	SourceManual WatchSource = "manual"
)

// Content represents a movie or series in the library.
type Content struct {
	ID          int64
	Type        ContentType
	TraktID     int64  // external id from the source service
	TMDBID      *int64 // nil when the source item carried no TMDB id
	IMDBID      *string
	Title       string
	Year        int
	Overview    string
	PosterPath  string
	Rating      *int // local 1-5 scale, nil = unrated
	OnWatchlist bool
	AddedAt     time.Time
	UpdatedAt   time.Time
}

// Episode represents known episode metadata for a series.
type Episode struct {
	ID        int64
	ContentID int64
	Season    int
	Episode   int
	Title     string
	AirDate   *time.Time
}

// WatchSession represents one recorded watch of a movie.
type WatchSession struct {
	ID        int64
	ContentID int64
	WatchedAt time.Time
	Source    WatchSource
}

// EpisodeWatch represents one recorded watch of an episode.
// WatchedAt is nil when the source service had no timestamp for it.
type EpisodeWatch struct {
	ID        int64
	ContentID int64
	Season    int
	Episode   int
	WatchedAt *time.Time
	Source    WatchSource
}
