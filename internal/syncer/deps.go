// Package syncer reconciles watch history from the source service into the
// local library: one-time bulk imports, read-only previews, and recurring
// incremental syncs.
package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/vmunix/trackarr/internal/tmdb"
	"github.com/vmunix/trackarr/pkg/trakt"
)

// Sentinel errors surfaced to callers.
var (
	// ErrImportRunning is returned by Start while a run is in flight.
	// A second run is rejected, never queued.
	ErrImportRunning = errors.New("import already running")

	// ErrNotAuthenticated is returned when the source service has no
	// credentials.
	ErrNotAuthenticated = errors.New("not authenticated with source service")
)

// Source is the watch-history provider. Implemented by *trakt.Client;
// rate limiting and auth retries live behind this interface.
type Source interface {
	IsAuthenticated() bool
	WatchedMovies(ctx context.Context) ([]trakt.WatchedMovie, error)
	WatchedMoviesSince(ctx context.Context, since time.Time) ([]trakt.WatchedMovie, error)
	WatchedShows(ctx context.Context) ([]trakt.WatchedShow, error)
	WatchedShowsSince(ctx context.Context, since time.Time) ([]trakt.WatchedShow, error)
	Watchlist(ctx context.Context) ([]trakt.WatchlistItem, error)
	Ratings(ctx context.Context) ([]trakt.Rating, error)
}

// Metadata resolves external ids to titles, posters, and episode lists
// with air dates. Implemented by *metadata.Service.
type Metadata interface {
	Movie(ctx context.Context, tmdbID int64) (*tmdb.Movie, error)
	Series(ctx context.Context, tmdbID int64) (*tmdb.Series, error)
	Season(ctx context.Context, tmdbID int64, season int) (*tmdb.Season, error)
}
