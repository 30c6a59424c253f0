package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/trackarr/internal/tmdb"
)

const (
	// Cache TTLs
	movieTTL  = 7 * 24 * time.Hour
	seriesTTL = 7 * 24 * time.Hour
	seasonTTL = 24 * time.Hour // running shows gain episodes
)

// Cache key prefixes
const (
	keyPrefixMovie  = "tmdb:movie:"
	keyPrefixSeries = "tmdb:series:"
	keyPrefixSeason = "tmdb:season:"
)

// Service provides cached access to TMDB metadata.
type Service struct {
	client *tmdb.Client
	cache  *Cache
	log    *slog.Logger
}

// NewService creates a new metadata service.
func NewService(client *tmdb.Client, cache *Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		client: client,
		cache:  cache,
		log:    log.With("component", "metadata"),
	}
}

// Movie fetches movie metadata by TMDB ID (cached).
func (s *Service) Movie(ctx context.Context, tmdbID int64) (*tmdb.Movie, error) {
	key := fmt.Sprintf("%s%d", keyPrefixMovie, tmdbID)
	return fetchCached[tmdb.Movie](ctx, s, key, movieTTL, func() (*tmdb.Movie, error) {
		return s.client.GetMovie(ctx, tmdbID)
	})
}

// Series fetches series metadata by TMDB ID (cached).
func (s *Service) Series(ctx context.Context, tmdbID int64) (*tmdb.Series, error) {
	key := fmt.Sprintf("%s%d", keyPrefixSeries, tmdbID)
	return fetchCached[tmdb.Series](ctx, s, key, seriesTTL, func() (*tmdb.Series, error) {
		return s.client.GetSeries(ctx, tmdbID)
	})
}

// Season fetches one season's episode list by TMDB ID (cached).
func (s *Service) Season(ctx context.Context, tmdbID int64, seasonNumber int) (*tmdb.Season, error) {
	key := fmt.Sprintf("%s%d:%d", keyPrefixSeason, tmdbID, seasonNumber)
	return fetchCached[tmdb.Season](ctx, s, key, seasonTTL, func() (*tmdb.Season, error) {
		return s.client.GetSeason(ctx, tmdbID, seasonNumber)
	})
}

// fetchCached consults the SQLite cache before calling the API; cache
// failures degrade to a fresh fetch rather than erroring.
func fetchCached[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fetch func() (*T, error)) (*T, error) {
	if data, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			s.log.Debug("cache hit", "key", key)
			return &v, nil
		}
		s.log.Warn("failed to unmarshal cached metadata", "key", key)
	}

	s.log.Debug("cache miss, calling API", "key", key)
	v, err := fetch()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("failed to marshal metadata for cache", "key", key, "error", err)
		return v, nil
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.log.Warn("failed to cache metadata", "key", key, "error", err)
	}
	return v, nil
}
