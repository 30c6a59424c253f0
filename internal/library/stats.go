package library

import "fmt"

// Stats aggregates library-wide counts for the reporting endpoint.
type Stats struct {
	Movies           int `json:"movies"`
	Series           int `json:"series"`
	MovieWatches     int `json:"movie_watches"`
	EpisodeWatches   int `json:"episode_watches"`
	RatedEntries     int `json:"rated_entries"`
	WatchlistEntries int `json:"watchlist_entries"`
}

// GetStats computes aggregate counts over the whole library.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM content WHERE type = 'movie'`, &stats.Movies},
		{`SELECT COUNT(*) FROM content WHERE type = 'series'`, &stats.Series},
		{`SELECT COUNT(*) FROM watch_sessions`, &stats.MovieWatches},
		{`SELECT COUNT(*) FROM episode_watches`, &stats.EpisodeWatches},
		{`SELECT COUNT(*) FROM content WHERE rating IS NOT NULL`, &stats.RatedEntries},
		{`SELECT COUNT(*) FROM content WHERE on_watchlist = 1`, &stats.WatchlistEntries},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("stats query: %w", err)
		}
	}
	return stats, nil
}
