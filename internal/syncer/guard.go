package syncer

import (
	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/pkg/trakt"
)

// Guard answers "is this already in the library?" questions for the
// import and sync paths so they never create duplicate entries or
// duplicate same-day watch rows.
type Guard struct {
	store *library.Store
}

// NewGuard creates a guard backed by the library store.
func NewGuard(store *library.Store) *Guard {
	return &Guard{store: store}
}

// MovieByTraktID returns the library movie with the given source id, or
// nil when absent.
func (g *Guard) MovieByTraktID(traktID int64) (*library.Content, error) {
	return g.store.FindByTraktID(library.ContentTypeMovie, traktID)
}

// SeriesByTraktID returns the library series with the given source id,
// or nil when absent.
func (g *Guard) SeriesByTraktID(traktID int64) (*library.Content, error) {
	return g.store.FindByTraktID(library.ContentTypeSeries, traktID)
}

// dedupeMovies drops repeated history entries for the same movie,
// keeping the first occurrence. Input order is preserved.
func dedupeMovies(movies []trakt.WatchedMovie) []trakt.WatchedMovie {
	seen := make(map[int]bool, len(movies))
	out := movies[:0:0]
	for _, m := range movies {
		id := m.Movie.IDs.Trakt
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, m)
	}
	return out
}

// dedupeShows merges repeated history entries for the same show into
// one, concatenating their episode lists. Input order is preserved.
func dedupeShows(shows []trakt.WatchedShow) []trakt.WatchedShow {
	index := make(map[int]int, len(shows))
	out := shows[:0:0]
	for _, s := range shows {
		id := s.Show.IDs.Trakt
		if at, ok := index[id]; ok {
			out[at].Episodes = append(out[at].Episodes, s.Episodes...)
			continue
		}
		index[id] = len(out)
		out = append(out, s)
	}
	return out
}

// dedupeWatchlist drops repeated watchlist entries for the same item.
func dedupeWatchlist(items []trakt.WatchlistItem) []trakt.WatchlistItem {
	type key struct {
		kind string
		id   int
	}
	seen := make(map[key]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		k := key{kind: it.Type}
		switch {
		case it.Movie != nil:
			k.id = it.Movie.IDs.Trakt
		case it.Show != nil:
			k.id = it.Show.IDs.Trakt
		default:
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}
