package syncer

import (
	"context"
	"fmt"

	"github.com/vmunix/trackarr/pkg/trakt"
)

// BuildPreview fetches the selected categories from the source service
// and classifies each deduplicated item against the library without
// writing anything. All or nothing: any fetch or lookup failure fails
// the whole preview.
func (i *Importer) BuildPreview(ctx context.Context, opts Options) (*Preview, error) {
	if !i.source.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	p := &Preview{}

	if opts.Movies {
		movies, err := i.source.WatchedMovies(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch watched movies: %w", err)
		}
		for _, m := range dedupeMovies(movies) {
			existing, err := i.guard.MovieByTraktID(int64(m.Movie.IDs.Trakt))
			if err != nil {
				return nil, fmt.Errorf("check movie %q: %w", m.Movie.Title, err)
			}
			p.Movies.add(previewItem(m.Movie.IDs, m.Movie.Title, m.Movie.Year, existing != nil))
		}
	}

	if opts.Series {
		shows, err := i.source.WatchedShows(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch watched shows: %w", err)
		}
		for _, s := range dedupeShows(shows) {
			existing, err := i.guard.SeriesByTraktID(int64(s.Show.IDs.Trakt))
			if err != nil {
				return nil, fmt.Errorf("check series %q: %w", s.Show.Title, err)
			}
			p.Series.add(previewItem(s.Show.IDs, s.Show.Title, s.Show.Year, existing != nil))
		}
	}

	if opts.Watchlist {
		items, err := i.source.Watchlist(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch watchlist: %w", err)
		}
		for _, it := range dedupeWatchlist(items) {
			var (
				existing  bool
				ids       trakt.IDs
				title     string
				year      int
				lookupErr error
			)
			switch {
			case it.Type == "movie" && it.Movie != nil:
				ids, title, year = it.Movie.IDs, it.Movie.Title, it.Movie.Year
				c, err := i.guard.MovieByTraktID(int64(ids.Trakt))
				existing, lookupErr = c != nil, err
			case it.Type == "show" && it.Show != nil:
				ids, title, year = it.Show.IDs, it.Show.Title, it.Show.Year
				c, err := i.guard.SeriesByTraktID(int64(ids.Trakt))
				existing, lookupErr = c != nil, err
			default:
				continue
			}
			if lookupErr != nil {
				return nil, fmt.Errorf("check watchlist item %q: %w", title, lookupErr)
			}
			p.Watchlist.add(previewItem(ids, title, year, existing))
		}
	}

	p.aggregate()
	return p, nil
}

func previewItem(ids trakt.IDs, title string, year int, inLibrary bool) PreviewItem {
	return PreviewItem{
		TraktID:   int64(ids.Trakt),
		TMDBID:    ids.TMDB,
		Title:     title,
		Year:      year,
		InLibrary: inLibrary,
	}
}
