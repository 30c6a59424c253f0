package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/internal/metrics"
	"github.com/vmunix/trackarr/pkg/match"
	"github.com/vmunix/trackarr/pkg/trakt"
)

// Config carries tunables for the import engine.
type Config struct {
	// BingeThreshold is the per-day episode count above which watch
	// timestamps are considered unreliable. Zero means the default.
	BingeThreshold int

	// AutoSync reports whether the background sync loop is enabled.
	// Surfaced through SyncStatus only.
	AutoSync bool
}

// Importer moves watch history from the source service into the library.
// It backs both the one-time full import and the incremental sync.
type Importer struct {
	source Source
	meta   Metadata
	store  *library.Store
	guard  *Guard
	cfg    Config
	log    *slog.Logger

	bus     *events.Bus      // optional
	metrics *metrics.Metrics // optional
}

// NewImporter wires an import engine over the given collaborators.
func NewImporter(source Source, meta Metadata, store *library.Store, cfg Config, log *slog.Logger) *Importer {
	if cfg.BingeThreshold <= 0 {
		cfg.BingeThreshold = DefaultBingeThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		source: source,
		meta:   meta,
		store:  store,
		guard:  NewGuard(store),
		cfg:    cfg,
		log:    log.With("component", "syncer"),
	}
}

// SetBus enables event publishing.
func (i *Importer) SetBus(bus *events.Bus) { i.bus = bus }

// SetMetrics enables Prometheus instrumentation.
func (i *Importer) SetMetrics(m *metrics.Metrics) { i.metrics = m }

// SyncStatus reports authentication and last-sync state.
func (i *Importer) SyncStatus() (*SyncStatus, error) {
	last, err := i.store.LastSyncAt()
	if err != nil {
		return nil, err
	}
	return &SyncStatus{
		Authenticated:   i.source.IsAuthenticated(),
		LastSyncAt:      last,
		AutoSyncEnabled: i.cfg.AutoSync,
	}, nil
}

func (i *Importer) publish(e events.Event) {
	if i.bus != nil {
		_ = i.bus.Publish(context.Background(), e)
	}
}

// progressSink receives per-item progress during a run. The job
// controller implements it for full imports; sync uses a collector.
type progressSink interface {
	runID() string
	setTotal(n int)
	startItem(label string)
	itemDone(err error)
	addError(msg string)
	cancelled() bool
}

// runItem processes one history item: a failure is recorded and the run
// moves on. Returns false only when the run was cancelled, in which case
// the item was not processed.
func (i *Importer) runItem(p progressSink, kind, label string, fn func() error) bool {
	if p.cancelled() {
		return false
	}
	p.startItem(label)
	err := fn()
	p.itemDone(err)
	if err != nil {
		i.log.Warn("item failed", "kind", kind, "title", label, "error", err)
		if id := p.runID(); id != "" {
			i.publish(&events.ItemFailed{
				BaseEvent: events.NewBaseEvent(events.TypeItemFailed, "run", 0),
				RunID:     id, Kind: kind, Title: label, Error: err.Error(),
			})
		}
	} else if id := p.runID(); id != "" {
		i.publish(&events.ItemImported{
			BaseEvent: events.NewBaseEvent(events.TypeItemImported, "run", 0),
			RunID:     id, Kind: kind, Title: label,
		})
	}
	if i.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		i.metrics.ImportItems.WithLabelValues(kind, result).Inc()
	}
	return true
}

// runFull executes a full import. Category fetch failures are recorded
// as run errors; the remaining categories still proceed. Reports whether
// every requested category fetch failed, leaving the run nothing to do.
func (i *Importer) runFull(ctx context.Context, opts Options, p progressSink) bool {
	var movies []trakt.WatchedMovie
	var shows []trakt.WatchedShow
	var watchlist []trakt.WatchlistItem

	requested, failed := 0, 0
	if opts.Movies {
		requested++
		fetched, err := i.source.WatchedMovies(ctx)
		if err != nil {
			failed++
			p.addError(fmt.Sprintf("fetch watched movies: %v", err))
		} else {
			movies = dedupeMovies(fetched)
		}
	}
	if opts.Series {
		requested++
		fetched, err := i.source.WatchedShows(ctx)
		if err != nil {
			failed++
			p.addError(fmt.Sprintf("fetch watched shows: %v", err))
		} else {
			shows = dedupeShows(fetched)
		}
	}
	if opts.Watchlist {
		requested++
		fetched, err := i.source.Watchlist(ctx)
		if err != nil {
			failed++
			p.addError(fmt.Sprintf("fetch watchlist: %v", err))
		} else {
			watchlist = dedupeWatchlist(fetched)
		}
	}
	aborted := requested > 0 && failed == requested

	ratings := map[ratingKey]int{}
	if opts.Ratings {
		fetched, err := i.source.Ratings(ctx)
		if err != nil {
			p.addError(fmt.Sprintf("fetch ratings: %v", err))
		} else {
			ratings = ratingIndex(fetched)
		}
	}

	// Watchlist entries are reconciled in bulk, not counted as items.
	p.setTotal(len(movies) + len(shows))

	for _, m := range movies {
		ok := i.runItem(p, "movie", movieLabel(m.Movie), func() error {
			_, err := i.importMovie(ctx, m, ratingFor(ratings, "movie", m.Movie.IDs.Trakt), library.SourceImport)
			return err
		})
		if !ok {
			return aborted
		}
	}
	for _, s := range shows {
		ok := i.runItem(p, "series", s.Show.Title, func() error {
			_, err := i.importSeries(ctx, s, ratingFor(ratings, "show", s.Show.IDs.Trakt), false, library.SourceImport)
			return err
		})
		if !ok {
			return aborted
		}
	}
	if len(watchlist) > 0 && !p.cancelled() {
		i.reconcileWatchlist(ctx, watchlist, p.addError)
	}
	return aborted
}

func movieLabel(m trakt.Movie) string {
	if m.Year == 0 {
		return m.Title
	}
	return fmt.Sprintf("%s (%d)", m.Title, m.Year)
}

// importMovie reconciles one watched movie into the library. Reports
// whether a new watch session was written.
func (i *Importer) importMovie(ctx context.Context, m trakt.WatchedMovie, rating *int, src library.WatchSource) (bool, error) {
	existing, err := i.guard.MovieByTraktID(int64(m.Movie.IDs.Trakt))
	if err != nil {
		return false, err
	}

	if existing != nil {
		added := false
		if m.WatchedAt != nil {
			has, err := i.store.HasWatchSessionOnDate(existing.ID, *m.WatchedAt)
			if err != nil {
				return false, err
			}
			if !has {
				err := i.store.AddWatchSession(&library.WatchSession{
					ContentID: existing.ID,
					WatchedAt: *m.WatchedAt,
					Source:    src,
				})
				if err != nil {
					return false, err
				}
				added = true
			}
		}
		if rating != nil {
			if _, err := i.store.BackfillRating(existing.ID, *rating); err != nil {
				return false, err
			}
		}
		return added, nil
	}

	c := &library.Content{
		Type:    library.ContentTypeMovie,
		TraktID: int64(m.Movie.IDs.Trakt),
		Title:   m.Movie.Title,
		Year:    m.Movie.Year,
		Rating:  rating,
	}
	if m.Movie.IDs.TMDB != 0 {
		tmdbID := m.Movie.IDs.TMDB
		c.TMDBID = &tmdbID
		meta, err := i.meta.Movie(ctx, tmdbID)
		if err != nil {
			return false, fmt.Errorf("fetch movie metadata: %w", err)
		}
		c.Overview = meta.Overview
		c.PosterPath = meta.PosterPath
		if c.Year == 0 {
			c.Year = meta.Year()
		}
	}
	if m.Movie.IDs.IMDB != "" {
		imdb := m.Movie.IDs.IMDB
		c.IMDBID = &imdb
	}
	if err := i.store.AddContent(c); err != nil {
		return false, fmt.Errorf("add movie: %w", err)
	}
	if m.WatchedAt != nil {
		err := i.store.AddWatchSession(&library.WatchSession{
			ContentID: c.ID,
			WatchedAt: *m.WatchedAt,
			Source:    src,
		})
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// importSeries reconciles one watched show. In simple mode (incremental
// sync) reported timestamps are trusted as-is; otherwise days with an
// implausible number of episode watches get their timestamps replaced by
// episode air dates. Reports how many new episode watch rows were
// written.
func (i *Importer) importSeries(ctx context.Context, s trakt.WatchedShow, rating *int, simple bool, src library.WatchSource) (int, error) {
	existing, err := i.guard.SeriesByTraktID(int64(s.Show.IDs.Trakt))
	if err != nil {
		return 0, err
	}

	if existing != nil {
		i.ensureSeasons(ctx, existing, touchedSeasons(s.Episodes))
		added, err := i.writeEpisodeWatches(existing.ID, s.Episodes, src)
		if err != nil {
			return added, err
		}
		if rating != nil {
			if _, err := i.store.BackfillRating(existing.ID, *rating); err != nil {
				return added, err
			}
		}
		return added, nil
	}

	c := &library.Content{
		Type:    library.ContentTypeSeries,
		TraktID: int64(s.Show.IDs.Trakt),
		Title:   s.Show.Title,
		Year:    s.Show.Year,
		Rating:  rating,
	}
	if s.Show.IDs.TMDB != 0 {
		tmdbID := s.Show.IDs.TMDB
		c.TMDBID = &tmdbID
		meta, err := i.meta.Series(ctx, tmdbID)
		if err != nil {
			return 0, fmt.Errorf("fetch series metadata: %w", err)
		}
		c.Overview = meta.Overview
		c.PosterPath = meta.PosterPath
		if c.Year == 0 {
			c.Year = meta.Year()
		}
	}
	if s.Show.IDs.IMDB != "" {
		imdb := s.Show.IDs.IMDB
		c.IMDBID = &imdb
	}
	if err := i.store.AddContent(c); err != nil {
		return 0, fmt.Errorf("add series: %w", err)
	}

	i.ensureSeasons(ctx, c, touchedSeasons(s.Episodes))

	eps := s.Episodes
	if !simple {
		if days := BingeDays(eps, i.cfg.BingeThreshold); len(days) > 0 {
			airDates, err := i.store.AirDates(c.ID)
			if err != nil {
				return 0, fmt.Errorf("load air dates: %w", err)
			}
			index := make(AirDateIndex, len(airDates))
			for k, t := range airDates {
				index[EpisodeKey{k[0], k[1]}] = t
			}
			eps = ApplyAirDates(eps, days, index)
		}
	}
	return i.writeEpisodeWatches(c.ID, eps, src)
}

// touchedSeasons returns the distinct season numbers in eps, first-seen
// order.
func touchedSeasons(eps []trakt.EpisodeRef) []int {
	seen := make(map[int]bool)
	var seasons []int
	for _, ep := range eps {
		if !seen[ep.Season] {
			seen[ep.Season] = true
			seasons = append(seasons, ep.Season)
		}
	}
	return seasons
}

// ensureSeasons persists episode metadata (titles, air dates) for any of
// the given seasons not yet known locally. Best effort: a failed season
// fetch only means air dates stay unknown for it.
func (i *Importer) ensureSeasons(ctx context.Context, c *library.Content, seasons []int) {
	if c.TMDBID == nil {
		return
	}
	for _, sn := range seasons {
		known, err := i.store.HasSeasonEpisodes(c.ID, sn)
		if err != nil {
			i.log.Warn("season lookup failed", "series", c.Title, "season", sn, "error", err)
			continue
		}
		if known {
			continue
		}
		season, err := i.meta.Season(ctx, *c.TMDBID, sn)
		if err != nil {
			i.log.Warn("season fetch failed, air dates unavailable",
				"series", c.Title, "season", sn, "error", err)
			continue
		}
		for _, ep := range season.Episodes {
			e := &library.Episode{
				ContentID: c.ID,
				Season:    sn,
				Episode:   ep.EpisodeNumber,
				Title:     ep.Name,
				AirDate:   ep.AirTime(),
			}
			if err := i.store.AddEpisode(e); err != nil && !errors.Is(err, library.ErrDuplicate) {
				i.log.Warn("add episode failed", "series", c.Title,
					"season", sn, "episode", ep.EpisodeNumber, "error", err)
			}
		}
	}
}

// writeEpisodeWatches inserts watch rows for eps, skipping episodes that
// already have a row on the same calendar date (or any row, for
// timestampless episodes).
func (i *Importer) writeEpisodeWatches(contentID int64, eps []trakt.EpisodeRef, src library.WatchSource) (int, error) {
	added := 0
	for _, ep := range eps {
		var exists bool
		var err error
		if ep.WatchedAt != nil {
			exists, err = i.store.HasEpisodeWatchOnDate(contentID, ep.Season, ep.Number, *ep.WatchedAt)
		} else {
			exists, err = i.store.HasEpisodeWatch(contentID, ep.Season, ep.Number)
		}
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		w := &library.EpisodeWatch{
			ContentID: contentID,
			Season:    ep.Season,
			Episode:   ep.Number,
			WatchedAt: ep.WatchedAt,
			Source:    src,
		}
		if err := i.store.AddEpisodeWatch(w); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// reconcileWatchlist flags or creates library entries for watchlist
// items. New entries get no watch rows. Items without a TMDB id fall
// back to fuzzy title matching against the library so an entry created
// from another source is flagged instead of duplicated. Reports how many
// entries were flagged or created.
func (i *Importer) reconcileWatchlist(ctx context.Context, items []trakt.WatchlistItem, fail func(msg string)) int {
	updated := 0
	for _, it := range items {
		var (
			ct    library.ContentType
			title string
			year  int
			ids   trakt.IDs
		)
		switch {
		case it.Type == "movie" && it.Movie != nil:
			ct, title, year, ids = library.ContentTypeMovie, it.Movie.Title, it.Movie.Year, it.Movie.IDs
		case it.Type == "show" && it.Show != nil:
			ct, title, year, ids = library.ContentTypeSeries, it.Show.Title, it.Show.Year, it.Show.IDs
		default:
			continue
		}

		existing, err := i.store.FindByTraktID(ct, int64(ids.Trakt))
		if err != nil {
			fail(fmt.Sprintf("watchlist %q: %v", title, err))
			continue
		}
		if existing == nil && ids.TMDB == 0 {
			existing, err = i.fuzzyFind(ct, title, year)
			if err != nil {
				fail(fmt.Sprintf("watchlist %q: %v", title, err))
				continue
			}
		}

		if existing != nil {
			if !existing.OnWatchlist {
				if err := i.store.SetOnWatchlist(existing.ID, true); err != nil {
					fail(fmt.Sprintf("watchlist %q: %v", title, err))
					continue
				}
				updated++
			}
			continue
		}

		c := &library.Content{
			Type:        ct,
			TraktID:     int64(ids.Trakt),
			Title:       title,
			Year:        year,
			OnWatchlist: true,
		}
		if ids.TMDB != 0 {
			tmdbID := ids.TMDB
			c.TMDBID = &tmdbID
			var overview, poster string
			var metaYear int
			switch ct {
			case library.ContentTypeMovie:
				meta, err := i.meta.Movie(ctx, tmdbID)
				if err != nil {
					fail(fmt.Sprintf("watchlist %q: fetch metadata: %v", title, err))
					continue
				}
				overview, poster, metaYear = meta.Overview, meta.PosterPath, meta.Year()
			case library.ContentTypeSeries:
				meta, err := i.meta.Series(ctx, tmdbID)
				if err != nil {
					fail(fmt.Sprintf("watchlist %q: fetch metadata: %v", title, err))
					continue
				}
				overview, poster, metaYear = meta.Overview, meta.PosterPath, meta.Year()
			}
			c.Overview = overview
			c.PosterPath = poster
			if c.Year == 0 {
				c.Year = metaYear
			}
		}
		if ids.IMDB != "" {
			imdb := ids.IMDB
			c.IMDBID = &imdb
		}
		if err := i.store.AddContent(c); err != nil {
			fail(fmt.Sprintf("watchlist %q: %v", title, err))
			continue
		}
		updated++
	}
	if updated > 0 {
		i.publish(&events.WatchlistChanged{
			BaseEvent: events.NewBaseEvent(events.TypeWatchlistChanged, "run", 0),
			Updated:   updated,
		})
	}
	return updated
}

// fuzzyFind looks for an existing library entry by normalized title
// similarity. Used only when the source item carries no TMDB id.
func (i *Importer) fuzzyFind(ct library.ContentType, title string, year int) (*library.Content, error) {
	candidates, err := i.store.TitleCandidates(ct)
	if err != nil {
		return nil, err
	}
	matchCandidates := make([]match.Candidate, len(candidates))
	for n, c := range candidates {
		matchCandidates[n] = match.Candidate{ID: c.ID, Title: c.Title, Year: c.Year}
	}
	result, ok := match.BestMatch(title, year, matchCandidates)
	if !ok {
		return nil, nil
	}
	return i.store.GetContent(result.ID)
}
