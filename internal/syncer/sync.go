package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/library"
)

// CursorBackoff is how far behind the latest local watch the incremental
// sync cursor sits. The overlap absorbs clock skew and late check-ins;
// the dedup guard makes re-fetched items harmless.
const CursorBackoff = time.Hour

// collector is the progressSink for sync runs: errors accumulate, nothing
// cancels.
type collector struct {
	label string
	errs  []string
}

func (c *collector) runID() string          { return "" }
func (c *collector) setTotal(int)           {}
func (c *collector) startItem(label string) { c.label = label }
func (c *collector) addError(msg string)    { c.errs = append(c.errs, msg) }
func (c *collector) cancelled() bool        { return false }

func (c *collector) itemDone(err error) {
	if err != nil {
		c.errs = append(c.errs, fmt.Sprintf("%s: %v", c.label, err))
	}
}

// IncrementalSync pulls watch events newer than the local cursor and
// applies them. Without any local watch history there is no cursor, so
// the call is a no-op; run a full import first.
func (i *Importer) IncrementalSync(ctx context.Context) (*SyncResult, error) {
	if !i.source.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	latest, err := i.store.LatestWatchDate()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		i.log.Info("no local watch history, nothing to sync")
		return &SyncResult{Errors: []string{}}, nil
	}
	return i.syncFrom(ctx, latest.Add(-CursorBackoff), "auto")
}

// ResyncSince re-applies history from an explicit point in time,
// regardless of the local cursor.
func (i *Importer) ResyncSince(ctx context.Context, since time.Time) (*SyncResult, error) {
	if !i.source.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return i.syncFrom(ctx, since, "manual")
}

// syncFrom runs the three sync passes. Each pass is independent: a fetch
// failure records an error and the next pass still runs. Series sync
// trusts reported timestamps as-is; binge correction applies only to
// full imports.
func (i *Importer) syncFrom(ctx context.Context, cursor time.Time, trigger string) (*SyncResult, error) {
	col := &collector{}
	result := &SyncResult{}

	movies, err := i.source.WatchedMoviesSince(ctx, cursor)
	if err != nil {
		col.addError(fmt.Sprintf("fetch watched movies: %v", err))
	} else {
		for _, m := range movies {
			i.runItem(col, "movie", movieLabel(m.Movie), func() error {
				added, err := i.importMovie(ctx, m, nil, library.SourceSync)
				if added {
					result.NewMovieWatches++
				}
				return err
			})
		}
	}

	shows, err := i.source.WatchedShowsSince(ctx, cursor)
	if err != nil {
		col.addError(fmt.Sprintf("fetch watched shows: %v", err))
	} else {
		for _, s := range dedupeShows(shows) {
			i.runItem(col, "series", s.Show.Title, func() error {
				added, err := i.importSeries(ctx, s, nil, true, library.SourceSync)
				result.NewEpisodeWatches += added
				return err
			})
		}
	}

	watchlist, err := i.source.Watchlist(ctx)
	if err != nil {
		col.addError(fmt.Sprintf("fetch watchlist: %v", err))
	} else {
		result.UpdatedWatchlistItems = i.reconcileWatchlist(ctx, dedupeWatchlist(watchlist), col.addError)
	}

	if err := i.store.SetLastSyncAt(time.Now()); err != nil {
		col.addError(fmt.Sprintf("record sync time: %v", err))
	}

	result.Errors = col.errs
	if result.Errors == nil {
		result.Errors = []string{}
	}

	i.publish(&events.SyncCompleted{
		BaseEvent:         events.NewBaseEvent(events.TypeSyncCompleted, "run", 0),
		NewMovieWatches:   result.NewMovieWatches,
		NewEpisodeWatches: result.NewEpisodeWatches,
		WatchlistUpdates:  result.UpdatedWatchlistItems,
		Errors:            len(result.Errors),
	})
	if i.metrics != nil {
		outcome := "ok"
		if len(result.Errors) > 0 {
			outcome = "partial"
		}
		i.metrics.SyncRuns.WithLabelValues(trigger, outcome).Inc()
	}
	i.log.Info("sync completed", "trigger", trigger,
		"new_movie_watches", result.NewMovieWatches,
		"new_episode_watches", result.NewEpisodeWatches,
		"watchlist_updates", result.UpdatedWatchlistItems,
		"errors", len(result.Errors))

	return result, nil
}
