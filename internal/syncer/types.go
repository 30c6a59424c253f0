package syncer

import "time"

// Options selects which categories a preview or import covers.
// Immutable input to a run.
type Options struct {
	Movies    bool `json:"movies"`
	Series    bool `json:"series"`
	Watchlist bool `json:"watchlist"`
	Ratings   bool `json:"ratings"`
}

// DefaultOptions imports everything.
func DefaultOptions() Options {
	return Options{Movies: true, Series: true, Watchlist: true, Ratings: true}
}

// JobState is the single process-wide import job record. Callers always
// receive snapshot copies; the running job mutates the original in place.
type JobState struct {
	RunID           string     `json:"run_id,omitempty"`
	InProgress      bool       `json:"in_progress"`
	CurrentItem     string     `json:"current_item,omitempty"`
	Completed       int        `json:"completed"`
	Total           int        `json:"total"`
	Errors          []string   `json:"errors"`
	CancelRequested bool       `json:"cancel_requested"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// SyncResult summarizes one incremental sync call.
type SyncResult struct {
	NewMovieWatches       int      `json:"new_movie_watches"`
	NewEpisodeWatches     int      `json:"new_episode_watches"`
	UpdatedWatchlistItems int      `json:"updated_watchlist_items"`
	Errors                []string `json:"errors"`
}

// SyncStatus reports the sync subsystem's standing state.
type SyncStatus struct {
	Authenticated   bool       `json:"authenticated"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	AutoSyncEnabled bool       `json:"auto_sync_enabled"`
}

// PreviewItem is one candidate item shown to the user before an import.
type PreviewItem struct {
	TraktID   int64  `json:"trakt_id"`
	TMDBID    int64  `json:"tmdb_id,omitempty"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	InLibrary bool   `json:"in_library"`
}

// PreviewCategory aggregates one category of candidate items.
type PreviewCategory struct {
	Items     []PreviewItem `json:"items"`
	Total     int           `json:"total"`
	InLibrary int           `json:"in_library"`
	New       int           `json:"new"`
}

func (c *PreviewCategory) add(item PreviewItem) {
	c.Items = append(c.Items, item)
	c.Total++
	if item.InLibrary {
		c.InLibrary++
	} else {
		c.New++
	}
}

// Preview is the read-only diff between source history and the library.
type Preview struct {
	Movies    PreviewCategory `json:"movies"`
	Series    PreviewCategory `json:"series"`
	Watchlist PreviewCategory `json:"watchlist"`

	TotalItems       int `json:"total_items"`
	AlreadyInLibrary int `json:"already_in_library"`
	NewItems         int `json:"new_items"`
}

func (p *Preview) aggregate() {
	for _, c := range []*PreviewCategory{&p.Movies, &p.Series, &p.Watchlist} {
		p.TotalItems += c.Total
		p.AlreadyInLibrary += c.InLibrary
		p.NewItems += c.New
	}
}
