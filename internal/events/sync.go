package events

// Event type names.
const (
	TypeImportStarted   = "import.started"
	TypeItemImported    = "import.item"
	TypeItemFailed      = "import.item_failed"
	TypeImportCompleted  = "import.completed"
	TypeImportFailed     = "import.failed"
	TypeSyncCompleted    = "sync.completed"
	TypeWatchlistChanged = "watchlist.changed"
)

// ImportStarted is emitted when a full import run begins.
type ImportStarted struct {
	BaseEvent
	RunID      string `json:"run_id"`
	TotalItems int    `json:"total_items"`
}

// ItemImported is emitted after one history item is committed.
type ItemImported struct {
	BaseEvent
	RunID string `json:"run_id"`
	Kind  string `json:"kind"` // "movie" or "series"
	Title string `json:"title"`
}

// ItemFailed is emitted when one history item could not be processed.
// The run continues past it.
type ItemFailed struct {
	BaseEvent
	RunID string `json:"run_id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// ImportCompleted is emitted when a run finishes, whether cleanly,
// cancelled, or with per-item errors.
type ImportCompleted struct {
	BaseEvent
	RunID     string `json:"run_id"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Errors    int    `json:"errors"`
	Cancelled bool   `json:"cancelled"`
}

// ImportFailed is emitted when a run could not start or aborted outright.
type ImportFailed struct {
	BaseEvent
	RunID  string `json:"run_id"`
	Reason string `json:"reason"`
}

// WatchlistChanged is emitted when watchlist reconciliation flagged or
// created library entries.
type WatchlistChanged struct {
	BaseEvent
	Updated int `json:"updated"`
}

// SyncCompleted is emitted after an incremental sync pass.
type SyncCompleted struct {
	BaseEvent
	NewMovieWatches   int `json:"new_movie_watches"`
	NewEpisodeWatches int `json:"new_episode_watches"`
	WatchlistUpdates  int `json:"watchlist_updates"`
	Errors            int `json:"errors"`
}
