package library

// ContentFilter narrows ListContent results. Nil fields are ignored.
type ContentFilter struct {
	Type        *ContentType
	Title       *string // substring match
	Year        *int
	OnWatchlist *bool
	Limit       int
	Offset      int
}

// EpisodeFilter narrows ListEpisodes results. Nil fields are ignored.
type EpisodeFilter struct {
	ContentID *int64
	Season    *int
	Limit     int
	Offset    int
}
