// Package trakt provides a client for the Trakt.tv API v2.
package trakt

import "time"

// IDs holds the external identifiers Trakt attaches to every item.
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int64  `json:"tmdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

// Movie represents a Trakt movie.
type Movie struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   IDs    `json:"ids"`
}

// Show represents a Trakt TV show.
type Show struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   IDs    `json:"ids"`
}

// Episode represents a Trakt episode.
type Episode struct {
	Season int    `json:"season"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	IDs    IDs    `json:"ids"`
}

// WatchedMovie is one movie from the user's watch history.
// For bulk history ("watched") fetches there is one entry per movie with
// the most recent watch time; for incremental (history) fetches there is
// one entry per watch event.
type WatchedMovie struct {
	Movie     Movie
	WatchedAt *time.Time
	Plays     int
}

// EpisodeRef identifies one watched episode with its reported watch time.
// WatchedAt is nil when the source recorded no timestamp.
type EpisodeRef struct {
	Season    int
	Number    int
	WatchedAt *time.Time
}

// WatchedShow is a show from the user's watch history together with every
// watched episode, flattened across seasons in (season, episode) order as
// returned by the API.
type WatchedShow struct {
	Show          Show
	LastWatchedAt *time.Time
	Plays         int
	Episodes      []EpisodeRef
}

// WatchlistItem is one entry from the user's watchlist.
type WatchlistItem struct {
	Rank     int       `json:"rank"`
	ListedAt time.Time `json:"listed_at"`
	Type     string    `json:"type"` // "movie" or "show"
	Movie    *Movie    `json:"movie,omitempty"`
	Show     *Show     `json:"show,omitempty"`
}

// Rating is one user rating on Trakt's 1-10 scale.
type Rating struct {
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
	Type    string    `json:"type"` // "movie" or "show"
	Movie   *Movie    `json:"movie,omitempty"`
	Show    *Show     `json:"show,omitempty"`
}

// DeviceCode is the response to starting the device OAuth flow.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// TokenPair is an OAuth access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	CreatedAt    int64  `json:"created_at"`
}

// ExpiresAt returns the absolute expiry time of the access token.
func (t TokenPair) ExpiresAt() time.Time {
	return time.Unix(t.CreatedAt, 0).Add(time.Duration(t.ExpiresIn) * time.Second)
}

// historyItem is one raw entry from the /sync/history endpoints.
type historyItem struct {
	ID        int64     `json:"id"`
	WatchedAt time.Time `json:"watched_at"`
	Action    string    `json:"action"`
	Type      string    `json:"type"`
	Movie     *Movie    `json:"movie,omitempty"`
	Episode   *Episode  `json:"episode,omitempty"`
	Show      *Show     `json:"show,omitempty"`
}

// watchedMovieWire is the /sync/watched/movies response shape.
type watchedMovieWire struct {
	Plays         int        `json:"plays"`
	LastWatchedAt *time.Time `json:"last_watched_at"`
	Movie         Movie      `json:"movie"`
}

// watchedShowWire is the /sync/watched/shows response shape.
type watchedShowWire struct {
	Plays         int                 `json:"plays"`
	LastWatchedAt *time.Time          `json:"last_watched_at"`
	Show          Show                `json:"show"`
	Seasons       []watchedSeasonWire `json:"seasons"`
}

type watchedSeasonWire struct {
	Number   int                  `json:"number"`
	Episodes []watchedEpisodeWire `json:"episodes"`
}

type watchedEpisodeWire struct {
	Number        int        `json:"number"`
	Plays         int        `json:"plays"`
	LastWatchedAt *time.Time `json:"last_watched_at"`
}

func (w watchedShowWire) flatten() WatchedShow {
	ws := WatchedShow{
		Show:          w.Show,
		LastWatchedAt: w.LastWatchedAt,
		Plays:         w.Plays,
	}
	for _, season := range w.Seasons {
		for _, ep := range season.Episodes {
			ws.Episodes = append(ws.Episodes, EpisodeRef{
				Season:    season.Number,
				Number:    ep.Number,
				WatchedAt: ep.LastWatchedAt,
			})
		}
	}
	return ws
}
