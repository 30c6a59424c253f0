package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/trackarr/pkg/trakt"
)

func TestDedupeMovies(t *testing.T) {
	movies := []trakt.WatchedMovie{
		{Movie: trakt.Movie{Title: "Fight Club", IDs: trakt.IDs{Trakt: 101}}},
		{Movie: trakt.Movie{Title: "The Matrix", IDs: trakt.IDs{Trakt: 102}}},
		{Movie: trakt.Movie{Title: "Fight Club", IDs: trakt.IDs{Trakt: 101}}},
	}

	out := dedupeMovies(movies)
	require.Len(t, out, 2)
	assert.Equal(t, 101, out[0].Movie.IDs.Trakt)
	assert.Equal(t, 102, out[1].Movie.IDs.Trakt)
}

func TestDedupeShows_MergesEpisodes(t *testing.T) {
	shows := []trakt.WatchedShow{
		{
			Show:     trakt.Show{Title: "Breaking Bad", IDs: trakt.IDs{Trakt: 201}},
			Episodes: []trakt.EpisodeRef{{Season: 1, Number: 1}, {Season: 1, Number: 2}},
		},
		{
			Show:     trakt.Show{Title: "The Wire", IDs: trakt.IDs{Trakt: 202}},
			Episodes: []trakt.EpisodeRef{{Season: 1, Number: 1}},
		},
		{
			Show:     trakt.Show{Title: "Breaking Bad", IDs: trakt.IDs{Trakt: 201}},
			Episodes: []trakt.EpisodeRef{{Season: 2, Number: 1}},
		},
	}

	out := dedupeShows(shows)
	require.Len(t, out, 2)
	assert.Equal(t, 201, out[0].Show.IDs.Trakt)
	assert.Len(t, out[0].Episodes, 3)
	assert.Equal(t, trakt.EpisodeRef{Season: 2, Number: 1}, out[0].Episodes[2])
	assert.Len(t, out[1].Episodes, 1)
}

func TestDedupeWatchlist(t *testing.T) {
	items := []trakt.WatchlistItem{
		{Type: "movie", Movie: &trakt.Movie{IDs: trakt.IDs{Trakt: 101}}},
		{Type: "show", Show: &trakt.Show{IDs: trakt.IDs{Trakt: 101}}}, // same id, different kind
		{Type: "movie", Movie: &trakt.Movie{IDs: trakt.IDs{Trakt: 101}}},
		{Type: "movie"}, // malformed, dropped
	}

	out := dedupeWatchlist(items)
	require.Len(t, out, 2)
	assert.Equal(t, "movie", out[0].Type)
	assert.Equal(t, "show", out[1].Type)
}
