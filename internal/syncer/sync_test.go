package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/pkg/trakt"
)

func TestIncrementalSync_NoLocalHistory(t *testing.T) {
	env := newTestImporter(t)

	env.source.EXPECT().IsAuthenticated().Return(true)

	result, err := env.imp.IncrementalSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewMovieWatches)
	assert.Equal(t, 0, result.NewEpisodeWatches)
	assert.Equal(t, 0, result.UpdatedWatchlistItems)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestIncrementalSync_CursorBackoff(t *testing.T) {
	env := newTestImporter(t)

	latest := time.Date(2025, 3, 15, 21, 30, 0, 0, time.UTC)
	c := &library.Content{Type: library.ContentTypeMovie, TraktID: 101, Title: "Fight Club", Year: 1999}
	require.NoError(t, env.store.AddContent(c))
	require.NoError(t, env.store.AddWatchSession(&library.WatchSession{
		ContentID: c.ID, WatchedAt: latest, Source: library.SourceImport,
	}))

	env.source.EXPECT().IsAuthenticated().Return(true).AnyTimes()

	var movieCursor, showCursor time.Time
	env.source.EXPECT().WatchedMoviesSince(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, since time.Time) ([]trakt.WatchedMovie, error) {
			movieCursor = since
			return nil, nil
		})
	env.source.EXPECT().WatchedShowsSince(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, since time.Time) ([]trakt.WatchedShow, error) {
			showCursor = since
			return nil, nil
		})
	env.source.EXPECT().Watchlist(gomock.Any()).Return(nil, nil)

	_, err := env.imp.IncrementalSync(context.Background())
	require.NoError(t, err)

	want := latest.Add(-time.Hour)
	assert.True(t, movieCursor.Equal(want), "movie cursor %v, want %v", movieCursor, want)
	assert.True(t, showCursor.Equal(want), "show cursor %v, want %v", showCursor, want)

	status, err := env.imp.SyncStatus()
	require.NoError(t, err)
	assert.NotNil(t, status.LastSyncAt)
}

func TestIncrementalSync_AppliesNewWatches(t *testing.T) {
	env := newTestImporter(t)

	c := &library.Content{Type: library.ContentTypeMovie, TraktID: 101, Title: "Fight Club", Year: 1999}
	require.NoError(t, env.store.AddContent(c))
	require.NoError(t, env.store.AddWatchSession(&library.WatchSession{
		ContentID: c.ID,
		WatchedAt: time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC),
		Source:    library.SourceImport,
	}))

	movies := []trakt.WatchedMovie{
		{Movie: trakt.Movie{Title: "Fight Club", Year: 1999, IDs: trakt.IDs{Trakt: 101}}, WatchedAt: ts(2025, 3, 20, 22)},
	}
	shows := []trakt.WatchedShow{
		{
			Show:     trakt.Show{Title: "Obscure Show", Year: 2020, IDs: trakt.IDs{Trakt: 301}},
			Episodes: []trakt.EpisodeRef{{Season: 1, Number: 1, WatchedAt: ts(2025, 3, 21, 21)}},
		},
	}

	env.source.EXPECT().IsAuthenticated().Return(true).Times(2)
	env.source.EXPECT().WatchedMoviesSince(gomock.Any(), gomock.Any()).Return(movies, nil).Times(2)
	env.source.EXPECT().WatchedShowsSince(gomock.Any(), gomock.Any()).Return(shows, nil).Times(2)
	env.source.EXPECT().Watchlist(gomock.Any()).Return(nil, nil).Times(2)

	result, err := env.imp.IncrementalSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewMovieWatches)
	assert.Equal(t, 1, result.NewEpisodeWatches)
	assert.Empty(t, result.Errors)

	// The same events coming back on the next poll change nothing.
	result, err = env.imp.IncrementalSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewMovieWatches)
	assert.Equal(t, 0, result.NewEpisodeWatches)
}

func TestResyncSince_UsesExplicitCursor(t *testing.T) {
	env := newTestImporter(t)

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	env.source.EXPECT().IsAuthenticated().Return(true)
	env.source.EXPECT().WatchedMoviesSince(gomock.Any(), since).Return(nil, nil)
	env.source.EXPECT().WatchedShowsSince(gomock.Any(), since).Return(nil, nil)
	env.source.EXPECT().Watchlist(gomock.Any()).Return(nil, nil)

	_, err := env.imp.ResyncSince(context.Background(), since)
	require.NoError(t, err)
}

func TestIncrementalSync_Unauthenticated(t *testing.T) {
	env := newTestImporter(t)

	env.source.EXPECT().IsAuthenticated().Return(false)

	_, err := env.imp.IncrementalSync(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
