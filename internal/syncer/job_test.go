package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/internal/tmdb"
	"github.com/vmunix/trackarr/pkg/trakt"
)

func TestJobManager_SingleFlight(t *testing.T) {
	env := newTestImporter(t)
	jobs := NewJobManager(env.imp)

	env.source.EXPECT().IsAuthenticated().Return(true).AnyTimes()

	release := make(chan struct{})
	env.source.EXPECT().WatchedMovies(gomock.Any()).DoAndReturn(
		func(context.Context) ([]trakt.WatchedMovie, error) {
			<-release
			return nil, nil
		})

	runID, err := jobs.Start(Options{Movies: true})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.True(t, jobs.Running())

	// A second start while the first is in flight is rejected, not queued.
	_, err = jobs.Start(Options{Movies: true})
	assert.ErrorIs(t, err, ErrImportRunning)

	close(release)
	jobs.Wait()
	assert.False(t, jobs.Running())

	// After completion a new run may start.
	env.source.EXPECT().WatchedMovies(gomock.Any()).Return(nil, nil)
	second, err := jobs.Start(Options{Movies: true})
	require.NoError(t, err)
	assert.NotEqual(t, runID, second)
	jobs.Wait()
}

func TestJobManager_StartUnauthenticated(t *testing.T) {
	env := newTestImporter(t)
	jobs := NewJobManager(env.imp)

	env.source.EXPECT().IsAuthenticated().Return(false)

	_, err := jobs.Start(DefaultOptions())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.False(t, jobs.Running())
}

func TestJobManager_StatusSnapshot(t *testing.T) {
	env := newTestImporter(t)
	jobs := NewJobManager(env.imp)

	env.source.EXPECT().IsAuthenticated().Return(true)
	env.source.EXPECT().WatchedMovies(gomock.Any()).Return([]trakt.WatchedMovie{
		{Movie: trakt.Movie{Title: "Fight Club", Year: 1999, IDs: trakt.IDs{Trakt: 101}}, WatchedAt: ts(2025, 3, 10, 21)},
		{Movie: trakt.Movie{Title: "The Matrix", Year: 1999, IDs: trakt.IDs{Trakt: 102}}, WatchedAt: ts(2025, 3, 11, 21)},
	}, nil)

	runID, err := jobs.Start(Options{Movies: true})
	require.NoError(t, err)
	jobs.Wait()

	status := jobs.Status()
	assert.Equal(t, runID, status.RunID)
	assert.False(t, status.InProgress)
	assert.Equal(t, 2, status.Total)
	assert.Equal(t, 2, status.Completed)
	assert.Empty(t, status.Errors)
	assert.NotNil(t, status.StartedAt)
	assert.NotNil(t, status.FinishedAt)
}

func TestJobManager_AllSourceFetchesFailed(t *testing.T) {
	env := newTestImporter(t)
	jobs := NewJobManager(env.imp)
	ch := captureBus(t, env.imp)

	env.source.EXPECT().IsAuthenticated().Return(true)
	env.source.EXPECT().WatchedMovies(gomock.Any()).Return(nil, errors.New("source down"))
	env.source.EXPECT().WatchedShows(gomock.Any()).Return(nil, errors.New("source down"))
	env.source.EXPECT().Watchlist(gomock.Any()).Return(nil, errors.New("source down"))

	runID, err := jobs.Start(Options{Movies: true, Series: true, Watchlist: true})
	require.NoError(t, err)
	jobs.Wait()

	status := jobs.Status()
	assert.False(t, status.InProgress)
	assert.Len(t, status.Errors, 3)

	// A run with every fetch failed ends in ImportFailed, not
	// ImportCompleted.
	var failed *events.ImportFailed
	for len(ch) > 0 {
		e := <-ch
		assert.NotEqual(t, events.TypeImportCompleted, e.EventType())
		if f, ok := e.(*events.ImportFailed); ok {
			failed = f
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, runID, failed.RunID)
}

func TestJobManager_CancelIdleIsNoop(t *testing.T) {
	env := newTestImporter(t)
	jobs := NewJobManager(env.imp)

	jobs.Cancel()
	assert.False(t, jobs.Status().CancelRequested)
}

func TestJobManager_CancelStopsRemainingItems(t *testing.T) {
	env := newTestImporter(t)
	jobs := NewJobManager(env.imp)

	env.source.EXPECT().IsAuthenticated().Return(true)
	env.source.EXPECT().WatchedMovies(gomock.Any()).Return([]trakt.WatchedMovie{
		{Movie: trakt.Movie{Title: "First", Year: 2020, IDs: trakt.IDs{Trakt: 1, TMDB: 11}}, WatchedAt: ts(2025, 3, 1, 20)},
		{Movie: trakt.Movie{Title: "Second", Year: 2021, IDs: trakt.IDs{Trakt: 2, TMDB: 22}}, WatchedAt: ts(2025, 3, 2, 20)},
		{Movie: trakt.Movie{Title: "Third", Year: 2022, IDs: trakt.IDs{Trakt: 3, TMDB: 33}}, WatchedAt: ts(2025, 3, 3, 20)},
	}, nil)

	// Cancel mid-run, while the first item is being processed. The item
	// in flight finishes; the rest never start.
	env.meta.EXPECT().Movie(gomock.Any(), int64(11)).DoAndReturn(
		func(context.Context, int64) (*tmdb.Movie, error) {
			jobs.Cancel()
			return &tmdb.Movie{ID: 11, Title: "First", ReleaseDate: "2020-01-01"}, nil
		})

	_, err := jobs.Start(Options{Movies: true})
	require.NoError(t, err)
	jobs.Wait()

	status := jobs.Status()
	assert.True(t, status.CancelRequested)
	assert.False(t, status.InProgress)
	assert.Equal(t, 3, status.Total)
	assert.Equal(t, 1, status.Completed)

	first, err := env.store.FindByTraktID(library.ContentTypeMovie, 1)
	require.NoError(t, err)
	assert.NotNil(t, first, "item in flight at cancel time is kept")

	second, err := env.store.FindByTraktID(library.ContentTypeMovie, 2)
	require.NoError(t, err)
	assert.Nil(t, second, "remaining items are skipped")
}
