package v1

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/internal/syncer"
	"github.com/vmunix/trackarr/internal/syncer/mocks"
	"github.com/vmunix/trackarr/pkg/trakt"
)

//go:embed testdata/schema.sql
var testSchema string

type testAPI struct {
	store  *library.Store
	source *mocks.MockSource
	jobs   *syncer.JobManager
	srv    *httptest.Server
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	meta := mocks.NewMockMetadata(ctrl)
	store := library.NewStore(db)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	imp := syncer.NewImporter(source, meta, store, syncer.Config{}, log)
	jobs := syncer.NewJobManager(imp)

	mux := http.NewServeMux()
	api := New(store, imp, jobs, trakt.New("id", "secret"), "test")
	api.RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testAPI{store: store, source: source, jobs: jobs, srv: srv}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestAPI_ContentCRUD(t *testing.T) {
	api := setupAPI(t)

	resp := api.do(t, http.MethodPost, "/api/v1/content", addContentRequest{
		Type: "movie", TraktID: 101, Title: "Fight Club", Year: 1999,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[contentResponse](t, resp)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Fight Club", created.Title)

	// Duplicate (type, trakt id) conflicts.
	resp = api.do(t, http.MethodPost, "/api/v1/content", addContentRequest{
		Type: "movie", TraktID: 101, Title: "Fight Club", Year: 1999,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/v1/content/"+itoa(created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rating := 4
	onList := true
	resp = api.do(t, http.MethodPut, "/api/v1/content/"+itoa(created.ID), updateContentRequest{
		Rating: &rating, OnWatchlist: &onList,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[contentResponse](t, resp)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4, *updated.Rating)
	assert.True(t, updated.OnWatchlist)

	resp = api.do(t, http.MethodDelete, "/api/v1/content/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/v1/content/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AddContent_Validation(t *testing.T) {
	api := setupAPI(t)

	resp := api.do(t, http.MethodPost, "/api/v1/content", addContentRequest{Type: "album", Title: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/v1/content", addContentRequest{Type: "movie"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := 9
	resp = api.do(t, http.MethodPost, "/api/v1/content", addContentRequest{Type: "movie", Title: "x", Rating: &bad})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListContent_Filter(t *testing.T) {
	api := setupAPI(t)

	seed := []addContentRequest{
		{Type: "movie", TraktID: 1, Title: "Fight Club", Year: 1999},
		{Type: "movie", TraktID: 2, Title: "The Matrix", Year: 1999},
		{Type: "series", TraktID: 3, Title: "Breaking Bad", Year: 2008},
	}
	for _, req := range seed {
		resp := api.do(t, http.MethodPost, "/api/v1/content", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := api.do(t, http.MethodGet, "/api/v1/content?type=movie", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[listContentResponse](t, resp)
	assert.Equal(t, 2, list.Total)

	resp = api.do(t, http.MethodGet, "/api/v1/content?title=matrix", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decode[listContentResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "The Matrix", list.Items[0].Title)
}

func TestAPI_StartImport_Conflict(t *testing.T) {
	api := setupAPI(t)

	api.source.EXPECT().IsAuthenticated().Return(true).AnyTimes()

	release := make(chan struct{})
	api.source.EXPECT().WatchedMovies(gomock.Any()).DoAndReturn(
		func(context.Context) ([]trakt.WatchedMovie, error) {
			<-release
			return nil, nil
		})

	resp := api.do(t, http.MethodPost, "/api/v1/import", syncer.Options{Movies: true})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	started := decode[startImportResponse](t, resp)
	assert.NotEmpty(t, started.RunID)

	resp = api.do(t, http.MethodPost, "/api/v1/import", syncer.Options{Movies: true})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Sync is refused while an import runs.
	resp = api.do(t, http.MethodPost, "/api/v1/sync", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	close(release)
	api.jobs.Wait()

	resp = api.do(t, http.MethodGet, "/api/v1/import/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[syncer.JobState](t, resp)
	assert.Equal(t, started.RunID, status.RunID)
	assert.False(t, status.InProgress)
}

func TestAPI_StartImport_Unauthenticated(t *testing.T) {
	api := setupAPI(t)

	api.source.EXPECT().IsAuthenticated().Return(false)

	resp := api.do(t, http.MethodPost, "/api/v1/import", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, "NOT_AUTHENTICATED", body.Code)
}

func TestAPI_Resync_RequiresSince(t *testing.T) {
	api := setupAPI(t)

	resp := api.do(t, http.MethodPost, "/api/v1/sync/resync", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Status(t *testing.T) {
	api := setupAPI(t)

	resp := api.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[statusResponse](t, resp)
	assert.Equal(t, "test", status.Version)
	assert.False(t, status.Authenticated)
	assert.False(t, status.ImportRunning)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
