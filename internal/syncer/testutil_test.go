package syncer

import (
	"database/sql"
	_ "embed"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/library"
	"github.com/vmunix/trackarr/internal/syncer/mocks"
)

//go:embed testdata/schema.sql
var testSchema string

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// testEnv wires an Importer over mocked external services and a real
// in-memory store.
type testEnv struct {
	source *mocks.MockSource
	meta   *mocks.MockMetadata
	store  *library.Store
	imp    *Importer
}

func newTestImporter(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	meta := mocks.NewMockMetadata(ctrl)
	store := library.NewStore(setupTestDB(t))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		source: source,
		meta:   meta,
		store:  store,
		imp:    NewImporter(source, meta, store, Config{}, log),
	}
}

// nullSink is a progressSink that records errors and nothing else.
type nullSink struct {
	errs []string
}

func (n *nullSink) runID() string       { return "" }
func (n *nullSink) setTotal(int)        {}
func (n *nullSink) startItem(string)    {}
func (n *nullSink) itemDone(error)      {}
func (n *nullSink) addError(msg string) { n.errs = append(n.errs, msg) }
func (n *nullSink) cancelled() bool     { return false }

// captureBus attaches an event bus to the importer and returns the
// all-events channel for assertions.
func captureBus(t *testing.T, imp *Importer) <-chan events.Event {
	t.Helper()
	bus := events.NewBus(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = bus.Close() })
	imp.SetBus(bus)
	return bus.SubscribeAll(32)
}

func ts(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}
