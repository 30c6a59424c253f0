package events

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

//go:embed testdata/schema.sql
var testSchema string

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(nil, discard())
	defer bus.Close()

	started := bus.Subscribe(TypeImportStarted, 4)
	all := bus.SubscribeAll(4)

	e := &ImportStarted{
		BaseEvent:  NewBaseEvent(TypeImportStarted, "run", 0),
		RunID:      "run-1",
		TotalItems: 10,
	}
	require.NoError(t, bus.Publish(context.Background(), e))
	require.NoError(t, bus.Publish(context.Background(), &SyncCompleted{
		BaseEvent: NewBaseEvent(TypeSyncCompleted, "run", 0),
	}))

	got := <-started
	assert.Equal(t, TypeImportStarted, got.EventType())

	// The all-subscriber sees both.
	first := <-all
	second := <-all
	assert.Equal(t, TypeImportStarted, first.EventType())
	assert.Equal(t, TypeSyncCompleted, second.EventType())

	select {
	case extra := <-started:
		t.Errorf("typed subscriber got unexpected event %v", extra.EventType())
	default:
	}
}

func TestBus_DropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus(nil, discard())
	defer bus.Close()

	ch := bus.Subscribe(TypeImportStarted, 1)

	e := &ImportStarted{BaseEvent: NewBaseEvent(TypeImportStarted, "run", 0)}
	require.NoError(t, bus.Publish(context.Background(), e))
	require.NoError(t, bus.Publish(context.Background(), e), "full channel must not block")

	<-ch
	select {
	case <-ch:
		t.Error("second event should have been dropped")
	default:
	}
}

func TestBus_PersistsToLog(t *testing.T) {
	log := NewEventLog(setupTestDB(t))
	bus := NewBus(log, discard())
	defer bus.Close()

	require.NoError(t, bus.Publish(context.Background(), &ImportCompleted{
		BaseEvent: NewBaseEvent(TypeImportCompleted, "run", 0),
		RunID:     "run-1",
		Completed: 9,
		Total:     9,
	}))

	recent, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, TypeImportCompleted, recent[0].EventType)

	var payload ImportCompleted
	require.NoError(t, json.Unmarshal(recent[0].Payload, &payload))
	assert.Equal(t, "run-1", payload.RunID)
	assert.Equal(t, 9, payload.Completed)
}

func TestEventLog_RecentAndSince(t *testing.T) {
	log := NewEventLog(setupTestDB(t))

	for i := 0; i < 3; i++ {
		_, err := log.Append(&ItemImported{
			BaseEvent: NewBaseEvent(TypeItemImported, "run", 0),
			RunID:     "run-1",
			Kind:      "movie",
		})
		require.NoError(t, err)
	}

	recent, err := log.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Greater(t, recent[0].ID, recent[1].ID, "newest first")

	since, err := log.Since(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, since, 3)
	assert.Less(t, since[0].ID, since[2].ID, "oldest first")
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := log.Append(&SyncCompleted{BaseEvent: NewBaseEvent(TypeSyncCompleted, "run", 0)})
	require.NoError(t, err)

	// Backdate the row past the retention window.
	_, err = db.Exec(`UPDATE events SET occurred_at = ?`, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)

	removed, err := log.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	recent, err := log.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestBus_CloseIsIdempotent(t *testing.T) {
	bus := NewBus(nil, discard())
	ch := bus.Subscribe(TypeImportStarted, 1)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, open := <-ch
	assert.False(t, open, "subscriber channels close with the bus")

	// Publishing after close is a quiet no-op.
	assert.NoError(t, bus.Publish(context.Background(), &ImportStarted{
		BaseEvent: NewBaseEvent(TypeImportStarted, "run", 0),
	}))
}
