package library

import (
	"testing"
	"time"
)

func TestStore_Settings_Roundtrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	val, err := store.GetSetting("missing")
	if err != nil {
		t.Fatalf("GetSetting missing: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty for missing key, got %q", val)
	}

	if err := store.SetSetting("key", "one"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := store.SetSetting("key", "two"); err != nil {
		t.Fatalf("SetSetting upsert: %v", err)
	}

	val, err = store.GetSetting("key")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if val != "two" {
		t.Errorf("expected %q, got %q", "two", val)
	}
}

func TestStore_TraktTokens(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	tokens, err := store.GetTraktTokens()
	if err != nil {
		t.Fatalf("GetTraktTokens empty: %v", err)
	}
	if tokens.AccessToken != "" {
		t.Errorf("expected empty access token before auth, got %q", tokens.AccessToken)
	}

	expiry := time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC()
	want := TraktTokens{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expiry}
	if err := store.SetTraktTokens(want); err != nil {
		t.Fatalf("SetTraktTokens: %v", err)
	}

	got, err := store.GetTraktTokens()
	if err != nil {
		t.Fatalf("GetTraktTokens: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("token mismatch: %+v", got)
	}
	if !got.ExpiresAt.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, got.ExpiresAt)
	}
}

func TestStore_LastSyncAt(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	last, err := store.LastSyncAt()
	if err != nil {
		t.Fatalf("LastSyncAt empty: %v", err)
	}
	if last != nil {
		t.Errorf("expected nil before first sync, got %v", last)
	}

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := store.SetLastSyncAt(at); err != nil {
		t.Fatalf("SetLastSyncAt: %v", err)
	}

	last, err = store.LastSyncAt()
	if err != nil {
		t.Fatalf("LastSyncAt: %v", err)
	}
	if last == nil || !last.Equal(at) {
		t.Errorf("expected %v, got %v", at, last)
	}
}
