package library

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Settings keys used by the sync engine.
const (
	settingTraktAccessToken  = "trakt_access_token"
	settingTraktRefreshToken = "trakt_refresh_token"
	settingTraktTokenExpiry  = "trakt_token_expiry"
	settingLastSyncAt        = "last_sync_at"
)

// GetSetting returns a setting value, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value, replacing any existing one.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// TraktTokens holds the persisted source-service credentials.
type TraktTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// GetTraktTokens loads the persisted token pair. A zero AccessToken means
// the user has not authenticated.
func (s *Store) GetTraktTokens() (TraktTokens, error) {
	var tokens TraktTokens
	var err error

	if tokens.AccessToken, err = s.GetSetting(settingTraktAccessToken); err != nil {
		return TraktTokens{}, err
	}
	if tokens.RefreshToken, err = s.GetSetting(settingTraktRefreshToken); err != nil {
		return TraktTokens{}, err
	}

	expiry, err := s.GetSetting(settingTraktTokenExpiry)
	if err != nil {
		return TraktTokens{}, err
	}
	if expiry != "" {
		unix, err := strconv.ParseInt(expiry, 10, 64)
		if err != nil {
			return TraktTokens{}, fmt.Errorf("parse token expiry: %w", err)
		}
		tokens.ExpiresAt = time.Unix(unix, 0).UTC()
	}
	return tokens, nil
}

// SetTraktTokens persists the token pair.
func (s *Store) SetTraktTokens(tokens TraktTokens) error {
	if err := s.SetSetting(settingTraktAccessToken, tokens.AccessToken); err != nil {
		return err
	}
	if err := s.SetSetting(settingTraktRefreshToken, tokens.RefreshToken); err != nil {
		return err
	}
	return s.SetSetting(settingTraktTokenExpiry, strconv.FormatInt(tokens.ExpiresAt.Unix(), 10))
}

// LastSyncAt returns when the last successful sync completed, or nil.
func (s *Store) LastSyncAt() (*time.Time, error) {
	value, err := s.GetSetting(settingLastSyncAt)
	if err != nil || value == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parse last sync time: %w", err)
	}
	return &t, nil
}

// SetLastSyncAt records when a sync completed.
func (s *Store) SetLastSyncAt(t time.Time) error {
	return s.SetSetting(settingLastSyncAt, t.UTC().Format(time.RFC3339))
}
