package library

import (
	"fmt"
	"time"
)

// All watch timestamps are stored in UTC so that range queries over the
// TEXT-affinity timestamp columns compare chronologically.

// dayBounds returns the UTC [start, end) range of the calendar day
// containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// AddWatchSession records one watch of a movie.
func (s *Store) AddWatchSession(w *WatchSession) error {
	result, err := s.db.Exec(`
		INSERT INTO watch_sessions (content_id, watched_at, source)
		VALUES (?, ?, ?)`,
		w.ContentID, w.WatchedAt.UTC(), w.Source,
	)
	if err != nil {
		return fmt.Errorf("insert watch session: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	w.ID = id
	return nil
}

// HasWatchSessionOnDate reports whether a watch session exists for the
// content on the calendar date (UTC) of t.
func (s *Store) HasWatchSessionOnDate(contentID int64, t time.Time) (bool, error) {
	start, end := dayBounds(t)
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM watch_sessions
		WHERE content_id = ? AND watched_at >= ? AND watched_at < ?`,
		contentID, start, end,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count watch sessions: %w", err)
	}
	return n > 0, nil
}

// ListWatchSessions returns all watch sessions for a content item, newest
// first.
func (s *Store) ListWatchSessions(contentID int64) ([]*WatchSession, error) {
	rows, err := s.db.Query(`
		SELECT id, content_id, watched_at, source FROM watch_sessions
		WHERE content_id = ? ORDER BY watched_at DESC`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list watch sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*WatchSession
	for rows.Next() {
		w := &WatchSession{}
		if err := rows.Scan(&w.ID, &w.ContentID, &w.WatchedAt, &w.Source); err != nil {
			return nil, fmt.Errorf("scan watch session: %w", err)
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

// AddEpisodeWatch records one watch of an episode with an explicit
// (possibly nil) timestamp.
func (s *Store) AddEpisodeWatch(w *EpisodeWatch) error {
	var watchedAt *time.Time
	if w.WatchedAt != nil {
		utc := w.WatchedAt.UTC()
		watchedAt = &utc
	}
	result, err := s.db.Exec(`
		INSERT INTO episode_watches (content_id, season, episode, watched_at, source)
		VALUES (?, ?, ?, ?, ?)`,
		w.ContentID, w.Season, w.Episode, watchedAt, w.Source,
	)
	if err != nil {
		return fmt.Errorf("insert episode watch: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	w.ID = id
	return nil
}

// HasEpisodeWatchOnDate reports whether an episode watch exists for the
// given episode on the calendar date (UTC) of t.
func (s *Store) HasEpisodeWatchOnDate(contentID int64, season, episode int, t time.Time) (bool, error) {
	start, end := dayBounds(t)
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM episode_watches
		WHERE content_id = ? AND season = ? AND episode = ?
		  AND watched_at >= ? AND watched_at < ?`,
		contentID, season, episode, start, end,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count episode watches: %w", err)
	}
	return n > 0, nil
}

// HasEpisodeWatch reports whether any watch row exists for the episode,
// regardless of date. Used for rows without a timestamp.
func (s *Store) HasEpisodeWatch(contentID int64, season, episode int) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM episode_watches
		WHERE content_id = ? AND season = ? AND episode = ?`,
		contentID, season, episode,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count episode watches: %w", err)
	}
	return n > 0, nil
}

// ListEpisodeWatches returns all episode watch rows for a series in
// (season, episode) order.
func (s *Store) ListEpisodeWatches(contentID int64) ([]*EpisodeWatch, error) {
	rows, err := s.db.Query(`
		SELECT id, content_id, season, episode, watched_at, source FROM episode_watches
		WHERE content_id = ? ORDER BY season, episode, watched_at`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list episode watches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*EpisodeWatch
	for rows.Next() {
		w := &EpisodeWatch{}
		if err := rows.Scan(&w.ID, &w.ContentID, &w.Season, &w.Episode, &w.WatchedAt, &w.Source); err != nil {
			return nil, fmt.Errorf("scan episode watch: %w", err)
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

// LatestWatchDate returns the most recent watch timestamp across movie
// sessions and episode watches, or nil when nothing has been watched.
func (s *Store) LatestWatchDate() (*time.Time, error) {
	latestSession, err := s.latestTimestamp(
		`SELECT watched_at FROM watch_sessions ORDER BY watched_at DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	latestEpisode, err := s.latestTimestamp(
		`SELECT watched_at FROM episode_watches WHERE watched_at IS NOT NULL ORDER BY watched_at DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}

	switch {
	case latestSession == nil:
		return latestEpisode, nil
	case latestEpisode == nil:
		return latestSession, nil
	case latestEpisode.After(*latestSession):
		return latestEpisode, nil
	default:
		return latestSession, nil
	}
}

func (s *Store) latestTimestamp(query string) (*time.Time, error) {
	var t time.Time
	err := s.db.QueryRow(query).Scan(&t)
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("latest watch date: %w", err)
	}
	return &t, nil
}
