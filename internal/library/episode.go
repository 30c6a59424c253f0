package library

import (
	"fmt"
	"strings"
	"time"
)

func addEpisode(q querier, e *Episode) error {
	var airDate *time.Time
	if e.AirDate != nil {
		utc := e.AirDate.UTC()
		airDate = &utc
	}
	result, err := q.Exec(`
		INSERT INTO episodes (content_id, season, episode, title, air_date)
		VALUES (?, ?, ?, ?, ?)`,
		e.ContentID, e.Season, e.Episode, e.Title, airDate,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// AddEpisode inserts episode metadata for a series.
// Sets ID on the struct. Returns ErrDuplicate if the (content, season,
// episode) triple is already known.
func (s *Store) AddEpisode(e *Episode) error { return addEpisode(s.db, e) }

// AddEpisode inserts episode metadata within a transaction.
func (t *Tx) AddEpisode(e *Episode) error { return addEpisode(t.tx, e) }

// HasSeasonEpisodes reports whether any episode metadata is stored for the
// given season of a series.
func (s *Store) HasSeasonEpisodes(contentID int64, season int) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM episodes WHERE content_id = ? AND season = ?`,
		contentID, season,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count season episodes: %w", err)
	}
	return n > 0, nil
}

// AirDates returns the known air dates for a series keyed by season and
// episode number. Episodes without an air date are omitted.
func (s *Store) AirDates(contentID int64) (map[[2]int]time.Time, error) {
	rows, err := s.db.Query(
		`SELECT season, episode, air_date FROM episodes WHERE content_id = ? AND air_date IS NOT NULL`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query air dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	dates := make(map[[2]int]time.Time)
	for rows.Next() {
		var season, episode int
		var airDate time.Time
		if err := rows.Scan(&season, &episode, &airDate); err != nil {
			return nil, fmt.Errorf("scan air date: %w", err)
		}
		dates[[2]int{season, episode}] = airDate
	}
	return dates, rows.Err()
}

// ListEpisodes returns episodes matching the filter plus the total count.
func (s *Store) ListEpisodes(f EpisodeFilter) ([]*Episode, int, error) {
	var conditions []string
	var args []any

	if f.ContentID != nil {
		conditions = append(conditions, "content_id = ?")
		args = append(args, *f.ContentID)
	}
	if f.Season != nil {
		conditions = append(conditions, "season = ?")
		args = append(args, *f.Season)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM episodes "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count episodes: %w", err)
	}

	query := "SELECT id, content_id, season, episode, title, air_date FROM episodes " + whereClause + " ORDER BY season, episode"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(&e.ID, &e.ContentID, &e.Season, &e.Episode, &e.Title, &e.AirDate); err != nil {
			return nil, 0, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	return results, total, rows.Err()
}
