package library

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

const contentColumns = `id, type, trakt_id, tmdb_id, imdb_id, title, year, overview, poster_path, rating, on_watchlist, added_at, updated_at`

func scanContent(row interface{ Scan(...any) error }) (*Content, error) {
	c := &Content{}
	err := row.Scan(&c.ID, &c.Type, &c.TraktID, &c.TMDBID, &c.IMDBID, &c.Title, &c.Year,
		&c.Overview, &c.PosterPath, &c.Rating, &c.OnWatchlist, &c.AddedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func addContent(q querier, c *Content) error {
	now := time.Now().UTC()
	result, err := q.Exec(`
		INSERT INTO content (type, trakt_id, tmdb_id, imdb_id, title, year, overview, poster_path, rating, on_watchlist, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Type, c.TraktID, c.TMDBID, c.IMDBID, c.Title, c.Year, c.Overview, c.PosterPath, c.Rating, c.OnWatchlist, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert content: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	c.ID = id
	c.AddedAt = now
	c.UpdatedAt = now
	return nil
}

// AddContent inserts a new content item into the database.
// Sets ID, AddedAt, and UpdatedAt on the struct.
func (s *Store) AddContent(c *Content) error { return addContent(s.db, c) }

// AddContent inserts a new content item within a transaction.
func (t *Tx) AddContent(c *Content) error { return addContent(t.tx, c) }

func getContent(q querier, id int64) (*Content, error) {
	c, err := scanContent(q.QueryRow(
		`SELECT `+contentColumns+` FROM content WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get content %d: %w", id, mapSQLiteError(err))
	}
	return c, nil
}

// GetContent retrieves a content item by ID.
// Returns ErrNotFound if the content does not exist.
func (s *Store) GetContent(id int64) (*Content, error) { return getContent(s.db, id) }

// GetContent retrieves a content item by ID within a transaction.
func (t *Tx) GetContent(id int64) (*Content, error) { return getContent(t.tx, id) }

// FindByTraktID looks up content by type and source-service id.
// Returns nil, nil if not found.
func (s *Store) FindByTraktID(ct ContentType, traktID int64) (*Content, error) {
	c, err := scanContent(s.db.QueryRow(
		`SELECT `+contentColumns+` FROM content WHERE type = ? AND trakt_id = ?`, ct, traktID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by trakt id %d: %w", ct, traktID, mapSQLiteError(err))
	}
	return c, nil
}

// ListContent returns content matching the filter plus the total count
// before pagination.
func (s *Store) ListContent(f ContentFilter) ([]*Content, int, error) {
	var conditions []string
	var args []any

	if f.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *f.Type)
	}
	if f.Title != nil {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+*f.Title+"%")
	}
	if f.Year != nil {
		conditions = append(conditions, "year = ?")
		args = append(args, *f.Year)
	}
	if f.OnWatchlist != nil {
		conditions = append(conditions, "on_watchlist = ?")
		args = append(args, *f.OnWatchlist)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM content "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	query := `SELECT ` + contentColumns + ` FROM content ` + whereClause + ` ORDER BY title, year`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		results = append(results, c)
	}
	return results, total, rows.Err()
}

// BackfillRating sets the rating only when the entry has none yet.
// Reports whether a rating was written.
func (s *Store) BackfillRating(id int64, rating int) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE content SET rating = ?, updated_at = ? WHERE id = ? AND rating IS NULL`,
		rating, time.Now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("backfill rating: %w", mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SetRating sets or replaces the rating.
func (s *Store) SetRating(id int64, rating int) error {
	_, err := s.db.Exec(`UPDATE content SET rating = ?, updated_at = ? WHERE id = ?`,
		rating, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set rating: %w", mapSQLiteError(err))
	}
	return nil
}

// SetOnWatchlist flags or unflags a library entry as watchlisted.
func (s *Store) SetOnWatchlist(id int64, on bool) error {
	_, err := s.db.Exec(`UPDATE content SET on_watchlist = ?, updated_at = ? WHERE id = ?`,
		on, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set on_watchlist: %w", mapSQLiteError(err))
	}
	return nil
}

// DeleteContent removes a content item; watch rows and episodes cascade.
func (s *Store) DeleteContent(id int64) error {
	result, err := s.db.Exec(`DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// TitleCandidate is a minimal projection used for fuzzy title matching.
type TitleCandidate struct {
	ID    int64
	Title string
	Year  int
}

// TitleCandidates returns id/title/year for every entry of the given type.
func (s *Store) TitleCandidates(ct ContentType) ([]TitleCandidate, error) {
	rows, err := s.db.Query(`SELECT id, title, year FROM content WHERE type = ?`, ct)
	if err != nil {
		return nil, fmt.Errorf("title candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TitleCandidate
	for rows.Next() {
		var c TitleCandidate
		if err := rows.Scan(&c.ID, &c.Title, &c.Year); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
