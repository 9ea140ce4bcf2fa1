package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"mangatracker/internal/manga"
)

const seriesColumns = `
	source,
	manga_id,
	title,
	cover_url,
	author,
	latest_chapter_title,
	latest_chapter_url,
	CAST(latest_chapter_release_date AS TEXT),
	latest_chapter_publish_day,
	released,
	CAST(added_at AS TEXT),
	CAST(updated_at AS TEXT)`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSeries reads one row laid out as seriesColumns; extra receives any
// trailing columns the query added.
func scanSeries(row rowScanner, extra ...interface{}) (Series, error) {
	var (
		s          Series
		releaseStr string
		day        int
		addedStr   string
		updatedStr string
	)
	dest := []interface{}{
		&s.Source,
		&s.MangaID,
		&s.Title,
		&s.CoverURL,
		&s.Author,
		&s.LatestChapterTitle,
		&s.LatestChapterURL,
		&releaseStr,
		&day,
		&s.Released,
		&addedStr,
		&updatedStr,
	}
	err := row.Scan(append(dest, extra...)...)
	if err != nil {
		return Series{}, err
	}

	if s.LatestChapterReleaseDate, err = parseSQLiteTime(releaseStr); err != nil {
		return Series{}, fmt.Errorf("series %s: release date: %w", s.Key(), err)
	}
	if s.AddedAt, err = parseSQLiteTime(addedStr); err != nil {
		return Series{}, fmt.Errorf("series %s: added_at: %w", s.Key(), err)
	}
	if s.UpdatedAt, err = parseSQLiteTime(updatedStr); err != nil {
		return Series{}, fmt.Errorf("series %s: updated_at: %w", s.Key(), err)
	}
	s.LatestChapterPublishDay = time.Weekday(day)

	return s, nil
}

// InsertSeries adds a newly tracked series. Tracking the same (source,
// manga id) pair twice yields ErrDuplicate.
func (db *DB) InsertSeries(s Series) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	_, err := db.Exec(`
		INSERT INTO series (
			source, manga_id, title, cover_url, author,
			latest_chapter_title, latest_chapter_url,
			latest_chapter_release_date, latest_chapter_publish_day,
			released, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(s.Source), s.MangaID, s.Title, s.CoverURL, s.Author,
		s.LatestChapterTitle, s.LatestChapterURL,
		s.LatestChapterReleaseDate, int(s.LatestChapterPublishDay),
		s.Released, s.AddedAt, s.UpdatedAt,
	)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrDuplicate
	}
	return err
}

// GetSeries loads one tracked series, or ErrNotFound.
func (db *DB) GetSeries(source manga.Source, mangaID string) (Series, error) {
	row := db.QueryRow(
		`SELECT `+seriesColumns+` FROM series WHERE source = ? AND manga_id = ?`,
		string(source), mangaID,
	)
	s, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Series{}, ErrNotFound
	}
	return s, err
}

// ListSeries returns one page of the tracked set matching the query, in a
// stable order, plus the total match count so callers can walk every page.
func (db *DB) ListSeries(q Query, limit, offset int) ([]Series, int, error) {
	where := `WHERE 1=1`
	var args []interface{}
	if q.Source != "" {
		where += ` AND source = ?`
		args = append(args, string(q.Source))
	}
	if q.Text != "" {
		where += ` AND (title LIKE ? OR author LIKE ? OR latest_chapter_title LIKE ?)`
		pat := "%" + q.Text + "%"
		args = append(args, pat, pat, pat)
	}
	if q.Day != nil {
		where += ` AND latest_chapter_publish_day = ?`
		args = append(args, int(*q.Day))
	}
	args = append(args, limit, offset)

	rows, err := db.Query(`
		SELECT `+seriesColumns+`, COUNT(*) OVER () AS total
		FROM series
		`+where+`
		ORDER BY source, manga_id
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var (
		out   []Series
		total int
	)
	for rows.Next() {
		s, err := scanSeries(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// BatchUpdateSeries writes every row in one transaction: either the whole
// check run lands or none of it does.
func (db *DB) BatchUpdateSeries(rows []Series) (err error) {
	if len(rows) == 0 {
		return nil
	}

	dbMutex.Lock()
	defer dbMutex.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r) // re-throw panic
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	stmt, err := tx.Prepare(`
		UPDATE series SET
			title = ?,
			cover_url = ?,
			author = ?,
			latest_chapter_title = ?,
			latest_chapter_url = ?,
			latest_chapter_release_date = ?,
			latest_chapter_publish_day = ?,
			released = ?,
			updated_at = ?
		WHERE source = ? AND manga_id = ?
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range rows {
		if _, err = stmt.Exec(
			s.Title, s.CoverURL, s.Author,
			s.LatestChapterTitle, s.LatestChapterURL,
			s.LatestChapterReleaseDate, int(s.LatestChapterPublishDay),
			s.Released, s.UpdatedAt,
			string(s.Source), s.MangaID,
		); err != nil {
			return err
		}
	}
	return nil
}

// SeriesKey identifies one tracked series.
type SeriesKey struct {
	Source  manga.Source
	MangaID string
}

// DeleteSeries removes the given series in one transaction and reports how
// many of them actually existed.
func (db *DB) DeleteSeries(keys []SeriesKey) (deleted int, err error) {
	if len(keys) == 0 {
		return 0, nil
	}

	dbMutex.Lock()
	defer dbMutex.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r) // re-throw panic
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, key := range keys {
		res, execErr := tx.Exec(`DELETE FROM series WHERE source = ? AND manga_id = ?`,
			string(key.Source), key.MangaID)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		n, raErr := res.RowsAffected()
		if raErr != nil {
			err = raErr
			return 0, err
		}
		deleted += int(n)
	}
	return deleted, nil
}

// CountSeries reports how many series are tracked.
func (db *DB) CountSeries() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM series`).Scan(&n)
	return n, err
}
