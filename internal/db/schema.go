package db

// CreateTables creates the necessary tables in the database.
func (db *DB) CreateTables() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS series (
			source TEXT NOT NULL,
			manga_id TEXT NOT NULL,
			title TEXT NOT NULL,
			cover_url TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			latest_chapter_title TEXT NOT NULL DEFAULT '',
			latest_chapter_url TEXT NOT NULL DEFAULT '',
			latest_chapter_release_date TIMESTAMP NOT NULL,
			latest_chapter_publish_day INTEGER NOT NULL
				CHECK (latest_chapter_publish_day BETWEEN 0 AND 6),
			released INTEGER NOT NULL DEFAULT 0,
			added_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (source, manga_id)
		);
	`)
	return err
}
