package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Index keeps synthesis metadata in a SQLite database next to the cache
// files. The audio files themselves remain the source of truth; the index
// only powers diagnostics like --cache-stats.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the metadata index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache index: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS synthesis (
		fingerprint TEXT PRIMARY KEY,
		text        TEXT NOT NULL,
		voice_id    TEXT NOT NULL,
		chars       INTEGER NOT NULL,
		created_at  TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Record upserts a synthesis entry.
func (ix *Index) Record(fingerprint, text, voiceID string, chars int) error {
	_, err := ix.db.Exec(
		`INSERT OR REPLACE INTO synthesis (fingerprint, text, voice_id, chars, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		fingerprint, text, voiceID, chars, time.Now().UTC(),
	)
	return err
}

// Stats returns the number of indexed syntheses and the total character
// count sent to the TTS backend.
func (ix *Index) Stats() (entries int, totalChars int64, err error) {
	row := ix.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(chars), 0) FROM synthesis`)
	if err := row.Scan(&entries, &totalChars); err != nil {
		return 0, 0, err
	}
	return entries, totalChars, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}
