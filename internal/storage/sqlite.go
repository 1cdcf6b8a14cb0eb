package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/dm/internal/model"
)

// SQLiteStorage implements Storage using a SQLite database.
// The database is opened on first use; Load never creates the file.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage returns a backend for the database at path.
func NewSQLiteStorage(path string) *SQLiteStorage {
	return &SQLiteStorage{path: path}
}

// Close closes the database connection, if one was opened.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// open connects to the database and ensures the schema exists.
func (s *SQLiteStorage) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.db = db
	return nil
}

// recreate discards a database that cannot be opened and starts a new one.
func (s *SQLiteStorage) recreate() error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return s.open()
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bookmarks (
			no INTEGER PRIMARY KEY NOT NULL,
			id TEXT,
			name TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL,
			is_quick INTEGER NOT NULL DEFAULT 0,
			last INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_name ON bookmarks(name);
	`)
	return err
}

// Load reads bookmarks ordered by sequence number.
// A missing database yields an empty collection.
func (s *SQLiteStorage) Load() (model.Bookmarks, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return model.Bookmarks{}, nil
			}
			return model.Bookmarks{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		if err := s.open(); err != nil {
			return model.Bookmarks{}, fmt.Errorf("%w: %s: %w", ErrUnreadable, s.path, err)
		}
	}

	bookmarks := model.Bookmarks{}

	rows, err := s.db.Query(`
		SELECT no, id, name, path, is_quick, last
		FROM bookmarks
		ORDER BY no
	`)
	if err != nil {
		return model.Bookmarks{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Bookmark
		var id sql.NullString
		var isQuick, last int

		if err := rows.Scan(&b.No, &id, &b.Name, &b.Path, &isQuick, &last); err != nil {
			return model.Bookmarks{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}

		b.ID = id.String
		b.IsQuick = isQuick == 1
		b.Last = last == 1

		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return model.Bookmarks{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	return bookmarks, nil
}

// Save replaces all rows with the given bookmarks.
// Uses a transaction for atomicity - all or nothing.
// A database that cannot be opened is replaced by a fresh one.
func (s *SQLiteStorage) Save(bookmarks model.Bookmarks) error {
	if err := s.ensureOpen(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := s.save(bookmarks); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (s *SQLiteStorage) ensureOpen() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return s.recreate()
	}
	return nil
}

func (s *SQLiteStorage) save(bookmarks model.Bookmarks) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM bookmarks"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO bookmarks (no, id, name, path, is_quick, last)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bookmarks {
		var id *string
		if b.ID != "" {
			id = &b.ID
		}
		if _, err := stmt.Exec(b.No, id, b.Name, b.Path, boolToInt(b.IsQuick), boolToInt(b.Last)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
