package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// applicationID marks a SQLite file as a propgrid run history ("prgd").
const applicationID = 0x70726764

// ErrForeignDatabase is returned by Open for a SQLite file that holds
// something other than a run history.
var ErrForeignDatabase = errors.New("not a propgrid run history")

// Store is a run history backed by one SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens the run history at path, creating it if the file is new or
// empty. Opening an existing history is a no-op beyond connecting.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open run history %s: %w", path, err)
	}
	// Runs are written one at a time; seq assignment relies on it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run history %s: %w", path, err)
	}
	if err := claim(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run history %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// dsn builds the connection string. The settings ride on the DSN so every
// connection the pool opens gets them.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	q.Set("_busy_timeout", "5000")
	q.Set("_foreign_keys", "on")
	return "file:" + path + "?" + q.Encode()
}

// claim stamps a new database with the application ID and the runs schema,
// and refuses databases stamped by anything else.
func claim(db *sql.DB) error {
	var id int64
	if err := db.QueryRow("PRAGMA application_id").Scan(&id); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}

	switch id {
	case applicationID:
	case 0:
		var objects int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&objects); err != nil {
			return fmt.Errorf("inspect database: %w", err)
		}
		if objects > 0 {
			return ErrForeignDatabase
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA application_id = %d", applicationID)); err != nil {
			return fmt.Errorf("stamp application_id: %w", err)
		}
	default:
		return fmt.Errorf("%w (application_id %#x)", ErrForeignDatabase, id)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create runs schema: %w", err)
	}
	return nil
}

// Close closes the database. A zero Store closes without error.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
