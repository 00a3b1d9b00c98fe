// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code - no C compiler needed, works everywhere
// Go works. A single embedded file is plenty for this app's write volume
// (bookmark toggles and the occasional registration).
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
// It implements repository.UserRepository, repository.ContentRepository,
// and repository.SavedItemRepository.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/makerburg.db" → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress - catalog
	// reads must not block behind a bookmark write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. saved_items.user_id
	// references users(id), so turn enforcement on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every startup; array-valued columns (body, who, offer, sections,
// culture_links) are stored as JSON text.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_on    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS stories (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			subtitle      TEXT NOT NULL,
			read_time     TEXT NOT NULL,
			region        TEXT NOT NULL,
			craft         TEXT NOT NULL,
			hero          TEXT NOT NULL,
			body          TEXT NOT NULL,
			inline_image  TEXT,
			culture_links TEXT,
			source        TEXT,
			src_fav_icon  TEXT,
			src_link      TEXT,
			author        TEXT,
			is_published  INTEGER NOT NULL DEFAULT 1,
			created_on    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_on    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating stories table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS opportunities (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			for_line     TEXT NOT NULL,
			deadline     TEXT NOT NULL,
			region       TEXT NOT NULL,
			category     TEXT NOT NULL,
			about        TEXT NOT NULL,
			who          TEXT NOT NULL,
			offer        TEXT NOT NULL,
			link_label   TEXT NOT NULL,
			source       TEXT,
			src_fav_icon TEXT,
			src_link     TEXT,
			author       TEXT,
			is_published INTEGER NOT NULL DEFAULT 1,
			created_on   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_on   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating opportunities table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS videos (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			duration     TEXT NOT NULL,
			region       TEXT NOT NULL,
			craft        TEXT NOT NULL,
			thumb        TEXT NOT NULL,
			description  TEXT NOT NULL,
			source       TEXT,
			src_fav_icon TEXT,
			src_link     TEXT,
			author       TEXT,
			is_published INTEGER NOT NULL DEFAULT 1,
			created_on   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_on   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating videos table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS culture_entries (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			region       TEXT NOT NULL,
			craft        TEXT NOT NULL,
			hero         TEXT NOT NULL,
			intro        TEXT NOT NULL,
			sections     TEXT NOT NULL,
			author       TEXT,
			is_published INTEGER NOT NULL DEFAULT 1,
			created_on   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_on   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating culture_entries table: %w", err)
	}

	// The composite UNIQUE index is what makes AddSavedItem idempotent:
	// INSERT OR IGNORE against it turns a duplicate save into a no-op.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS saved_items (
			id        TEXT PRIMARY KEY,
			user_id   TEXT NOT NULL REFERENCES users(id),
			item_kind TEXT NOT NULL,
			item_id   TEXT NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_items_user_kind_id
			ON saved_items(user_id, item_kind, item_id);
		CREATE INDEX IF NOT EXISTS idx_saved_items_user ON saved_items(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating saved_items table: %w", err)
	}

	return nil
}
