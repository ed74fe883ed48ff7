package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory SQLite database
const MemoryPath = ":memory:"

// SQLiteDB wraps a SQLite connection used for local and development stores
type SQLiteDB struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the SQLite database at path and applies the schema
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL so the API server and a scheduled run can read concurrently
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// every connection to :memory: is a separate database
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &SQLiteDB{conn: conn, path: path}
	if err := db.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the engine tables if they do not exist
func (db *SQLiteDB) Migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *SQLiteDB) Close() error {
	return db.conn.Close()
}

// Ping verifies database connectivity
func (db *SQLiteDB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying sql.DB connection
func (db *SQLiteDB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *SQLiteDB) Path() string {
	return db.path
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stat_aggregates (
	entity           TEXT    NOT NULL,
	team             TEXT    NOT NULL DEFAULT '',
	season           INTEGER NOT NULL,
	week             INTEGER NOT NULL,
	attempts         INTEGER NOT NULL DEFAULT 0,
	scores           INTEGER NOT NULL DEFAULT 0,
	zone_entries     INTEGER NOT NULL DEFAULT 0,
	zone_completions INTEGER NOT NULL DEFAULT 0,
	targets          INTEGER NOT NULL DEFAULT 0,
	touches          INTEGER NOT NULL DEFAULT 0,
	imported_at      TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (entity, season, week)
);

CREATE TABLE IF NOT EXISTS defense_aggregates (
	team                 TEXT    NOT NULL,
	season               INTEGER NOT NULL,
	week                 INTEGER NOT NULL,
	zone_entries_allowed INTEGER NOT NULL DEFAULT 0,
	scores_allowed       INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (team, season, week)
);

CREATE TABLE IF NOT EXISTS context_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	entity       TEXT    NOT NULL,
	team         TEXT    NOT NULL DEFAULT '',
	season       INTEGER NOT NULL,
	week         INTEGER NOT NULL,
	yardline_100 INTEGER NOT NULL,
	down         INTEGER NOT NULL DEFAULT 0,
	distance     INTEGER NOT NULL DEFAULT 0,
	outcome      INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_context_entity_period ON context_records (entity, season, week);

CREATE TABLE IF NOT EXISTS prop_lines (
	entity     TEXT    NOT NULL,
	team       TEXT    NOT NULL DEFAULT '',
	opponent   TEXT    NOT NULL DEFAULT '',
	home       INTEGER NOT NULL DEFAULT 0,
	market     TEXT    NOT NULL,
	line       REAL    NOT NULL,
	over_odds  INTEGER NOT NULL,
	under_odds INTEGER,
	book       TEXT    NOT NULL DEFAULT '',
	season     INTEGER NOT NULL,
	week       INTEGER NOT NULL,
	PRIMARY KEY (entity, market, season, week, book)
);
`
