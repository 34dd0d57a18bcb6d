// Package sqlite implements the persistence contracts on an embedded
// SQLite database. Decimal values are stored as exact text to avoid
// floating-point drift; timestamps as integer epoch milliseconds.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (and creates, if needed) the database at dbPath.
// Paths with a "file:" scheme are used as-is; this is how tests run
// against in-memory databases.
func NewDB(dbPath string) (*DB, error) {
	dsn := dbPath
	if !strings.HasPrefix(dbPath, "file:") {
		// Ensure directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL mode for better concurrency
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the schema when it does not exist yet
func (db *DB) Migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			crypto_id         TEXT PRIMARY KEY,
			symbol            TEXT NOT NULL,
			name              TEXT NOT NULL,
			amount            TEXT NOT NULL,
			average_buy_price TEXT NOT NULL,
			icon_url          TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id             TEXT PRIMARY KEY,
			crypto_id      TEXT NOT NULL,
			symbol         TEXT NOT NULL,
			type           TEXT NOT NULL,
			amount         TEXT NOT NULL,
			price_per_unit TEXT NOT NULL,
			timestamp      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_timestamp
			ON transactions (timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS account_info (
			id      INTEGER PRIMARY KEY CHECK (id = 1),
			balance TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			id                    INTEGER PRIMARY KEY CHECK (id = 1),
			theme_mode            TEXT NOT NULL,
			notifications_enabled INTEGER NOT NULL,
			language              TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
