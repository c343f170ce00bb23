// Package sqlite provides SQLite-based storage implementations for boxprice services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cigars (
			cid TEXT PRIMARY KEY,
			brand TEXT NOT NULL,
			parent_brand TEXT NOT NULL DEFAULT '',
			line TEXT NOT NULL,
			wrapper TEXT NOT NULL DEFAULT '',
			wrapper_alias TEXT NOT NULL DEFAULT '',
			wrapper_code TEXT NOT NULL DEFAULT '',
			vitola TEXT NOT NULL,
			length TEXT NOT NULL DEFAULT '',
			ring_gauge TEXT NOT NULL DEFAULT '',
			binder TEXT NOT NULL DEFAULT '',
			filler TEXT NOT NULL DEFAULT '',
			strength TEXT NOT NULL DEFAULT '',
			box_qty INTEGER NOT NULL,
			style TEXT NOT NULL DEFAULT '',
			country_of_origin TEXT NOT NULL DEFAULT '',
			factory TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cigars_brand ON cigars(brand);
		CREATE INDEX IF NOT EXISTS idx_cigars_line ON cigars(line);

		CREATE TABLE IF NOT EXISTS price_points (
			day TEXT NOT NULL,
			brand TEXT NOT NULL,
			line TEXT NOT NULL,
			size TEXT NOT NULL,
			source TEXT NOT NULL,
			delivered_cents INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_price_points_key
			ON price_points(day, brand, line, size, source);

		CREATE TABLE IF NOT EXISTS price_history (
			retailer TEXT NOT NULL,
			cigar_id TEXT NOT NULL,
			date TEXT NOT NULL,
			price_cents INTEGER NOT NULL,
			in_stock INTEGER NOT NULL DEFAULT 0,
			url TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (retailer, cigar_id, date)
		);

		CREATE INDEX IF NOT EXISTS idx_price_history_cigar_id ON price_history(cigar_id);

		CREATE TABLE IF NOT EXISTS price_changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			retailer TEXT NOT NULL,
			cigar_id TEXT NOT NULL,
			date TEXT NOT NULL,
			old_cents INTEGER NOT NULL,
			new_cents INTEGER NOT NULL,
			change_type TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_price_changes_cigar_id ON price_changes(cigar_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
