// Package database persists parsed receipts. It is a collaborator of the
// parsing core: records are consumed by field name and may be mutated here
// (category corrections) after parsing.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// DB wraps the SQLite connection for receipt storage.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the receipts database at path and runs
// the schema setup.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func initSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS receipts (
			bill_id TEXT PRIMARY KEY,
			user_email TEXT,
			vendor TEXT NOT NULL,
			date TEXT NOT NULL,
			amount REAL NOT NULL,
			tax REAL NOT NULL,
			subtotal REAL DEFAULT 0.0,
			category TEXT DEFAULT 'Uncategorized'
		)`,
		`CREATE TABLE IF NOT EXISTS line_items (
			bill_id TEXT NOT NULL REFERENCES receipts(bill_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER,
			price REAL NOT NULL,
			PRIMARY KEY (bill_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS uploads (
			id TEXT PRIMARY KEY,
			bill_id TEXT,
			filename TEXT,
			ocr_source TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vendor ON receipts(vendor)`,
		`CREATE INDEX IF NOT EXISTS idx_date ON receipts(date)`,
		`CREATE INDEX IF NOT EXISTS idx_category ON receipts(category)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
