// Package sqlite provides the SQLite session snapshot store.
//
// SQLite is the local fallback tier: a lightweight file-based database
// that survives process restarts without any external service. Snapshots
// and archive entries are stored as JSON strings in TEXT fields.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session"
)

// Client implements session.Store using SQLite as the backend.
type Client struct {
	// db is the SQLite database connection.
	db *sql.DB
}

// Config contains configuration for creating a SQLite session store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string
}

// NewClient creates a new SQLite session store.
//
// Parameters:
//   - cfg: Configuration containing the database file path
//
// Returns:
//   - *Client: The SQLite store instance
//   - error: Error if database connection or table creation fails
func NewClient(cfg *Config) (*Client, error) {
	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	client := &Client{db: db}
	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}
	return client, nil
}

// initTables initializes the snapshot and archive tables.
func (c *Client) initTables(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_snapshots (
			session_id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS archive_entries (
			id TEXT PRIMARY KEY,
			entry_index INTEGER NOT NULL,
			category TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_archive_entries_category
		ON archive_entries(category, entry_index)
	`)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}
	return nil
}

// SaveSnapshot inserts or replaces the snapshot for its session id.
func (c *Client) SaveSnapshot(ctx context.Context, snapshot *session.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("SaveSnapshot: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO session_snapshots (session_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, snapshot.SessionID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("SaveSnapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the snapshot for a session id, or
// session.ErrSnapshotNotFound if none exists.
func (c *Client) LoadSnapshot(ctx context.Context, sessionID string) (*session.Snapshot, error) {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM session_snapshots WHERE session_id = ?`, sessionID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, session.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("LoadSnapshot: %w", err)
	}

	var snapshot session.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("LoadSnapshot: %w", err)
	}
	return &snapshot, nil
}

// SaveEntry inserts an archive entry.
func (c *Client) SaveEntry(ctx context.Context, entry *session.ArchiveEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("SaveEntry: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO archive_entries (id, entry_index, category, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Index, entry.Category, string(payload), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("SaveEntry: %w", err)
	}
	return nil
}

// ListEntriesByCategory returns all archive entries filed under the given
// category slug, ordered by archive index.
func (c *Client) ListEntriesByCategory(ctx context.Context, categorySlug string) ([]*session.ArchiveEntry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT payload FROM archive_entries WHERE category = ? ORDER BY entry_index ASC
	`, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("ListEntriesByCategory: %w", err)
	}
	defer rows.Close()

	var entries []*session.ArchiveEntry
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("ListEntriesByCategory: %w", err)
		}
		var entry session.ArchiveEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			return nil, fmt.Errorf("ListEntriesByCategory: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListEntriesByCategory: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
