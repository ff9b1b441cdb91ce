// Package mysql provides the MySQL session snapshot store.
//
// MySQL is an alternative remote tier with the same contract as the
// PostgreSQL store. Snapshots and archive entries are stored as JSON
// payloads.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session"
)

// Client implements session.Store using MySQL as the backend.
type Client struct {
	db *sql.DB
}

// Config contains configuration for creating a MySQL session store.
type Config struct {
	// Host is the database host.
	Host string

	// Port is the database port (default 3306).
	Port int

	// User is the database user.
	User string

	// Password is the database password.
	Password string

	// DBName is the database name.
	DBName string
}

// NewClient creates a new MySQL session store.
//
// Parameters:
//   - cfg: Configuration containing connection parameters
//
// Returns:
//   - *Client: The MySQL store instance
//   - error: Error if the connection or table creation fails
func NewClient(cfg *Config) (*Client, error) {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true",
		cfg.User, cfg.Password, cfg.Host, port, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewMySQLClient: %w", err)
	}

	client := &Client{db: db}
	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) initTables(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_snapshots (
			session_id VARCHAR(64) PRIMARY KEY,
			payload JSON NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS archive_entries (
			id VARCHAR(64) PRIMARY KEY,
			entry_index BIGINT NOT NULL,
			category VARCHAR(32) NOT NULL,
			payload JSON NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_archive_entries_category (category, entry_index)
		)
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
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)
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
