package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using a local SQLite file. Snapshot saves are
// whole-row replacements, so a single table with an upsert covers the full
// contract.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed snapshot store at dbPath, creating
// parent directories as needed.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode keeps concurrent snapshot reads cheap while a save is running.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS snapshots (
		workspace_id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveSnapshot inserts or replaces the snapshot for a workspace.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, workspaceID uuid.UUID, payload []byte) error {
	query := `
	INSERT INTO snapshots (workspace_id, payload, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(workspace_id) DO UPDATE SET
		payload = excluded.payload,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, workspaceID.String(), string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves the snapshot for a workspace.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, workspaceID uuid.UUID) (*SnapshotRecord, error) {
	query := `SELECT workspace_id, payload, updated_at FROM snapshots WHERE workspace_id = ?`

	row := s.db.QueryRowContext(ctx, query, workspaceID.String())

	var idStr, payload string
	var updatedAt int64
	err := row.Scan(&idStr, &payload, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot row: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse workspace id %q: %w", idStr, err)
	}

	return &SnapshotRecord{
		WorkspaceID: id,
		Payload:     []byte(payload),
		UpdatedAt:   time.Unix(updatedAt, 0),
	}, nil
}

// DeleteSnapshot removes the snapshot for a workspace.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, workspaceID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE workspace_id = ?`, workspaceID.String())
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns all stored snapshots, most recently updated first.
func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]SnapshotRecord, error) {
	query := `SELECT workspace_id, payload, updated_at FROM snapshots ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []SnapshotRecord
	for rows.Next() {
		var idStr, payload string
		var updatedAt int64
		if err := rows.Scan(&idStr, &payload, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse workspace id %q: %w", idStr, err)
		}
		records = append(records, SnapshotRecord{
			WorkspaceID: id,
			Payload:     []byte(payload),
			UpdatedAt:   time.Unix(updatedAt, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return records, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
