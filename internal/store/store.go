// Package store provides the persistence boundary for workspace snapshots.
// Snapshots are opaque to the store: serialized JSON produced by the
// workspace layer, keyed by workspace ID.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// SnapshotRecord is one persisted workspace snapshot.
type SnapshotRecord struct {
	WorkspaceID uuid.UUID
	Payload     []byte
	UpdatedAt   time.Time
}

// Store defines the interface for snapshot persistence. This allows for
// mocking in tests and potential DB backend switching.
type Store interface {
	// SaveSnapshot inserts or replaces the snapshot for a workspace.
	SaveSnapshot(ctx context.Context, workspaceID uuid.UUID, payload []byte) error

	// GetSnapshot retrieves the snapshot for a workspace, or ErrNotFound.
	GetSnapshot(ctx context.Context, workspaceID uuid.UUID) (*SnapshotRecord, error)

	// DeleteSnapshot removes the snapshot for a workspace. Deleting an absent
	// snapshot is a no-op.
	DeleteSnapshot(ctx context.Context, workspaceID uuid.UUID) error

	// ListSnapshots returns all stored snapshots, most recently updated first.
	ListSnapshots(ctx context.Context) ([]SnapshotRecord, error)

	// Ping verifies connectivity to the underlying database.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
