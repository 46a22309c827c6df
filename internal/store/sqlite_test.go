package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestSaveAndGetSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.SaveSnapshot(ctx, id, []byte(`{"context":"test"}`)))

	rec, err := s.GetSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.WorkspaceID)
	assert.JSONEq(t, `{"context":"test"}`, string(rec.Payload))
}

func TestSaveSnapshotReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.SaveSnapshot(ctx, id, []byte(`{"v":1}`)))
	require.NoError(t, s.SaveSnapshot(ctx, id, []byte(`{"v":2}`)))

	rec, err := s.GetSnapshot(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(rec.Payload))

	records, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetSnapshotNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSnapshot(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.SaveSnapshot(ctx, id, []byte(`{}`)))
	require.NoError(t, s.DeleteSnapshot(ctx, id))

	_, err := s.GetSnapshot(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent snapshot is a no-op.
	require.NoError(t, s.DeleteSnapshot(ctx, id))
}

func TestListSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveSnapshot(ctx, uuid.New(), []byte(`{}`)))
	}

	records, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
