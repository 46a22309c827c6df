package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"personachat-backend/internal/config"
	"personachat-backend/internal/store"
	"personachat-backend/internal/workspace"
)

// WorkspaceService owns the live workspaces and their snapshot persistence.
// Workspaces themselves serialize their own mutations; this service only
// guards the workspace map.
type WorkspaceService struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*workspace.Workspace

	store store.Store
	seed  *config.Seed
}

// NewWorkspaceService creates a new WorkspaceService using the given snapshot
// store and seed configuration.
func NewWorkspaceService(st store.Store, seed *config.Seed) *WorkspaceService {
	return &WorkspaceService{
		workspaces: make(map[uuid.UUID]*workspace.Workspace),
		store:      st,
		seed:       seed,
	}
}

// Seed returns the active seed configuration.
func (s *WorkspaceService) Seed() *config.Seed {
	return s.seed
}

// Create makes a new workspace. When seeded, the sample personas and default
// context from the active seed are installed, color slots following the seed's
// color_index values (round-robin when absent).
func (s *WorkspaceService) Create(name string, seeded bool) (*workspace.Workspace, error) {
	w := workspace.New(uuid.New(), workspace.WithName(name))

	if seeded {
		for _, sp := range s.seed.SamplePersonas {
			if _, err := w.AddPersona(sp.Name, sp.Prompt, sp.ColorIndex, nil); err != nil {
				return nil, fmt.Errorf("seed persona %q: %w", sp.Name, err)
			}
		}
		if s.seed.DefaultContext != "" {
			w.SetDraftContext(s.seed.DefaultContext)
		}
	}

	s.mu.Lock()
	s.workspaces[w.ID] = w
	s.mu.Unlock()

	log.Info().Str("workspace_id", w.ID.String()).Str("name", name).Bool("seeded", seeded).
		Msg("workspace created")
	return w, nil
}

// Get resolves a workspace by ID.
func (s *WorkspaceService) Get(id uuid.UUID) (*workspace.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return w, nil
}

// List returns all live workspaces, oldest first.
func (s *WorkspaceService) List() []*workspace.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*workspace.Workspace, 0, len(s.workspaces))
	for _, w := range s.workspaces {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes a workspace and its persisted snapshot.
func (s *WorkspaceService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()

	if !ok {
		return ErrWorkspaceNotFound
	}
	if err := s.store.DeleteSnapshot(ctx, id); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	log.Info().Str("workspace_id", id.String()).Msg("workspace deleted")
	return nil
}

// SaveSnapshot persists the workspace's current state.
func (s *WorkspaceService) SaveSnapshot(ctx context.Context, id uuid.UUID) error {
	w, err := s.Get(id)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(w.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, id, payload); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	log.Info().Str("workspace_id", id.String()).Int("bytes", len(payload)).Msg("snapshot saved")
	return nil
}

// RestoreSnapshot replaces the workspace's state with its persisted snapshot.
// All-or-nothing: a missing or unparsable snapshot is reported and the
// in-memory state stays untouched.
func (s *WorkspaceService) RestoreSnapshot(ctx context.Context, id uuid.UUID) error {
	w, err := s.Get(id)
	if err != nil {
		return err
	}

	rec, err := s.store.GetSnapshot(ctx, id)
	if err == store.ErrNotFound {
		return ErrNoSnapshot
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var snap workspace.Snapshot
	if err := json.Unmarshal(rec.Payload, &snap); err != nil {
		return fmt.Errorf("%w: %v", workspace.ErrBadSnapshot, err)
	}
	if err := w.Restore(snap); err != nil {
		return err
	}

	log.Info().Str("workspace_id", id.String()).Msg("snapshot restored")
	return nil
}
