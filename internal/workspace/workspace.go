// Package workspace implements the conversation/persona state manager: the
// persona registry, the ordered conversation log, the derived UI projections,
// and the transcript extractor. A Workspace is the single owner of all of
// that state; every mutation funnels through its methods and is serialized
// behind one mutex, which preserves the user-action ordering guarantees even
// with remote exchanges in flight.
package workspace

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace is one conversation workspace: a registry, a log, the two context
// slots, and the projections derived from them. Projections are recomputed
// synchronously after every mutation so reads never observe stale counters.
type Workspace struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time

	mu               sync.Mutex
	registry         *Registry
	log              *Log
	draftContext     string
	committedContext string
	analysisResult   string
	projections      Projections
	updatedAt        time.Time
}

// Option customizes a workspace at creation time.
type Option func(*Workspace)

// WithName sets a display label for the workspace.
func WithName(name string) Option {
	return func(w *Workspace) {
		w.Name = name
	}
}

// WithDraftContext pre-fills the editable context slot.
func WithDraftContext(draft string) Option {
	return func(w *Workspace) {
		w.draftContext = draft
	}
}

// New creates an empty workspace.
func New(id uuid.UUID, options ...Option) *Workspace {
	registry := NewRegistry()
	w := &Workspace{
		ID:        id,
		CreatedAt: time.Now(),
		registry:  registry,
		log:       NewLog(registry),
	}
	for _, option := range options {
		option(w)
	}
	w.projections = Project(w.registry, w.log)
	w.updatedAt = w.CreatedAt
	return w
}

// refresh is the view projector pass: it recomputes every derived projection
// from current registry and log state. Called after each mutation while the
// lock is held.
func (w *Workspace) refresh() {
	w.projections = Project(w.registry, w.log)
	w.updatedAt = time.Now()
}

// --- Persona operations ---

// AddPersona registers a new persona; colorSlot 0 selects round-robin
// assignment.
func (w *Workspace) AddPersona(name, prompt string, colorSlot int, avatar []byte) (Persona, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, err := w.registry.Add(name, prompt, colorSlot, avatar)
	if err != nil {
		return Persona{}, err
	}
	w.refresh()
	return *p, nil
}

// UpdatePersonaPrompt replaces a persona's behavior prompt.
func (w *Workspace) UpdatePersonaPrompt(name, prompt string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.registry.UpdatePrompt(name, prompt); err != nil {
		return err
	}
	w.refresh()
	return nil
}

// UpdatePersonaAvatar replaces a persona's avatar image.
func (w *Workspace) UpdatePersonaAvatar(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.registry.UpdateAvatar(name, data); err != nil {
		return err
	}
	w.refresh()
	return nil
}

// RemovePersona deletes a persona. Idempotent: removing an absent name is a
// no-op, but the projection refresh runs either way.
func (w *Workspace) RemovePersona(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.registry.Remove(name)
	w.refresh()
}

// Personas returns the live personas in insertion order.
func (w *Workspace) Personas() []Persona {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.Personas()
}

// Persona returns one persona by name.
func (w *Workspace) Persona(name string) (Persona, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.registry.Get(name)
	if !ok {
		return Persona{}, ErrPersonaNotFound
	}
	return *p, nil
}

// --- Message operations ---

// MessageView is a message projected for display: rendered content plus the
// current (lookup-only) styling resolution of its speaker. A speaker that no
// longer resolves falls back to the default color slot with no avatar.
type MessageView struct {
	Position      int    `json:"position"`
	PersonaName   string `json:"persona_name"`
	Content       string `json:"content"`
	Rendered      string `json:"rendered"`
	ColorSlot     int    `json:"color_slot"`
	HasAvatar     bool   `json:"has_avatar"`
	Editable      bool   `json:"editable"`
	Edited        bool   `json:"edited"`
	PendingDelete bool   `json:"pending_delete"`
}

// AppendMessage adds a message to the log, stripping echoed speaker labels,
// and refreshes the counters.
func (w *Workspace) AppendMessage(personaName, raw string, editable bool) MessageView {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.log.Append(personaName, raw, editable)
	w.refresh()
	return w.view(w.log.Count())
}

// EditMessage replaces message content in place and marks it edited.
func (w *Workspace) EditMessage(position int, content string) (MessageView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.log.Edit(position, content); err != nil {
		return MessageView{}, err
	}
	w.refresh()
	return w.view(position), nil
}

// MarkMessageDelete starts the two-phase delete.
func (w *Workspace) MarkMessageDelete(position int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.log.MarkDelete(position); err != nil {
		return err
	}
	w.refresh()
	return nil
}

// ConfirmMessageDelete completes a pending delete and refreshes counters.
func (w *Workspace) ConfirmMessageDelete(position int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.log.ConfirmDelete(position); err != nil {
		return err
	}
	w.refresh()
	return nil
}

// CancelMessageDelete aborts a pending delete.
func (w *Workspace) CancelMessageDelete(position int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.log.CancelDelete(position); err != nil {
		return err
	}
	w.refresh()
	return nil
}

// ClearMessages wipes the conversation log.
func (w *Workspace) ClearMessages() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.log.Clear()
	w.refresh()
}

// Messages returns display views of every live message in log order.
func (w *Workspace) Messages() []MessageView {
	w.mu.Lock()
	defer w.mu.Unlock()

	views := make([]MessageView, 0, w.log.Count())
	for i := 1; i <= w.log.Count(); i++ {
		views = append(views, w.view(i))
	}
	return views
}

func (w *Workspace) view(position int) MessageView {
	m, _ := w.log.Message(position)

	colorSlot := DefaultColorSlot
	hasAvatar := false
	if p, ok := w.registry.Get(m.PersonaName); ok {
		colorSlot = p.ColorSlot
		hasAvatar = len(p.Avatar) > 0
	}

	return MessageView{
		Position:      position,
		PersonaName:   m.PersonaName,
		Content:       m.Content,
		Rendered:      RenderMarkup(m.Content),
		ColorSlot:     colorSlot,
		HasAvatar:     hasAvatar,
		Editable:      m.Editable,
		Edited:        m.Edited,
		PendingDelete: m.PendingDelete(),
	}
}

// --- Context operations ---

// SetDraftContext replaces the editable context slot.
func (w *Workspace) SetDraftContext(draft string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draftContext = draft
	w.updatedAt = time.Now()
}

// CommitContext promotes the draft to the committed slot. The draft must be
// non-empty after trimming.
func (w *Workspace) CommitContext() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	draft := strings.TrimSpace(w.draftContext)
	if draft == "" {
		return ErrEmptyContext
	}
	w.committedContext = draft
	w.updatedAt = time.Now()
	return nil
}

// DraftContext returns the editable context slot.
func (w *Workspace) DraftContext() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draftContext
}

// CommittedContext returns the committed context slot.
func (w *Workspace) CommittedContext() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committedContext
}

// EffectiveContext is the context value remote requests use: the committed
// slot when one exists, otherwise the current draft.
func (w *Workspace) EffectiveContext() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.committedContext != "" {
		return w.committedContext
	}
	return strings.TrimSpace(w.draftContext)
}

// --- Derived reads ---

// Projections returns the current UI projections.
func (w *Workspace) Projections() Projections {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.projections
}

// Extract flattens a message subset per the given policy.
func (w *Workspace) Extract(policy Policy) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Extract(w.log, policy)
}

// SetAnalysisResult overwrites the stored analysis result.
func (w *Workspace) SetAnalysisResult(result string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.analysisResult = result
}

// AnalysisResult returns the last stored analysis result.
func (w *Workspace) AnalysisResult() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.analysisResult
}

// UpdatedAt returns the time of the last mutation.
func (w *Workspace) UpdatedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

// --- Snapshot operations ---

// Snapshot captures the full workspace state for persistence.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{Context: w.draftContext}
	for _, m := range w.log.Messages() {
		snap.Conversation = append(snap.Conversation, SnapshotMessage{
			PersonaName: m.PersonaName,
			Content:     m.Content,
			Editable:    m.Editable,
			Edited:      m.Edited,
		})
	}
	for _, p := range w.registry.Personas() {
		snap.Personas = append(snap.Personas, SnapshotPersona{
			Name:       p.Name,
			Prompt:     p.Prompt,
			ColorIndex: p.ColorSlot,
			Avatar:     p.Avatar,
		})
	}
	return snap
}

// Restore replaces the registry, log, and draft context with the snapshot
// contents. All-or-nothing: the snapshot is fully validated and materialized
// first; on any error the current state is untouched. Restored content was
// stripped at original authoring time, so label stripping is not re-applied.
func (w *Workspace) Restore(snap Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := snap.validate(); err != nil {
		return err
	}

	registry := NewRegistry()
	for _, p := range snap.Personas {
		slot := p.ColorIndex
		if slot < 1 || slot > PaletteSize {
			slot = 0 // round-robin
		}
		if _, err := registry.Add(p.Name, p.Prompt, slot, p.Avatar); err != nil {
			return err
		}
	}

	log := NewLog(registry)
	messages := make([]*Message, 0, len(snap.Conversation))
	for _, m := range snap.Conversation {
		messages = append(messages, &Message{
			PersonaName: m.PersonaName,
			Content:     m.Content,
			Editable:    m.Editable,
			Edited:      m.Edited,
		})
	}
	log.restore(messages)

	w.registry = registry
	w.log = log
	w.draftContext = snap.Context
	w.refresh()
	return nil
}
