package workspace

import "unicode/utf8"

// Message is one entry in the conversation log. PersonaName is a denormalized
// copy of the speaker's name at authoring time, not a live reference: deleting
// the persona later leaves the message intact and rendering falls back to
// default styling.
type Message struct {
	PersonaName string `json:"persona_name"`
	Content     string `json:"content"`
	Editable    bool   `json:"editable"`
	Edited      bool   `json:"edited"`

	// pendingDelete marks the first phase of the two-phase delete. While set,
	// the only valid operations on the message are confirm and cancel.
	pendingDelete bool
}

// PendingDelete reports whether the message is awaiting delete confirmation.
func (m *Message) PendingDelete() bool {
	return m.pendingDelete
}

// Log is the ordered, append-mostly conversation history. Edit and delete are
// the only mutations, both in place at a stable 1-based position; order is
// never reshuffled. The registry reference is lookup-only: it supplies the
// label set for prefix stripping and styling metadata, never structural
// integrity.
type Log struct {
	registry *Registry
	messages []*Message
}

// NewLog creates an empty conversation log bound to a registry for
// label-stripping and styling lookups.
func NewLog(registry *Registry) *Log {
	return &Log{registry: registry}
}

// Append adds a message to the end of the log. Leading speaker labels are
// stripped from raw content: the speaker's own "Name:" prefix and any prefix
// matching another currently registered persona's name, which handles backend
// responses that echo a label.
func (l *Log) Append(personaName, raw string, editable bool) *Message {
	m := &Message{
		PersonaName: personaName,
		Content:     stripSpeakerLabels(raw, personaName, l.registry.Names()),
		Editable:    editable,
	}
	l.messages = append(l.messages, m)
	return m
}

// Edit replaces the content of the message at the given 1-based position and
// marks it edited (a message already marked stays marked once). Edited content
// is re-rendered for markup on read but does not re-run speaker label
// stripping; stripping is an ingest step, edits are explicit user text.
func (l *Log) Edit(position int, content string) error {
	m, err := l.at(position)
	if err != nil {
		return err
	}
	if m.pendingDelete {
		return ErrDeletePending
	}
	m.Content = content
	m.Edited = true
	return nil
}

// MarkDelete starts the two-phase delete for the message at position. The
// message stays in the log (and in extractions) until confirmed.
func (l *Log) MarkDelete(position int) error {
	m, err := l.at(position)
	if err != nil {
		return err
	}
	if m.pendingDelete {
		return ErrDeletePending
	}
	m.pendingDelete = true
	return nil
}

// ConfirmDelete completes a pending delete, removing the message. Positions of
// later messages shift down by one.
func (l *Log) ConfirmDelete(position int) error {
	m, err := l.at(position)
	if err != nil {
		return err
	}
	if !m.pendingDelete {
		return ErrNoDeletePending
	}
	l.messages = append(l.messages[:position-1], l.messages[position:]...)
	return nil
}

// CancelDelete aborts a pending delete, restoring the message to its normal
// interactive state.
func (l *Log) CancelDelete(position int) error {
	m, err := l.at(position)
	if err != nil {
		return err
	}
	if !m.pendingDelete {
		return ErrNoDeletePending
	}
	m.pendingDelete = false
	return nil
}

// Clear removes every message from the log.
func (l *Log) Clear() {
	l.messages = nil
}

// Message returns a copy of the message at the given 1-based position.
func (l *Log) Message(position int) (Message, error) {
	m, err := l.at(position)
	if err != nil {
		return Message{}, err
	}
	return *m, nil
}

// Messages returns copies of all live messages in log order.
func (l *Log) Messages() []Message {
	out := make([]Message, 0, len(l.messages))
	for _, m := range l.messages {
		out = append(out, *m)
	}
	return out
}

// RenderedContent returns the markup-rendered content of the message at the
// given 1-based position.
func (l *Log) RenderedContent(position int) (string, error) {
	m, err := l.at(position)
	if err != nil {
		return "", err
	}
	return RenderMarkup(m.Content), nil
}

// Count returns the number of live messages. Recomputed on every call; never
// a stale cache.
func (l *Log) Count() int {
	return len(l.messages)
}

// TotalCharacters returns the summed rendered text length of all live
// messages. Markup wrappers add no visible text, so this is the rune count of
// the stored content.
func (l *Log) TotalCharacters() int {
	total := 0
	for _, m := range l.messages {
		total += utf8.RuneCountInString(m.Content)
	}
	return total
}

// restore replaces the whole log contents. Used only by snapshot restore,
// which stores content that was already stripped at original authoring time.
func (l *Log) restore(messages []*Message) {
	l.messages = messages
}

func (l *Log) at(position int) (*Message, error) {
	if position < 1 || position > len(l.messages) {
		return nil, ErrMessageNotFound
	}
	return l.messages[position-1], nil
}
