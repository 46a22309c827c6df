package workspace

import "strings"

// Snapshot is the persisted workspace form: the full log, the draft context,
// and the persona set. Field names match the save format the browser client
// used in local storage, so existing saves stay readable.
type Snapshot struct {
	Conversation []SnapshotMessage `json:"conversation"`
	Context      string            `json:"context"`
	Personas     []SnapshotPersona `json:"personas"`
}

// SnapshotMessage is one persisted log entry.
type SnapshotMessage struct {
	PersonaName string `json:"persona_name"`
	Content     string `json:"content"`
	Editable    bool   `json:"editable"`
	Edited      bool   `json:"edited,omitempty"`
}

// SnapshotPersona is one persisted persona record.
type SnapshotPersona struct {
	Name       string `json:"name"`
	Prompt     string `json:"prompt"`
	ColorIndex int    `json:"colorIndex"`
	Avatar     []byte `json:"avatar,omitempty"`
}

// validate checks a snapshot before any state is replaced. Restore is
// all-or-nothing, so every problem must surface here.
func (s *Snapshot) validate() error {
	seen := make(map[string]struct{}, len(s.Personas))
	for _, p := range s.Personas {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return ErrBadSnapshot
		}
		if _, dup := seen[name]; dup {
			return ErrBadSnapshot
		}
		seen[name] = struct{}{}
	}
	for _, m := range s.Conversation {
		if m.PersonaName == "" {
			return ErrBadSnapshot
		}
	}
	return nil
}
