package workspace

import "strings"

const (
	// PaletteSize is the number of display color slots. Slots are assigned
	// round-robin at creation, so registries larger than the palette reuse colors.
	PaletteSize = 6

	// MaxAvatarBytes is the upload ceiling for persona avatar images (5 MiB).
	MaxAvatarBytes = 5 * 1024 * 1024

	// DefaultColorSlot is the styling fallback for messages whose persona no
	// longer resolves in the registry.
	DefaultColorSlot = 1
)

// Persona is a named speaker identity with a behavior prompt, a display color
// slot in [1, PaletteSize], and an optional avatar image.
type Persona struct {
	Name      string `json:"name"`
	Prompt    string `json:"prompt"`
	ColorSlot int    `json:"color_slot"`
	Avatar    []byte `json:"avatar,omitempty"`
}

// Registry owns the set of live personas. Names are primary keys: unique among
// live personas, never renamed (delete + recreate). Insertion order is
// preserved and is the order every derived selection list must use.
//
// Registry is not safe for concurrent use on its own; the owning Workspace
// serializes access.
type Registry struct {
	personas []*Persona
}

// NewRegistry creates an empty persona registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a new persona. The name is trimmed and must be non-empty and
// unique (case-sensitive). A colorSlot of 0 assigns the next round-robin slot:
// (currentCount mod PaletteSize) + 1.
func (r *Registry) Add(name, prompt string, colorSlot int, avatar []byte) (*Persona, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, ok := r.find(name); ok {
		return nil, ErrDuplicateName
	}
	if colorSlot < 1 || colorSlot > PaletteSize {
		colorSlot = (len(r.personas) % PaletteSize) + 1
	}
	p := &Persona{
		Name:      name,
		Prompt:    prompt,
		ColorSlot: colorSlot,
		Avatar:    avatar,
	}
	r.personas = append(r.personas, p)
	return p, nil
}

// UpdatePrompt replaces a persona's behavior prompt in place.
func (r *Registry) UpdatePrompt(name, prompt string) error {
	p, ok := r.find(name)
	if !ok {
		return ErrPersonaNotFound
	}
	p.Prompt = prompt
	return nil
}

// UpdateAvatar replaces a persona's avatar image. Uploads above MaxAvatarBytes
// are rejected with ErrAvatarTooLarge and leave the existing avatar in place.
func (r *Registry) UpdateAvatar(name string, data []byte) error {
	p, ok := r.find(name)
	if !ok {
		return ErrPersonaNotFound
	}
	if len(data) > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	p.Avatar = data
	return nil
}

// Remove deletes a persona from the registry and reports whether it was
// present. Removing an absent persona is a no-op. Messages already authored
// under the name are untouched; they carry a denormalized name copy.
func (r *Registry) Remove(name string) bool {
	for i, p := range r.personas {
		if p.Name == name {
			r.personas = append(r.personas[:i], r.personas[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the persona with the given name, if registered.
func (r *Registry) Get(name string) (*Persona, bool) {
	return r.find(name)
}

// Personas returns a copy of the registry contents in insertion order.
func (r *Registry) Personas() []Persona {
	out := make([]Persona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, *p)
	}
	return out
}

// Names returns the registered persona names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p.Name)
	}
	return out
}

// Len returns the number of live personas.
func (r *Registry) Len() int {
	return len(r.personas)
}

func (r *Registry) find(name string) (*Persona, bool) {
	for _, p := range r.personas {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
