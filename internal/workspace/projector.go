package workspace

// FilterAll is the selector sentinel meaning "no persona filter". The receiver
// and analysis selectors carry it as their first entry.
const FilterAll = "ALL"

// PersonaOption is one entry in a persona selection list, tagged with its
// color slot for styling.
type PersonaOption struct {
	Name      string `json:"name"`
	ColorSlot int    `json:"color_slot"`
}

// Projections are the UI-facing views derived from the registry and the log:
// the three persona selectors and the running counters. They are a pure
// function of upstream state, recomputed after every mutation.
type Projections struct {
	SenderOptions   []PersonaOption `json:"sender_options"`
	ReceiverOptions []PersonaOption `json:"receiver_options"`
	AnalysisOptions []PersonaOption `json:"analysis_options"`
	MessageCount    int             `json:"message_count"`
	CharacterCount  int             `json:"character_count"`
}

// Project rebuilds every projection from current registry and log state.
// Selection lists preserve registry insertion order. Calling it any number of
// times on the same inputs yields the same result; nothing accumulates.
func Project(registry *Registry, log *Log) Projections {
	personas := registry.Personas()

	sender := make([]PersonaOption, 0, len(personas))
	for _, p := range personas {
		sender = append(sender, PersonaOption{Name: p.Name, ColorSlot: p.ColorSlot})
	}

	withAll := make([]PersonaOption, 0, len(sender)+1)
	withAll = append(withAll, PersonaOption{Name: FilterAll})
	withAll = append(withAll, sender...)

	return Projections{
		SenderOptions:   sender,
		ReceiverOptions: withAll,
		AnalysisOptions: withAll,
		MessageCount:    log.Count(),
		CharacterCount:  log.TotalCharacters(),
	}
}
