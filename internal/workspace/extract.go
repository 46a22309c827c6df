package workspace

import (
	"fmt"
	"strings"
)

// PolicyKind selects how the transcript extractor slices the log.
type PolicyKind int

const (
	// PolicyAll includes every message in log order.
	PolicyAll PolicyKind = iota
	// PolicyTrailing includes the last N messages (all of them when the log
	// is shorter).
	PolicyTrailing
	// PolicyRange includes 1-based inclusive positions start..end, clamped to
	// log bounds, optionally filtered by persona name.
	PolicyRange
)

// Policy is a transcript selection policy. The caller validates Range bounds
// (start <= end, both >= 1) before extraction; the extractor only clamps.
type Policy struct {
	Kind  PolicyKind
	N     int
	Start int
	End   int
	// PersonaFilter limits Range extraction to one speaker. Empty or the
	// FilterAll sentinel means no filtering.
	PersonaFilter string
}

// AllPolicy selects the whole log.
func AllPolicy() Policy {
	return Policy{Kind: PolicyAll}
}

// TrailingPolicy selects the last n messages.
func TrailingPolicy(n int) Policy {
	return Policy{Kind: PolicyTrailing, N: n}
}

// RangePolicy selects positions start..end, optionally filtered by persona.
func RangePolicy(start, end int, personaFilter string) Policy {
	return Policy{Kind: PolicyRange, Start: start, End: end, PersonaFilter: personaFilter}
}

// Extract flattens the selected message subset into the canonical outbound
// transcript form: one "Name: content" line per message, joined by newlines,
// always in log order, using current (post-edit) content.
func Extract(log *Log, policy Policy) string {
	messages := log.Messages()

	switch policy.Kind {
	case PolicyTrailing:
		n := policy.N
		if n < 1 {
			n = 1
		}
		if n < len(messages) {
			messages = messages[len(messages)-n:]
		}
	case PolicyRange:
		start := policy.Start
		end := policy.End
		if start < 1 {
			start = 1
		}
		if end > len(messages) {
			end = len(messages)
		}
		if start > len(messages) || end < 1 || start > end {
			messages = nil
		} else {
			messages = messages[start-1 : end]
		}
		if policy.PersonaFilter != "" && policy.PersonaFilter != FilterAll {
			filtered := make([]Message, 0, len(messages))
			for _, m := range messages {
				if m.PersonaName == policy.PersonaFilter {
					filtered = append(filtered, m)
				}
			}
			messages = filtered
		}
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.PersonaName, m.Content))
	}
	return strings.Join(lines, "\n")
}
