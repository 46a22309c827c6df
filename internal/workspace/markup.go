package workspace

import (
	"regexp"
	"strings"
)

// Markup rules for rendered message content. Matched spans render visually
// muted ("dim-text"), including bold markers: the terminal-like aesthetic
// inverts the usual emphasis on purpose. Rule order is load-bearing: the
// double marker must be consumed before the single marker, and brackets last.
var (
	doubleMarkerRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
	singleMarkerRe = regexp.MustCompile(`\*(.*?)\*`)
	bracketRe      = regexp.MustCompile(`\[(.*?)\]`)
)

// RenderMarkup wraps marked text spans for de-emphasized display. Matching is
// non-greedy and left-to-right; unmatched or nested markers are left verbatim.
// The markers themselves are kept inside the wrapper, so the visible text is
// unchanged and character counts stay stable.
func RenderMarkup(text string) string {
	out := doubleMarkerRe.ReplaceAllString(text, `<span class="dim-text">**$1**</span>`)
	out = singleMarkerRe.ReplaceAllString(out, `<span class="dim-text">*$1*</span>`)
	out = bracketRe.ReplaceAllString(out, `<span class="dim-text">[$1]</span>`)
	return out
}

// stripSpeakerLabels removes leading "Name:" labels from raw content. Backend
// responses sometimes echo the speaker label, occasionally more than one, so
// stripping repeats until no registered label remains at the front. The
// speaker's own name is tried first, then every other registered name,
// case-insensitively with optional whitespace after the colon.
func stripSpeakerLabels(text, speaker string, others []string) string {
	names := make([]string, 0, len(others)+1)
	names = append(names, speaker)
	for _, n := range others {
		if n != speaker {
			names = append(names, n)
		}
	}

	text = strings.TrimSpace(text)
	for {
		stripped := false
		for _, n := range names {
			re := labelPattern(n)
			if loc := re.FindStringIndex(text); loc != nil {
				text = strings.TrimSpace(text[loc[1]:])
				stripped = true
			}
		}
		if !stripped {
			return text
		}
	}
}

func labelPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(name) + `:[ \t]*`)
}
