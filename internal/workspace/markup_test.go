package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkupBrackets(t *testing.T) {
	got := RenderMarkup("hello [aside] world")
	assert.Equal(t, `hello <span class="dim-text">[aside]</span> world`, got)
}

func TestRenderMarkupSingleMarker(t *testing.T) {
	got := RenderMarkup("a *quiet* word")
	assert.Equal(t, `a <span class="dim-text">*quiet*</span> word`, got)
}

func TestRenderMarkupDoubleMarkerOrder(t *testing.T) {
	// The double marker rule runs first, so the inner text is captured as one
	// span before the single-marker rule sees the string.
	got := RenderMarkup("a **loud** word")
	assert.Contains(t, got, `>loud<`)
	assert.NotContains(t, got, `*loud*</span> word`)
}

func TestRenderMarkupNonGreedy(t *testing.T) {
	got := RenderMarkup("[one] and [two]")
	assert.Equal(t, `<span class="dim-text">[one]</span> and <span class="dim-text">[two]</span>`, got)
}

func TestRenderMarkupUnmatchedMarkersVerbatim(t *testing.T) {
	assert.Equal(t, "a lone * star", RenderMarkup("a lone * star"))
	assert.Equal(t, "open [ bracket", RenderMarkup("open [ bracket"))
}

func TestRenderMarkupPlainTextUntouched(t *testing.T) {
	assert.Equal(t, "nothing to see", RenderMarkup("nothing to see"))
}

func TestRenderMarkupKeepsMarkersInsideSpan(t *testing.T) {
	// The wrapper de-emphasizes but keeps the marker characters, so the
	// visible text (and the character counters) are unchanged.
	got := RenderMarkup("*hush*")
	assert.Contains(t, got, "*hush*")
}

func TestRenderMarkupStableOnUnmarkedContent(t *testing.T) {
	once := RenderMarkup("plain text, no markers")
	twice := RenderMarkup(once)
	assert.Equal(t, once, twice)
}

func TestStripSpeakerLabelsLeadingOnly(t *testing.T) {
	// Labels in the middle of a message are content, not speaker echo.
	got := stripSpeakerLabels("Alice: ask Bob: he knows", "Alice", []string{"Bob"})
	assert.Equal(t, "ask Bob: he knows", got)
}

func TestStripSpeakerLabelsNoLabel(t *testing.T) {
	got := stripSpeakerLabels("  just text  ", "Alice", nil)
	assert.Equal(t, "just text", got)
}
