package workspace

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLog(t *testing.T) *Log {
	t.Helper()
	_, l := newTestLog(t, "Alice", "Bob")
	l.Append("Alice", "hi", true)
	l.Append("Bob", "Alice: hi", true) // echoed label stripped on append
	return l
}

func TestExtractAllRoundTrip(t *testing.T) {
	l := buildLog(t)
	assert.Equal(t, "Alice: hi\nBob: hi", Extract(l, AllPolicy()))
}

func TestExtractAllEmptyLog(t *testing.T) {
	_, l := newTestLog(t, "Alice")
	assert.Equal(t, "", Extract(l, AllPolicy()))
}

func TestExtractTrailing(t *testing.T) {
	_, l := newTestLog(t, "A")
	for i := 1; i <= 5; i++ {
		l.Append("A", fmt.Sprintf("m%d", i), true)
	}

	assert.Equal(t, "A: m4\nA: m5", Extract(l, TrailingPolicy(2)))
}

func TestExtractTrailingLargerThanLog(t *testing.T) {
	_, l := newTestLog(t, "A")
	l.Append("A", "only", true)

	assert.Equal(t, "A: only", Extract(l, TrailingPolicy(10)))
}

func TestExtractRangeMiddle(t *testing.T) {
	_, l := newTestLog(t, "A", "B")
	for i := 1; i <= 5; i++ {
		speaker := "A"
		if i%2 == 0 {
			speaker = "B"
		}
		l.Append(speaker, fmt.Sprintf("m%d", i), true)
	}

	got := Extract(l, RangePolicy(2, 3, FilterAll))
	assert.Equal(t, "B: m2\nA: m3", got)
}

func TestExtractRangeClampedToBounds(t *testing.T) {
	_, l := newTestLog(t, "A")
	l.Append("A", "one", true)
	l.Append("A", "two", true)

	got := Extract(l, RangePolicy(1, 99, ""))
	assert.Equal(t, "A: one\nA: two", got)
}

func TestExtractRangePersonaFilter(t *testing.T) {
	_, l := newTestLog(t, "A", "B")
	l.Append("A", "a1", true)
	l.Append("B", "b1", true)
	l.Append("A", "a2", true)

	got := Extract(l, RangePolicy(1, 3, "A"))
	assert.Equal(t, "A: a1\nA: a2", got)
}

func TestExtractRangeFilterAllSentinel(t *testing.T) {
	_, l := newTestLog(t, "A", "B")
	l.Append("A", "a1", true)
	l.Append("B", "b1", true)

	assert.Equal(t, Extract(l, RangePolicy(1, 2, "")), Extract(l, RangePolicy(1, 2, FilterAll)))
}

func TestExtractRangeBeyondLog(t *testing.T) {
	_, l := newTestLog(t, "A")
	l.Append("A", "one", true)

	assert.Equal(t, "", Extract(l, RangePolicy(5, 9, "")))
}

func TestExtractUsesCurrentContent(t *testing.T) {
	l := buildLog(t)
	require.NoError(t, l.Edit(1, "edited"))

	assert.Equal(t, "Alice: edited\nBob: hi", Extract(l, AllPolicy()))
}
