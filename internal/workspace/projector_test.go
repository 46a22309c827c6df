package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSelectorContents(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("Sherlock", "", 0, nil)
	require.NoError(t, err)
	_, err = r.Add("Watson", "", 0, nil)
	require.NoError(t, err)
	l := NewLog(r)

	p := Project(r, l)

	assert.Equal(t, []PersonaOption{
		{Name: "Sherlock", ColorSlot: 1},
		{Name: "Watson", ColorSlot: 2},
	}, p.SenderOptions)

	require.Len(t, p.ReceiverOptions, 3)
	assert.Equal(t, FilterAll, p.ReceiverOptions[0].Name)
	assert.Equal(t, FilterAll, p.AnalysisOptions[0].Name)
	assert.Equal(t, p.ReceiverOptions, p.AnalysisOptions)
}

func TestProjectCounters(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("A", "", 0, nil)
	require.NoError(t, err)
	l := NewLog(r)
	l.Append("A", "12345", true)
	l.Append("A", "678", true)

	p := Project(r, l)
	assert.Equal(t, 2, p.MessageCount)
	assert.Equal(t, 8, p.CharacterCount)
}

func TestProjectIdempotent(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("A", "", 0, nil)
	require.NoError(t, err)
	l := NewLog(r)
	l.Append("A", "hello", true)

	first := Project(r, l)
	second := Project(r, l)
	assert.Equal(t, first, second)
}

func TestProjectEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	l := NewLog(r)

	p := Project(r, l)
	assert.Empty(t, p.SenderOptions)
	require.Len(t, p.ReceiverOptions, 1)
	assert.Equal(t, FilterAll, p.ReceiverOptions[0].Name)
}
