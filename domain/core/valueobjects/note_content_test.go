package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNoteContent(t *testing.T) {
	c, err := NewNoteContent("  a sharp observation  ")
	require.NoError(t, err)
	assert.Equal(t, "a sharp observation", c.Text())
	assert.False(t, c.IsEmpty())
}

func TestNewNoteContent_Empty(t *testing.T) {
	_, err := NewNoteContent("")
	assert.Error(t, err)

	_, err = NewNoteContent("   \t\n")
	assert.Error(t, err)
}

func TestNewNoteContent_TooLong(t *testing.T) {
	_, err := NewNoteContent(strings.Repeat("x", 5001))
	assert.Error(t, err)

	_, err = NewNoteContent(strings.Repeat("x", 5000))
	assert.NoError(t, err)
}

func TestDocumentID_RoundTrip(t *testing.T) {
	id := NewDocumentID()
	parsed, err := NewDocumentIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, id.Equals(parsed))

	_, err = NewDocumentIDFromString("")
	assert.Error(t, err)

	_, err = NewDocumentIDFromString("not-a-uuid")
	assert.Error(t, err)
}

func TestNoteID_Unique(t *testing.T) {
	a := NewNoteID()
	b := NewNoteID()
	assert.False(t, a.Equals(b))
	assert.False(t, a.IsZero())
}
