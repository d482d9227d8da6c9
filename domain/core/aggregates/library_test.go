package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

func makeCatalog(t *testing.T, n int) []*entities.Document {
	t.Helper()
	docs := make([]*entities.Document, 0, n)
	for i := 0; i < n; i++ {
		doc, err := entities.NewDocument("Paper", "Author", "Abstract",
			valueobjects.NewFeatureVector([]float64{float64(i), 1}))
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

func TestNewLibrary(t *testing.T) {
	docs := makeCatalog(t, 3)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)

	assert.Equal(t, "alice", lib.UserID())
	assert.Equal(t, 3, lib.DocumentCount())
	assert.Len(t, lib.Events(), 1)

	// Every entry starts with cleared flags.
	for _, entry := range lib.Entries() {
		assert.False(t, entry.IsRead)
		assert.False(t, entry.IsBookmarked)
	}
}

func TestNewLibrary_EmptyUserID(t *testing.T) {
	_, err := NewLibrary("", makeCatalog(t, 1))
	assert.Error(t, err)
}

func TestLibrary_EntriesPreserveInsertionOrder(t *testing.T) {
	docs := makeCatalog(t, 5)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)

	entries := lib.Entries()
	require.Len(t, entries, 5)
	for i, entry := range entries {
		assert.True(t, entry.DocumentID.Equals(docs[i].ID()), "position %d", i)
	}
}

func TestLibrary_ToggleReadIsIdempotentPair(t *testing.T) {
	docs := makeCatalog(t, 1)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)
	docID := docs[0].ID()

	on, err := lib.ToggleRead(docID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := lib.ToggleRead(docID)
	require.NoError(t, err)
	assert.False(t, off)

	entry, err := lib.Entry(docID)
	require.NoError(t, err)
	assert.False(t, entry.IsRead)
}

func TestLibrary_ToggleBookmarkIndependentOfRead(t *testing.T) {
	docs := makeCatalog(t, 1)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)
	docID := docs[0].ID()

	_, err = lib.ToggleBookmark(docID)
	require.NoError(t, err)

	entry, err := lib.Entry(docID)
	require.NoError(t, err)
	assert.True(t, entry.IsBookmarked)
	assert.False(t, entry.IsRead)
}

func TestLibrary_ToggleUnknownDocument(t *testing.T) {
	lib, err := NewLibrary("alice", makeCatalog(t, 1))
	require.NoError(t, err)

	_, err = lib.ToggleRead(valueobjects.NewDocumentID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = lib.ToggleBookmark(valueobjects.NewDocumentID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestLibrary_AttachNoteIdempotent(t *testing.T) {
	docs := makeCatalog(t, 1)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)
	noteID := valueobjects.NewNoteID()

	require.NoError(t, lib.AttachNote(docs[0].ID(), noteID))
	require.NoError(t, lib.AttachNote(docs[0].ID(), noteID))

	entry, err := lib.Entry(docs[0].ID())
	require.NoError(t, err)
	assert.Len(t, entry.NoteIDs, 1)
}

func TestLibrary_Drafts(t *testing.T) {
	docs := makeCatalog(t, 2)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)
	docID := docs[0].ID()

	require.NoError(t, lib.SetDraft(docID, "work in progress"))
	draft, err := lib.Draft(docID)
	require.NoError(t, err)
	assert.Equal(t, "work in progress", draft)

	// Empty text clears the draft.
	require.NoError(t, lib.SetDraft(docID, ""))
	draft, err = lib.Draft(docID)
	require.NoError(t, err)
	assert.Empty(t, draft)
	assert.Empty(t, lib.Drafts())

	err = lib.SetDraft(valueobjects.NewDocumentID(), "nope")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestLibrary_EntryReturnsCopy(t *testing.T) {
	docs := makeCatalog(t, 1)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)

	entry, err := lib.Entry(docs[0].ID())
	require.NoError(t, err)
	entry.IsRead = true

	fresh, err := lib.Entry(docs[0].ID())
	require.NoError(t, err)
	assert.False(t, fresh.IsRead)
}

func TestReconstructLibrary(t *testing.T) {
	docs := makeCatalog(t, 2)
	original, err := NewLibrary("alice", docs)
	require.NoError(t, err)
	_, err = original.ToggleRead(docs[0].ID())
	require.NoError(t, err)
	require.NoError(t, original.SetDraft(docs[1].ID(), "draft text"))

	rebuilt := ReconstructLibrary(
		original.UserID(),
		original.Entries(),
		original.Drafts(),
		original.CreatedAt(),
		original.UpdatedAt(),
		original.Version(),
	)

	assert.Equal(t, original.DocumentCount(), rebuilt.DocumentCount())
	entry, err := rebuilt.Entry(docs[0].ID())
	require.NoError(t, err)
	assert.True(t, entry.IsRead)

	draft, err := rebuilt.Draft(docs[1].ID())
	require.NoError(t, err)
	assert.Equal(t, "draft text", draft)
	assert.Empty(t, rebuilt.Events())
}

func TestLibrary_CloneIsolation(t *testing.T) {
	docs := makeCatalog(t, 2)
	lib, err := NewLibrary("alice", docs)
	require.NoError(t, err)
	require.NoError(t, lib.SetDraft(docs[0].ID(), "original draft"))

	clone := lib.Clone()
	_, err = clone.ToggleRead(docs[0].ID())
	require.NoError(t, err)
	require.NoError(t, clone.SetDraft(docs[0].ID(), "changed draft"))
	require.NoError(t, clone.AttachNote(docs[1].ID(), valueobjects.NewNoteID()))

	entry, err := lib.Entry(docs[0].ID())
	require.NoError(t, err)
	assert.False(t, entry.IsRead)

	draft, err := lib.Draft(docs[0].ID())
	require.NoError(t, err)
	assert.Equal(t, "original draft", draft)

	entry, err = lib.Entry(docs[1].ID())
	require.NoError(t, err)
	assert.Empty(t, entry.NoteIDs)

	// Pending events stay with the original; the clone starts clean.
	assert.Len(t, lib.Events(), 1)
}
