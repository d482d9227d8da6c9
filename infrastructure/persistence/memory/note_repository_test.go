package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

func seedNote(t *testing.T, repo *NoteRepository, authorID string, documentID valueobjects.DocumentID, text string) *entities.Note {
	t.Helper()
	content, err := valueobjects.NewNoteContent(text)
	require.NoError(t, err)
	note, err := entities.NewNote(authorID, documentID, content)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), note))
	return note
}

func TestNoteRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()
	docID := valueobjects.NewDocumentID()
	note := seedNote(t, repo, "alice", docID, "a note")

	got, err := repo.GetByID(ctx, note.ID())
	require.NoError(t, err)
	assert.True(t, got.ID().Equals(note.ID()))

	_, err = repo.GetByID(ctx, valueobjects.NewNoteID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestNoteRepository_GetByDocumentInCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()
	docID := valueobjects.NewDocumentID()
	otherDoc := valueobjects.NewDocumentID()

	first := seedNote(t, repo, "alice", docID, "first")
	second := seedNote(t, repo, "bob", docID, "second")
	seedNote(t, repo, "carol", otherDoc, "elsewhere")

	notes, err := repo.GetByDocumentID(ctx, docID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.True(t, notes[0].ID().Equals(first.ID()))
	assert.True(t, notes[1].ID().Equals(second.ID()))
}

func TestNoteRepository_UpdateDoesNotDuplicateIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()
	docID := valueobjects.NewDocumentID()
	note := seedNote(t, repo, "alice", docID, "original")

	content, err := valueobjects.NewNoteContent("edited")
	require.NoError(t, err)
	require.NoError(t, note.Edit("alice", content))
	require.NoError(t, repo.Save(ctx, note))

	notes, err := repo.GetByDocumentID(ctx, docID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "edited", notes[0].Content().Text())
}

func TestNoteRepository_HandsOutIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository()
	docID := valueobjects.NewDocumentID()
	note := seedNote(t, repo, "alice", docID, "a note")

	// Mutating a retrieved note must never reach the store.
	got, err := repo.GetByID(ctx, note.ID())
	require.NoError(t, err)
	require.NoError(t, got.ApplyVoteDelta(valueobjects.VoteDelta{Upvotes: 1}))

	fresh, err := repo.GetByID(ctx, note.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Upvotes())

	// Mutating the caller's note after Save must not either.
	require.NoError(t, note.ApplyVoteDelta(valueobjects.VoteDelta{Downvotes: 1}))
	fresh, err = repo.GetByID(ctx, note.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Downvotes())

	listed, err := repo.GetByDocumentID(ctx, docID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NoError(t, listed[0].ApplyVoteDelta(valueobjects.VoteDelta{Upvotes: 1}))

	fresh, err = repo.GetByID(ctx, note.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Upvotes())
}
