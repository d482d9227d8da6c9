package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/infrastructure/persistence/memory"
	pkgerrors "paperdesk-backend/pkg/errors"
)

func seedCatalog(t *testing.T, repo *memory.CatalogRepository, titles ...string) []*entities.Document {
	t.Helper()
	ctx := context.Background()
	docs := make([]*entities.Document, 0, len(titles))
	for i, title := range titles {
		doc, err := entities.NewDocument(title, "Author "+title, "Abstract",
			valueobjects.NewFeatureVector([]float64{float64(i + 1), 1, 0}))
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, doc))
		docs = append(docs, doc)
	}
	return docs
}

func newTestLibraryService(t *testing.T) (*LibraryService, *memory.CatalogRepository) {
	t.Helper()
	catalogRepo := memory.NewCatalogRepository()
	libraryRepo := memory.NewLibraryRepository()
	return NewLibraryService(catalogRepo, libraryRepo, nil, nil, zap.NewNop()), catalogRepo
}

func TestEnsureInitialized_CreatesOverlayPerDocument(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	seedCatalog(t, catalogRepo, "A", "B", "C")

	lib, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, lib.DocumentCount())
}

func TestEnsureInitialized_SecondCallIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A")

	_, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.ToggleRead(ctx, "alice", docs[0].ID())
	require.NoError(t, err)

	// Re-initializing must not reset accumulated state.
	lib, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)
	entry, err := lib.Entry(docs[0].ID())
	require.NoError(t, err)
	assert.True(t, entry.IsRead)
}

func TestToggleRead_WithoutLibrary(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A")

	_, err := svc.ToggleRead(ctx, "nobody", docs[0].ID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestToggles_AreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A")

	_, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.EnsureInitialized(ctx, "bob")
	require.NoError(t, err)

	on, err := svc.ToggleRead(ctx, "alice", docs[0].ID())
	require.NoError(t, err)
	assert.True(t, on)

	bobView, err := svc.Get(ctx, "bob", docs[0].ID())
	require.NoError(t, err)
	assert.False(t, bobView.IsRead)
}

func TestList_Filters(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A", "B", "C")

	_, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.ToggleRead(ctx, "alice", docs[0].ID())
	require.NoError(t, err)
	_, err = svc.ToggleBookmark(ctx, "alice", docs[1].ID())
	require.NoError(t, err)

	all, err := svc.List(ctx, "alice", FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	read, err := svc.List(ctx, "alice", FilterRead)
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.True(t, read[0].Document.ID().Equals(docs[0].ID()))

	unread, err := svc.List(ctx, "alice", FilterUnread)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	bookmarked, err := svc.List(ctx, "alice", FilterBookmarked)
	require.NoError(t, err)
	require.Len(t, bookmarked, 1)
	assert.True(t, bookmarked[0].Document.ID().Equals(docs[1].ID()))
}

func TestList_InsertionOrderIsStable(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A", "B", "C", "D")

	_, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		listed, err := svc.List(ctx, "alice", FilterAll)
		require.NoError(t, err)
		require.Len(t, listed, len(docs))
		for j, item := range listed {
			assert.True(t, item.Document.ID().Equals(docs[j].ID()), "position %d", j)
		}
	}
}

func TestSearchByConcept(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A", "B")
	require.NoError(t, docs[0].SetRelatedConcepts([]entities.ConceptRef{{Name: "Gradient Descent", IsPrerequisite: true}}))
	require.NoError(t, catalogRepo.Upsert(ctx, docs[0]))

	_, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)

	matched, err := svc.SearchByConcept(ctx, "alice", "gradient descent")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.True(t, matched[0].Document.ID().Equals(docs[0].ID()))

	_, err = svc.SearchByConcept(ctx, "alice", "")
	assert.Error(t, err)
}

func TestDrafts_SaveAndClear(t *testing.T) {
	ctx := context.Background()
	svc, catalogRepo := newTestLibraryService(t)
	docs := seedCatalog(t, catalogRepo, "A")

	_, err := svc.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)
	docID := docs[0].ID()

	require.NoError(t, svc.SaveDraft(ctx, "alice", docID, "initial thoughts"))
	draft, err := svc.GetDraft(ctx, "alice", docID)
	require.NoError(t, err)
	assert.Equal(t, "initial thoughts", draft)

	require.NoError(t, svc.SaveDraft(ctx, "alice", docID, ""))
	draft, err = svc.GetDraft(ctx, "alice", docID)
	require.NoError(t, err)
	assert.Empty(t, draft)
}
