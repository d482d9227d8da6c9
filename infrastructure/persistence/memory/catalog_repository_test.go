package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

func seedDoc(t *testing.T, repo *CatalogRepository, title, authors, category string, year int, keywords ...string) *entities.Document {
	t.Helper()
	doc, err := entities.NewDocument(title, authors, "Abstract",
		valueobjects.NewFeatureVector([]float64{1, 0}))
	require.NoError(t, err)
	doc.SetPublication(doc.CreatedAt(), category, year)
	doc.SetKeywords(keywords)
	require.NoError(t, repo.Upsert(context.Background(), doc))
	return doc
}

func TestCatalogRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()
	doc := seedDoc(t, repo, "Quantum Computing Basics", "Alice Johnson", "Physics", 2020)

	got, err := repo.GetByID(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, "Quantum Computing Basics", got.Title())

	_, err = repo.GetByID(ctx, valueobjects.NewDocumentID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestCatalogRepository_UpsertReplaceKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()
	a := seedDoc(t, repo, "First", "Author", "AI", 2020)
	b := seedDoc(t, repo, "Second", "Author", "AI", 2021)

	// Replacing a document must not move it to the end.
	a.SetKeywords([]string{"updated"})
	require.NoError(t, repo.Upsert(ctx, a))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].ID().Equals(a.ID()))
	assert.True(t, all[1].ID().Equals(b.ID()))
}

func TestCatalogRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()
	ml := seedDoc(t, repo, "Machine Learning Algorithms", "John Doe", "AI", 2021, "neural networks")
	qc := seedDoc(t, repo, "Quantum Computing Basics", "Alice Johnson", "Physics", 2020, "qubits")
	nn := seedDoc(t, repo, "Neural Networks in Practice", "John Doe", "AI", 2022, "deep learning")

	byQuery, err := repo.Search(ctx, ports.CatalogSearchCriteria{Query: "neural"})
	require.NoError(t, err)
	require.Len(t, byQuery, 2)
	assert.True(t, byQuery[0].ID().Equals(ml.ID()))
	assert.True(t, byQuery[1].ID().Equals(nn.ID()))

	byAuthor, err := repo.Search(ctx, ports.CatalogSearchCriteria{Author: "alice"})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.True(t, byAuthor[0].ID().Equals(qc.ID()))

	byYear, err := repo.Search(ctx, ports.CatalogSearchCriteria{Year: 2022})
	require.NoError(t, err)
	require.Len(t, byYear, 1)

	byCategory, err := repo.Search(ctx, ports.CatalogSearchCriteria{Category: "ai"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	combined, err := repo.Search(ctx, ports.CatalogSearchCriteria{Author: "john", Year: 2021})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.True(t, combined[0].ID().Equals(ml.ID()))
}

func TestCatalogRepository_SearchPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		seedDoc(t, repo, title, "Author", "AI", 2021)
	}

	page, err := repo.Search(ctx, ports.CatalogSearchCriteria{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Two", page[0].Title())
	assert.Equal(t, "Three", page[1].Title())

	past, err := repo.Search(ctx, ports.CatalogSearchCriteria{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestCatalogRepository_HandsOutIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()
	doc := seedDoc(t, repo, "Shared Catalog Entry", "Author", "AI", 2021)

	// Attaching a note to a retrieved document must never reach the
	// store without an Upsert.
	got, err := repo.GetByID(ctx, doc.ID())
	require.NoError(t, err)
	got.AttachNote(valueobjects.NewNoteID())

	fresh, err := repo.GetByID(ctx, doc.ID())
	require.NoError(t, err)
	assert.Empty(t, fresh.NoteIDs())

	// Mutating the caller's document after Upsert must not either.
	doc.AttachNote(valueobjects.NewNoteID())
	fresh, err = repo.GetByID(ctx, doc.ID())
	require.NoError(t, err)
	assert.Empty(t, fresh.NoteIDs())

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	all[0].AttachNote(valueobjects.NewNoteID())

	fresh, err = repo.GetByID(ctx, doc.ID())
	require.NoError(t, err)
	assert.Empty(t, fresh.NoteIDs())
}
