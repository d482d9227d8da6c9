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

func newRecommendationFixture(t *testing.T, vectors map[string][]float64) (*RecommendationService, map[string]*entities.Document) {
	t.Helper()
	ctx := context.Background()

	catalogRepo := memory.NewCatalogRepository()
	libraryRepo := memory.NewLibraryRepository()
	logger := zap.NewNop()

	docs := make(map[string]*entities.Document, len(vectors))
	// Insert in a fixed title order so the overlay is deterministic.
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		vec, ok := vectors[title]
		if !ok {
			continue
		}
		doc, err := entities.NewDocument(title, "Author", "Abstract",
			valueobjects.NewFeatureVector(vec))
		require.NoError(t, err)
		require.NoError(t, catalogRepo.Upsert(ctx, doc))
		docs[title] = doc
	}

	libraryService := NewLibraryService(catalogRepo, libraryRepo, nil, nil, logger)
	_, err := libraryService.EnsureInitialized(ctx, "alice")
	require.NoError(t, err)

	return NewRecommendationService(catalogRepo, libraryRepo, nil, nil, logger), docs
}

func TestRecommend_RanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
		"B": {1, 0, 0},
		"C": {0, 1, 0},
	})

	recs, err := svc.Recommend(ctx, "alice", docs["A"].ID(), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.True(t, recs[0].Document.ID().Equals(docs["B"].ID()))
	assert.InDelta(t, 1.0, recs[0].Score, 1e-9)
	assert.True(t, recs[1].Document.ID().Equals(docs["C"].ID()))
	assert.InDelta(t, 0.0, recs[1].Score, 1e-9)
}

func TestRecommend_ExcludesFocalDocument(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
		"B": {0.5, 0.5, 0},
		"C": {0, 0, 1},
	})

	recs, err := svc.Recommend(ctx, "alice", docs["A"].ID(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.False(t, rec.Document.ID().Equals(docs["A"].ID()))
	}
}

func TestRecommend_TiesBrokenByAscendingID(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
		"B": {1, 0, 0},
		"C": {1, 0, 0},
		"D": {1, 0, 0},
	})

	recs, err := svc.Recommend(ctx, "alice", docs["A"].ID(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for i := 1; i < len(recs); i++ {
		prev, curr := recs[i-1].Document.ID(), recs[i].Document.ID()
		assert.True(t, prev.Less(curr), "expected %s before %s", prev, curr)
	}
}

func TestRecommend_TruncatesToK(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
		"B": {0.9, 0.1, 0},
		"C": {0.8, 0.2, 0},
		"D": {0.7, 0.3, 0},
		"E": {0.6, 0.4, 0},
	})

	recs, err := svc.Recommend(ctx, "alice", docs["A"].ID(), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Document.ID().Equals(docs["B"].ID()))
	assert.True(t, recs[1].Document.ID().Equals(docs["C"].ID()))
	assert.GreaterOrEqual(t, recs[0].Score, recs[1].Score)
}

func TestRecommend_FocalNotInLibrary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
	})

	_, err := svc.Recommend(ctx, "alice", valueobjects.NewDocumentID(), 5)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRecommend_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
	})

	_, err := svc.Recommend(ctx, "stranger", docs["A"].ID(), 5)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRecommend_ZeroVectorScoresZero(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
		"B": {0, 0, 0},
	})

	recs, err := svc.Recommend(ctx, "alice", docs["A"].ID(), 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].Score)
}

func TestRecommend_DefaultAndMaxK(t *testing.T) {
	ctx := context.Background()
	svc, docs := newRecommendationFixture(t, map[string][]float64{
		"A": {1, 0, 0},
		"B": {0.9, 0.1, 0},
	})

	// k <= 0 falls back to the configured default.
	recs, err := svc.Recommend(ctx, "alice", docs["A"].ID(), 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = svc.Recommend(ctx, "alice", docs["A"].ID(), -3)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
