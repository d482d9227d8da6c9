package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/application/queries"
	"paperdesk-backend/application/queries/bus"
	"paperdesk-backend/application/services"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// recommendationCacheTTL bounds staleness of cached rankings, in seconds.
// Rankings depend only on library membership and catalog vectors, both of
// which are fixed after initialization, so a short TTL is plenty.
const recommendationCacheTTL = 60

// RecommendHandler handles similarity recommendation queries
type RecommendHandler struct {
	recommendationService *services.RecommendationService
	libraryService        *services.LibraryService
	cache                 ports.Cache
	logger                *zap.Logger
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(
	recommendationService *services.RecommendationService,
	libraryService *services.LibraryService,
	cache ports.Cache,
	logger *zap.Logger,
) *RecommendHandler {
	return &RecommendHandler{
		recommendationService: recommendationService,
		libraryService:        libraryService,
		cache:                 cache,
		logger:                logger,
	}
}

// Handle executes the recommendation query
func (h *RecommendHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.RecommendQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(q.DocumentID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("rec:%s:%s:%d", q.UserID, q.DocumentID, q.Limit)
	var recommendations []services.Recommendation
	if h.cache != nil {
		if cached, found := h.cache.Get(ctx, cacheKey); found {
			if recs, ok := cached.([]services.Recommendation); ok {
				recommendations = recs
			}
		}
	}

	if recommendations == nil {
		recommendations, err = h.recommendationService.Recommend(ctx, q.UserID, documentID, q.Limit)
		if err != nil {
			return nil, err
		}
		if h.cache != nil {
			if err := h.cache.Set(ctx, cacheKey, recommendations, recommendationCacheTTL); err != nil {
				h.logger.Warn("Failed to cache recommendations", zap.Error(err))
			}
		}
	}

	results := make([]queries.RecommendationResult, 0, len(recommendations))
	for _, rec := range recommendations {
		isRead, isBookmarked := false, false
		noteCount := len(rec.Document.NoteIDs())
		if item, err := h.libraryService.Get(ctx, q.UserID, rec.Document.ID()); err == nil {
			isRead = item.IsRead
			isBookmarked = item.IsBookmarked
			noteCount = len(item.NoteIDs)
		}
		results = append(results, queries.RecommendationResult{
			Document: toDocumentResult(rec.Document, isRead, isBookmarked, noteCount),
			Score:    rec.Score,
		})
	}

	return results, nil
}
