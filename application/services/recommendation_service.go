package services

import (
	"context"
	"sort"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/config"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/pkg/observability"

	"go.uber.org/zap"
)

// RecommendationService ranks the documents in a user's library by cosine
// similarity of feature vectors against a focal document. Read-only: it
// never mutates library state.
type RecommendationService struct {
	catalogRepo ports.CatalogRepository
	libraryRepo ports.LibraryRepository
	cfg         *config.DomainConfig
	tracer      *observability.Tracer
	logger      *zap.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	catalogRepo ports.CatalogRepository,
	libraryRepo ports.LibraryRepository,
	cfg *config.DomainConfig,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *RecommendationService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &RecommendationService{
		catalogRepo: catalogRepo,
		libraryRepo: libraryRepo,
		cfg:         cfg,
		tracer:      tracer,
		logger:      logger,
	}
}

// Recommendation pairs a document with its similarity score to the focal
// document
type Recommendation struct {
	Document *entities.Document
	Score    float64
}

// Recommend computes the top-k most similar documents to the focal one
// within the user's library. The focal document is always excluded.
// Results are ordered by similarity descending; exact ties are broken by
// ascending document id so the ranking is deterministic across calls.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, focalDocumentID valueobjects.DocumentID, k int) ([]Recommendation, error) {
	if k <= 0 {
		k = s.cfg.DefaultRecommendations
	}
	if k > s.cfg.MaxRecommendations {
		k = s.cfg.MaxRecommendations
	}

	var result []Recommendation
	compute := func(ctx context.Context) error {
		var err error
		result, err = s.rank(ctx, userID, focalDocumentID, k)
		return err
	}

	var err error
	if s.tracer != nil {
		s.tracer.AnnotateUser(ctx, userID)
		s.tracer.AnnotateDocument(ctx, focalDocumentID.String())
		err = s.tracer.Trace(ctx, "recommendation.rank", compute)
	} else {
		err = compute(ctx)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *RecommendationService) rank(ctx context.Context, userID string, focalDocumentID valueobjects.DocumentID, k int) ([]Recommendation, error) {
	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := library.Entry(focalDocumentID); err != nil {
		return nil, err
	}

	focal, err := s.catalogRepo.GetByID(ctx, focalDocumentID)
	if err != nil {
		return nil, err
	}
	focalVector := focal.FeatureVector()

	entries := library.Entries()
	scored := make([]Recommendation, 0, len(entries))

	for _, entry := range entries {
		if entry.DocumentID.Equals(focalDocumentID) {
			continue
		}

		doc, err := s.catalogRepo.GetByID(ctx, entry.DocumentID)
		if err != nil {
			return nil, err
		}

		score, err := focalVector.CosineSimilarity(doc.FeatureVector())
		if err != nil {
			return nil, err
		}

		scored = append(scored, Recommendation{Document: doc, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Document.ID().Less(scored[j].Document.ID())
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	s.logger.Debug("Computed recommendations",
		zap.String("userID", userID),
		zap.String("focalDocumentID", focalDocumentID.String()),
		zap.Int("candidates", len(entries)),
		zap.Int("returned", len(scored)),
	)

	return scored, nil
}
