package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/application/queries"
	"paperdesk-backend/application/queries/bus"
	"paperdesk-backend/application/services"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

func toDocumentResult(doc *entities.Document, isRead, isBookmarked bool, noteCount int) queries.DocumentResult {
	concepts := make([]queries.ConceptRefResult, 0, len(doc.RelatedConcepts()))
	for _, c := range doc.RelatedConcepts() {
		concepts = append(concepts, queries.ConceptRefResult{
			Name:           c.Name,
			IsPrerequisite: c.IsPrerequisite,
		})
	}

	related := make([]string, 0, len(doc.RelatedDocumentIDs()))
	for _, id := range doc.RelatedDocumentIDs() {
		related = append(related, id.String())
	}

	published := ""
	if !doc.PublishedDate().IsZero() {
		published = doc.PublishedDate().Format(time.RFC3339)
	}

	return queries.DocumentResult{
		ID:                doc.ID().String(),
		Title:             doc.Title(),
		Authors:           doc.Authors(),
		Abstract:          doc.Abstract(),
		Summary:           doc.Summary(),
		TranslatedSummary: doc.TranslatedSummary(),
		PublishedDate:     published,
		Category:          doc.Category(),
		Year:              doc.Year(),
		Keywords:          doc.Keywords(),
		RelatedConcepts:   concepts,
		RelatedDocuments:  related,
		IsRead:            isRead,
		IsBookmarked:      isBookmarked,
		NoteCount:         noteCount,
	}
}

func toDocumentResults(items []*services.DocumentWithFlags) []queries.DocumentResult {
	results := make([]queries.DocumentResult, 0, len(items))
	for _, item := range items {
		results = append(results, toDocumentResult(item.Document, item.IsRead, item.IsBookmarked, len(item.NoteIDs)))
	}
	return results
}

// GetDocumentHandler handles single document queries
type GetDocumentHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewGetDocumentHandler creates a new get document handler
func NewGetDocumentHandler(libraryService *services.LibraryService, logger *zap.Logger) *GetDocumentHandler {
	return &GetDocumentHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the get document query
func (h *GetDocumentHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetDocumentQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(q.DocumentID)
	if err != nil {
		return nil, err
	}

	item, err := h.libraryService.Get(ctx, q.UserID, documentID)
	if err != nil {
		return nil, err
	}

	result := toDocumentResult(item.Document, item.IsRead, item.IsBookmarked, len(item.NoteIDs))
	return result, nil
}

// ListLibraryHandler handles library listing queries
type ListLibraryHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewListLibraryHandler creates a new list library handler
func NewListLibraryHandler(libraryService *services.LibraryService, logger *zap.Logger) *ListLibraryHandler {
	return &ListLibraryHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the list library query
func (h *ListLibraryHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListLibraryQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	items, err := h.libraryService.List(ctx, q.UserID, services.ListFilter(q.Filter))
	if err != nil {
		return nil, err
	}

	return toDocumentResults(items), nil
}

// SearchByConceptHandler handles concept search queries
type SearchByConceptHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewSearchByConceptHandler creates a new concept search handler
func NewSearchByConceptHandler(libraryService *services.LibraryService, logger *zap.Logger) *SearchByConceptHandler {
	return &SearchByConceptHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the concept search query
func (h *SearchByConceptHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.SearchByConceptQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	items, err := h.libraryService.SearchByConcept(ctx, q.UserID, q.Concept)
	if err != nil {
		return nil, err
	}

	return toDocumentResults(items), nil
}

// SearchCatalogHandler handles shared catalog search queries
type SearchCatalogHandler struct {
	catalogRepo    ports.CatalogRepository
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewSearchCatalogHandler creates a new catalog search handler
func NewSearchCatalogHandler(
	catalogRepo ports.CatalogRepository,
	libraryService *services.LibraryService,
	logger *zap.Logger,
) *SearchCatalogHandler {
	return &SearchCatalogHandler{
		catalogRepo:    catalogRepo,
		libraryService: libraryService,
		logger:         logger,
	}
}

// Handle executes the catalog search query. Overlay flags come from the
// caller's library; documents not yet in the library report unset flags.
func (h *SearchCatalogHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.SearchCatalogQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	docs, err := h.catalogRepo.Search(ctx, ports.CatalogSearchCriteria{
		Query:    q.Query,
		Author:   q.Author,
		Year:     q.Year,
		Category: q.Category,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, err
	}

	results := make([]queries.DocumentResult, 0, len(docs))
	for _, doc := range docs {
		isRead, isBookmarked := false, false
		noteCount := len(doc.NoteIDs())
		if item, err := h.libraryService.Get(ctx, q.UserID, doc.ID()); err == nil {
			isRead = item.IsRead
			isBookmarked = item.IsBookmarked
			noteCount = len(item.NoteIDs)
		}
		results = append(results, toDocumentResult(doc, isRead, isBookmarked, noteCount))
	}

	return results, nil
}
