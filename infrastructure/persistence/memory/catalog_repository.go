// Package memory provides the authoritative in-memory stores. The engine
// serves all reads and writes from here; DynamoDB snapshots are a
// write-through backup, not the source of truth.
package memory

import (
	"context"
	"strings"
	"sync"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// CatalogRepository is the in-memory shared document catalog
type CatalogRepository struct {
	mu    sync.RWMutex
	docs  map[string]*entities.Document
	order []valueobjects.DocumentID
}

// NewCatalogRepository creates an empty catalog
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		docs: make(map[string]*entities.Document),
	}
}

// Upsert stores or replaces a deep copy of the document
func (r *CatalogRepository) Upsert(ctx context.Context, doc *entities.Document) error {
	if doc == nil {
		return pkgerrors.NewValidationError("document cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := doc.ID().String()
	if _, exists := r.docs[key]; !exists {
		r.order = append(r.order, doc.ID())
	}
	r.docs[key] = doc.Clone()
	return nil
}

// GetByID retrieves a copy of a document by its ID. Callers get
// independent clones; attaching a note to one never races readers.
func (r *CatalogRepository) GetByID(ctx context.Context, id valueobjects.DocumentID) (*entities.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.docs[id.String()]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("document not found: " + id.String())
	}
	return doc.Clone(), nil
}

// All retrieves copies of every document in insertion order
func (r *CatalogRepository) All(ctx context.Context) ([]*entities.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Document, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.docs[id.String()].Clone())
	}
	return result, nil
}

// Search finds documents matching the criteria, in insertion order
func (r *CatalogRepository) Search(ctx context.Context, criteria ports.CatalogSearchCriteria) ([]*entities.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entities.Document, 0)
	for _, id := range r.order {
		doc := r.docs[id.String()]
		if !matches(doc, criteria) {
			continue
		}
		matched = append(matched, doc.Clone())
	}

	if criteria.Offset > 0 {
		if criteria.Offset >= len(matched) {
			return []*entities.Document{}, nil
		}
		matched = matched[criteria.Offset:]
	}
	if criteria.Limit > 0 && criteria.Limit < len(matched) {
		matched = matched[:criteria.Limit]
	}
	return matched, nil
}

func matches(doc *entities.Document, criteria ports.CatalogSearchCriteria) bool {
	if criteria.Query != "" && !doc.MatchesQuery(criteria.Query) {
		return false
	}
	if criteria.Author != "" && !strings.Contains(strings.ToLower(doc.Authors()), strings.ToLower(criteria.Author)) {
		return false
	}
	if criteria.Year != 0 && doc.Year() != criteria.Year {
		return false
	}
	if criteria.Category != "" && !strings.EqualFold(doc.Category(), criteria.Category) {
		return false
	}
	return true
}
