package memory

import (
	"context"
	"sync"

	"paperdesk-backend/domain/core/aggregates"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// LibraryRepository is the in-memory store of per-user libraries
type LibraryRepository struct {
	mu        sync.RWMutex
	libraries map[string]*aggregates.Library
}

// NewLibraryRepository creates an empty library store
func NewLibraryRepository() *LibraryRepository {
	return &LibraryRepository{
		libraries: make(map[string]*aggregates.Library),
	}
}

// Save persists a deep copy of the library
func (r *LibraryRepository) Save(ctx context.Context, library *aggregates.Library) error {
	if library == nil {
		return pkgerrors.NewValidationError("library cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.libraries[library.UserID()] = library.Clone()
	return nil
}

// GetByUserID retrieves a copy of the library for a user. Readers never
// see a toggle or draft write in progress.
func (r *LibraryRepository) GetByUserID(ctx context.Context, userID string) (*aggregates.Library, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	library, exists := r.libraries[userID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("library not initialized for user: " + userID)
	}
	return library.Clone(), nil
}

// Exists reports whether a library has been initialized for the user
func (r *LibraryRepository) Exists(ctx context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.libraries[userID]
	return exists, nil
}
