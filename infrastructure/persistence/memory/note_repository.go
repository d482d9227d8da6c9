package memory

import (
	"context"
	"sync"

	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// NoteRepository is the in-memory canonical note store. Notes are held
// once, keyed by note id; library overlays carry only id references.
type NoteRepository struct {
	mu         sync.RWMutex
	notes      map[string]*entities.Note
	byDocument map[string][]valueobjects.NoteID
}

// NewNoteRepository creates an empty note store
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		notes:      make(map[string]*entities.Note),
		byDocument: make(map[string][]valueobjects.NoteID),
	}
}

// Save persists a deep copy of the note, so later caller-side mutation
// never reaches the store
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	if note == nil {
		return pkgerrors.NewValidationError("note cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := note.ID().String()
	if _, exists := r.notes[key]; !exists {
		docKey := note.DocumentID().String()
		r.byDocument[docKey] = append(r.byDocument[docKey], note.ID())
	}
	r.notes[key] = note.Clone()
	return nil
}

// GetByID retrieves a copy of a note by its ID. Callers get independent
// clones; vote counters read from one are never torn mid-update.
func (r *NoteRepository) GetByID(ctx context.Context, id valueobjects.NoteID) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id.String()]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("note not found: " + id.String())
	}
	return note.Clone(), nil
}

// GetByDocumentID retrieves copies of all notes for a document in creation
// order
func (r *NoteRepository) GetByDocumentID(ctx context.Context, documentID valueobjects.DocumentID) ([]*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byDocument[documentID.String()]
	result := make([]*entities.Note, 0, len(ids))
	for _, id := range ids {
		if note, exists := r.notes[id.String()]; exists {
			result = append(result, note.Clone())
		}
	}
	return result, nil
}
