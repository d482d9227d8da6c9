package services

import (
	"context"
	"sync"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/core/aggregates"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"

	"go.uber.org/zap"
)

// LibraryService manages per-user overlays of the shared catalog.
// All mutations to one user's library are serialized behind a per-user
// mutex; different users never contend.
type LibraryService struct {
	catalogRepo ports.CatalogRepository
	libraryRepo ports.LibraryRepository
	snapshots   ports.SnapshotStore
	publisher   ports.EventPublisher
	logger      *zap.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewLibraryService creates a new library service
func NewLibraryService(
	catalogRepo ports.CatalogRepository,
	libraryRepo ports.LibraryRepository,
	snapshots ports.SnapshotStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *LibraryService {
	return &LibraryService{
		catalogRepo: catalogRepo,
		libraryRepo: libraryRepo,
		snapshots:   snapshots,
		publisher:   publisher,
		logger:      logger,
		userLocks:   make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user
func (s *LibraryService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// EnsureInitialized materializes a library for the user by deep-cloning the
// current catalog, modeling "first login creates a personal copy". A second
// call is a no-op, not an error.
func (s *LibraryService) EnsureInitialized(ctx context.Context, userID string) (*aggregates.Library, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	exists, err := s.libraryRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.libraryRepo.GetByUserID(ctx, userID)
	}

	documents, err := s.catalogRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	library, err := aggregates.NewLibrary(userID, documents)
	if err != nil {
		return nil, err
	}

	if err := s.libraryRepo.Save(ctx, library); err != nil {
		return nil, err
	}

	s.persistLibrary(ctx, library)
	s.publishEvents(ctx, library)

	s.logger.Info("Initialized library",
		zap.String("userID", userID),
		zap.Int("documents", library.DocumentCount()),
	)

	return library, nil
}

// ToggleRead flips the read flag on one overlay entry and returns the new
// value. Fails with NotFound when the user has no library or the document
// is not in it.
func (s *LibraryService) ToggleRead(ctx context.Context, userID string, documentID valueobjects.DocumentID) (bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	isRead, err := library.ToggleRead(documentID)
	if err != nil {
		return false, err
	}

	if err := s.libraryRepo.Save(ctx, library); err != nil {
		return false, err
	}

	s.persistLibrary(ctx, library)
	s.publishEvents(ctx, library)

	return isRead, nil
}

// ToggleBookmark flips the bookmark flag on one overlay entry and returns
// the new value
func (s *LibraryService) ToggleBookmark(ctx context.Context, userID string, documentID valueobjects.DocumentID) (bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	isBookmarked, err := library.ToggleBookmark(documentID)
	if err != nil {
		return false, err
	}

	if err := s.libraryRepo.Save(ctx, library); err != nil {
		return false, err
	}

	s.persistLibrary(ctx, library)
	s.publishEvents(ctx, library)

	return isBookmarked, nil
}

// DocumentWithFlags pairs a catalog document with one user's overlay state
type DocumentWithFlags struct {
	Document     *entities.Document
	IsRead       bool
	IsBookmarked bool
	NoteIDs      []valueobjects.NoteID
}

// Get returns a document together with the user's flags for it
func (s *LibraryService) Get(ctx context.Context, userID string, documentID valueobjects.DocumentID) (*DocumentWithFlags, error) {
	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry, err := library.Entry(documentID)
	if err != nil {
		return nil, err
	}

	doc, err := s.catalogRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return &DocumentWithFlags{
		Document:     doc,
		IsRead:       entry.IsRead,
		IsBookmarked: entry.IsBookmarked,
		NoteIDs:      entry.NoteIDs,
	}, nil
}

// ListFilter restricts List results to a flag subset
type ListFilter string

const (
	FilterAll        ListFilter = ""
	FilterRead       ListFilter = "read"
	FilterUnread     ListFilter = "unread"
	FilterBookmarked ListFilter = "bookmarked"
)

// List returns the user's library entries with documents, in insertion
// order, optionally filtered by flag. Deterministic ordering keeps
// paginated views stable across re-renders.
func (s *LibraryService) List(ctx context.Context, userID string, filter ListFilter) ([]*DocumentWithFlags, error) {
	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := library.Entries()
	result := make([]*DocumentWithFlags, 0, len(entries))

	for _, entry := range entries {
		switch filter {
		case FilterRead:
			if !entry.IsRead {
				continue
			}
		case FilterUnread:
			if entry.IsRead {
				continue
			}
		case FilterBookmarked:
			if !entry.IsBookmarked {
				continue
			}
		}

		doc, err := s.catalogRepo.GetByID(ctx, entry.DocumentID)
		if err != nil {
			// Overlay entries always reference catalog documents; a miss
			// here means the stores disagree, which we surface rather
			// than silently skip.
			return nil, err
		}

		result = append(result, &DocumentWithFlags{
			Document:     doc,
			IsRead:       entry.IsRead,
			IsBookmarked: entry.IsBookmarked,
			NoteIDs:      entry.NoteIDs,
		})
	}

	return result, nil
}

// SearchByConcept returns the user's documents referencing the named
// concept, matched case-insensitively against each document's related
// concepts, in insertion order.
func (s *LibraryService) SearchByConcept(ctx context.Context, userID string, conceptName string) ([]*DocumentWithFlags, error) {
	if conceptName == "" {
		return nil, pkgerrors.NewValidationError("concept name cannot be empty")
	}

	all, err := s.List(ctx, userID, FilterAll)
	if err != nil {
		return nil, err
	}

	result := make([]*DocumentWithFlags, 0)
	for _, item := range all {
		if item.Document.HasConcept(conceptName) {
			result = append(result, item)
		}
	}

	return result, nil
}

// SaveDraft stores the user's personal draft annotation for a document
func (s *LibraryService) SaveDraft(ctx context.Context, userID string, documentID valueobjects.DocumentID, text string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := library.SetDraft(documentID, text); err != nil {
		return err
	}

	if err := s.libraryRepo.Save(ctx, library); err != nil {
		return err
	}

	s.persistLibrary(ctx, library)
	return nil
}

// GetDraft returns the user's personal draft for a document, empty when
// none exists
func (s *LibraryService) GetDraft(ctx context.Context, userID string, documentID valueobjects.DocumentID) (string, error) {
	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return library.Draft(documentID)
}

// AttachNote records a note reference on the acting user's overlay entry.
// Called by NoteService after the canonical note is stored.
func (s *LibraryService) AttachNote(ctx context.Context, userID string, documentID valueobjects.DocumentID, noteID valueobjects.NoteID) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	library, err := s.libraryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := library.AttachNote(documentID, noteID); err != nil {
		return err
	}

	if err := s.libraryRepo.Save(ctx, library); err != nil {
		return err
	}

	s.persistLibrary(ctx, library)
	return nil
}

// persistLibrary write-through persists the full library state.
// Snapshot failures are logged, not propagated.
func (s *LibraryService) persistLibrary(ctx context.Context, library *aggregates.Library) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveLibrary(ctx, library); err != nil {
		s.logger.Warn("Failed to persist library snapshot",
			zap.String("userID", library.UserID()),
			zap.Error(err),
		)
	}
}

// publishEvents drains and publishes the aggregate's domain events
func (s *LibraryService) publishEvents(ctx context.Context, library *aggregates.Library) {
	pending := library.Events()
	if len(pending) == 0 {
		return
	}
	library.ClearEvents()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish library events",
			zap.String("userID", library.UserID()),
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
}
