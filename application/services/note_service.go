package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"paperdesk-backend/application/ports"
	"paperdesk-backend/domain/config"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/domain/events"
	pkgerrors "paperdesk-backend/pkg/errors"

	"go.uber.org/zap"
)

// NoteService manages collaborative notes and their vote counters.
// A vote transition writes the ledger and adjusts the note's counters under
// one per-note mutex, so the counters never observably disagree with the
// ledger.
type NoteService struct {
	catalogRepo ports.CatalogRepository
	noteRepo    ports.NoteRepository
	ledger      ports.VoteLedgerRepository
	library     *LibraryService
	cfg         *config.DomainConfig
	snapshots   ports.SnapshotStore
	publisher   ports.EventPublisher
	logger      *zap.Logger

	mu        sync.Mutex
	noteLocks map[string]*sync.Mutex
	docLocks  map[string]*sync.Mutex
}

// NewNoteService creates a new note service
func NewNoteService(
	catalogRepo ports.CatalogRepository,
	noteRepo ports.NoteRepository,
	ledger ports.VoteLedgerRepository,
	library *LibraryService,
	cfg *config.DomainConfig,
	snapshots ports.SnapshotStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *NoteService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &NoteService{
		catalogRepo: catalogRepo,
		noteRepo:    noteRepo,
		ledger:      ledger,
		library:     library,
		cfg:         cfg,
		snapshots:   snapshots,
		publisher:   publisher,
		logger:      logger,
		noteLocks:   make(map[string]*sync.Mutex),
		docLocks:    make(map[string]*sync.Mutex),
	}
}

// noteLock returns the mutex serializing vote transitions for one note
func (s *NoteService) noteLock(noteID valueobjects.NoteID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.noteLocks[noteID.String()]
	if !exists {
		lock = &sync.Mutex{}
		s.noteLocks[noteID.String()] = lock
	}
	return lock
}

// docLock returns the mutex serializing canonical note list updates for
// one document
func (s *NoteService) docLock(documentID valueobjects.DocumentID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.docLocks[documentID.String()]
	if !exists {
		lock = &sync.Mutex{}
		s.docLocks[documentID.String()] = lock
	}
	return lock
}

// AddNote creates a note on a document: a fresh id, zeroed counters, and
// attachment to both the canonical catalog note list and the acting user's
// overlay entry. The user's library must be initialized.
func (s *NoteService) AddNote(ctx context.Context, userID string, documentID valueobjects.DocumentID, content string) (*entities.Note, error) {
	if _, err := s.catalogRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}

	noteContent, err := valueobjects.NewNoteContentWithConfig(content, s.cfg)
	if err != nil {
		return nil, err
	}

	note, err := entities.NewNote(userID, documentID, noteContent)
	if err != nil {
		return nil, err
	}

	// The overlay entry must exist before anything is written, so a
	// failure leaves no half-created note behind.
	if err := s.library.AttachNote(ctx, userID, documentID, note.ID()); err != nil {
		return nil, err
	}

	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	// Re-read and update the canonical note list under the document's
	// lock; concurrent authors on the same document must not lose each
	// other's attachment.
	lock := s.docLock(documentID)
	lock.Lock()
	doc, err := s.catalogRepo.GetByID(ctx, documentID)
	if err == nil {
		doc.AttachNote(note.ID())
		err = s.catalogRepo.Upsert(ctx, doc)
	}
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.persistNote(ctx, note)
	s.persistDocument(ctx, doc)
	s.publishEvents(ctx, note)

	s.logger.Info("Note added",
		zap.String("noteID", note.ID().String()),
		zap.String("documentID", documentID.String()),
		zap.String("authorID", userID),
	)

	return note, nil
}

// EditNote replaces a note's content. Only the author may edit; anyone
// else gets Forbidden and the note is left untouched.
func (s *NoteService) EditNote(ctx context.Context, userID string, noteID valueobjects.NoteID, newContent string) (*entities.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewNoteContentWithConfig(newContent, s.cfg)
	if err != nil {
		return nil, err
	}

	if err := note.Edit(userID, content); err != nil {
		return nil, err
	}

	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	s.persistNote(ctx, note)
	s.publishEvents(ctx, note)

	return note, nil
}

// CastVote applies one vote request against the (user, note) ledger entry
// and adjusts the note's counters by the implied delta. Requesting the
// current vote retracts it; requesting the other vote replaces it. The
// ledger write and counter update happen under the note's lock so the
// cross-entity invariant - counters equal ledger tallies - never breaks.
// Returns the resulting vote state and the updated note.
func (s *NoteService) CastVote(ctx context.Context, userID string, noteID valueobjects.NoteID, requested valueobjects.Vote) (valueobjects.Vote, *entities.Note, error) {
	if requested.IsNone() {
		return valueobjects.VoteNone, nil, pkgerrors.NewValidationError("vote must be upvote or downvote")
	}

	lock := s.noteLock(noteID)
	lock.Lock()
	defer lock.Unlock()

	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return valueobjects.VoteNone, nil, err
	}

	current, err := s.ledger.Get(ctx, userID, noteID)
	if err != nil {
		return valueobjects.VoteNone, nil, err
	}

	next := current.Transition(requested)
	delta := valueobjects.DeltaBetween(current, next)

	if err := note.ApplyVoteDelta(delta); err != nil {
		return valueobjects.VoteNone, nil, err
	}

	if err := s.ledger.Set(ctx, userID, noteID, next); err != nil {
		// Roll the counters back so a ledger failure leaves the note in
		// its pre-call state.
		if rbErr := note.ApplyVoteDelta(delta.Negate()); rbErr != nil {
			s.logger.Error("Failed to roll back vote counters",
				zap.String("noteID", noteID.String()),
				zap.Error(rbErr),
			)
		}
		return valueobjects.VoteNone, nil, err
	}

	if err := s.noteRepo.Save(ctx, note); err != nil {
		return valueobjects.VoteNone, nil, err
	}

	s.persistNote(ctx, note)
	s.persistVote(ctx, userID, noteID, next)

	if s.publisher != nil {
		event := events.NewNoteVoteCast(noteID, userID, next, note.Upvotes(), note.Downvotes(), time.Now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish vote event",
				zap.String("noteID", noteID.String()),
				zap.Error(err),
			)
		}
	}

	return next, note, nil
}

// GetVote returns the user's recorded vote for a note, VoteNone when absent
func (s *NoteService) GetVote(ctx context.Context, userID string, noteID valueobjects.NoteID) (valueobjects.Vote, error) {
	return s.ledger.Get(ctx, userID, noteID)
}

// TopNotes returns a document's notes excluding the given author's own,
// sorted by upvotes descending with ties broken by earliest creation time,
// truncated to limit. A non-positive limit falls back to the configured
// default; limits above the configured maximum are capped.
func (s *NoteService) TopNotes(ctx context.Context, documentID valueobjects.DocumentID, excludeAuthorID string, limit int) ([]*entities.Note, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultTopNotes
	}
	if limit > s.cfg.MaxTopNotes {
		limit = s.cfg.MaxTopNotes
	}

	notes, err := s.noteRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entities.Note, 0, len(notes))
	for _, note := range notes {
		if note.IsAuthoredBy(excludeAuthorID) {
			continue
		}
		filtered = append(filtered, note)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Upvotes() != filtered[j].Upvotes() {
			return filtered[i].Upvotes() > filtered[j].Upvotes()
		}
		return filtered[i].CreatedAt().Before(filtered[j].CreatedAt())
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered, nil
}

// OwnNote returns the user's own note on a document, nil when the user has
// not written one. Own and others' notes share one store; the split is a
// query-time distinction.
func (s *NoteService) OwnNote(ctx context.Context, documentID valueobjects.DocumentID, userID string) (*entities.Note, error) {
	notes, err := s.noteRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	for _, note := range notes {
		if note.IsAuthoredBy(userID) {
			return note, nil
		}
	}
	return nil, nil
}

func (s *NoteService) persistNote(ctx context.Context, note *entities.Note) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveNote(ctx, note); err != nil {
		s.logger.Warn("Failed to persist note snapshot",
			zap.String("noteID", note.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *NoteService) persistDocument(ctx context.Context, doc *entities.Document) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveDocument(ctx, doc); err != nil {
		s.logger.Warn("Failed to persist document snapshot",
			zap.String("documentID", doc.ID().String()),
			zap.Error(err),
		)
	}
}

func (s *NoteService) persistVote(ctx context.Context, userID string, noteID valueobjects.NoteID, vote valueobjects.Vote) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveVote(ctx, userID, noteID, vote); err != nil {
		s.logger.Warn("Failed to persist vote snapshot",
			zap.String("noteID", noteID.String()),
			zap.Error(err),
		)
	}
}

func (s *NoteService) publishEvents(ctx context.Context, note *entities.Note) {
	pending := note.Events()
	if len(pending) == 0 {
		return
	}
	note.ClearEvents()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish note events",
			zap.String("noteID", note.ID().String()),
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
}
