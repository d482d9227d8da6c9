package ports

import (
	"context"

	"paperdesk-backend/domain/core/aggregates"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/domain/events"
)

// CatalogRepository defines the interface for the shared document catalog.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type CatalogRepository interface {
	// Upsert stores or replaces a document; used at seed/import time
	Upsert(ctx context.Context, doc *entities.Document) error

	// GetByID retrieves a document by its ID
	GetByID(ctx context.Context, id valueobjects.DocumentID) (*entities.Document, error)

	// All retrieves every document in insertion order
	All(ctx context.Context) ([]*entities.Document, error)

	// Search finds documents matching the given criteria, in insertion order
	Search(ctx context.Context, criteria CatalogSearchCriteria) ([]*entities.Document, error)
}

// CatalogSearchCriteria defines catalog search parameters
type CatalogSearchCriteria struct {
	Query    string // free text against title, authors and keywords
	Author   string
	Year     int
	Category string
	Limit    int
	Offset   int
}

// LibraryRepository defines the interface for per-user library persistence
type LibraryRepository interface {
	// Save persists a library (create or update)
	Save(ctx context.Context, library *aggregates.Library) error

	// GetByUserID retrieves the library for a user
	GetByUserID(ctx context.Context, userID string) (*aggregates.Library, error)

	// Exists reports whether a library has been initialized for the user
	Exists(ctx context.Context, userID string) (bool, error)
}

// NoteRepository defines the interface for the canonical note store.
// Notes are stored once, keyed by note id; per-user overlays hold only
// id references.
type NoteRepository interface {
	// Save persists a note (create or update)
	Save(ctx context.Context, note *entities.Note) error

	// GetByID retrieves a note by its ID
	GetByID(ctx context.Context, id valueobjects.NoteID) (*entities.Note, error)

	// GetByDocumentID retrieves all notes for a document in creation order
	GetByDocumentID(ctx context.Context, documentID valueobjects.DocumentID) ([]*entities.Note, error)
}

// VoteLedgerRepository records which vote, if any, each user has cast on
// each note. At most one value exists per (user, note) pair.
type VoteLedgerRepository interface {
	// Get returns the recorded vote, VoteNone when absent
	Get(ctx context.Context, userID string, noteID valueobjects.NoteID) (valueobjects.Vote, error)

	// Set records a vote; VoteNone removes the entry
	Set(ctx context.Context, userID string, noteID valueobjects.NoteID, vote valueobjects.Vote) error

	// CountByNote tallies recorded upvotes and downvotes for a note,
	// used to audit the counter invariant
	CountByNote(ctx context.Context, noteID valueobjects.NoteID) (upvotes int, downvotes int, err error)
}

// SnapshotStore is the write-through persistence collaborator: the core
// hands it full updated state after every mutation, and loads prior state
// from it at process start. Failures here are logged, never propagated -
// durability is not the core's concern.
type SnapshotStore interface {
	// SaveDocument persists a catalog document
	SaveDocument(ctx context.Context, doc *entities.Document) error

	// SaveLibrary persists a user's full library state
	SaveLibrary(ctx context.Context, library *aggregates.Library) error

	// SaveNote persists a note with its current counters
	SaveNote(ctx context.Context, note *entities.Note) error

	// SaveVote persists one ledger entry; VoteNone deletes it
	SaveVote(ctx context.Context, userID string, noteID valueobjects.NoteID, vote valueobjects.Vote) error

	// Load restores all previously persisted state
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is the state restored by a SnapshotStore at startup
type Snapshot struct {
	Documents []*entities.Document
	Libraries []*aggregates.Library
	Notes     []*entities.Note
	Votes     []VoteRecord
}

// VoteRecord is one persisted ledger entry
type VoteRecord struct {
	UserID string
	NoteID valueobjects.NoteID
	Vote   valueobjects.Vote
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching query results
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
