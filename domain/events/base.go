package events

import (
	"time"

	"paperdesk-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Library events

// LibraryInitialized is raised when a user's overlay is first materialized
// from the shared catalog
type LibraryInitialized struct {
	BaseEvent
	UserID        string `json:"user_id"`
	DocumentCount int    `json:"document_count"`
}

// NewLibraryInitialized creates a LibraryInitialized event
func NewLibraryInitialized(userID string, documentCount int, timestamp time.Time) LibraryInitialized {
	return LibraryInitialized{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "library.initialized",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:        userID,
		DocumentCount: documentCount,
	}
}

// DocumentReadToggled is raised when a user flips a document's read flag
type DocumentReadToggled struct {
	BaseEvent
	UserID     string                  `json:"user_id"`
	DocumentID valueobjects.DocumentID `json:"document_id"`
	IsRead     bool                    `json:"is_read"`
}

// NewDocumentReadToggled creates a DocumentReadToggled event
func NewDocumentReadToggled(userID string, documentID valueobjects.DocumentID, isRead bool, timestamp time.Time) DocumentReadToggled {
	return DocumentReadToggled{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "library.read_toggled",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:     userID,
		DocumentID: documentID,
		IsRead:     isRead,
	}
}

// DocumentBookmarkToggled is raised when a user flips a document's bookmark flag
type DocumentBookmarkToggled struct {
	BaseEvent
	UserID       string                  `json:"user_id"`
	DocumentID   valueobjects.DocumentID `json:"document_id"`
	IsBookmarked bool                    `json:"is_bookmarked"`
}

// NewDocumentBookmarkToggled creates a DocumentBookmarkToggled event
func NewDocumentBookmarkToggled(userID string, documentID valueobjects.DocumentID, isBookmarked bool, timestamp time.Time) DocumentBookmarkToggled {
	return DocumentBookmarkToggled{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "library.bookmark_toggled",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:       userID,
		DocumentID:   documentID,
		IsBookmarked: isBookmarked,
	}
}

// Note events

// NoteAdded is raised when a note is attached to a document
type NoteAdded struct {
	BaseEvent
	NoteID     valueobjects.NoteID     `json:"note_id"`
	DocumentID valueobjects.DocumentID `json:"document_id"`
	AuthorID   string                  `json:"author_id"`
}

// NewNoteAdded creates a NoteAdded event
func NewNoteAdded(noteID valueobjects.NoteID, documentID valueobjects.DocumentID, authorID string, timestamp time.Time) NoteAdded {
	return NoteAdded{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.added",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:     noteID,
		DocumentID: documentID,
		AuthorID:   authorID,
	}
}

// NoteEdited is raised when a note's content is replaced by its author
type NoteEdited struct {
	BaseEvent
	NoteID   valueobjects.NoteID `json:"note_id"`
	AuthorID string              `json:"author_id"`
}

// NewNoteEdited creates a NoteEdited event
func NewNoteEdited(noteID valueobjects.NoteID, authorID string, timestamp time.Time) NoteEdited {
	return NoteEdited{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.edited",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:   noteID,
		AuthorID: authorID,
	}
}

// NoteVoteCast is raised after a vote transition has been applied to a note
type NoteVoteCast struct {
	BaseEvent
	NoteID    valueobjects.NoteID `json:"note_id"`
	UserID    string              `json:"user_id"`
	Vote      string              `json:"vote"` // resulting state, empty when retracted
	Upvotes   int                 `json:"upvotes"`
	Downvotes int                 `json:"downvotes"`
}

// NewNoteVoteCast creates a NoteVoteCast event
func NewNoteVoteCast(noteID valueobjects.NoteID, userID string, vote valueobjects.Vote, upvotes, downvotes int, timestamp time.Time) NoteVoteCast {
	return NoteVoteCast{
		BaseEvent: BaseEvent{
			AggregateID: noteID.String(),
			EventType:   "note.vote_cast",
			Timestamp:   timestamp,
			Version:     1,
		},
		NoteID:    noteID,
		UserID:    userID,
		Vote:      string(vote),
		Upvotes:   upvotes,
		Downvotes: downvotes,
	}
}
