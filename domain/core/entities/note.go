package entities

import (
	"time"

	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/domain/events"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// Note is a collaborative annotation attached to exactly one document.
// Vote counters are adjusted only through ApplyVoteDelta so they can never
// drift from the vote ledger, and never go negative.
type Note struct {
	id         valueobjects.NoteID
	documentID valueobjects.DocumentID
	authorID   string
	content    valueobjects.NoteContent
	createdAt  time.Time
	upvotes    int
	downvotes  int
	version    int

	// Domain events that occurred during this entity's lifetime
	events []events.DomainEvent
}

// NewNote creates a new note with zeroed vote counters
func NewNote(authorID string, documentID valueobjects.DocumentID, content valueobjects.NoteContent) (*Note, error) {
	if authorID == "" {
		return nil, pkgerrors.NewValidationError("authorID cannot be empty")
	}
	if documentID.IsZero() {
		return nil, pkgerrors.NewValidationError("documentID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("note content cannot be empty")
	}

	now := time.Now()
	note := &Note{
		id:         valueobjects.NewNoteID(),
		documentID: documentID,
		authorID:   authorID,
		content:    content,
		createdAt:  now,
		version:    1,
		events:     []events.DomainEvent{},
	}

	note.addEvent(events.NewNoteAdded(note.id, documentID, authorID, now))

	return note, nil
}

// ReconstructNote rebuilds a note from repository data with preserved
// identity, counters and timestamps
func ReconstructNote(
	id valueobjects.NoteID,
	documentID valueobjects.DocumentID,
	authorID string,
	content valueobjects.NoteContent,
	createdAt time.Time,
	upvotes int,
	downvotes int,
	version int,
) *Note {
	return &Note{
		id:         id,
		documentID: documentID,
		authorID:   authorID,
		content:    content,
		createdAt:  createdAt,
		upvotes:    upvotes,
		downvotes:  downvotes,
		version:    version,
		events:     []events.DomainEvent{},
	}
}

// Accessors

func (n *Note) ID() valueobjects.NoteID             { return n.id }
func (n *Note) DocumentID() valueobjects.DocumentID { return n.documentID }
func (n *Note) AuthorID() string                    { return n.authorID }
func (n *Note) Content() valueobjects.NoteContent   { return n.content }
func (n *Note) CreatedAt() time.Time                { return n.createdAt }
func (n *Note) Upvotes() int                        { return n.upvotes }
func (n *Note) Downvotes() int                      { return n.downvotes }
func (n *Note) Version() int                        { return n.version }

// IsAuthoredBy reports whether the given user wrote this note
func (n *Note) IsAuthoredBy(userID string) bool {
	return n.authorID == userID
}

// Edit replaces the note content. Only the author may edit; id, author,
// counters and the creation timestamp stay untouched.
func (n *Note) Edit(editorID string, newContent valueobjects.NoteContent) error {
	if !n.IsAuthoredBy(editorID) {
		return pkgerrors.NewForbiddenError("only the author can edit a note").
			WithCode(pkgerrors.CodeNotAuthor)
	}
	if newContent.IsEmpty() {
		return pkgerrors.NewValidationError("note content cannot be empty")
	}

	n.content = newContent
	n.version++
	n.addEvent(events.NewNoteEdited(n.id, n.authorID, time.Now()))
	return nil
}

// ApplyVoteDelta adjusts the vote counters by the delta implied by a vote
// transition. The note is left unchanged when the adjustment would drive
// either counter negative.
func (n *Note) ApplyVoteDelta(delta valueobjects.VoteDelta) error {
	newUp := n.upvotes + delta.Upvotes
	newDown := n.downvotes + delta.Downvotes
	if newUp < 0 || newDown < 0 {
		return pkgerrors.NewConflictError("vote counters cannot go negative")
	}

	n.upvotes = newUp
	n.downvotes = newDown
	n.version++
	return nil
}

// Score returns upvotes minus downvotes
func (n *Note) Score() int {
	return n.upvotes - n.downvotes
}

// Clone returns a deep copy, used to hand out snapshots without exposing
// internal state to concurrent mutation
func (n *Note) Clone() *Note {
	return &Note{
		id:         n.id,
		documentID: n.documentID,
		authorID:   n.authorID,
		content:    n.content,
		createdAt:  n.createdAt,
		upvotes:    n.upvotes,
		downvotes:  n.downvotes,
		version:    n.version,
		events:     []events.DomainEvent{},
	}
}

// Events returns the accumulated domain events
func (n *Note) Events() []events.DomainEvent {
	return n.events
}

// ClearEvents clears the accumulated domain events after publishing
func (n *Note) ClearEvents() {
	n.events = []events.DomainEvent{}
}

func (n *Note) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
