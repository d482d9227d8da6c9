package aggregates

import (
	"fmt"
	"time"

	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	"paperdesk-backend/domain/events"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// Entry is one user's per-document overlay state: the flags and note
// references layered over a catalog document. Exactly one entry exists per
// (user, document) pair once the library is initialized.
type Entry struct {
	DocumentID   valueobjects.DocumentID
	IsRead       bool
	IsBookmarked bool
	NoteIDs      []valueobjects.NoteID
}

// clone returns a deep copy of the entry
func (e *Entry) clone() Entry {
	return Entry{
		DocumentID:   e.DocumentID,
		IsRead:       e.IsRead,
		IsBookmarked: e.IsBookmarked,
		NoteIDs:      append([]valueobjects.NoteID{}, e.NoteIDs...),
	}
}

// Library is the aggregate root for one user's overlay of the shared
// catalog. All of a user's per-document flags, note references and personal
// drafts hang off this aggregate; mutations here never touch the catalog or
// any other user's library.
type Library struct {
	userID    string
	entries   map[string]*Entry
	order     []valueobjects.DocumentID // insertion order of entries
	drafts    map[string]string         // document id -> personal draft text
	createdAt time.Time
	updatedAt time.Time
	version   int

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewLibrary materializes a fresh library for a user by snapshot-copying
// the current catalog. Each document gets an entry with cleared flags and
// the document's canonical note references.
func NewLibrary(userID string, documents []*entities.Document) (*Library, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	now := time.Now()
	lib := &Library{
		userID:    userID,
		entries:   make(map[string]*Entry, len(documents)),
		order:     make([]valueobjects.DocumentID, 0, len(documents)),
		drafts:    make(map[string]string),
		createdAt: now,
		updatedAt: now,
		version:   1,
		events:    []events.DomainEvent{},
	}

	for _, doc := range documents {
		lib.addEntry(doc)
	}

	lib.addEvent(events.NewLibraryInitialized(userID, len(documents), now))

	return lib, nil
}

// ReconstructLibrary rebuilds a library from repository data
func ReconstructLibrary(
	userID string,
	entries []Entry,
	drafts map[string]string,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *Library {
	lib := &Library{
		userID:    userID,
		entries:   make(map[string]*Entry, len(entries)),
		order:     make([]valueobjects.DocumentID, 0, len(entries)),
		drafts:    make(map[string]string, len(drafts)),
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
		events:    []events.DomainEvent{},
	}

	for i := range entries {
		entry := entries[i].clone()
		lib.entries[entry.DocumentID.String()] = &entry
		lib.order = append(lib.order, entry.DocumentID)
	}
	for docID, text := range drafts {
		lib.drafts[docID] = text
	}

	return lib
}

// Clone returns a deep copy of the library, used to hand out snapshots
// without exposing internal state to concurrent mutation. Pending domain
// events stay with the original.
func (l *Library) Clone() *Library {
	clone := &Library{
		userID:    l.userID,
		entries:   make(map[string]*Entry, len(l.entries)),
		order:     append([]valueobjects.DocumentID{}, l.order...),
		drafts:    make(map[string]string, len(l.drafts)),
		createdAt: l.createdAt,
		updatedAt: l.updatedAt,
		version:   l.version,
		events:    []events.DomainEvent{},
	}
	for key, entry := range l.entries {
		copied := entry.clone()
		clone.entries[key] = &copied
	}
	for docID, text := range l.drafts {
		clone.drafts[docID] = text
	}
	return clone
}

// addEntry registers an overlay entry for a document, preserving insertion
// order. Documents already present are skipped.
func (l *Library) addEntry(doc *entities.Document) {
	key := doc.ID().String()
	if _, exists := l.entries[key]; exists {
		return
	}
	l.entries[key] = &Entry{
		DocumentID: doc.ID(),
		NoteIDs:    doc.NoteIDs(),
	}
	l.order = append(l.order, doc.ID())
}

// Accessors

func (l *Library) UserID() string       { return l.userID }
func (l *Library) CreatedAt() time.Time { return l.createdAt }
func (l *Library) UpdatedAt() time.Time { return l.updatedAt }
func (l *Library) Version() int         { return l.version }

// DocumentCount returns the number of overlay entries
func (l *Library) DocumentCount() int {
	return len(l.entries)
}

// ContainsDocument reports whether the user's overlay has an entry for the
// document
func (l *Library) ContainsDocument(documentID valueobjects.DocumentID) bool {
	_, exists := l.entries[documentID.String()]
	return exists
}

// Entry returns a copy of the overlay entry for a document
func (l *Library) Entry(documentID valueobjects.DocumentID) (Entry, error) {
	entry, exists := l.entries[documentID.String()]
	if !exists {
		return Entry{}, pkgerrors.NewNotFoundError(
			fmt.Sprintf("document %s not in library of user %s", documentID.String(), l.userID))
	}
	return entry.clone(), nil
}

// Entries returns copies of all overlay entries in insertion order
func (l *Library) Entries() []Entry {
	result := make([]Entry, 0, len(l.order))
	for _, docID := range l.order {
		if entry, exists := l.entries[docID.String()]; exists {
			result = append(result, entry.clone())
		}
	}
	return result
}

// ToggleRead flips the read flag for a document and returns the new value.
// Toggling twice restores the original state.
func (l *Library) ToggleRead(documentID valueobjects.DocumentID) (bool, error) {
	entry, exists := l.entries[documentID.String()]
	if !exists {
		return false, pkgerrors.NewNotFoundError(
			fmt.Sprintf("document %s not in library of user %s", documentID.String(), l.userID))
	}

	entry.IsRead = !entry.IsRead
	l.touch()
	l.addEvent(events.NewDocumentReadToggled(l.userID, documentID, entry.IsRead, l.updatedAt))
	return entry.IsRead, nil
}

// ToggleBookmark flips the bookmark flag for a document and returns the
// new value
func (l *Library) ToggleBookmark(documentID valueobjects.DocumentID) (bool, error) {
	entry, exists := l.entries[documentID.String()]
	if !exists {
		return false, pkgerrors.NewNotFoundError(
			fmt.Sprintf("document %s not in library of user %s", documentID.String(), l.userID))
	}

	entry.IsBookmarked = !entry.IsBookmarked
	l.touch()
	l.addEvent(events.NewDocumentBookmarkToggled(l.userID, documentID, entry.IsBookmarked, l.updatedAt))
	return entry.IsBookmarked, nil
}

// AttachNote records a note reference on the document's overlay entry.
// Attaching the same note twice is a no-op.
func (l *Library) AttachNote(documentID valueobjects.DocumentID, noteID valueobjects.NoteID) error {
	entry, exists := l.entries[documentID.String()]
	if !exists {
		return pkgerrors.NewNotFoundError(
			fmt.Sprintf("document %s not in library of user %s", documentID.String(), l.userID))
	}

	for _, existing := range entry.NoteIDs {
		if existing.Equals(noteID) {
			return nil
		}
	}
	entry.NoteIDs = append(entry.NoteIDs, noteID)
	l.touch()
	return nil
}

// SetDraft stores the user's personal, unsaved annotation for a document.
// An empty text clears the draft.
func (l *Library) SetDraft(documentID valueobjects.DocumentID, text string) error {
	if _, exists := l.entries[documentID.String()]; !exists {
		return pkgerrors.NewNotFoundError(
			fmt.Sprintf("document %s not in library of user %s", documentID.String(), l.userID))
	}

	if text == "" {
		delete(l.drafts, documentID.String())
	} else {
		l.drafts[documentID.String()] = text
	}
	l.touch()
	return nil
}

// Draft returns the personal draft for a document, empty when none exists
func (l *Library) Draft(documentID valueobjects.DocumentID) (string, error) {
	if _, exists := l.entries[documentID.String()]; !exists {
		return "", pkgerrors.NewNotFoundError(
			fmt.Sprintf("document %s not in library of user %s", documentID.String(), l.userID))
	}
	return l.drafts[documentID.String()], nil
}

// Drafts returns a copy of all personal drafts keyed by document id
func (l *Library) Drafts() map[string]string {
	result := make(map[string]string, len(l.drafts))
	for docID, text := range l.drafts {
		result[docID] = text
	}
	return result
}

// Events returns the accumulated domain events
func (l *Library) Events() []events.DomainEvent {
	return l.events
}

// ClearEvents clears the accumulated domain events after publishing
func (l *Library) ClearEvents() {
	l.events = []events.DomainEvent{}
}

func (l *Library) touch() {
	l.updatedAt = time.Now()
	l.version++
}

func (l *Library) addEvent(event events.DomainEvent) {
	l.events = append(l.events, event)
}
