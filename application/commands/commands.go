package commands

import (
	pkgerrors "paperdesk-backend/pkg/errors"
)

// InitializeLibraryCommand materializes a user's library from the catalog
type InitializeLibraryCommand struct {
	UserID string
}

// Validate checks command invariants
func (c InitializeLibraryCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	return nil
}

// ToggleReadCommand flips a document's read flag for a user
type ToggleReadCommand struct {
	UserID     string
	DocumentID string
}

// Validate checks command invariants
func (c ToggleReadCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	if c.DocumentID == "" {
		return pkgerrors.NewValidationError("documentID is required")
	}
	return nil
}

// ToggleBookmarkCommand flips a document's bookmark flag for a user
type ToggleBookmarkCommand struct {
	UserID     string
	DocumentID string
}

// Validate checks command invariants
func (c ToggleBookmarkCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	if c.DocumentID == "" {
		return pkgerrors.NewValidationError("documentID is required")
	}
	return nil
}

// AddNoteCommand attaches a new note to a document
type AddNoteCommand struct {
	UserID     string
	DocumentID string
	Content    string
}

// Validate checks command invariants
func (c AddNoteCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	if c.DocumentID == "" {
		return pkgerrors.NewValidationError("documentID is required")
	}
	if c.Content == "" {
		return pkgerrors.NewValidationError("content is required")
	}
	return nil
}

// EditNoteCommand replaces a note's content, author-only
type EditNoteCommand struct {
	UserID  string
	NoteID  string
	Content string
}

// Validate checks command invariants
func (c EditNoteCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	if c.NoteID == "" {
		return pkgerrors.NewValidationError("noteID is required")
	}
	if c.Content == "" {
		return pkgerrors.NewValidationError("content is required")
	}
	return nil
}

// CastVoteCommand applies a vote request to a note
type CastVoteCommand struct {
	UserID string
	NoteID string
	Vote   string
}

// Validate checks command invariants
func (c CastVoteCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	if c.NoteID == "" {
		return pkgerrors.NewValidationError("noteID is required")
	}
	if c.Vote != "upvote" && c.Vote != "downvote" {
		return pkgerrors.NewValidationError("vote must be upvote or downvote")
	}
	return nil
}

// SaveDraftCommand stores a user's personal draft for a document.
// An empty content clears the draft, so content is not validated here.
type SaveDraftCommand struct {
	UserID     string
	DocumentID string
	Content    string
}

// Validate checks command invariants
func (c SaveDraftCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("userID is required")
	}
	if c.DocumentID == "" {
		return pkgerrors.NewValidationError("documentID is required")
	}
	return nil
}
