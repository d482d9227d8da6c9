package handlers

import (
	"context"

	"go.uber.org/zap"

	"paperdesk-backend/application/commands"
	"paperdesk-backend/application/commands/bus"
	"paperdesk-backend/application/services"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// AddNoteHandler handles note creation commands
type AddNoteHandler struct {
	noteService *services.NoteService
	logger      *zap.Logger
}

// NewAddNoteHandler creates a new add note handler
func NewAddNoteHandler(noteService *services.NoteService, logger *zap.Logger) *AddNoteHandler {
	return &AddNoteHandler{noteService: noteService, logger: logger}
}

// Handle executes the add note command
func (h *AddNoteHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.AddNoteCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(c.DocumentID)
	if err != nil {
		return nil, err
	}

	note, err := h.noteService.AddNote(ctx, c.UserID, documentID, c.Content)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Note added",
		zap.String("userID", c.UserID),
		zap.String("documentID", c.DocumentID),
		zap.String("noteID", note.ID().String()),
	)
	return note, nil
}

// EditNoteHandler handles note edit commands
type EditNoteHandler struct {
	noteService *services.NoteService
	logger      *zap.Logger
}

// NewEditNoteHandler creates a new edit note handler
func NewEditNoteHandler(noteService *services.NoteService, logger *zap.Logger) *EditNoteHandler {
	return &EditNoteHandler{noteService: noteService, logger: logger}
}

// Handle executes the edit note command
func (h *EditNoteHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.EditNoteCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	noteID, err := valueobjects.NewNoteIDFromString(c.NoteID)
	if err != nil {
		return nil, err
	}

	note, err := h.noteService.EditNote(ctx, c.UserID, noteID, c.Content)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Note edited",
		zap.String("userID", c.UserID),
		zap.String("noteID", c.NoteID),
	)
	return note, nil
}

// CastVoteHandler handles vote commands
type CastVoteHandler struct {
	noteService *services.NoteService
	logger      *zap.Logger
}

// NewCastVoteHandler creates a new cast vote handler
func NewCastVoteHandler(noteService *services.NoteService, logger *zap.Logger) *CastVoteHandler {
	return &CastVoteHandler{noteService: noteService, logger: logger}
}

// VoteResult carries the vote state and counters after a vote request
type VoteResult struct {
	NoteID    string `json:"noteId"`
	Vote      string `json:"vote"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

// Handle executes the cast vote command
func (h *CastVoteHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.CastVoteCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	noteID, err := valueobjects.NewNoteIDFromString(c.NoteID)
	if err != nil {
		return nil, err
	}

	requested, err := valueobjects.ParseVote(c.Vote)
	if err != nil {
		return nil, err
	}

	resulting, note, err := h.noteService.CastVote(ctx, c.UserID, noteID, requested)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Vote cast",
		zap.String("userID", c.UserID),
		zap.String("noteID", c.NoteID),
		zap.String("requested", string(requested)),
		zap.String("resulting", string(resulting)),
	)
	return VoteResult{
		NoteID:    c.NoteID,
		Vote:      string(resulting),
		Upvotes:   note.Upvotes(),
		Downvotes: note.Downvotes(),
	}, nil
}
