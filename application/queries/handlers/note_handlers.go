package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paperdesk-backend/application/queries"
	"paperdesk-backend/application/queries/bus"
	"paperdesk-backend/application/services"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

func toNoteResult(note *entities.Note) queries.NoteResult {
	return queries.NoteResult{
		ID:         note.ID().String(),
		DocumentID: note.DocumentID().String(),
		AuthorID:   note.AuthorID(),
		Content:    note.Content().Text(),
		Upvotes:    note.Upvotes(),
		Downvotes:  note.Downvotes(),
		CreatedAt:  note.CreatedAt().Format(time.RFC3339),
	}
}

// DocumentNotesHandler handles per-document note view queries
type DocumentNotesHandler struct {
	noteService *services.NoteService
	logger      *zap.Logger
}

// NewDocumentNotesHandler creates a new document notes handler
func NewDocumentNotesHandler(noteService *services.NoteService, logger *zap.Logger) *DocumentNotesHandler {
	return &DocumentNotesHandler{noteService: noteService, logger: logger}
}

// Handle executes the document notes query
func (h *DocumentNotesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.DocumentNotesQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(q.DocumentID)
	if err != nil {
		return nil, err
	}

	own, err := h.noteService.OwnNote(ctx, documentID, q.UserID)
	if err != nil {
		return nil, err
	}

	top, err := h.noteService.TopNotes(ctx, documentID, q.UserID, q.Limit)
	if err != nil {
		return nil, err
	}

	result := queries.DocumentNotesResult{
		TopNotes: make([]queries.NoteResult, 0, len(top)),
	}
	if own != nil {
		ownResult := toNoteResult(own)
		result.OwnNote = &ownResult
	}
	for _, note := range top {
		result.TopNotes = append(result.TopNotes, toNoteResult(note))
	}

	return result, nil
}

// GetVoteHandler handles vote state queries
type GetVoteHandler struct {
	noteService *services.NoteService
	logger      *zap.Logger
}

// NewGetVoteHandler creates a new vote state handler
func NewGetVoteHandler(noteService *services.NoteService, logger *zap.Logger) *GetVoteHandler {
	return &GetVoteHandler{noteService: noteService, logger: logger}
}

// Handle executes the vote state query
func (h *GetVoteHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetVoteQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	noteID, err := valueobjects.NewNoteIDFromString(q.NoteID)
	if err != nil {
		return nil, err
	}

	vote, err := h.noteService.GetVote(ctx, q.UserID, noteID)
	if err != nil {
		return nil, err
	}

	return queries.VoteStateResult{NoteID: q.NoteID, Vote: string(vote)}, nil
}

// GetDraftHandler handles personal draft queries
type GetDraftHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewGetDraftHandler creates a new draft handler
func NewGetDraftHandler(libraryService *services.LibraryService, logger *zap.Logger) *GetDraftHandler {
	return &GetDraftHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the draft query
func (h *GetDraftHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetDraftQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(q.DocumentID)
	if err != nil {
		return nil, err
	}

	content, err := h.libraryService.GetDraft(ctx, q.UserID, documentID)
	if err != nil {
		return nil, err
	}

	return queries.DraftResult{DocumentID: q.DocumentID, Content: content}, nil
}
