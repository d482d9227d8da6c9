package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paperdesk-backend/application/commands"
	"paperdesk-backend/application/commands/bus"
	"paperdesk-backend/application/queries"
	querybus "paperdesk-backend/application/queries/bus"
	"paperdesk-backend/domain/core/entities"
	"paperdesk-backend/pkg/auth"
	"paperdesk-backend/pkg/common"
	pkgerrors "paperdesk-backend/pkg/errors"
	"paperdesk-backend/pkg/utils"
)

// NoteHandler handles note and vote HTTP requests
type NoteHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *NoteHandler {
	return &NoteHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// AddNoteRequest is the request body for creating a note
type AddNoteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// EditNoteRequest is the request body for editing a note
type EditNoteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// CastVoteRequest is the request body for voting on a note
type CastVoteRequest struct {
	Vote string `json:"vote" validate:"required,oneof=upvote downvote"`
}

// AddNote handles POST /documents/{documentID}/notes
func (h *NoteHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	documentID, ok := uuidParam(w, r, "documentID")
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req AddNoteRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.AddNoteCommand{
		UserID:     user.UserID,
		DocumentID: documentID,
		Content:    req.Content,
	})
	if err != nil {
		h.respondError(w, "Failed to add note", err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, toNoteResponse(result))
}

// EditNote handles PUT /documents/{documentID}/notes/{noteID}
func (h *NoteHandler) EditNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := uuidParam(w, r, "noteID")
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req EditNoteRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.EditNoteCommand{
		UserID:  user.UserID,
		NoteID:  noteID,
		Content: req.Content,
	})
	if err != nil {
		h.respondError(w, "Failed to edit note", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toNoteResponse(result))
}

// ListNotes handles GET /documents/{documentID}/notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	documentID, ok := uuidParam(w, r, "documentID")
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 0 {
		limit = 0
	}

	result, err := h.queryBus.Ask(r.Context(), queries.DocumentNotesQuery{
		UserID:     user.UserID,
		DocumentID: documentID,
		Limit:      limit,
	})
	if err != nil {
		h.respondError(w, "Failed to list notes", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// CastVote handles POST /notes/{noteID}/vote
func (h *NoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := uuidParam(w, r, "noteID")
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req CastVoteRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.CastVoteCommand{
		UserID: user.UserID,
		NoteID: noteID,
		Vote:   req.Vote,
	})
	if err != nil {
		h.respondError(w, "Failed to cast vote", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetVote handles GET /notes/{noteID}/vote
func (h *NoteHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := uuidParam(w, r, "noteID")
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetVoteQuery{
		UserID: user.UserID,
		NoteID: noteID,
	})
	if err != nil {
		h.respondError(w, "Failed to get vote", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// NoteResponse is the HTTP representation of a note
type NoteResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	AuthorID   string `json:"authorId"`
	Content    string `json:"content"`
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	CreatedAt  string `json:"createdAt"`
}

// toNoteResponse converts a command result to the HTTP representation.
// Unexpected types pass through unchanged so the client still gets data.
func toNoteResponse(result interface{}) interface{} {
	note, ok := result.(*entities.Note)
	if !ok {
		return result
	}
	return NoteResponse{
		ID:         note.ID().String(),
		DocumentID: note.DocumentID().String(),
		AuthorID:   note.AuthorID(),
		Content:    note.Content().Text(),
		Upvotes:    note.Upvotes(),
		Downvotes:  note.Downvotes(),
		CreatedAt:  note.CreatedAt().Format(time.RFC3339),
	}
}

// Helper methods

func (h *NoteHandler) respondError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	common.RespondError(w, pkgerrors.HTTPStatusFor(err), pkgerrors.CodeFor(err), err.Error())
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if value == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", name+" is required")
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name+" format")
		return "", false
	}
	return value, true
}
