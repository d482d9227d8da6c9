package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paperdesk-backend/application/commands"
	"paperdesk-backend/application/commands/bus"
	"paperdesk-backend/application/queries"
	querybus "paperdesk-backend/application/queries/bus"
	"paperdesk-backend/pkg/auth"
	"paperdesk-backend/pkg/common"
	pkgerrors "paperdesk-backend/pkg/errors"
	"paperdesk-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// LibraryHandler handles library overlay HTTP requests
type LibraryHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *LibraryHandler {
	return &LibraryHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// Initialize handles POST /library/initialize
func (h *LibraryHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	cmd := commands.InitializeLibraryCommand{UserID: user.UserID}
	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, r, "Failed to initialize library", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Library initialized",
	})
}

// List handles GET /library
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	query := queries.ListLibraryQuery{
		UserID: user.UserID,
		Filter: r.URL.Query().Get("filter"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.respondCommandError(w, r, "Failed to list library", err)
		return
	}

	items, ok := result.([]queries.DocumentResult)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected result type")
		return
	}

	pagination := common.ParsePagination(r)
	start, end := pagination.Slice(len(items))
	common.RespondWithMeta(w, http.StatusOK, items[start:end], &common.MetaInfo{
		Pagination: pagination.PageInfo(len(items)),
	})
}

// GetDocument handles GET /library/documents/{documentID}
func (h *LibraryHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetDocumentQuery{
		UserID:     user.UserID,
		DocumentID: documentID,
	})
	if err != nil {
		h.respondCommandError(w, r, "Failed to get document", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ToggleRead handles POST /library/documents/{documentID}/read
func (h *LibraryHandler) ToggleRead(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.ToggleReadCommand{
		UserID:     user.UserID,
		DocumentID: documentID,
	})
	if err != nil {
		h.respondCommandError(w, r, "Failed to toggle read flag", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ToggleBookmark handles POST /library/documents/{documentID}/bookmark
func (h *LibraryHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.ToggleBookmarkCommand{
		UserID:     user.UserID,
		DocumentID: documentID,
	})
	if err != nil {
		h.respondCommandError(w, r, "Failed to toggle bookmark", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// SearchByConcept handles GET /library/search?concept=
func (h *LibraryHandler) SearchByConcept(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	concept := r.URL.Query().Get("concept")
	if concept == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "concept query parameter is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.SearchByConceptQuery{
		UserID:  user.UserID,
		Concept: concept,
	})
	if err != nil {
		h.respondCommandError(w, r, "Failed to search by concept", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// SaveDraftRequest is the request body for saving a personal draft
type SaveDraftRequest struct {
	Content string `json:"content" validate:"max=5000"`
}

// SaveDraft handles PUT /library/documents/{documentID}/draft
func (h *LibraryHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req SaveDraftRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	_, err = h.commandBus.Send(r.Context(), commands.SaveDraftCommand{
		UserID:     user.UserID,
		DocumentID: documentID,
		Content:    req.Content,
	})
	if err != nil {
		h.respondCommandError(w, r, "Failed to save draft", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"documentId": documentID,
		"message":    "Draft saved",
	})
}

// GetDraft handles GET /library/documents/{documentID}/draft
func (h *LibraryHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetDraftQuery{
		UserID:     user.UserID,
		DocumentID: documentID,
	})
	if err != nil {
		h.respondCommandError(w, r, "Failed to get draft", err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Helper methods

func (h *LibraryHandler) documentIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	documentID := chi.URLParam(r, "documentID")
	if documentID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Document ID is required")
		return "", false
	}
	if _, err := uuid.Parse(documentID); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid document ID format")
		return "", false
	}
	return documentID, true
}

func (h *LibraryHandler) respondCommandError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	common.RespondError(w, pkgerrors.HTTPStatusFor(err), pkgerrors.CodeFor(err), err.Error())
}
