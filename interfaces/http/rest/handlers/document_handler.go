package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"paperdesk-backend/application/queries"
	querybus "paperdesk-backend/application/queries/bus"
	"paperdesk-backend/pkg/auth"
	"paperdesk-backend/pkg/common"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// DocumentHandler handles catalog search and recommendation HTTP requests
type DocumentHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// Search handles GET /documents?query=&author=&year=&category=
func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	params := r.URL.Query()
	year, _ := strconv.Atoi(params.Get("year"))
	limit, _ := strconv.Atoi(params.Get("limit"))
	offset, _ := strconv.Atoi(params.Get("offset"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	query := queries.SearchCatalogQuery{
		UserID:   user.UserID,
		Query:    params.Get("query"),
		Author:   params.Get("author"),
		Year:     year,
		Category: params.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search catalog", zap.Error(err))
		common.RespondError(w, pkgerrors.HTTPStatusFor(err), pkgerrors.CodeFor(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Recommendations handles GET /documents/{documentID}/recommendations?k=
func (h *DocumentHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	if documentID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Document ID is required")
		return
	}
	if _, err := uuid.Parse(documentID); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid document ID format")
		return
	}

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	if k < 0 {
		k = 0
	}

	result, err := h.queryBus.Ask(r.Context(), queries.RecommendQuery{
		UserID:     user.UserID,
		DocumentID: documentID,
		Limit:      k,
	})
	if err != nil {
		h.logger.Error("Failed to compute recommendations",
			zap.String("documentID", documentID),
			zap.Error(err),
		)
		common.RespondError(w, pkgerrors.HTTPStatusFor(err), pkgerrors.CodeFor(err), err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
