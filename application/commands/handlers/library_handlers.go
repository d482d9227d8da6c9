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

// InitializeLibraryHandler handles library initialization commands
type InitializeLibraryHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewInitializeLibraryHandler creates a new initialize library handler
func NewInitializeLibraryHandler(libraryService *services.LibraryService, logger *zap.Logger) *InitializeLibraryHandler {
	return &InitializeLibraryHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the initialize library command
func (h *InitializeLibraryHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.InitializeLibraryCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	library, err := h.libraryService.EnsureInitialized(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Library initialized",
		zap.String("userID", c.UserID),
		zap.Int("documents", len(library.Entries())),
	)
	return library, nil
}

// ToggleReadHandler handles read flag toggle commands
type ToggleReadHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewToggleReadHandler creates a new toggle read handler
func NewToggleReadHandler(libraryService *services.LibraryService, logger *zap.Logger) *ToggleReadHandler {
	return &ToggleReadHandler{libraryService: libraryService, logger: logger}
}

// ToggleResult carries the flag state after a toggle
type ToggleResult struct {
	DocumentID string `json:"documentId"`
	Value      bool   `json:"value"`
}

// Handle executes the toggle read command
func (h *ToggleReadHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.ToggleReadCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(c.DocumentID)
	if err != nil {
		return nil, err
	}

	isRead, err := h.libraryService.ToggleRead(ctx, c.UserID, documentID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Read flag toggled",
		zap.String("userID", c.UserID),
		zap.String("documentID", c.DocumentID),
		zap.Bool("isRead", isRead),
	)
	return ToggleResult{DocumentID: c.DocumentID, Value: isRead}, nil
}

// ToggleBookmarkHandler handles bookmark toggle commands
type ToggleBookmarkHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewToggleBookmarkHandler creates a new toggle bookmark handler
func NewToggleBookmarkHandler(libraryService *services.LibraryService, logger *zap.Logger) *ToggleBookmarkHandler {
	return &ToggleBookmarkHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the toggle bookmark command
func (h *ToggleBookmarkHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.ToggleBookmarkCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(c.DocumentID)
	if err != nil {
		return nil, err
	}

	isBookmarked, err := h.libraryService.ToggleBookmark(ctx, c.UserID, documentID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("Bookmark toggled",
		zap.String("userID", c.UserID),
		zap.String("documentID", c.DocumentID),
		zap.Bool("isBookmarked", isBookmarked),
	)
	return ToggleResult{DocumentID: c.DocumentID, Value: isBookmarked}, nil
}

// SaveDraftHandler handles personal draft save commands
type SaveDraftHandler struct {
	libraryService *services.LibraryService
	logger         *zap.Logger
}

// NewSaveDraftHandler creates a new save draft handler
func NewSaveDraftHandler(libraryService *services.LibraryService, logger *zap.Logger) *SaveDraftHandler {
	return &SaveDraftHandler{libraryService: libraryService, logger: logger}
}

// Handle executes the save draft command
func (h *SaveDraftHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(commands.SaveDraftCommand)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected command type", nil)
	}

	documentID, err := valueobjects.NewDocumentIDFromString(c.DocumentID)
	if err != nil {
		return nil, err
	}

	if err := h.libraryService.SaveDraft(ctx, c.UserID, documentID, c.Content); err != nil {
		return nil, err
	}

	h.logger.Debug("Draft saved",
		zap.String("userID", c.UserID),
		zap.String("documentID", c.DocumentID),
	)
	return nil, nil
}
