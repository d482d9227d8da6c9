package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"paperdesk-backend/domain/config"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// NoteContent is a value object for note text
type NoteContent struct {
	text string
}

// NewNoteContent creates content with validation using default configuration
func NewNoteContent(text string) (NoteContent, error) {
	return NewNoteContentWithConfig(text, config.DefaultDomainConfig())
}

// NewNoteContentWithConfig creates content with validation and configuration
func NewNoteContentWithConfig(text string, cfg *config.DomainConfig) (NoteContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)

	length := utf8.RuneCountInString(text)
	if length < cfg.MinNoteLength {
		return NoteContent{}, pkgerrors.NewValidationError("note content cannot be empty")
	}
	if length > cfg.MaxNoteLength {
		return NoteContent{}, pkgerrors.NewValidationError(
			fmt.Sprintf("note content exceeds maximum length of %d characters", cfg.MaxNoteLength))
	}

	return NoteContent{text: text}, nil
}

// Text returns the note text
func (c NoteContent) Text() string {
	return c.text
}

// IsEmpty checks if content is empty
func (c NoteContent) IsEmpty() bool {
	return c.text == ""
}

// Equals checks if two contents are equal
func (c NoteContent) Equals(other NoteContent) bool {
	return c.text == other.text
}
