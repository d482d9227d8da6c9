package queries

import "errors"

// GetDocumentQuery fetches a single document with the caller's overlay flags
type GetDocumentQuery struct {
	UserID     string
	DocumentID string
}

// Validate validates the GetDocumentQuery
func (q GetDocumentQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	return nil
}

// ListLibraryQuery lists the caller's library, optionally filtered by flag
type ListLibraryQuery struct {
	UserID string
	Filter string // "", "read", "unread" or "bookmarked"
}

// Validate validates the ListLibraryQuery
func (q ListLibraryQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	switch q.Filter {
	case "", "read", "unread", "bookmarked":
		return nil
	}
	return errors.New("filter must be read, unread or bookmarked")
}

// SearchByConceptQuery finds library documents tagged with a concept
type SearchByConceptQuery struct {
	UserID  string
	Concept string
}

// Validate validates the SearchByConceptQuery
func (q SearchByConceptQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Concept == "" {
		return errors.New("concept is required")
	}
	return nil
}

// SearchCatalogQuery searches the shared catalog by text and metadata
type SearchCatalogQuery struct {
	UserID   string
	Query    string
	Author   string
	Year     int
	Category string
	Limit    int
	Offset   int
}

// Validate validates the SearchCatalogQuery
func (q SearchCatalogQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return errors.New("limit and offset must not be negative")
	}
	return nil
}

// DocumentNotesQuery fetches the caller's own note plus the top community
// notes for a document
type DocumentNotesQuery struct {
	UserID     string
	DocumentID string
	Limit      int
}

// Validate validates the DocumentNotesQuery
func (q DocumentNotesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	if q.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

// GetVoteQuery fetches the caller's current vote on a note
type GetVoteQuery struct {
	UserID string
	NoteID string
}

// Validate validates the GetVoteQuery
func (q GetVoteQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.NoteID == "" {
		return errors.New("note ID is required")
	}
	return nil
}

// RecommendQuery ranks the caller's other documents by similarity to a
// focal document
type RecommendQuery struct {
	UserID     string
	DocumentID string
	Limit      int
}

// Validate validates the RecommendQuery
func (q RecommendQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	if q.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

// GetDraftQuery fetches the caller's personal draft for a document
type GetDraftQuery struct {
	UserID     string
	DocumentID string
}

// Validate validates the GetDraftQuery
func (q GetDraftQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.DocumentID == "" {
		return errors.New("document ID is required")
	}
	return nil
}

// ConceptRefResult is a related-concept entry in a document result
type ConceptRefResult struct {
	Name           string `json:"name"`
	IsPrerequisite bool   `json:"isPrerequisite"`
}

// DocumentResult represents a catalog document with the caller's flags
type DocumentResult struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Authors           string             `json:"authors"`
	Abstract          string             `json:"abstract"`
	Summary           string             `json:"summary,omitempty"`
	TranslatedSummary string             `json:"translatedSummary,omitempty"`
	PublishedDate     string             `json:"publishedDate,omitempty"`
	Category          string             `json:"category,omitempty"`
	Year              int                `json:"year,omitempty"`
	Keywords          []string           `json:"keywords,omitempty"`
	RelatedConcepts   []ConceptRefResult `json:"relatedConcepts,omitempty"`
	RelatedDocuments  []string           `json:"relatedDocuments,omitempty"`
	IsRead            bool               `json:"isRead"`
	IsBookmarked      bool               `json:"isBookmarked"`
	NoteCount         int                `json:"noteCount"`
}

// NoteResult represents a note with its vote counters
type NoteResult struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	AuthorID   string `json:"authorId"`
	Content    string `json:"content"`
	Upvotes    int    `json:"upvotes"`
	Downvotes  int    `json:"downvotes"`
	CreatedAt  string `json:"createdAt"`
}

// DocumentNotesResult splits notes into the caller's own and the community's
type DocumentNotesResult struct {
	OwnNote  *NoteResult  `json:"ownNote"`
	TopNotes []NoteResult `json:"topNotes"`
}

// RecommendationResult pairs a document with its similarity score
type RecommendationResult struct {
	Document DocumentResult `json:"document"`
	Score    float64        `json:"score"`
}

// DraftResult represents a user's personal draft for a document
type DraftResult struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
}

// VoteStateResult represents the caller's vote on a note
type VoteStateResult struct {
	NoteID string `json:"noteId"`
	Vote   string `json:"vote"`
}
