package entities

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"paperdesk-backend/domain/config"
	"paperdesk-backend/domain/core/valueobjects"
	pkgerrors "paperdesk-backend/pkg/errors"
)

// ConceptRef links a document to a named concept, marking whether the
// concept is a prerequisite for understanding the document
type ConceptRef struct {
	Name           string `json:"name"`
	IsPrerequisite bool   `json:"is_prerequisite"`
}

// Document is the main catalog entity representing one paper.
// Catalog metadata is immutable after seeding; only the canonical note
// list grows over time. Per-user state (read/bookmark flags) lives on the
// Library aggregate, never here.
type Document struct {
	id                valueobjects.DocumentID
	title             string
	authors           string
	abstract          string
	summary           string
	translatedSummary string
	publishedDate     time.Time
	category          string
	year              int
	keywords          []string
	featureVector     valueobjects.FeatureVector
	relatedConcepts   []ConceptRef
	relatedDocIDs     []valueobjects.DocumentID
	noteIDs           []valueobjects.NoteID
	createdAt         time.Time
	version           int
}

// NewDocument creates a new document with business rule validation using
// the default configuration
func NewDocument(
	title string,
	authors string,
	abstract string,
	featureVector valueobjects.FeatureVector,
) (*Document, error) {
	return NewDocumentWithConfig(title, authors, abstract, featureVector, config.DefaultDomainConfig())
}

// NewDocumentWithConfig creates a new document validated against the given
// domain configuration
func NewDocumentWithConfig(
	title string,
	authors string,
	abstract string,
	featureVector valueobjects.FeatureVector,
	cfg *config.DomainConfig,
) (*Document, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("document title cannot be empty")
	}
	if utf8.RuneCountInString(title) > cfg.MaxTitleLength {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("document title exceeds maximum length of %d characters", cfg.MaxTitleLength))
	}
	if strings.TrimSpace(authors) == "" {
		return nil, pkgerrors.NewValidationError("document authors cannot be empty")
	}
	abstract = strings.TrimSpace(abstract)
	if utf8.RuneCountInString(abstract) > cfg.MaxAbstractLength {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("document abstract exceeds maximum length of %d characters", cfg.MaxAbstractLength))
	}

	return &Document{
		id:            valueobjects.NewDocumentID(),
		title:         title,
		authors:       strings.TrimSpace(authors),
		abstract:      abstract,
		featureVector: featureVector,
		noteIDs:       []valueobjects.NoteID{},
		createdAt:     time.Now(),
		version:       1,
	}, nil
}

// ReconstructDocument rebuilds a document from repository data with
// preserved identity and timestamps
func ReconstructDocument(
	id valueobjects.DocumentID,
	title string,
	authors string,
	abstract string,
	summary string,
	translatedSummary string,
	publishedDate time.Time,
	category string,
	year int,
	keywords []string,
	featureVector valueobjects.FeatureVector,
	relatedConcepts []ConceptRef,
	relatedDocIDs []valueobjects.DocumentID,
	noteIDs []valueobjects.NoteID,
	createdAt time.Time,
	version int,
) *Document {
	return &Document{
		id:                id,
		title:             title,
		authors:           authors,
		abstract:          abstract,
		summary:           summary,
		translatedSummary: translatedSummary,
		publishedDate:     publishedDate,
		category:          category,
		year:              year,
		keywords:          append([]string{}, keywords...),
		featureVector:     featureVector,
		relatedConcepts:   append([]ConceptRef{}, relatedConcepts...),
		relatedDocIDs:     append([]valueobjects.DocumentID{}, relatedDocIDs...),
		noteIDs:           append([]valueobjects.NoteID{}, noteIDs...),
		createdAt:         createdAt,
		version:           version,
	}
}

// Accessors

func (d *Document) ID() valueobjects.DocumentID              { return d.id }
func (d *Document) Title() string                            { return d.title }
func (d *Document) Authors() string                          { return d.authors }
func (d *Document) Abstract() string                         { return d.abstract }
func (d *Document) Summary() string                          { return d.summary }
func (d *Document) TranslatedSummary() string                { return d.translatedSummary }
func (d *Document) PublishedDate() time.Time                 { return d.publishedDate }
func (d *Document) Category() string                         { return d.category }
func (d *Document) Year() int                                { return d.year }
func (d *Document) CreatedAt() time.Time                     { return d.createdAt }
func (d *Document) Version() int                             { return d.version }
func (d *Document) FeatureVector() valueobjects.FeatureVector { return d.featureVector }

// Keywords returns a copy of the document's keywords
func (d *Document) Keywords() []string {
	return append([]string{}, d.keywords...)
}

// RelatedConcepts returns a copy of the concept references
func (d *Document) RelatedConcepts() []ConceptRef {
	return append([]ConceptRef{}, d.relatedConcepts...)
}

// RelatedDocumentIDs returns a copy of the related document ids
func (d *Document) RelatedDocumentIDs() []valueobjects.DocumentID {
	return append([]valueobjects.DocumentID{}, d.relatedDocIDs...)
}

// NoteIDs returns a copy of the canonical note id list, in attachment order
func (d *Document) NoteIDs() []valueobjects.NoteID {
	return append([]valueobjects.NoteID{}, d.noteIDs...)
}

// Mutators used at seed time

// SetSummaries sets the summary fields
func (d *Document) SetSummaries(summary, translatedSummary string) {
	d.summary = summary
	d.translatedSummary = translatedSummary
}

// SetPublication sets publication metadata
func (d *Document) SetPublication(publishedDate time.Time, category string, year int) {
	d.publishedDate = publishedDate
	d.category = category
	d.year = year
}

// SetKeywords replaces the keyword list
func (d *Document) SetKeywords(keywords []string) {
	d.keywords = append([]string{}, keywords...)
}

// SetRelatedConcepts replaces the concept references. The list is bounded
// by the default domain configuration.
func (d *Document) SetRelatedConcepts(concepts []ConceptRef) error {
	if max := config.DefaultDomainConfig().MaxConceptsPerDoc; len(concepts) > max {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("document cannot reference more than %d concepts", max))
	}
	d.relatedConcepts = append([]ConceptRef{}, concepts...)
	return nil
}

// SetRelatedDocumentIDs replaces the related document id list. The list is
// bounded by the default domain configuration.
func (d *Document) SetRelatedDocumentIDs(ids []valueobjects.DocumentID) error {
	if max := config.DefaultDomainConfig().MaxRelatedDocIDs; len(ids) > max {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("document cannot reference more than %d related documents", max))
	}
	d.relatedDocIDs = append([]valueobjects.DocumentID{}, ids...)
	return nil
}

// AttachNote appends a note id to the canonical note list. Attaching the
// same note twice is a no-op.
func (d *Document) AttachNote(noteID valueobjects.NoteID) {
	for _, existing := range d.noteIDs {
		if existing.Equals(noteID) {
			return
		}
	}
	d.noteIDs = append(d.noteIDs, noteID)
	d.version++
}

// Clone returns a deep copy, used to hand out snapshots without exposing
// internal state to concurrent mutation
func (d *Document) Clone() *Document {
	return &Document{
		id:                d.id,
		title:             d.title,
		authors:           d.authors,
		abstract:          d.abstract,
		summary:           d.summary,
		translatedSummary: d.translatedSummary,
		publishedDate:     d.publishedDate,
		category:          d.category,
		year:              d.year,
		keywords:          append([]string{}, d.keywords...),
		featureVector:     d.featureVector,
		relatedConcepts:   append([]ConceptRef{}, d.relatedConcepts...),
		relatedDocIDs:     append([]valueobjects.DocumentID{}, d.relatedDocIDs...),
		noteIDs:           append([]valueobjects.NoteID{}, d.noteIDs...),
		createdAt:         d.createdAt,
		version:           d.version,
	}
}

// HasConcept reports whether the document references the named concept,
// case-insensitively
func (d *Document) HasConcept(name string) bool {
	for _, concept := range d.relatedConcepts {
		if strings.EqualFold(concept.Name, name) {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether the document matches a free-text query
// against title, authors, or keywords (case-insensitive substring)
func (d *Document) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(d.title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(d.authors), q) {
		return true
	}
	for _, kw := range d.keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}
