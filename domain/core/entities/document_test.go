package entities

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperdesk-backend/domain/config"
	"paperdesk-backend/domain/core/valueobjects"
)

func makeDocument(t *testing.T, title string) *Document {
	t.Helper()
	doc, err := NewDocument(title, "Jane Smith", "An abstract.",
		valueobjects.NewFeatureVector([]float64{0.1, 0.2, 0.3}))
	require.NoError(t, err)
	return doc
}

func TestNewDocument_Validation(t *testing.T) {
	vec := valueobjects.NewFeatureVector([]float64{1})

	_, err := NewDocument("", "Jane Smith", "abs", vec)
	assert.Error(t, err)

	_, err = NewDocument("  ", "Jane Smith", "abs", vec)
	assert.Error(t, err)

	_, err = NewDocument("Title", "", "abs", vec)
	assert.Error(t, err)
}

func TestDocument_AttachNoteIdempotent(t *testing.T) {
	doc := makeDocument(t, "Attention Is All You Need")
	noteID := valueobjects.NewNoteID()

	doc.AttachNote(noteID)
	doc.AttachNote(noteID)

	assert.Len(t, doc.NoteIDs(), 1)
	assert.True(t, doc.NoteIDs()[0].Equals(noteID))
}

func TestDocument_HasConcept(t *testing.T) {
	doc := makeDocument(t, "Neural Networks in Practice")
	require.NoError(t, doc.SetRelatedConcepts([]ConceptRef{
		{Name: "Backpropagation", IsPrerequisite: true},
		{Name: "Linear Algebra", IsPrerequisite: true},
	}))

	assert.True(t, doc.HasConcept("backpropagation"))
	assert.True(t, doc.HasConcept("LINEAR ALGEBRA"))
	assert.False(t, doc.HasConcept("quantum computing"))
}

func TestDocument_MatchesQuery(t *testing.T) {
	doc := makeDocument(t, "Climate Change Effects")
	doc.SetKeywords([]string{"environment", "warming"})

	assert.True(t, doc.MatchesQuery(""))
	assert.True(t, doc.MatchesQuery("climate"))
	assert.True(t, doc.MatchesQuery("jane"))
	assert.True(t, doc.MatchesQuery("WARMING"))
	assert.False(t, doc.MatchesQuery("quantum"))
}

func TestNewDocument_LengthLimits(t *testing.T) {
	vec := valueobjects.NewFeatureVector([]float64{1})
	cfg := config.DefaultDomainConfig()

	_, err := NewDocument(strings.Repeat("a", cfg.MaxTitleLength+1), "Jane Smith", "abs", vec)
	assert.Error(t, err)

	_, err = NewDocument("Title", "Jane Smith", strings.Repeat("b", cfg.MaxAbstractLength+1), vec)
	assert.Error(t, err)

	_, err = NewDocument(strings.Repeat("a", cfg.MaxTitleLength), "Jane Smith", "abs", vec)
	assert.NoError(t, err)
}

func TestDocument_RelatedListLimits(t *testing.T) {
	doc := makeDocument(t, "Bounded Lists")
	cfg := config.DefaultDomainConfig()

	concepts := make([]ConceptRef, cfg.MaxConceptsPerDoc+1)
	for i := range concepts {
		concepts[i] = ConceptRef{Name: fmt.Sprintf("concept-%d", i)}
	}
	assert.Error(t, doc.SetRelatedConcepts(concepts))
	assert.Empty(t, doc.RelatedConcepts())

	ids := make([]valueobjects.DocumentID, cfg.MaxRelatedDocIDs+1)
	for i := range ids {
		ids[i] = valueobjects.NewDocumentID()
	}
	assert.Error(t, doc.SetRelatedDocumentIDs(ids))
	assert.Empty(t, doc.RelatedDocumentIDs())

	assert.NoError(t, doc.SetRelatedConcepts(concepts[:cfg.MaxConceptsPerDoc]))
	assert.Len(t, doc.RelatedConcepts(), cfg.MaxConceptsPerDoc)
}

func TestDocument_CloneIsolation(t *testing.T) {
	doc := makeDocument(t, "Clone Source")
	require.NoError(t, doc.SetRelatedConcepts([]ConceptRef{{Name: "Attention"}}))

	clone := doc.Clone()
	clone.AttachNote(valueobjects.NewNoteID())
	clone.SetKeywords([]string{"changed"})

	assert.Empty(t, doc.NoteIDs())
	assert.Empty(t, doc.Keywords())
	assert.True(t, clone.ID().Equals(doc.ID()))
	assert.Equal(t, doc.Title(), clone.Title())
	assert.Len(t, clone.RelatedConcepts(), 1)
}

func TestDocument_AccessorsReturnCopies(t *testing.T) {
	doc := makeDocument(t, "Copy Semantics")
	doc.SetKeywords([]string{"a", "b"})

	kws := doc.Keywords()
	kws[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, doc.Keywords())
}
