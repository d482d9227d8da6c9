package config

// DomainConfig holds configurable business rules and constraints
type DomainConfig struct {
	// Note constraints
	MaxNoteLength int
	MinNoteLength int

	// Document constraints
	MaxTitleLength       int
	MaxAbstractLength    int
	MaxConceptsPerDoc    int
	MaxRelatedDocIDs     int

	// Recommendation limits
	DefaultRecommendations int
	MaxRecommendations     int

	// Note query limits
	DefaultTopNotes int
	MaxTopNotes     int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNoteLength:     5000,
		MinNoteLength:     1,
		MaxTitleLength:    300,
		MaxAbstractLength: 10000,
		MaxConceptsPerDoc: 50,
		MaxRelatedDocIDs:  50,

		DefaultRecommendations: 5,
		MaxRecommendations:     50,

		DefaultTopNotes: 3,
		MaxTopNotes:     20,
	}
}
