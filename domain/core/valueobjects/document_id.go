package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// DocumentID is a value object representing a unique document identifier
// Value objects are immutable and have no identity beyond their value
type DocumentID struct {
	value string
}

// NewDocumentID creates a new random DocumentID
func NewDocumentID() DocumentID {
	return DocumentID{value: uuid.New().String()}
}

// NewDocumentIDFromString creates a DocumentID from an existing string
func NewDocumentIDFromString(id string) (DocumentID, error) {
	if id == "" {
		return DocumentID{}, errors.New("document ID cannot be empty")
	}
	if !isValidUUID(id) {
		return DocumentID{}, errors.New("document ID must be a valid UUID")
	}
	return DocumentID{value: id}, nil
}

// String returns the string representation of the DocumentID
func (id DocumentID) String() string {
	return id.value
}

// Equals checks if two DocumentIDs are equal
func (id DocumentID) Equals(other DocumentID) bool {
	return id.value == other.value
}

// Less provides a deterministic ordering between DocumentIDs, used for
// stable tie-breaks in ranked results
func (id DocumentID) Less(other DocumentID) bool {
	return id.value < other.value
}

// IsZero checks if the DocumentID is the zero value
func (id DocumentID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("DocumentID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
