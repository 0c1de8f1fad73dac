package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// RecordID identifies a stored Point, Connection, Note or Tag.
// Identity is assigned once at creation and never changes afterwards.
type RecordID struct {
	value string
}

// NewRecordID creates a new random RecordID
func NewRecordID() RecordID {
	return RecordID{value: uuid.New().String()}
}

// ParseRecordID creates a RecordID from an existing string
func ParseRecordID(id string) (RecordID, error) {
	if id == "" {
		return RecordID{}, errors.New("record ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return RecordID{}, errors.New("record ID must be a valid UUID")
	}
	return RecordID{value: id}, nil
}

// String returns the string representation of the RecordID
func (id RecordID) String() string {
	return id.value
}

// Equals checks if two RecordIDs are equal
func (id RecordID) Equals(other RecordID) bool {
	return id.value == other.value
}

// IsZero checks if the RecordID is the zero value
func (id RecordID) IsZero() bool {
	return id.value == ""
}
