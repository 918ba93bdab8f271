package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// analysisNamespace scopes name-based analysis IDs.
var analysisNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hypotest/analysis"))

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// NewAnalysisID derives a UUID v5 from an input fingerprint. Identical inputs
// always map to the same ID.
func NewAnalysisID(fingerprint Hash) AnalysisID {
	return AnalysisID(uuid.NewSHA1(analysisNamespace, []byte(fingerprint)).String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	AnalysisID ID
	BatchID    ID
)

func (id AnalysisID) String() string { return ID(id).String() }
func (id BatchID) String() string    { return ID(id).String() }
