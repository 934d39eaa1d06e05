package utils

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewTransactionID returns a sortable, collision-resistant transaction id.
// Format: TX + 26-char ULID
// Example: TX01J9Z3K4Q8W6T2V5N7M1B0C3D4
func NewTransactionID() string {
	return "TX" + ulid.Make().String()
}

// NewSessionID returns a random purchase session id.
func NewSessionID() string {
	return uuid.NewString()
}
