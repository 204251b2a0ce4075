package utils

import "github.com/google/uuid"

// NewRequestID returns a fresh identifier for correlating a request's log
// entries.
func NewRequestID() string {
	return uuid.NewString()
}
