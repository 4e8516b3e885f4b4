package models

import "github.com/google/uuid"

// NewID returns a fresh opaque identifier for a persisted entity.
func NewID() string {
	return uuid.New().String()
}
