package utils

import (
	"github.com/google/uuid"
)

// NewID creates a new random identifier for participants and requests
func NewID() string {
	return uuid.New().String()
}
