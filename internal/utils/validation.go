package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxWordLength = 200
	maxNameLength = 60
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateWordText checks the text of a word entered by the admin
func ValidateWordText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ValidationError{Field: "word", Message: "word is required"}
	}
	if utf8.RuneCountInString(text) > maxWordLength {
		return ValidationError{Field: "word", Message: fmt.Sprintf("word must be at most %d characters", maxWordLength)}
	}
	return nil
}

// ValidateParticipantName checks a participant name
func ValidateParticipantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}
	return nil
}
