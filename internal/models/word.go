package models

import (
	"fmt"
	"strings"
	"time"
)

// LanguagePT is the language code stored for Portuguese words
const LanguagePT = "PT"

// LanguageFilter selects which words make up the catalog
type LanguageFilter string

const (
	FilterAll LanguageFilter = "ALL"
	FilterPT  LanguageFilter = "PT"
)

// ParseLanguageFilter converts user input into a LanguageFilter
func ParseLanguageFilter(s string) (LanguageFilter, error) {
	switch LanguageFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterPT:
		return FilterPT, nil
	default:
		return "", fmt.Errorf("unknown language filter %q", s)
	}
}

// Language returns the language value the filter restricts to, or "" for ALL
func (f LanguageFilter) Language() string {
	if f == FilterPT {
		return LanguagePT
	}
	return ""
}

// Matches reports whether a word belongs to the catalog selected by the filter
func (f LanguageFilter) Matches(w Word) bool {
	lang := f.Language()
	return lang == "" || w.Language == lang
}

// Word represents an entry in the shared word pool
type Word struct {
	ID        int64     `json:"id"`
	Text      string    `json:"word"`
	Language  string    `json:"language,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	MediaURL  string    `json:"youtube_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWord is the payload accepted by the word store on insert.
// Empty optional fields are stored as NULL.
type NewWord struct {
	Text     string `json:"word"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
	MediaURL string `json:"youtube_url"`
}

// Normalize trims every field and upper-cases the language code
func (n NewWord) Normalize() NewWord {
	return NewWord{
		Text:     strings.TrimSpace(n.Text),
		Language: strings.ToUpper(strings.TrimSpace(n.Language)),
		Theme:    strings.TrimSpace(n.Theme),
		MediaURL: strings.TrimSpace(n.MediaURL),
	}
}
