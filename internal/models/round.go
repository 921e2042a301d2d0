package models

import "time"

// HistoryEntry records one drawn word in the current raffle
type HistoryEntry struct {
	WordID    int64     `json:"word_id"`
	Text      string    `json:"word"`
	Language  string    `json:"language,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	DrawnAt   time.Time `json:"drawn_at"`
	Validated bool      `json:"validated"`
}

// Participant is a player on the score board
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
