package game

import (
	"time"

	"vitrola/internal/models"
)

// RoundHistory is the append-only log of drawn words. Entries are kept in
// draw order and read back most recent first.
type RoundHistory struct {
	entries []models.HistoryEntry
}

// Record adds an unvalidated entry for a freshly drawn word
func (h *RoundHistory) Record(w models.Word, at time.Time) {
	h.entries = append(h.entries, models.HistoryEntry{
		WordID:   w.ID,
		Text:     w.Text,
		Language: w.Language,
		Theme:    w.Theme,
		DrawnAt:  at,
	})
}

// MarkLatestValidated flags the most recent entry as validated when it belongs
// to wordID. It returns true only when the flag changed.
func (h *RoundHistory) MarkLatestValidated(wordID int64) bool {
	if len(h.entries) == 0 {
		return false
	}
	latest := &h.entries[len(h.entries)-1]
	if latest.WordID != wordID || latest.Validated {
		return false
	}
	latest.Validated = true
	return true
}

// Clear empties the log
func (h *RoundHistory) Clear() {
	h.entries = nil
}

// Len returns the number of entries
func (h *RoundHistory) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log, most recent first
func (h *RoundHistory) Entries() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}
