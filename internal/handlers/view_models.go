package handlers

import (
	"vitrola/internal/game"
	"vitrola/internal/media"
	"vitrola/internal/models"
)

// VideoView is the embeddable form of a playback request
type VideoView struct {
	ID       string `json:"id"`
	Start    int    `json:"start,omitempty"`
	EmbedURL string `json:"embed_url"`
}

// StateView is the session snapshot sent to clients
type StateView struct {
	game.State
	Video *VideoView `json:"video,omitempty"`
}

// NewStateView attaches the parsed video of the last playback request.
// A link without a recognisable video id plays nothing.
func NewStateView(st game.State) StateView {
	view := StateView{State: st}
	if st.Playback == nil {
		return view
	}
	if v, ok := media.ParseVideo(st.Playback.MediaURL); ok {
		view.Video = &VideoView{ID: v.ID, Start: v.Start, EmbedURL: v.EmbedURL()}
	}
	return view
}

// WordListView is the admin listing of the loaded catalog
type WordListView struct {
	Filter models.LanguageFilter `json:"filter"`
	Count  int                   `json:"count"`
	Words  []models.Word         `json:"words"`
}

func newWordListView(filter models.LanguageFilter, words []models.Word) WordListView {
	if words == nil {
		words = []models.Word{}
	}
	return WordListView{Filter: filter, Count: len(words), Words: words}
}
