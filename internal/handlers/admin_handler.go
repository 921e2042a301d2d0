package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vitrola/internal/game"
	"vitrola/internal/logger"
	"vitrola/internal/models"
)

// AdminHandler serves word entry and participant management
type AdminHandler struct {
	session *game.Session
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(session *game.Session) *AdminHandler {
	return &AdminHandler{session: session}
}

type participantRequest struct {
	Name string `json:"name"`
}

type scoreRequest struct {
	Delta int `json:"delta"`
}

// ListWords returns the loaded catalog
func (h *AdminHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	st := h.session.State()
	respondJSON(w, http.StatusOK, newWordListView(st.Filter, h.session.Words()))
}

// AddWord stores a new word. Words matching the active filter join the
// running raffle right away.
func (h *AdminHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	var req models.NewWord
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	word, err := h.session.AddWord(r.Context(), req)
	if err != nil {
		respondWithSessionError(w, "failed to add word", err)
		return
	}

	logger.Info("word created",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Int64("word_id", word.ID))
	respondJSON(w, http.StatusCreated, word)
}

// AddParticipant registers a participant
func (h *AdminHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	p, err := h.session.AddParticipant(req.Name)
	if err != nil {
		respondWithSessionError(w, "failed to add participant", err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// AdjustScore applies a manual score correction
func (h *AdminHandler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.session.AdjustScore(r.PathValue("id"), req.Delta); err != nil {
		respondWithSessionError(w, "failed to adjust score", err)
		return
	}
	respondJSON(w, http.StatusOK, NewStateView(h.session.State()))
}

// Activate selects the participant credited on validate
func (h *AdminHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SetActive(r.PathValue("id")); err != nil {
		respondWithSessionError(w, "failed to activate participant", err)
		return
	}
	respondJSON(w, http.StatusOK, NewStateView(h.session.State()))
}

// RemoveParticipant deletes a participant
func (h *AdminHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RemoveParticipant(r.PathValue("id")); err != nil {
		respondWithSessionError(w, "failed to remove participant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
