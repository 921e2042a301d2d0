package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vitrola/internal/game"
	"vitrola/internal/logger"
	"vitrola/internal/models"
)

// SessionHandler serves the operator controls of the game session
type SessionHandler struct {
	session *game.Session
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session *game.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

type drawResponse struct {
	Word  models.Word `json:"word"`
	State StateView   `json:"state"`
}

type validateResponse struct {
	Playback *game.PlaybackRequest `json:"playback,omitempty"`
	State    StateView             `json:"state"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

// GetState returns the current session snapshot
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, NewStateView(h.session.State()))
}

// Draw picks the next word and starts the round
func (h *SessionHandler) Draw(w http.ResponseWriter, r *http.Request) {
	word, err := h.session.Draw()
	if err != nil {
		respondWithSessionError(w, "draw rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, drawResponse{Word: word, State: NewStateView(h.session.State())})
}

// Skip discards the current word
func (h *SessionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.command(w, "skip rejected", h.session.Skip)
}

// Stop interrupts the countdown
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.command(w, "stop rejected", h.session.StopTimer)
}

// Validate credits the active participant for the current word
func (h *SessionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, err := h.session.Validate()
	if err != nil {
		respondWithSessionError(w, "validate rejected", err)
		return
	}
	respondJSON(w, http.StatusOK, validateResponse{Playback: req, State: NewStateView(h.session.State())})
}

// ResetRaffle refills the pool and keeps the scores
func (h *SessionHandler) ResetRaffle(w http.ResponseWriter, r *http.Request) {
	h.command(w, "reset raffle rejected", h.session.ResetRaffle)
}

// Reset starts a fresh session
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.command(w, "reset session rejected", h.session.ResetSession)
}

// ChangeFilter switches the language filter and reloads the catalog.
// The response carries the state after the load finished.
func (h *SessionHandler) ChangeFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	filter, err := models.ParseLanguageFilter(req.Filter)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFilter, "", err)
		return
	}

	if err := h.session.ChangeFilter(r.Context(), filter); err != nil {
		respondWithSessionError(w, "failed to change filter", err)
		return
	}

	logger.Debug("filter changed",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("filter", string(filter)))
	respondJSON(w, http.StatusOK, NewStateView(h.session.State()))
}

func (h *SessionHandler) command(w http.ResponseWriter, logMsg string, fn func() error) {
	if err := fn(); err != nil {
		respondWithSessionError(w, logMsg, err)
		return
	}
	respondJSON(w, http.StatusOK, NewStateView(h.session.State()))
}
