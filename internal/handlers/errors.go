package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"vitrola/internal/game"
	"vitrola/internal/logger"
	"vitrola/internal/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			logger.Error(logMsg, zap.Int("status", status), zap.Error(err))
		} else {
			logger.Debug(logMsg, zap.Int("status", status), zap.Error(err))
		}
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithSessionError maps session errors to a status code. Rejected
// commands keep their message so the operator sees why nothing happened.
func respondWithSessionError(w http.ResponseWriter, logMsg string, err error) {
	status := statusForError(err)
	userMsg := err.Error()
	switch status {
	case http.StatusBadGateway:
		userMsg = ErrStorageUnavailable
	case http.StatusInternalServerError:
		userMsg = ErrInternalServerError
	}
	respondWithError(w, status, userMsg, logMsg, err)
}

func statusForError(err error) int {
	var verr utils.ValidationError
	var serr *game.StorageError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrExhausted), errors.Is(err, game.ErrInvalidState):
		return http.StatusConflict
	case errors.As(err, &serr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
