package handlers

import (
	"net/http"

	"vitrola/internal/game"
	"vitrola/internal/security"
)

// NewRouter wires every API route. Mutating admin routes go through the
// rate limiter when one is given.
func NewRouter(session *game.Session, hub *Hub, limiter *security.RateLimiter) http.Handler {
	sessionHandler := NewSessionHandler(session)
	adminHandler := NewAdminHandler(session)

	admin := func(fn http.HandlerFunc) http.Handler {
		return RateLimited(limiter, fn)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Session routes
	mux.HandleFunc("GET /api/session", sessionHandler.GetState)
	mux.HandleFunc("POST /api/session/draw", sessionHandler.Draw)
	mux.HandleFunc("POST /api/session/skip", sessionHandler.Skip)
	mux.HandleFunc("POST /api/session/stop", sessionHandler.Stop)
	mux.HandleFunc("POST /api/session/validate", sessionHandler.Validate)
	mux.HandleFunc("POST /api/session/reset-raffle", sessionHandler.ResetRaffle)
	mux.HandleFunc("POST /api/session/reset", sessionHandler.Reset)
	mux.HandleFunc("POST /api/session/filter", sessionHandler.ChangeFilter)

	// Word routes
	mux.HandleFunc("GET /api/words", adminHandler.ListWords)
	mux.Handle("POST /api/words", admin(adminHandler.AddWord))

	// Participant routes
	mux.Handle("POST /api/participants", admin(adminHandler.AddParticipant))
	mux.Handle("POST /api/participants/{id}/score", admin(adminHandler.AdjustScore))
	mux.Handle("POST /api/participants/{id}/activate", admin(adminHandler.Activate))
	mux.Handle("DELETE /api/participants/{id}", admin(adminHandler.RemoveParticipant))

	if hub != nil {
		mux.Handle("GET /ws", hub)
	}

	return Recover(Logging(mux))
}
