package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrola/internal/models"
	"vitrola/internal/security"
)

func TestListWords(t *testing.T) {
	app := newTestApp(t, newMemStore(defaultWords()...))

	rec := app.do(t, http.MethodGet, "/api/words", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[WordListView](t, rec)
	assert.Equal(t, models.FilterAll, list.Filter)
	assert.Equal(t, 3, list.Count)
	require.Len(t, list.Words, 3)
	assert.Equal(t, "amor", list.Words[0].Text)
}

func TestListWordsEmptyCatalog(t *testing.T) {
	app := newTestApp(t, newMemStore())

	rec := app.do(t, http.MethodGet, "/api/words", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"filter":"ALL","count":0,"words":[]}`, rec.Body.String())
}

func TestAddWordJoinsRaffle(t *testing.T) {
	app := newTestApp(t, newMemStore(defaultWords()...))

	rec := app.do(t, http.MethodPost, "/api/words", models.NewWord{Text: "  cafuné ", Language: "pt", Theme: "carinho"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	w := decode[models.Word](t, rec)
	assert.Equal(t, int64(4), w.ID)
	assert.Equal(t, "cafuné", w.Text)
	assert.Equal(t, "PT", w.Language)

	st := app.session.State()
	assert.Equal(t, 4, st.CatalogSize)
	assert.Equal(t, 4, st.PoolSize)
}

func TestAddWordValidation(t *testing.T) {
	app := newTestApp(t, newMemStore(defaultWords()...))

	rec := app.do(t, http.MethodPost, "/api/words", models.NewWord{Text: "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "word is required")
	assert.Equal(t, 3, app.session.State().CatalogSize)
}

func TestAddWordStorageFailure(t *testing.T) {
	store := newMemStore(defaultWords()...)
	store.insertErr = errors.New("connection refused")
	app := newTestApp(t, store)

	rec := app.do(t, http.MethodPost, "/api/words", models.NewWord{Text: "cafuné"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, ErrStorageUnavailable, decode[errorResponse](t, rec).Error)
	assert.Contains(t, app.session.State().ErrorMessage, "connection refused")
}

func TestParticipantLifecycle(t *testing.T) {
	app := newTestApp(t, newMemStore(defaultWords()...))

	rec := app.do(t, http.MethodPost, "/api/participants", participantRequest{Name: "Ana"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ana := decode[models.Participant](t, rec)
	assert.Equal(t, "p1", ana.ID)

	rec = app.do(t, http.MethodPost, "/api/participants", participantRequest{Name: "Bia"})
	require.Equal(t, http.StatusCreated, rec.Code)
	bia := decode[models.Participant](t, rec)

	rec = app.do(t, http.MethodPost, "/api/participants/"+bia.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bia.ID, decode[StateView](t, rec).ActiveParticipantID)

	rec = app.do(t, http.MethodPost, "/api/participants/"+ana.ID+"/score", scoreRequest{Delta: -2})
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[StateView](t, rec)
	require.Len(t, st.Participants, 2)
	assert.Equal(t, -2, st.Participants[0].Score)

	rec = app.do(t, http.MethodDelete, "/api/participants/"+bia.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	st = app.session.State()
	assert.Len(t, st.Participants, 1)
	assert.Empty(t, st.ActiveParticipantID)
}

func TestParticipantErrors(t *testing.T) {
	app := newTestApp(t, newMemStore(defaultWords()...))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "blank name", method: http.MethodPost, path: "/api/participants", body: participantRequest{Name: " "}, want: http.StatusBadRequest},
		{name: "score unknown", method: http.MethodPost, path: "/api/participants/nobody/score", body: scoreRequest{Delta: 1}, want: http.StatusNotFound},
		{name: "score bad body", method: http.MethodPost, path: "/api/participants/nobody/score", body: `{"delta":"one"}`, want: http.StatusBadRequest},
		{name: "activate unknown", method: http.MethodPost, path: "/api/participants/nobody/activate", want: http.StatusNotFound},
		{name: "remove unknown", method: http.MethodDelete, path: "/api/participants/nobody", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminRoutesAreRateLimited(t *testing.T) {
	limiter := security.NewRateLimiter(2, time.Minute, nil)
	t.Cleanup(limiter.Close)
	app := newTestApp(t, newMemStore(), withLimiter(limiter))

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodPost, "/api/participants", participantRequest{Name: "Ana"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := app.do(t, http.MethodPost, "/api/participants", participantRequest{Name: "Ana"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrTooManyRequests, decode[errorResponse](t, rec).Error)

	// session controls are not limited
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/session", nil).Code)
}
