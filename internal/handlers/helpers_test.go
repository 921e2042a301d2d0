package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vitrola/internal/game"
	"vitrola/internal/logger"
	"vitrola/internal/models"
	"vitrola/internal/security"
)

// memStore is an in-memory game.WordStore
type memStore struct {
	mu        sync.Mutex
	words     []models.Word
	nextID    int64
	insertErr error
}

func newMemStore(words ...models.Word) *memStore {
	s := &memStore{nextID: 1}
	for _, w := range words {
		s.words = append(s.words, w)
		if w.ID >= s.nextID {
			s.nextID = w.ID + 1
		}
	}
	return s
}

func (m *memStore) FetchWords(ctx context.Context, filter models.LanguageFilter) ([]models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Word
	for _, w := range m.words {
		if filter.Matches(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (m *memStore) InsertWord(ctx context.Context, nw models.NewWord) (*models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	w := models.Word{
		ID:       m.nextID,
		Text:     nw.Text,
		Language: nw.Language,
		Theme:    nw.Theme,
		MediaURL: nw.MediaURL,
	}
	m.nextID++
	m.words = append(m.words, w)
	return &w, nil
}

func defaultWords() []models.Word {
	return []models.Word{
		{ID: 1, Text: "amor", Language: "PT", Theme: "romance"},
		{ID: 2, Text: "heartbreak", Language: "EN"},
		{ID: 3, Text: "saudade", Language: "PT", MediaURL: "https://youtu.be/dQw4w9WgXcQ?t=42"},
	}
}

type testApp struct {
	session *game.Session
	hub     *Hub
	handler http.Handler
	clock   *clockwork.FakeClock
	store   *memStore
}

type appOption func(*appConfig)

type appConfig struct {
	limiter *security.RateLimiter
}

func withLimiter(l *security.RateLimiter) appOption {
	return func(c *appConfig) { c.limiter = l }
}

func newTestApp(t *testing.T, store *memStore, opts ...appOption) *testApp {
	t.Helper()

	prev := logger.L()
	logger.Set(zaptest.NewLogger(t))
	t.Cleanup(func() { logger.Set(prev) })

	var cfg appConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	n := 0
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC))
	hub := NewHub()
	session := game.NewSession(store, game.Options{
		RoundSeconds: 7,
		Clock:        clock,
		RandIntN:     func(int) int { return 0 },
		NewID: func() string {
			n++
			return "p" + strconv.Itoa(n)
		},
		Publisher: hub,
		Logger:    zaptest.NewLogger(t),
	})
	t.Cleanup(session.Close)
	hub.SetStateSource(session.State)

	require.NoError(t, session.ChangeFilter(context.Background(), models.FilterAll))

	return &testApp{
		session: session,
		hub:     hub,
		handler: NewRouter(session, hub, cfg.limiter),
		clock:   clock,
		store:   store,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
