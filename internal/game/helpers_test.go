package game

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vitrola/internal/models"
)

func word(id int64, text, lang string) models.Word {
	return models.Word{ID: id, Text: text, Language: lang}
}

// fakeStore is an in-memory WordStore
type fakeStore struct {
	mu        sync.Mutex
	words     []models.Word
	nextID    int64
	fetchErr  error
	insertErr error
	inserted  []models.NewWord
}

func newFakeStore(words ...models.Word) *fakeStore {
	s := &fakeStore{nextID: 1}
	for _, w := range words {
		s.words = append(s.words, w)
		if w.ID >= s.nextID {
			s.nextID = w.ID + 1
		}
	}
	return s
}

func (f *fakeStore) FetchWords(ctx context.Context, filter models.LanguageFilter) ([]models.Word, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []models.Word
	for _, w := range f.words {
		if filter.Matches(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (f *fakeStore) InsertWord(ctx context.Context, nw models.NewWord) (*models.Word, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, nw)
	w := models.Word{ID: f.nextID, Text: nw.Text, Language: nw.Language, Theme: nw.Theme, MediaURL: nw.MediaURL}
	f.nextID++
	f.words = append(f.words, w)
	return &w, nil
}

// gatedStore hands every fetch to the test, which answers it explicitly
type fetchCall struct {
	ctx    context.Context
	filter models.LanguageFilter
	reply  chan fetchReply
}

type fetchReply struct {
	words []models.Word
	err   error
}

type gatedStore struct {
	calls chan fetchCall
}

func newGatedStore() *gatedStore {
	return &gatedStore{calls: make(chan fetchCall)}
}

func (g *gatedStore) FetchWords(ctx context.Context, filter models.LanguageFilter) ([]models.Word, error) {
	c := fetchCall{ctx: ctx, filter: filter, reply: make(chan fetchReply, 1)}
	g.calls <- c
	r := <-c.reply
	return r.words, r.err
}

func (g *gatedStore) InsertWord(ctx context.Context, nw models.NewWord) (*models.Word, error) {
	return nil, errors.New("insert not supported")
}

func (g *gatedStore) nextCall(t *testing.T) fetchCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch")
		return fetchCall{}
	}
}

type published struct {
	event string
	state State
}

// recorder is a Publisher that buffers events for assertions
type recorder struct {
	events chan published
}

func newRecorder() *recorder {
	return &recorder{events: make(chan published, 1024)}
}

func (r *recorder) Publish(event string, st State) {
	select {
	case r.events <- published{event: event, state: st}:
	default:
	}
}

// next skips events until one named event arrives
func (r *recorder) next(t *testing.T, event string) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case p := <-r.events:
			if p.event == event {
				return p.state
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", event)
			return State{}
		}
	}
}

// none asserts that no event named event arrives shortly
func (r *recorder) none(t *testing.T, event string) {
	t.Helper()
	deadline := time.After(50 * time.Millisecond)
	for {
		select {
		case p := <-r.events:
			if p.event == event {
				t.Fatalf("unexpected %q event", event)
			}
		case <-deadline:
			return
		}
	}
}

func (r *recorder) drain() {
	for {
		select {
		case <-r.events:
		default:
			return
		}
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "p" + strconv.Itoa(n)
	}
}

type testSession struct {
	*Session
	clock *clockwork.FakeClock
	pub   *recorder
}

// newTestSession builds a session on a fake clock that always draws the
// first word of the pool, and loads the ALL catalog.
func newTestSession(t *testing.T, store WordStore) *testSession {
	t.Helper()
	clock := clockwork.NewFakeClock()
	pub := newRecorder()
	s := NewSession(store, Options{
		RoundSeconds: 7,
		Clock:        clock,
		RandIntN:     func(int) int { return 0 },
		NewID:        sequentialIDs(),
		Publisher:    pub,
		Logger:       zaptest.NewLogger(t),
	})
	t.Cleanup(s.Close)

	if _, ok := store.(*gatedStore); !ok {
		require.NoError(t, s.ChangeFilter(context.Background(), models.FilterAll))
	}
	pub.drain()
	return &testSession{Session: s, clock: clock, pub: pub}
}
