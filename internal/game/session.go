package game

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"vitrola/internal/logger"
	"vitrola/internal/models"
	"vitrola/internal/utils"
)

// Events published to the session Publisher
const (
	EventState  = "state"
	EventTick   = "tick"
	EventTimeUp = "time_up"
)

// DefaultRoundSeconds is used when Options.RoundSeconds is not set
const DefaultRoundSeconds = 7

// WordStore is the storage collaborator the session fetches its catalog from.
// FetchWords returns words sorted by text ascending.
type WordStore interface {
	FetchWords(ctx context.Context, filter models.LanguageFilter) ([]models.Word, error)
	InsertWord(ctx context.Context, w models.NewWord) (*models.Word, error)
}

// Publisher receives a snapshot after every committed change.
// Publish must not block and must not call back into the session.
type Publisher interface {
	Publish(event string, state State)
}

// PlaybackRequest is handed to the playback collaborator when a round with
// media is validated.
type PlaybackRequest struct {
	MediaURL string `json:"media_url"`
}

// State is an immutable snapshot of the session
type State struct {
	Filter              models.LanguageFilter `json:"filter"`
	Loading             bool                  `json:"loading"`
	CurrentWord         *models.Word          `json:"current_word"`
	RoundSeconds        int                   `json:"round_seconds"`
	Timer               TimerState            `json:"timer"`
	ErrorMessage        string                `json:"error_message,omitempty"`
	PoolSize            int                   `json:"pool_size"`
	CatalogSize         int                   `json:"catalog_size"`
	History             []models.HistoryEntry `json:"history"`
	Participants        []models.Participant  `json:"participants"`
	ActiveParticipantID string                `json:"active_participant_id,omitempty"`
	Playback            *PlaybackRequest      `json:"playback,omitempty"`
}

// Options configures a Session. Zero values pick production defaults.
type Options struct {
	RoundSeconds int
	Filter       models.LanguageFilter
	Clock        clockwork.Clock
	RandIntN     func(n int) int
	NewID        func() string
	Publisher    Publisher
	Logger       *zap.Logger
}

// Session is the controller of a single game run. It owns the current word
// and coordinates catalog, pool, timer, history and score board. All methods
// are safe for concurrent use; mutations are serialised.
type Session struct {
	store        WordStore
	roundSeconds int
	clock        clockwork.Clock
	pub          Publisher
	log          *zap.Logger

	mu          sync.Mutex
	filter      models.LanguageFilter
	catalog     *Catalog
	pool        *DrawPool
	timer       *RoundTimer
	history     RoundHistory
	board       *ScoreBoard
	current     *models.Word
	playback    *PlaybackRequest
	errMsg      string
	loading     bool
	fetchGen    uint64
	cancelFetch context.CancelFunc
	closed      bool
}

// NewSession creates a session with an empty catalog. Call ChangeFilter to
// load words from the store.
func NewSession(store WordStore, opts Options) *Session {
	if opts.RoundSeconds <= 0 {
		opts.RoundSeconds = DefaultRoundSeconds
	}
	if opts.Filter == "" {
		opts.Filter = models.FilterAll
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.L()
	}

	s := &Session{
		store:        store,
		roundSeconds: opts.RoundSeconds,
		clock:        opts.Clock,
		pub:          opts.Publisher,
		log:          opts.Logger.Named("session"),
		filter:       opts.Filter,
		catalog:      NewCatalog(opts.Filter, nil),
		pool:         NewDrawPool(opts.RandIntN),
		board:        NewScoreBoard(opts.NewID),
	}
	s.timer = NewRoundTimer(opts.Clock, s.onTick)
	return s
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Words returns a copy of the current catalog
func (s *Session) Words() []models.Word {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Words()
}

// ChangeFilter selects a language filter and reloads the catalog from the
// store. A successful load resets the raffle; scores are kept. A response
// superseded by a newer ChangeFilter, or arriving after Close, is discarded.
func (s *Session) ChangeFilter(ctx context.Context, filter models.LanguageFilter) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	s.fetchGen++
	gen := s.fetchGen
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	s.filter = filter
	s.loading = true
	s.errMsg = ""
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(EventState, state)
	s.log.Debug("loading catalog", zap.String("filter", string(filter)))

	words, err := s.store.FetchWords(fetchCtx, filter)
	cancel()

	s.mu.Lock()
	if s.closed || gen != s.fetchGen {
		closed := s.closed
		s.mu.Unlock()
		s.log.Debug("discarding stale catalog", zap.String("filter", string(filter)))
		if closed {
			return ErrSessionClosed
		}
		return nil
	}
	s.cancelFetch = nil
	s.loading = false

	if err != nil {
		err = storageError("fetch", err)
		s.errMsg = err.Error()
		state = s.stateLocked()
		s.mu.Unlock()
		s.log.Warn("failed to load catalog", zap.String("filter", string(filter)), zap.Error(err))
		s.publish(EventState, state)
		return err
	}

	s.catalog = NewCatalog(filter, words)
	s.resetRaffleLocked()
	state = s.stateLocked()
	s.mu.Unlock()

	s.log.Info("catalog loaded", zap.String("filter", string(filter)), zap.Int("catalog_size", state.CatalogSize))
	s.publish(EventState, state)
	return nil
}

// Draw picks the next word and starts the round timer. Drawing while the
// timer of the current round is running never touches that round: it returns
// ErrExhausted when the pool is empty and ErrRoundInProgress otherwise. An
// empty pool outside a running round also clears the finished word.
func (s *Session) Draw() (models.Word, error) {
	var drawn models.Word
	err := s.update(func() error {
		if s.loading {
			return ErrCatalogLoading
		}
		inProgress := s.current != nil && s.timer.State().Running
		if s.pool.Len() == 0 {
			// a running round is left alone, only the exhausted signal is raised
			if !inProgress {
				s.current = nil
				s.playback = nil
				s.timer.Reset()
			}
			s.log.Info("draw pool exhausted", zap.Int("catalog_size", s.catalog.Len()))
			return ErrExhausted
		}
		if inProgress {
			return ErrRoundInProgress
		}
		s.errMsg = ""
		s.playback = nil

		w, err := s.pool.Draw()
		if err != nil {
			return err
		}

		s.current = &w
		s.history.Record(w, s.clock.Now())
		s.timer.Start(s.roundSeconds)
		drawn = w

		s.log.Info("word drawn", zap.Int64("word_id", w.ID), zap.Int("pool_size", s.pool.Len()))
		return nil
	})
	return drawn, err
}

// Skip discards the current word. The word stays consumed and its history
// entry stays unvalidated.
func (s *Session) Skip() error {
	return s.update(func() error {
		if s.loading {
			return ErrCatalogLoading
		}
		s.timer.Stop()
		if s.current != nil {
			s.log.Info("word skipped", zap.Int64("word_id", s.current.ID))
		}
		s.current = nil
		s.playback = nil
		return nil
	})
}

// StopTimer interrupts the running countdown and keeps the current word
func (s *Session) StopTimer() error {
	return s.update(func() error {
		if s.loading {
			return ErrCatalogLoading
		}
		if !s.timer.Stop() {
			return ErrTimerNotRunning
		}
		s.log.Debug("timer stopped", zap.Int("remaining", s.timer.State().Remaining))
		return nil
	})
}

// Validate marks the current word as guessed. The active participant scores
// once per drawn word. The current word stays in place. A PlaybackRequest is
// returned when the word carries a media URL. Without a current word this is
// a no-op.
func (s *Session) Validate() (*PlaybackRequest, error) {
	var req *PlaybackRequest
	err := s.update(func() error {
		if s.loading {
			return ErrCatalogLoading
		}
		if s.current == nil {
			return nil
		}

		s.timer.Stop()
		if s.history.MarkLatestValidated(s.current.ID) {
			if p, ok := s.board.Active(); ok {
				s.board.Adjust(p.ID, 1)
				s.log.Info("point scored", zap.String("participant_id", p.ID), zap.Int("score", p.Score+1), zap.Int64("word_id", s.current.ID))
			}
		}

		if s.current.MediaURL != "" {
			s.playback = &PlaybackRequest{MediaURL: s.current.MediaURL}
			p := *s.playback
			req = &p
		}
		return nil
	})
	return req, err
}

// ResetRaffle refills the pool with the whole catalog and clears the round
// and history. Scores are untouched.
func (s *Session) ResetRaffle() error {
	return s.update(func() error {
		if s.loading {
			return ErrCatalogLoading
		}
		s.resetRaffleLocked()
		s.log.Info("raffle reset", zap.Int("pool_size", s.pool.Len()))
		return nil
	})
}

// ResetSession resets the raffle and removes every participant
func (s *Session) ResetSession() error {
	return s.update(func() error {
		if s.loading {
			return ErrCatalogLoading
		}
		s.resetRaffleLocked()
		s.board.Clear()
		s.log.Info("session reset", zap.Int("pool_size", s.pool.Len()))
		return nil
	})
}

// AddWord persists a word through the store. When it matches the filter of
// the loaded catalog it joins the catalog and the pool of the current raffle.
func (s *Session) AddWord(ctx context.Context, nw models.NewWord) (*models.Word, error) {
	nw = nw.Normalize()
	if err := utils.ValidateWordText(nw.Text); err != nil {
		return nil, s.fail(err)
	}
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	w, err := s.store.InsertWord(ctx, nw)
	if err != nil {
		var verr utils.ValidationError
		if !errors.As(err, &verr) {
			err = storageError("insert", err)
		}
		s.log.Warn("failed to add word", zap.Error(err))
		return nil, s.fail(err)
	}

	err = s.update(func() error {
		if !s.catalog.Filter().Matches(*w) {
			return nil
		}
		if s.catalog.Append(*w) {
			s.pool.Add(*w)
		}
		s.log.Info("word added", zap.Int64("word_id", w.ID), zap.Int("pool_size", s.pool.Len()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// AddParticipant registers a participant with score 0
func (s *Session) AddParticipant(name string) (models.Participant, error) {
	var p models.Participant
	err := s.update(func() error {
		var err error
		p, err = s.board.Add(name)
		if err != nil {
			return err
		}
		s.log.Info("participant added", zap.String("participant_id", p.ID))
		return nil
	})
	return p, err
}

// AdjustScore adds delta to a participant score
func (s *Session) AdjustScore(id string, delta int) error {
	return s.update(func() error {
		if !s.board.Adjust(id, delta) {
			return ErrParticipantNotFound
		}
		p, _ := s.board.Get(id)
		s.log.Debug("score adjusted", zap.String("participant_id", id), zap.Int("delta", delta), zap.Int("score", p.Score))
		return nil
	})
}

// SetActive selects the participant credited on validate. An empty id clears
// the selection; an unknown id clears it and returns ErrParticipantNotFound.
func (s *Session) SetActive(id string) error {
	return s.update(func() error {
		if !s.board.SetActive(id) && id != "" {
			return ErrParticipantNotFound
		}
		return nil
	})
}

// RemoveParticipant deletes a participant
func (s *Session) RemoveParticipant(id string) error {
	return s.update(func() error {
		if !s.board.Remove(id) {
			return ErrParticipantNotFound
		}
		s.log.Info("participant removed", zap.String("participant_id", id))
		return nil
	})
}

// Close tears the session down. The countdown and any in-flight catalog
// fetch are cancelled; later commands return ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	s.mu.Unlock()

	// the tick callback takes s.mu, so wait for it outside the lock
	s.timer.Close()
	s.log.Debug("session closed")
}

// update runs fn under the session lock, records any error in the error
// slot and publishes the resulting state.
func (s *Session) update(fn func() error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	err := fn()
	if err != nil {
		s.errMsg = err.Error()
	}
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(EventState, state)
	return err
}

// fail surfaces an error raised outside the lock
func (s *Session) fail(err error) error {
	if uerr := s.update(func() error { return err }); errors.Is(uerr, ErrSessionClosed) {
		return uerr
	}
	return err
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) resetRaffleLocked() {
	s.pool.Reset(s.catalog)
	s.current = nil
	s.playback = nil
	s.timer.Reset()
	s.errMsg = ""
	s.history.Clear()
}

// onTick publishes a countdown step. Start and Stop only run under s.mu, so
// once gen is checked here the snapshot belongs to the countdown that ticked.
func (s *Session) onTick(gen uint64, _ TimerState) {
	s.mu.Lock()
	if s.closed || !s.timer.Current(gen) {
		s.mu.Unlock()
		return
	}
	state := s.stateLocked()
	s.mu.Unlock()

	event := EventTick
	if state.Timer.Phase == PhaseExpired {
		event = EventTimeUp
		s.log.Info("time's up")
	}
	s.publish(event, state)
}

func (s *Session) publish(event string, state State) {
	if s.pub != nil {
		s.pub.Publish(event, state)
	}
}

func (s *Session) stateLocked() State {
	st := State{
		Filter:              s.filter,
		Loading:             s.loading,
		RoundSeconds:        s.roundSeconds,
		Timer:               s.timer.State(),
		ErrorMessage:        s.errMsg,
		PoolSize:            s.pool.Len(),
		CatalogSize:         s.catalog.Len(),
		History:             s.history.Entries(),
		Participants:        s.board.List(),
		ActiveParticipantID: s.board.ActiveID(),
	}
	if s.current != nil {
		w := *s.current
		st.CurrentWord = &w
	}
	if s.playback != nil {
		p := *s.playback
		st.Playback = &p
	}
	return st
}

func storageError(op string, err error) error {
	var serr *StorageError
	if errors.As(err, &serr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
