package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TimerPhase is the state of the round countdown
type TimerPhase string

const (
	PhaseIdle    TimerPhase = "idle"
	PhaseRunning TimerPhase = "running"
	PhaseStopped TimerPhase = "stopped"
	PhaseExpired TimerPhase = "expired"
)

// TimerState is a snapshot of the countdown
type TimerState struct {
	Remaining int        `json:"remaining"`
	Running   bool       `json:"running"`
	Phase     TimerPhase `json:"phase"`
}

// RoundTimer is a single countdown clock ticking once per second.
// At most one countdown goroutine is alive per timer; starting again cancels
// the previous one and ticks from a superseded countdown are dropped.
type RoundTimer struct {
	clock  clockwork.Clock
	onTick func(gen uint64, state TimerState)

	mu        sync.Mutex
	phase     TimerPhase
	remaining int
	gen       uint64
	stop      chan struct{}

	wg sync.WaitGroup
}

// NewRoundTimer creates an idle timer. onTick, if set, is called from the
// countdown goroutine after every tick, outside the timer lock. gen identifies
// the countdown that ticked; pass it to Current to detect a countdown that was
// superseded before the callback ran.
func NewRoundTimer(clock clockwork.Clock, onTick func(gen uint64, state TimerState)) *RoundTimer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RoundTimer{
		clock:  clock,
		onTick: onTick,
		phase:  PhaseIdle,
	}
}

// Start arms the timer with the full duration and begins counting down.
func (t *RoundTimer) Start(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.gen++

	if seconds <= 0 {
		t.remaining = 0
		t.phase = PhaseExpired
		return
	}

	t.remaining = seconds
	t.phase = PhaseRunning

	stop := make(chan struct{})
	t.stop = stop
	ticker := t.clock.NewTicker(time.Second)

	t.wg.Add(1)
	go t.run(t.gen, ticker, stop)
}

// Stop interrupts a running countdown. remaining keeps its value.
// It returns false when the timer was not running.
func (t *RoundTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != PhaseRunning {
		return false
	}
	t.cancelLocked()
	t.gen++
	t.phase = PhaseStopped
	return true
}

// Reset cancels any countdown and returns to idle with nothing remaining.
func (t *RoundTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.gen++
	t.phase = PhaseIdle
	t.remaining = 0
}

// Close resets the timer and waits for the countdown goroutine to exit.
// It must not be called from the onTick callback.
func (t *RoundTimer) Close() {
	t.Reset()
	t.wg.Wait()
}

// Current reports whether gen still identifies the latest countdown
func (t *RoundTimer) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.gen
}

// State returns the current snapshot
func (t *RoundTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

func (t *RoundTimer) stateLocked() TimerState {
	return TimerState{
		Remaining: t.remaining,
		Running:   t.phase == PhaseRunning,
		Phase:     t.phase,
	}
}

func (t *RoundTimer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *RoundTimer) run(gen uint64, ticker clockwork.Ticker, stop <-chan struct{}) {
	defer t.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			state, ok, done := t.tick(gen)
			if ok && t.onTick != nil {
				t.onTick(gen, state)
			}
			if done {
				return
			}
		}
	}
}

// tick applies one second. ok is false for a superseded countdown; done
// reports that the goroutine should exit.
func (t *RoundTimer) tick(gen uint64) (state TimerState, ok bool, done bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.phase != PhaseRunning {
		return TimerState{}, false, true
	}

	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.phase = PhaseExpired
		// the loop exits on its own, nothing left to cancel
		t.stop = nil
		return t.stateLocked(), true, true
	}
	return t.stateLocked(), true, false
}
