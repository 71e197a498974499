package analysis

import (
	"errors"
	"sync"
	"time"
)

// State is the per-session pipeline state
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// ErrAnalysisInFlight is returned when a session already has an analysis
// running; the trigger is disabled for the duration of the in-flight request
var ErrAnalysisInFlight = errors.New("an analysis is already running for this session")

type sessionEntry struct {
	state     State
	err       *Error
	updatedAt time.Time
}

// Tracker keeps the idle -> analyzing -> complete|error state machine per
// session. A manual retry takes error -> analyzing. Stale entries are swept
// periodically so abandoned sessions do not accumulate.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	maxAge   time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewTracker creates a tracker and starts its cleanup loop
func NewTracker(maxAge time.Duration) *Tracker {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	t := &Tracker{
		sessions: make(map[string]*sessionEntry),
		maxAge:   maxAge,
		stop:     make(chan struct{}),
	}

	go t.cleanupLoop()
	return t
}

// Begin transitions the session to analyzing. Allowed from idle, complete,
// and error (manual retry); rejected while a run is in flight.
func (t *Tracker) Begin(sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.sessions[sessionID]
	if ok && entry.state == StateAnalyzing {
		return ErrAnalysisInFlight
	}

	t.sessions[sessionID] = &sessionEntry{
		state:     StateAnalyzing,
		updatedAt: time.Now(),
	}
	return nil
}

// Complete marks the session's run successful
func (t *Tracker) Complete(sessionID string) {
	t.setState(sessionID, StateComplete, nil)
}

// Fail marks the session's run failed with its typed error
func (t *Tracker) Fail(sessionID string, err *Error) {
	t.setState(sessionID, StateError, err)
}

// StateOf returns the session's current state; unknown sessions are idle
func (t *Tracker) StateOf(sessionID string) (State, *Error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.sessions[sessionID]
	if !ok {
		return StateIdle, nil
	}
	return entry.state, entry.err
}

// Stop terminates the cleanup loop
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Tracker) setState(sessionID string, state State, err *Error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sessions[sessionID] = &sessionEntry{
		state:     state,
		err:       err,
		updatedAt: time.Now(),
	}
}

func (t *Tracker) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.cleanup()
		case <-t.stop:
			return
		}
	}
}

func (t *Tracker) cleanup() {
	cutoff := time.Now().Add(-t.maxAge)

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, entry := range t.sessions {
		// In-flight runs are never evicted
		if entry.state != StateAnalyzing && entry.updatedAt.Before(cutoff) {
			delete(t.sessions, id)
		}
	}
}
