// internal/session/session.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"

	"github.com/courtside-app/courtside/internal/models"
)

// State is the persisted layout of a live session, keyed by lobby id. It is
// the only state that must survive a client restart without a round trip to
// the session gateway.
type State struct {
	Sets                 []SetRecord `json:"sets"`
	ScoreA               int         `json:"scoreA"`
	ScoreB               int         `json:"scoreB"`
	AccumulatedElapsedMs int64       `json:"accumulatedElapsedMs"`
}

// Store persists session state. Load returns (nil, nil) when no usable
// state exists for the lobby; a corrupt payload is the store's problem to
// discard, never the session's.
type Store interface {
	Load(ctx context.Context, lobbyID uuid.UUID) (*State, error)
	Save(ctx context.Context, lobbyID uuid.UUID, st State) error
	Delete(ctx context.Context, lobbyID uuid.UUID) error
}

// Session binds a clock and a set ledger to one lobby and persists the pair
// after every mutation. It is client-local: no other actor shares it, but it
// must survive the process being torn down mid-match.
type Session struct {
	mu      sync.Mutex
	lobbyID uuid.UUID
	clock   *Clock
	ledger  *Ledger
	store   Store
}

// ToggleClock flips the clock and reports the new running state.
func (s *Session) ToggleClock(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	running := s.clock.Toggle()
	return running, s.persist(ctx)
}

// Running reports whether the session clock is advancing.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Running()
}

// Elapsed returns total unpaused match time so far.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Elapsed()
}

// RecordSet appends a set for side, stamped with the current elapsed time.
func (s *Session) RecordSet(ctx context.Context, side models.Team) (SetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.ledger.RecordSet(side, s.clock.Elapsed())
	if err != nil {
		return SetRecord{}, err
	}
	return rec, s.persist(ctx)
}

// UndoLastSet rolls back the most recent set. A false second return means
// the ledger was empty and nothing changed.
func (s *Session) UndoLastSet(ctx context.Context) (SetRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ledger.UndoLastSet()
	if !ok {
		return SetRecord{}, false, nil
	}
	return rec, true, s.persist(ctx)
}

// Score returns the per-side set tallies.
func (s *Session) Score() (a, b int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Score()
}

// Snapshot returns the persistable state as of now.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	a, b := s.ledger.Score()
	return State{
		Sets:                 s.ledger.Sets(),
		ScoreA:               a,
		ScoreB:               b,
		AccumulatedElapsedMs: s.clock.Accumulated().Milliseconds(),
	}
}

// persist writes the current state through the store. Caller holds s.mu.
func (s *Session) persist(ctx context.Context) error {
	return s.store.Save(ctx, s.lobbyID, s.snapshotLocked())
}

// Manager hands out one Session per lobby, restoring persisted state on
// first access. Restored sessions always come back with the clock paused.
type Manager struct {
	mu       sync.Mutex
	store    Store
	clk      clockwork.Clock
	sessions map[uuid.UUID]*Session
}

// NewManager builds a session manager over the given store and clock
// source.
func NewManager(store Store, clk clockwork.Clock) *Manager {
	return &Manager{
		store:    store,
		clk:      clk,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Get returns the live session for lobbyID, loading persisted state if this
// is the first access since startup.
func (m *Manager) Get(ctx context.Context, lobbyID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[lobbyID]; ok {
		return s, nil
	}

	s := &Session{
		lobbyID: lobbyID,
		clock:   NewClock(m.clk),
		ledger:  &Ledger{},
		store:   m.store,
	}
	st, err := m.store.Load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if st != nil {
		s.ledger.Restore(st.Sets)
		s.clock.Restore(time.Duration(st.AccumulatedElapsedMs) * time.Millisecond)
		log.WithFields(log.Fields{
			"lobby_id": lobbyID,
			"sets":     len(st.Sets),
		}).Info("restored session state")
	}
	m.sessions[lobbyID] = s
	return s, nil
}

// Clear drops the session for lobbyID from memory and the store. Called
// once a result has been submitted successfully.
func (m *Manager) Clear(ctx context.Context, lobbyID uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, lobbyID)
	m.mu.Unlock()
	return m.store.Delete(ctx, lobbyID)
}
