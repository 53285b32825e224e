// internal/lobby/lobby_store.go
package lobby

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/courtside-app/courtside/internal/gateway"
)

// Store tracks the lobbies this client currently cares about, keyed by
// lobby id. Each entry remembers the credential of the actor who pulled it
// in so the background poller can refresh it on their behalf.
type Store struct {
	mu      sync.Mutex
	tracked map[uuid.UUID]*entry
}

type entry struct {
	lobby *Lobby
	cred  gateway.Credential
}

// NewStore returns an empty lobby store.
func NewStore() *Store {
	return &Store{tracked: make(map[uuid.UUID]*entry)}
}

// Put tracks a lobby under the given credential, replacing the snapshot if
// the lobby is already tracked.
func (s *Store) Put(l *Lobby, cred gateway.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := l.ID()
	if e, ok := s.tracked[id]; ok {
		e.lobby.Replace(l.Snapshot())
		e.cred = cred
		return
	}
	s.tracked[id] = &entry{lobby: l, cred: cred}
	log.WithField("lobby_id", id).Debug("tracking lobby")
}

// Get returns the tracked lobby, if any.
func (s *Store) Get(id uuid.UUID) (*Lobby, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tracked[id]
	if !ok {
		return nil, false
	}
	return e.lobby, true
}

// Cred returns the credential a tracked lobby is refreshed with.
func (s *Store) Cred(id uuid.UUID) (gateway.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tracked[id]
	if !ok {
		return "", false
	}
	return e.cred, true
}

// Delete stops tracking a lobby.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tracked[id]; ok {
		delete(s.tracked, id)
		log.WithField("lobby_id", id).Debug("untracked lobby")
	}
}

// IDs returns the ids of every tracked lobby.
func (s *Store) IDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.tracked))
	for id := range s.tracked {
		out = append(out, id)
	}
	return out
}
