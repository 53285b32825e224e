// internal/lobby/lobby_manager.go
package lobby

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/models"
)

// Manager drives lobby commands. Each mutating command is first rehearsed
// against a copy of the tracked snapshot so obvious rejections (already
// joined, lobby full, wrong state) are surfaced without a round trip, then
// proposed to the gateway, and the authoritative snapshot the gateway
// returns replaces the local view wholesale. A failed command leaves the
// tracked snapshot untouched.
type Manager struct {
	gw    gateway.Gateway
	store *Store
}

// NewManager wires a manager over the gateway and tracking store.
func NewManager(gw gateway.Gateway, store *Store) *Manager {
	return &Manager{gw: gw, store: store}
}

// rehearse runs fn against a throwaway copy of the tracked view. With no
// local view the authority simply decides on its own.
func (m *Manager) rehearse(id uuid.UUID, fn func(*Lobby) error) error {
	l, ok := m.store.Get(id)
	if !ok {
		return nil
	}
	probe := New(l.Snapshot())
	return fn(probe)
}

// adopt commits an authoritative snapshot and returns a caller-owned copy.
func (m *Manager) adopt(snap *models.Lobby, cred gateway.Credential) models.Lobby {
	if l, ok := m.store.Get(snap.ID); ok {
		l.Replace(snap.Clone())
		m.store.Put(l, cred)
	} else {
		m.store.Put(New(snap.Clone()), cred)
	}
	return snap.Clone()
}

// Adopt is the exported form used by the result workflow.
func (m *Manager) Adopt(snap models.Lobby, cred gateway.Credential) models.Lobby {
	return m.adopt(&snap, cred)
}

// Lookup returns the tracked snapshot for a lobby, if any.
func (m *Manager) Lookup(id uuid.UUID) (models.Lobby, bool) {
	l, ok := m.store.Get(id)
	if !ok {
		return models.Lobby{}, false
	}
	return l.Snapshot(), true
}

// Create opens a new lobby owned by the caller.
func (m *Manager) Create(ctx context.Context, cred gateway.Credential, req gateway.CreateLobbyRequest) (models.Lobby, error) {
	snap, err := m.gw.CreateLobby(ctx, cred, req)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// Nearby lists lobbies around a coordinate. Read-only; nothing is tracked.
func (m *Manager) Nearby(ctx context.Context, cred gateway.Credential, center models.Coordinate, radiusMeters int) ([]models.Lobby, error) {
	return m.gw.NearbyLobbies(ctx, cred, center, radiusMeters)
}

// Get returns the tracked view of a lobby, fetching and tracking it on
// first access.
func (m *Manager) Get(ctx context.Context, cred gateway.Credential, id uuid.UUID) (models.Lobby, error) {
	if l, ok := m.store.Get(id); ok {
		return l.Snapshot(), nil
	}
	snap, err := m.gw.FetchLobby(ctx, cred, id)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// Refresh re-fetches a tracked lobby with its stored credential. Terminal
// lobbies with a final result drop out of tracking.
func (m *Manager) Refresh(ctx context.Context, id uuid.UUID) (models.Lobby, error) {
	cred, ok := m.store.Cred(id)
	if !ok {
		return models.Lobby{}, gateway.ErrNotAMember
	}
	snap, err := m.gw.FetchLobby(ctx, cred, id)
	if err != nil {
		return models.Lobby{}, err
	}
	out := m.adopt(snap, cred)
	if out.State == models.LobbyCancelled ||
		(out.State == models.LobbyFinished && out.Result.Final(len(out.Officials) > 0)) {
		m.store.Delete(id)
	}
	return out, nil
}

// Join requests a player slot, optionally with a preferred team.
func (m *Manager) Join(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID, preferred models.Team) (models.Lobby, error) {
	err := m.rehearse(id, func(probe *Lobby) error {
		return probe.Join(models.Player{ID: actor}, preferred, time.Now())
	})
	if err != nil {
		return models.Lobby{}, err
	}
	snap, err := m.gw.Join(ctx, cred, id, preferred)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// JoinAsOfficial requests an official slot in the given role.
func (m *Manager) JoinAsOfficial(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID, role models.OfficialRole) (models.Lobby, error) {
	err := m.rehearse(id, func(probe *Lobby) error {
		return probe.JoinAsOfficial(models.Player{ID: actor}, role)
	})
	if err != nil {
		return models.Lobby{}, err
	}
	snap, err := m.gw.JoinAsOfficial(ctx, cred, id, role)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// Leave gives up the caller's slot. Once the caller no longer holds a slot
// the lobby stops being tracked for them.
func (m *Manager) Leave(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID) (models.Lobby, error) {
	err := m.rehearse(id, func(probe *Lobby) error {
		return probe.Leave(actor)
	})
	if err != nil {
		return models.Lobby{}, err
	}
	snap, err := m.gw.Leave(ctx, cred, id)
	if err != nil {
		return models.Lobby{}, err
	}
	out := m.adopt(snap, cred)
	if !out.IsMember(actor) && !out.IsHost(actor) {
		m.store.Delete(id)
	}
	return out, nil
}

// CheckIn proposes a proximity confirmation at the given coordinates. The
// geofence itself is adjudicated remotely; the call is retry-safe.
func (m *Manager) CheckIn(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID, at models.Coordinate) (models.Lobby, error) {
	err := m.rehearse(id, func(probe *Lobby) error {
		return probe.ConfirmCheckIn(actor)
	})
	if err != nil {
		return models.Lobby{}, err
	}
	snap, err := m.gw.CheckIn(ctx, cred, id, at)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// BalanceTeams asks the authority for a skill-parity split and adopts the
// reassigned roster. Host-only and idempotent for an unchanged roster.
func (m *Manager) BalanceTeams(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID) (models.Lobby, error) {
	if snap, ok := m.Lookup(id); ok {
		if !snap.IsHost(actor) {
			return models.Lobby{}, gateway.ErrNotHost
		}
		if snap.State != models.LobbyOpen && snap.State != models.LobbyFull {
			return models.Lobby{}, gateway.ErrInvalidState
		}
	}
	snap, err := m.gw.BalanceTeams(ctx, cred, id)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// Start asks the authority to begin play.
func (m *Manager) Start(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID) (models.Lobby, error) {
	err := m.rehearse(id, func(probe *Lobby) error {
		return probe.Start(actor)
	})
	if err != nil {
		return models.Lobby{}, err
	}
	snap, err := m.gw.Start(ctx, cred, id)
	if err != nil {
		return models.Lobby{}, err
	}
	return m.adopt(snap, cred), nil
}

// ReportInactivity files an advisory complaint that the named authority
// role is unresponsive. The signal is adjudicated remotely and never
// changes lobby state here.
func (m *Manager) ReportInactivity(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID, target gateway.AuthorityRole) error {
	if snap, ok := m.Lookup(id); ok {
		if !snap.IsMember(actor) && !snap.IsHost(actor) {
			return gateway.ErrNotAMember
		}
	}
	return m.gw.ReportInactivity(ctx, cred, id, target)
}

// RequestCancel files an advisory request to abandon the session.
func (m *Manager) RequestCancel(ctx context.Context, cred gateway.Credential, actor string, id uuid.UUID, reason string) error {
	if snap, ok := m.Lookup(id); ok {
		if !snap.IsMember(actor) && !snap.IsHost(actor) {
			return gateway.ErrNotAMember
		}
	}
	return m.gw.RequestCancel(ctx, cred, id, reason)
}
