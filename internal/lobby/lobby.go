// internal/lobby/lobby.go
package lobby

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/models"
)

// Lobby is the client-local view of one pickup session aggregate. The
// mutation methods implement the same lifecycle rules the remote authority
// enforces; the manager runs them against a copy before spending a round
// trip, and commits only the snapshot the authority returns. The local view
// is optimistic and never assumed to win.
type Lobby struct {
	mu   sync.Mutex
	data models.Lobby
}

// New wraps an authoritative snapshot.
func New(data models.Lobby) *Lobby {
	return &Lobby{data: data}
}

// ID returns the lobby's identity.
func (l *Lobby) ID() uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.ID
}

// Snapshot returns a deep copy of the current view.
func (l *Lobby) Snapshot() models.Lobby {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.Clone()
}

// Replace swaps in a fresh authoritative snapshot wholesale. This is the
// only way another actor's effect becomes visible locally.
func (l *Lobby) Replace(data models.Lobby) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data = data
}

// refreshFullLocked flips between open and full as committed slots cross
// capacity. Caller holds l.mu and has already ruled out other states.
func (l *Lobby) refreshFullLocked() {
	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return
	}
	if l.data.CommittedCount() >= l.data.MaxPlayers {
		l.data.State = models.LobbyFull
	} else {
		l.data.State = models.LobbyOpen
	}
}

// Join admits a player with an optional preferred team. The slot starts
// unconfirmed; check-in confirms it later.
func (l *Lobby) Join(p models.Player, preferred models.Team, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return gateway.ErrInvalidState
	}
	if l.data.IsMember(p.ID) {
		return gateway.ErrAlreadyJoined
	}
	// Confirmed and unconfirmed players combined never exceed capacity.
	if len(l.data.Players) >= l.data.MaxPlayers {
		return gateway.ErrLobbyFull
	}
	if preferred != models.TeamUnassigned && preferred != models.TeamA && preferred != models.TeamB {
		return gateway.ErrInvalidState
	}

	l.data.Players = append(l.data.Players, models.PlayerSlot{
		Player:   p,
		Team:     preferred,
		JoinedAt: now,
	})
	l.refreshFullLocked()
	return nil
}

// JoinAsOfficial admits an official. Official slots sit outside player
// capacity and are unbounded in practice.
func (l *Lobby) JoinAsOfficial(p models.Player, role models.OfficialRole) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return gateway.ErrInvalidState
	}
	if !models.ValidRole(role) {
		return gateway.ErrInvalidRole
	}
	if l.data.IsMember(p.ID) {
		return gateway.ErrAlreadyJoined
	}

	l.data.Officials = append(l.data.Officials, models.OfficialSlot{
		Official: p,
		Role:     role,
	})
	return nil
}

// Leave removes the member's slot. Not allowed once play has started.
func (l *Lobby) Leave(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return gateway.ErrInvalidState
	}
	if i := l.data.SlotIndex(id); i >= 0 {
		l.data.Players = append(l.data.Players[:i], l.data.Players[i+1:]...)
		l.refreshFullLocked()
		return nil
	}
	if i := l.data.OfficialIndex(id); i >= 0 {
		l.data.Officials = append(l.data.Officials[:i], l.data.Officials[i+1:]...)
		return nil
	}
	return gateway.ErrNotAMember
}

// ConfirmCheckIn marks a member present. The proximity check itself is the
// authority's call; by the time this runs it has already passed.
func (l *Lobby) ConfirmCheckIn(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return gateway.ErrInvalidState
	}
	if i := l.data.SlotIndex(id); i >= 0 {
		l.data.Players[i].Confirmed = true
		l.refreshFullLocked()
		return nil
	}
	if i := l.data.OfficialIndex(id); i >= 0 {
		l.data.Officials[i].Confirmed = true
		return nil
	}
	return gateway.ErrNotAMember
}

// ApplyTeams commits a balancing split atomically across the whole roster.
// Every assignment must reference an existing slot or nothing changes.
func (l *Lobby) ApplyTeams(assignments map[string]models.Team) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return gateway.ErrInvalidState
	}
	indexes := make(map[int]models.Team, len(assignments))
	for id, team := range assignments {
		i := l.data.SlotIndex(id)
		if i < 0 {
			return gateway.ErrNotAMember
		}
		indexes[i] = team
	}
	for i, team := range indexes {
		l.data.Players[i].Team = team
	}
	l.refreshFullLocked()
	return nil
}

// Start transitions the lobby into play. Host-only; both teams must be
// populated and, when the lobby demands one, an official must be confirmed.
func (l *Lobby) Start(actor string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.data.IsHost(actor) {
		return gateway.ErrNotHost
	}
	if l.data.State != models.LobbyOpen && l.data.State != models.LobbyFull {
		return gateway.ErrInvalidState
	}
	if l.data.TeamCount(models.TeamA) == 0 || l.data.TeamCount(models.TeamB) == 0 {
		return gateway.ErrTeamsIncomplete
	}
	if l.data.RequireOfficial && !l.data.HasConfirmedOfficial() {
		return gateway.ErrOfficialRequired
	}
	l.data.State = models.LobbyPlaying
	return nil
}

// AttachResult records a submitted result and closes out the match.
func (l *Lobby) AttachResult(r models.MatchResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State != models.LobbyPlaying {
		return gateway.ErrInvalidState
	}
	l.data.State = models.LobbyFinished
	l.data.Result = &r
	return nil
}

// Cancel aborts the session. Legal from every state except the terminal
// ones; a finished match stays finished.
func (l *Lobby) Cancel() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data.State.Terminal() {
		return gateway.ErrInvalidState
	}
	l.data.State = models.LobbyCancelled
	return nil
}
