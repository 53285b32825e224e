// internal/models/lobby.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// LobbyState is the lifecycle state of a pickup session.
type LobbyState string

const (
	LobbyOpen      LobbyState = "open"
	LobbyFull      LobbyState = "full"
	LobbyPlaying   LobbyState = "playing"
	LobbyFinished  LobbyState = "finished"
	LobbyCancelled LobbyState = "cancelled"
)

// Terminal reports whether no further roster or team mutation is accepted.
func (s LobbyState) Terminal() bool {
	return s == LobbyFinished || s == LobbyCancelled
}

// Team identifies one of the two sides of a match. The empty value means
// the player has not been assigned yet.
type Team string

const (
	TeamA          Team = "A"
	TeamB          Team = "B"
	TeamUnassigned Team = ""
)

// OfficialRole is the function an official fills during a match.
type OfficialRole string

const (
	RolePrincipal OfficialRole = "principal"
	RoleSecondary OfficialRole = "secondary"
	RoleLine      OfficialRole = "line"
)

// ValidRole reports whether r is one of the known official roles.
func ValidRole(r OfficialRole) bool {
	return r == RolePrincipal || r == RoleSecondary || r == RoleLine
}

// Modality is the ball type the session is played with.
type Modality string

const (
	ModalityFabric Modality = "fabric"
	ModalityFoam   Modality = "foam"
)

// Category is the gender policy of the session.
type Category string

const (
	CategoryMale   Category = "male"
	CategoryFemale Category = "female"
	CategoryMixed  Category = "mixed"
)

// Coordinate is a WGS84 point. Distance math is the remote authority's
// problem; we only carry the values.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlayerSlot is one player's seat in the lobby roster.
type PlayerSlot struct {
	Player    Player    `json:"player"`
	Team      Team      `json:"team,omitempty"`
	Confirmed bool      `json:"confirmed"`
	AFK       bool      `json:"afk"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// OfficialSlot is one official's seat in the lobby.
type OfficialSlot struct {
	Official  Player       `json:"official"`
	Role      OfficialRole `json:"role"`
	Confirmed bool         `json:"confirmed"`
}

// Lobby is the root aggregate of a pickup session, as returned by the
// session gateway. Clients treat it as a read-only snapshot; every mutation
// goes through the gateway and comes back as a full replacement snapshot.
type Lobby struct {
	ID     uuid.UUID `json:"id"`
	HostID string    `json:"hostId"`

	Title        string     `json:"title"`
	LocationName string     `json:"locationName"`
	Coordinate   Coordinate `json:"coordinate"`
	ScheduledAt  time.Time  `json:"scheduledAt"`
	Modality     Modality   `json:"modality"`
	Category     Category   `json:"category"`

	MaxPlayers      int  `json:"maxPlayers"`
	RequireOfficial bool `json:"requireOfficial"`

	State     LobbyState     `json:"state"`
	Players   []PlayerSlot   `json:"players"`
	Officials []OfficialSlot `json:"officials"`

	Result *MatchResult `json:"result,omitempty"`
}

// SlotIndex returns the roster index holding playerID, or -1.
func (l *Lobby) SlotIndex(playerID string) int {
	for i := range l.Players {
		if l.Players[i].Player.ID == playerID {
			return i
		}
	}
	return -1
}

// OfficialIndex returns the official slot index holding id, or -1.
func (l *Lobby) OfficialIndex(id string) int {
	for i := range l.Officials {
		if l.Officials[i].Official.ID == id {
			return i
		}
	}
	return -1
}

// IsHost reports whether id is the owning host.
func (l *Lobby) IsHost(id string) bool {
	return id != "" && id == l.HostID
}

// IsMember reports whether id holds a player or official slot.
func (l *Lobby) IsMember(id string) bool {
	return l.SlotIndex(id) >= 0 || l.OfficialIndex(id) >= 0
}

// TeamCount counts roster slots assigned to the given team.
func (l *Lobby) TeamCount(team Team) int {
	n := 0
	for i := range l.Players {
		if l.Players[i].Team == team {
			n++
		}
	}
	return n
}

// CommittedCount counts slots that hold capacity: a slot counts once it is
// either confirmed or assigned to a team.
func (l *Lobby) CommittedCount() int {
	n := 0
	for i := range l.Players {
		if l.Players[i].Confirmed || l.Players[i].Team != TeamUnassigned {
			n++
		}
	}
	return n
}

// HasConfirmedOfficial reports whether at least one official checked in.
func (l *Lobby) HasConfirmedOfficial() bool {
	for i := range l.Officials {
		if l.Officials[i].Confirmed {
			return true
		}
	}
	return false
}

// RivalCaptain returns the earliest-joined player on the opposite team of
// the result submitter. That player is the designated confirming party.
func (l *Lobby) RivalCaptain(submitterID string) (Player, bool) {
	submitterTeam := TeamUnassigned
	if i := l.SlotIndex(submitterID); i >= 0 {
		submitterTeam = l.Players[i].Team
	}
	var captain Player
	var captainAt time.Time
	found := false
	for i := range l.Players {
		s := &l.Players[i]
		if s.Team == TeamUnassigned || s.Team == submitterTeam {
			continue
		}
		if !found || s.JoinedAt.Before(captainAt) {
			captain = s.Player
			captainAt = s.JoinedAt
			found = true
		}
	}
	return captain, found
}

// Clone deep-copies the aggregate so callers can hand out snapshots without
// sharing roster slices.
func (l *Lobby) Clone() Lobby {
	out := *l
	out.Players = make([]PlayerSlot, len(l.Players))
	copy(out.Players, l.Players)
	out.Officials = make([]OfficialSlot, len(l.Officials))
	copy(out.Officials, l.Officials)
	if l.Result != nil {
		r := *l.Result
		out.Result = &r
	}
	return out
}
