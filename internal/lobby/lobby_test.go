package lobby

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/models"
)

func testLobby(maxPlayers int) *Lobby {
	return New(models.Lobby{
		ID:         uuid.New(),
		HostID:     "host",
		Title:      "friday night pickup",
		MaxPlayers: maxPlayers,
		State:      models.LobbyOpen,
	})
}

func TestJoinCreatesUnconfirmedSlot(t *testing.T) {
	l := testLobby(4)

	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))

	snap := l.Snapshot()
	require.Equal(t, 1, len(snap.Players))
	assert.Equal(t, models.TeamA, snap.Players[0].Team)
	assert.False(t, snap.Players[0].Confirmed)
}

func TestJoinTwiceFails(t *testing.T) {
	l := testLobby(4)

	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamUnassigned, time.Now()))
	err := l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now())
	assert.ErrorIs(t, err, gateway.ErrAlreadyJoined)
}

// Capacity 12, six per side; the next join must lose with LobbyFull.
func TestJoinCapacityScenario(t *testing.T) {
	l := testLobby(12)

	for i := 0; i < 6; i++ {
		require.NoError(t, l.Join(models.Player{ID: fmt.Sprintf("a%d", i)}, models.TeamA, time.Now()))
	}
	for i := 0; i < 6; i++ {
		require.NoError(t, l.Join(models.Player{ID: fmt.Sprintf("b%d", i)}, models.TeamB, time.Now()))
	}

	err := l.Join(models.Player{ID: "late"}, models.TeamUnassigned, time.Now())
	assert.ErrorIs(t, err, gateway.ErrLobbyFull)

	snap := l.Snapshot()
	assert.LessOrEqual(t, snap.CommittedCount(), snap.MaxPlayers)
	assert.Equal(t, models.LobbyFull, snap.State)
}

func TestCapacityInvariantUnderJoinLeave(t *testing.T) {
	l := testLobby(3)

	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p2"}, models.TeamB, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p3"}, models.TeamA, time.Now()))
	require.ErrorIs(t, l.Join(models.Player{ID: "p4"}, models.TeamB, time.Now()), gateway.ErrLobbyFull)

	require.NoError(t, l.Leave("p2"))
	require.NoError(t, l.Join(models.Player{ID: "p4"}, models.TeamB, time.Now()))

	snap := l.Snapshot()
	assert.LessOrEqual(t, snap.CommittedCount(), snap.MaxPlayers)
}

func TestFullRevertsToOpenOnLeave(t *testing.T) {
	l := testLobby(2)

	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p2"}, models.TeamB, time.Now()))
	require.Equal(t, models.LobbyFull, l.Snapshot().State)

	require.NoError(t, l.Leave("p2"))
	assert.Equal(t, models.LobbyOpen, l.Snapshot().State)
}

func TestJoinAsOfficialValidatesRole(t *testing.T) {
	l := testLobby(4)

	err := l.JoinAsOfficial(models.Player{ID: "ref"}, "goalkeeper")
	require.ErrorIs(t, err, gateway.ErrInvalidRole)

	require.NoError(t, l.JoinAsOfficial(models.Player{ID: "ref"}, models.RolePrincipal))
	snap := l.Snapshot()
	require.Equal(t, 1, len(snap.Officials))
	assert.False(t, snap.Officials[0].Confirmed)
}

func TestOfficialsDoNotConsumePlayerCapacity(t *testing.T) {
	l := testLobby(2)

	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p2"}, models.TeamB, time.Now()))
	assert.NoError(t, l.JoinAsOfficial(models.Player{ID: "ref"}, models.RoleLine))
}

func TestLeaveWhilePlayingFails(t *testing.T) {
	l := startableLobby(t, false)
	require.NoError(t, l.Start("host"))

	err := l.Leave("p1")
	assert.ErrorIs(t, err, gateway.ErrInvalidState)
}

func TestLeaveNonMemberFails(t *testing.T) {
	l := testLobby(4)
	assert.ErrorIs(t, l.Leave("ghost"), gateway.ErrNotAMember)
}

func TestConfirmCheckIn(t *testing.T) {
	l := testLobby(4)
	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))

	require.NoError(t, l.ConfirmCheckIn("p1"))
	assert.True(t, l.Snapshot().Players[0].Confirmed)

	// Retrying a check-in has no double effect.
	require.NoError(t, l.ConfirmCheckIn("p1"))
	assert.True(t, l.Snapshot().Players[0].Confirmed)

	assert.ErrorIs(t, l.ConfirmCheckIn("ghost"), gateway.ErrNotAMember)
}

func TestApplyTeamsIsAtomic(t *testing.T) {
	l := testLobby(4)
	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamUnassigned, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p2"}, models.TeamUnassigned, time.Now()))

	err := l.ApplyTeams(map[string]models.Team{
		"p1":    models.TeamA,
		"ghost": models.TeamB,
	})
	require.ErrorIs(t, err, gateway.ErrNotAMember)
	snap := l.Snapshot()
	assert.Equal(t, models.TeamUnassigned, snap.Players[0].Team, "failed split must change nothing")

	require.NoError(t, l.ApplyTeams(map[string]models.Team{
		"p1": models.TeamA,
		"p2": models.TeamB,
	}))
	snap = l.Snapshot()
	assert.Equal(t, models.TeamA, snap.Players[snap.SlotIndex("p1")].Team)
	assert.Equal(t, models.TeamB, snap.Players[snap.SlotIndex("p2")].Team)
}

// startableLobby builds a lobby that satisfies every start precondition,
// optionally requiring an official.
func startableLobby(t *testing.T, requireOfficial bool) *Lobby {
	t.Helper()
	l := New(models.Lobby{
		ID:              uuid.New(),
		HostID:          "host",
		MaxPlayers:      4,
		RequireOfficial: requireOfficial,
		State:           models.LobbyOpen,
	})
	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p2"}, models.TeamB, time.Now()))
	return l
}

func TestStartHappyPath(t *testing.T) {
	l := startableLobby(t, false)
	require.NoError(t, l.Start("host"))
	assert.Equal(t, models.LobbyPlaying, l.Snapshot().State)
}

func TestStartIsHostOnly(t *testing.T) {
	l := startableLobby(t, false)
	assert.ErrorIs(t, l.Start("p1"), gateway.ErrNotHost)
}

func TestStartWithOneTeamFails(t *testing.T) {
	l := testLobby(4)
	require.NoError(t, l.Join(models.Player{ID: "p1"}, models.TeamA, time.Now()))
	require.NoError(t, l.Join(models.Player{ID: "p2"}, models.TeamA, time.Now()))

	assert.ErrorIs(t, l.Start("host"), gateway.ErrTeamsIncomplete)
	assert.Equal(t, models.LobbyOpen, l.Snapshot().State)
}

func TestStartRequiresConfirmedOfficial(t *testing.T) {
	l := startableLobby(t, true)
	require.NoError(t, l.JoinAsOfficial(models.Player{ID: "ref"}, models.RolePrincipal))

	assert.ErrorIs(t, l.Start("host"), gateway.ErrOfficialRequired,
		"an unconfirmed official must not satisfy the precondition")

	require.NoError(t, l.ConfirmCheckIn("ref"))
	assert.NoError(t, l.Start("host"))
}

func TestStartWhilePlayingFails(t *testing.T) {
	l := startableLobby(t, false)
	require.NoError(t, l.Start("host"))
	assert.ErrorIs(t, l.Start("host"), gateway.ErrInvalidState)
}

func TestAttachResultFinishes(t *testing.T) {
	l := startableLobby(t, false)
	require.NoError(t, l.Start("host"))

	require.NoError(t, l.AttachResult(models.MatchResult{ScoreA: 3, ScoreB: 1, SubmittedBy: "host"}))
	snap := l.Snapshot()
	assert.Equal(t, models.LobbyFinished, snap.State)
	require.NotNil(t, snap.Result)
	assert.Equal(t, models.TeamA, snap.Result.Winner())
}

func TestAttachResultRequiresPlaying(t *testing.T) {
	l := testLobby(4)
	assert.ErrorIs(t, l.AttachResult(models.MatchResult{}), gateway.ErrInvalidState)
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	l := startableLobby(t, false)
	require.NoError(t, l.Cancel())
	assert.Equal(t, models.LobbyCancelled, l.Snapshot().State)

	// Terminal states refuse further transitions.
	assert.ErrorIs(t, l.Cancel(), gateway.ErrInvalidState)

	finished := startableLobby(t, false)
	require.NoError(t, finished.Start("host"))
	require.NoError(t, finished.AttachResult(models.MatchResult{ScoreA: 1}))
	assert.ErrorIs(t, finished.Cancel(), gateway.ErrInvalidState)
}

func TestJoinTerminalLobbyFails(t *testing.T) {
	l := startableLobby(t, false)
	require.NoError(t, l.Cancel())
	assert.ErrorIs(t, l.Join(models.Player{ID: "p9"}, models.TeamA, time.Now()), gateway.ErrInvalidState)
}
