package lobby

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/models"
)

func pollerFixture(t *testing.T) (*Poller, *Manager, *fakeGateway, models.Lobby) {
	t.Helper()
	gw := newFakeGateway(models.Lobby{})
	store := NewStore()
	mgr := NewManager(gw, store)
	created, err := mgr.Create(context.Background(), "host", gateway.CreateLobbyRequest{
		Title:      "evening run",
		MaxPlayers: 4,
	})
	require.NoError(t, err)
	return NewPoller(mgr, store, time.Minute), mgr, gw, created
}

func TestRefreshNowAdoptsRemoteChanges(t *testing.T) {
	poller, mgr, gw, created := pollerFixture(t)

	// Another client joins at the authority; we only see it after a refresh.
	require.NoError(t, gw.authoritative.Join(models.Player{ID: "stranger"}, models.TeamB, time.Now()))
	before, _ := mgr.Lookup(created.ID)
	assert.Equal(t, 1, len(before.Players))

	out, err := poller.RefreshNow(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, len(out.Players))

	after, _ := mgr.Lookup(created.ID)
	assert.Equal(t, 2, len(after.Players))
}

func TestRefreshNowSurfacesGatewayFailure(t *testing.T) {
	poller, mgr, gw, created := pollerFixture(t)

	gw.forcedErr = gateway.ErrGatewayUnavailable
	_, err := poller.RefreshNow(context.Background(), created.ID)
	require.ErrorIs(t, err, gateway.ErrGatewayUnavailable)

	// The stale view survives until a refresh succeeds.
	snap, ok := mgr.Lookup(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, snap)
}

func TestRefreshNowUntrackedLobby(t *testing.T) {
	poller, _, _, _ := pollerFixture(t)

	_, err := poller.RefreshNow(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gateway.ErrNotAMember)
}
