package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-app/courtside/internal/models"
	"github.com/courtside-app/courtside/internal/session"
)

func testStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSessionStore(rdb, time.Hour), mr
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	lobbyID := uuid.New()

	want := session.State{
		Sets: []session.SetRecord{
			{Winner: models.TeamA, ElapsedMs: 60000},
			{Winner: models.TeamB, ElapsedMs: 150000},
		},
		ScoreA:               1,
		ScoreB:               1,
		AccumulatedElapsedMs: 180000,
	}
	require.NoError(t, store.Save(ctx, lobbyID, want))

	got, err := store.Load(ctx, lobbyID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestSessionStoreMissingKeyMeansFresh(t *testing.T) {
	store, _ := testStore(t)

	got, err := store.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreDiscardsCorruptPayload(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()
	lobbyID := uuid.New()

	require.NoError(t, mr.Set(sessionKey(lobbyID), "{not json"))

	got, err := store.Load(ctx, lobbyID)
	require.NoError(t, err, "corrupt cache must be recovered locally, not propagated")
	assert.Nil(t, got)

	// The corrupt entry is gone, so the next load is a clean miss too.
	assert.False(t, mr.Exists(sessionKey(lobbyID)))
}

func TestSessionStoreDelete(t *testing.T) {
	store, mr := testStore(t)
	ctx := context.Background()
	lobbyID := uuid.New()

	require.NoError(t, store.Save(ctx, lobbyID, session.State{ScoreA: 2}))
	require.NoError(t, store.Delete(ctx, lobbyID))
	assert.False(t, mr.Exists(sessionKey(lobbyID)))
}
