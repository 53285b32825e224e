// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/courtside-app/courtside/internal/session"
)

// keyPrefix namespaces session cache entries in Redis.
const keyPrefix = "courtside:session:"

// SessionStore is the Redis-backed implementation of session.Store. One
// JSON blob per lobby id; nothing else in this subsystem is durable
// locally.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore wraps an existing Redis client. A zero ttl means entries
// never expire on their own; they are deleted after result submission.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// Connect dials Redis and verifies the connection with a short ping.
func Connect(addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func sessionKey(lobbyID uuid.UUID) string {
	return keyPrefix + lobbyID.String()
}

// Load reads the persisted state for a lobby. A missing key means a fresh
// session. A corrupt payload is discarded and also treated as fresh; losing
// the local tally beats refusing to run.
func (s *SessionStore) Load(ctx context.Context, lobbyID uuid.UUID) (*session.State, error) {
	data, err := s.rdb.Get(ctx, sessionKey(lobbyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", lobbyID, err)
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		log.WithFields(log.Fields{
			"lobby_id": lobbyID,
			"error":    err,
		}).Warn("discarding corrupt session cache entry")
		if delErr := s.rdb.Del(ctx, sessionKey(lobbyID)).Err(); delErr != nil {
			log.WithField("lobby_id", lobbyID).Warnf("failed to delete corrupt entry: %v", delErr)
		}
		return nil, nil
	}
	return &st, nil
}

// Save writes the full state blob for a lobby.
func (s *SessionStore) Save(ctx context.Context, lobbyID uuid.UUID, st session.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", lobbyID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(lobbyID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", lobbyID, err)
	}
	return nil
}

// Delete removes the state blob for a lobby.
func (s *SessionStore) Delete(ctx context.Context, lobbyID uuid.UUID) error {
	if err := s.rdb.Del(ctx, sessionKey(lobbyID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", lobbyID, err)
	}
	return nil
}
