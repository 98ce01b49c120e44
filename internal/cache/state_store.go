package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore holds short-lived OAuth state values so the callback can verify
// that the handshake originated here. Each state is single-use.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{client: client, ttl: ttl}
}

func stateKey(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}

func (s *StateStore) Save(ctx context.Context, state string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("state store unavailable")
	}
	return s.client.SetNX(ctx, stateKey(state), "1", s.ttl).Err()
}

// Take consumes the state. It returns false if the state was never saved or
// already used.
func (s *StateStore) Take(ctx context.Context, state string) bool {
	if s == nil || s.client == nil || state == "" {
		return false
	}
	n, err := s.client.Del(ctx, stateKey(state)).Result()
	return err == nil && n > 0
}
