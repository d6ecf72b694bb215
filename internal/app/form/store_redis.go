package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

const redisKeyPrefix = "resultdesk:form:"

// RedisStore shares open forms between server instances
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A non-positive ttl keeps forms forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) ttlOrNone() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return s.ttl
}

func (s *RedisStore) Save(ctx context.Context, id string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode form state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), payload, s.ttlOrNone()).Err(); err != nil {
		return fmt.Errorf("failed to save form %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (State, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, apperrors.ErrFormNotFound
		}
		return State{}, fmt.Errorf("failed to load form %s: %w", id, err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode form state: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key(id), s.ttl).Err(); err != nil {
			return State{}, fmt.Errorf("failed to refresh form %s: %w", id, err)
		}
	}
	return state, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete form %s: %w", id, err)
	}
	return nil
}
