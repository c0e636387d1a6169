package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotStored = errors.New("refresh token not stored")

// RefreshStore keeps the currently honored refresh token per user. Login
// rotates it; a presented refresh token is only accepted while stored.
type RefreshStore interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	Validate(ctx context.Context, userID, token string) error
	Revoke(ctx context.Context, userID string) error
}

type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func key(userID string) string { return fmt.Sprintf("refresh:%s", userID) }

func (s *RedisStore) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(userID), token, ttl).Err()
}

func (s *RedisStore) Validate(ctx context.Context, userID, token string) error {
	stored, err := s.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrTokenNotStored
		}
		return err
	}
	if stored != token {
		return ErrTokenNotStored
	}
	return nil
}

func (s *RedisStore) Revoke(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}

// MemoryStore is an in-process RefreshStore for tests and local runs
// without Redis.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Save(ctx context.Context, userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = token
	return nil
}

func (s *MemoryStore) Validate(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens[userID] != token {
		return ErrTokenNotStored
	}
	return nil
}

func (s *MemoryStore) Revoke(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID)
	return nil
}
