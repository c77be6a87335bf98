// Package tokenstore keeps track of issued access tokens so they can be
// revoked on logout before they expire.
package tokenstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	Register(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

func key(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore stores one key per token with the token's TTL.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Register(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, key(userID, tokenID), "1", ttl).Err()
}

func (s *redisStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return s.client.Del(ctx, key(userID, tokenID)).Err()
}

func (s *redisStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	iter := s.client.Scan(ctx, 0, fmt.Sprintf("access_token:%s:*", userID.String()), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

type memoryStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

// NewMemoryStore is a process-local store used when no Redis is configured.
func NewMemoryStore() Store {
	return &memoryStore{tokens: make(map[string]time.Time), now: time.Now}
}

// Register also drops every expired entry, so tokens that are never
// presented again do not accumulate.
func (s *memoryStore) Register(_ context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, k)
		}
	}
	s.tokens[key(userID, tokenID)] = now.Add(ttl)
	return nil
}

func (s *memoryStore) Exists(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(userID, tokenID)
	exp, ok := s.tokens[k]
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		delete(s.tokens, k)
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Revoke(_ context.Context, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key(userID, tokenID))
	return nil
}

func (s *memoryStore) RevokeAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := fmt.Sprintf("access_token:%s:", userID.String())
	for k := range s.tokens {
		if strings.HasPrefix(k, prefix) {
			delete(s.tokens, k)
		}
	}
	return nil
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
