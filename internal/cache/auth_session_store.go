package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// AuthSessionStore holds one Redis record per live login session, keyed by
// the JWT token ID. A token whose record is gone (logout or TTL expiry) no
// longer authenticates, even if the signature still verifies.
type AuthSessionStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewAuthSessionStore(client *redisv9.Client, ttl time.Duration) *AuthSessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &AuthSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *AuthSessionStore) Put(ctx context.Context, tokenID string, userID uint) error {
	key := s.key(tokenID)
	if err := s.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set auth session failed: %w", err)
	}
	return nil
}

// Get returns the owning user id and whether the session is still live.
func (s *AuthSessionStore) Get(ctx context.Context, tokenID string) (uint, bool, error) {
	raw, err := s.client.Get(ctx, s.key(tokenID)).Result()
	if err == redisv9.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get auth session failed: %w", err)
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse auth session payload failed: %w", err)
	}
	return uint(userID), true, nil
}

func (s *AuthSessionStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("redis delete auth session failed: %w", err)
	}
	return nil
}

func (s *AuthSessionStore) key(tokenID string) string {
	return fmt.Sprintf("auth:session:%s", tokenID)
}
