package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const contextKey = "knowledge:context"

type contextEntry struct {
	Block string `json:"block"`
	Docs  int    `json:"docs"`
}

// ContextCache keeps the assembled knowledge context block in Redis so that
// every chat turn does not re-read the document table. Adding a document
// invalidates the entry.
type ContextCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewContextCache(client *redisv9.Client, ttl time.Duration) *ContextCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ContextCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ContextCache) Get(ctx context.Context) (string, int, bool, error) {
	raw, err := c.client.Get(ctx, contextKey).Result()
	if err == redisv9.Nil {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, fmt.Errorf("redis get knowledge context failed: %w", err)
	}

	var entry contextEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", 0, false, fmt.Errorf("unmarshal cached knowledge context failed: %w", err)
	}
	return entry.Block, entry.Docs, true, nil
}

func (c *ContextCache) Set(ctx context.Context, block string, docs int) error {
	payload, err := json.Marshal(contextEntry{Block: block, Docs: docs})
	if err != nil {
		return fmt.Errorf("marshal knowledge context cache failed: %w", err)
	}
	if err := c.client.Set(ctx, contextKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set knowledge context failed: %w", err)
	}
	return nil
}

func (c *ContextCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, contextKey).Err(); err != nil {
		return fmt.Errorf("redis delete knowledge context failed: %w", err)
	}
	return nil
}
