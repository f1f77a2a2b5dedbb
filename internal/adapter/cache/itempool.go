// Package cache holds Redis-backed caches for generated verification items.
// The pool is the first fallback tier when the content provider is degraded;
// Postgres holds the durable second tier.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexigraph/engine/internal/domain"
)

// ItemPool caches generated items per (block, question type).
type ItemPool struct {
	client *redis.Client
	ttl    time.Duration
}

// NewItemPool creates an item pool cache.
func NewItemPool(client *redis.Client, ttl time.Duration) *ItemPool {
	return &ItemPool{client: client, ttl: ttl}
}

func (p *ItemPool) key(blockID string, qtype domain.QuestionType) string {
	return fmt.Sprintf("itempool:%s:%s", blockID, qtype)
}

// Get returns a pooled item for the pair, or domain.ErrNotFound on a miss.
func (p *ItemPool) Get(ctx context.Context, blockID string, qtype domain.QuestionType) (domain.VerificationItem, error) {
	data, err := p.client.Get(ctx, p.key(blockID, qtype)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.VerificationItem{}, fmt.Errorf("item pool %s/%s: %w", blockID, qtype, domain.ErrNotFound)
	}
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("item pool get: %w", err)
	}

	var it domain.VerificationItem
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return domain.VerificationItem{}, fmt.Errorf("item pool decode: %w", err)
	}

	return it, nil
}

// Put stores an item for later fallback use.
func (p *ItemPool) Put(ctx context.Context, it domain.VerificationItem) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("item pool encode: %w", err)
	}
	if err := p.client.Set(ctx, p.key(it.BlockID, it.QuestionType), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("item pool set: %w", err)
	}
	return nil
}
