package graph

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexigraph/engine/internal/domain"
)

// Source is anything that resolves blocks: the raw client, the Redis cache
// wrapped around it, or a stub in tests.
type Source interface {
	GetBlock(ctx context.Context, blockID string) (domain.Block, error)
	GetBlocks(ctx context.Context, blockIDs []string) (map[string]domain.Block, error)
	ListLevelBand(ctx context.Context, minTier, maxTier, limit int) ([]domain.Block, error)
}

// Cache is a Redis read-through wrapper over the graph client. Blocks change
// rarely, so cache errors degrade to upstream fetches and are only logged.
type Cache struct {
	inner  Source
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewCache wraps fetcher with a Redis read-through cache.
func NewCache(inner Source, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		log:    logger.With("adapter", "graph_cache"),
	}
}

func blockKey(blockID string) string {
	return "graph:block:" + blockID
}

// GetBlock returns the block from cache, falling through to the graph.
func (c *Cache) GetBlock(ctx context.Context, blockID string) (domain.Block, error) {
	if b, ok := c.cached(ctx, blockID); ok {
		return b, nil
	}

	b, err := c.inner.GetBlock(ctx, blockID)
	if err != nil {
		return domain.Block{}, err
	}

	c.store(ctx, b)
	return b, nil
}

// GetBlocks resolves as many ids as possible from cache and fetches the rest
// in a single upstream batch.
func (c *Cache) GetBlocks(ctx context.Context, blockIDs []string) (map[string]domain.Block, error) {
	blocks := make(map[string]domain.Block, len(blockIDs))

	var misses []string
	for _, id := range blockIDs {
		if b, ok := c.cached(ctx, id); ok {
			blocks[id] = b
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) == 0 {
		return blocks, nil
	}

	fetched, err := c.inner.GetBlocks(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, b := range fetched {
		blocks[id] = b
		c.store(ctx, b)
	}

	return blocks, nil
}

// ListLevelBand is not cached: the band query is already one round trip and
// its result depends on three parameters, so the hit rate would be poor.
func (c *Cache) ListLevelBand(ctx context.Context, minTier, maxTier, limit int) ([]domain.Block, error) {
	return c.inner.ListLevelBand(ctx, minTier, maxTier, limit)
}

func (c *Cache) cached(ctx context.Context, blockID string) (domain.Block, bool) {
	data, err := c.client.Get(ctx, blockKey(blockID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "cache read failed",
				slog.String("block_id", blockID), slog.String("error", err.Error()))
		}
		return domain.Block{}, false
	}

	var b domain.Block
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		c.log.WarnContext(ctx, "cache entry corrupt", slog.String("block_id", blockID))
		return domain.Block{}, false
	}

	return b, true
}

func (c *Cache) store(ctx context.Context, b domain.Block) {
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, blockKey(b.ID), data, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "cache write failed",
			slog.String("block_id", b.ID), slog.String("error", err.Error()))
	}
}

var _ Source = (*Cache)(nil)
