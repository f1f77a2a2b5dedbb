package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/lexigraph/engine/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// Loader batches concurrent single-block lookups into GetBlocks calls.
// Created per selector run: it caches results for the lifetime of one
// frontier walk, so a block reached through several edges is fetched once.
type Loader struct {
	loader *dataloader.Loader[string, domain.Block]
}

// NewLoader creates a Loader over the given fetcher (usually the Cache).
func NewLoader(fetcher Source) *Loader {
	batchFn := func(ctx context.Context, blockIDs []string) []*dataloader.Result[domain.Block] {
		results := make([]*dataloader.Result[domain.Block], len(blockIDs))

		blocks, err := fetcher.GetBlocks(ctx, blockIDs)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[domain.Block]{Error: err}
			}
			return results
		}

		for i, id := range blockIDs {
			b, ok := blocks[id]
			if !ok {
				results[i] = &dataloader.Result[domain.Block]{
					Error: fmt.Errorf("block %s: %w", id, domain.ErrNotFound),
				}
				continue
			}
			results[i] = &dataloader.Result[domain.Block]{Data: b}
		}

		return results
	}

	return &Loader{
		loader: dataloader.NewBatchedLoader(
			batchFn,
			dataloader.WithWait[string, domain.Block](wait),
			dataloader.WithBatchCapacity[string, domain.Block](maxBatch),
		),
	}
}

// Load returns one block, batched with concurrent Load calls.
func (l *Loader) Load(ctx context.Context, blockID string) (domain.Block, error) {
	return l.loader.Load(ctx, blockID)()
}

// LoadMany returns blocks for all ids that resolve; ids that fail to resolve
// are skipped. The selector treats unreachable neighbors as absent rather
// than failing the whole run.
func (l *Loader) LoadMany(ctx context.Context, blockIDs []string) []domain.Block {
	thunks := make([]func() (domain.Block, error), len(blockIDs))
	for i, id := range blockIDs {
		thunks[i] = l.loader.Load(ctx, id)
	}

	blocks := make([]domain.Block, 0, len(blockIDs))
	for _, thunk := range thunks {
		b, err := thunk()
		if err != nil {
			continue
		}
		blocks = append(blocks, b)
	}

	return blocks
}
