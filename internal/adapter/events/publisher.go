// Package events publishes dispatched outbox events to a Redis channel for
// external consumers (reward ledger, audit queue).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lexigraph/engine/internal/domain"
)

// Publisher sends outbox events over Redis pub/sub.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a Publisher on the given channel.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// wireEvent is the published JSON shape. Field names are part of the
// external contract; do not rename.
type wireEvent struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	LearnerID uuid.UUID      `json:"learner_id"`
	BlockID   string         `json:"block_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Publish serializes the event and publishes it. Delivery is at-least-once;
// consumers deduplicate on the event ID.
func (p *Publisher) Publish(ctx context.Context, event domain.OutboxEvent) error {
	data, err := json.Marshal(wireEvent{
		ID:        event.ID,
		Type:      event.Type.String(),
		LearnerID: event.LearnerID,
		BlockID:   event.BlockID,
		Payload:   event.Payload,
		CreatedAt: event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}

	return nil
}
