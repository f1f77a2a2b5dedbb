package worker

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/domain"
)

type pendingEvents interface {
	ListPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkDispatched(ctx context.Context, ids []uuid.UUID) error
}

type publisher interface {
	Publish(ctx context.Context, event domain.OutboxEvent) error
}

// Dispatcher drains the outbox: it polls undelivered events, publishes them
// to the event channel, and marks the published ones dispatched. A publish
// failure stops the batch; the remaining events are retried next tick, so
// delivery is at-least-once and in creation order.
type Dispatcher struct {
	outbox pendingEvents
	sink   publisher
	batch  int
	log    *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(outbox pendingEvents, sink publisher, batch int, logger *slog.Logger) *Dispatcher {
	if batch <= 0 {
		batch = 100
	}
	return &Dispatcher{
		outbox: outbox,
		sink:   sink,
		batch:  batch,
		log:    logger.With("worker", "dispatcher"),
	}
}

// Dispatch runs one drain cycle and returns the number of events delivered.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	events, err := d.outbox.ListPending(ctx, d.batch)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	published := make([]uuid.UUID, 0, len(events))
	for _, ev := range events {
		if err := d.sink.Publish(ctx, ev); err != nil {
			d.log.WarnContext(ctx, "publish failed, batch will retry",
				slog.String("event_id", ev.ID.String()),
				slog.String("error", err.Error()))
			break
		}
		published = append(published, ev.ID)
	}

	if len(published) == 0 {
		return 0, nil
	}

	if err := d.outbox.MarkDispatched(ctx, published); err != nil {
		// Already published; redelivery next tick is acceptable since
		// consumers deduplicate on event ID.
		return len(published), err
	}

	d.log.InfoContext(ctx, "events dispatched", slog.Int("count", len(published)))
	return len(published), nil
}
