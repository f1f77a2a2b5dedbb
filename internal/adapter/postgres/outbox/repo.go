// Package outbox implements the transactional event outbox. Events are
// inserted in the same transaction as the state change they describe and
// dispatched asynchronously by the worker.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexigraph/engine/internal/adapter/postgres"
	"github.com/lexigraph/engine/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides outbox persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new outbox repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Append inserts events. Intended to run inside the caller's transaction.
func (r *Repo) Append(ctx context.Context, events ...domain.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := qb.Insert("outbox_events").
		Columns("id", "event_type", "learner_id", "block_id", "payload", "created_at")

	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, ev := range events {
		payloadJSON, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		q = q.Values(ev.ID, ev.Type, ev.LearnerID, ev.BlockID, payloadJSON, now)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build outbox insert: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "outbox_event", "batch")
	}

	return nil
}

// ListPending returns undispatched events, oldest first.
func (r *Repo) ListPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("id", "event_type", "learner_id", "block_id", "payload", "created_at").
		From("outbox_events").
		Where(sq.Eq{"dispatched_at": nil}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var (
			ev    domain.OutboxEvent
			etype string
			raw   []byte
		)
		if err := rows.Scan(&ev.ID, &etype, &ev.LearnerID, &ev.BlockID, &raw, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal(raw, &ev.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal event payload: %w", err)
		}
		ev.Type = domain.EventType(etype)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if events == nil {
		events = []domain.OutboxEvent{}
	}

	return events, nil
}

// MarkDispatched stamps the given events as delivered.
func (r *Repo) MarkDispatched(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update("outbox_events").
		Set("dispatched_at", time.Now().UTC()).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build dispatch update: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("mark events dispatched: %w", err)
	}

	return nil
}
