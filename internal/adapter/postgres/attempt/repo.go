// Package attempt implements the VerificationAttempt repository using
// PostgreSQL. Attempts are append-only; the UNIQUE (learner_id, item_id)
// constraint is the idempotency key, and each row stores the serialized
// submit result so a retried submission can be answered from storage.
package attempt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexigraph/engine/internal/adapter/postgres"
	"github.com/lexigraph/engine/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const allColumns = `id, learner_id, block_id, item_id, selected_option_index,
grade, response_time_ms, attempt_number, verdict, result, created_at`

// Repo provides attempt persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new attempt repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an attempt along with its serialized result. A duplicate
// (learner, item) pair results in domain.ErrAlreadyExists; the caller then
// replays the stored result via GetResult.
func (r *Repo) Create(ctx context.Context, a domain.VerificationAttempt, result any) (domain.VerificationAttempt, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return domain.VerificationAttempt{}, fmt.Errorf("marshal attempt result: %w", err)
	}

	a.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	sql, args, err := qb.Insert("verification_attempts").
		Columns("id", "learner_id", "block_id", "item_id", "selected_option_index",
			"grade", "response_time_ms", "attempt_number", "verdict", "result", "created_at").
		Values(a.ID, a.LearnerID, a.BlockID, a.ItemID, a.SelectedOptionIndex,
			a.Grade, a.ResponseTimeMs, a.AttemptNumber, a.Verdict, resultJSON, a.CreatedAt).
		ToSql()
	if err != nil {
		return domain.VerificationAttempt{}, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return domain.VerificationAttempt{}, postgres.MapError(err, "attempt", a.ItemID.String())
	}

	return a, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetResult loads the stored result for a (learner, item) pair into dst.
// Returns domain.ErrNotFound if no attempt exists.
func (r *Repo) GetResult(ctx context.Context, learnerID, itemID uuid.UUID, dst any) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("result").
		From("verification_attempts").
		Where(sq.Eq{"learner_id": learnerID, "item_id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build result query: %w", err)
	}

	var raw []byte
	if err := querier.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return postgres.MapError(err, "attempt", itemID.String())
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal attempt result: %w", err)
	}

	return nil
}

// CountForBlock returns how many state-advancing attempts exist for a
// (learner, block) pair. Drives question-type rotation.
func (r *Repo) CountForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `
SELECT count(*) FROM verification_attempts
WHERE learner_id = $1 AND block_id = $2 AND verdict != 'REJECT'`

	var count int
	if err := querier.QueryRow(ctx, sql, learnerID, blockID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attempts for block: %w", err)
	}

	return count, nil
}

// ListItemIDsForBlock returns the IDs of every item the learner has already
// answered for a block. Item generation excludes them so the pool never
// re-serves a question the learner has seen.
func (r *Repo) ListItemIDsForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `
SELECT item_id FROM verification_attempts
WHERE learner_id = $1 AND block_id = $2`

	rows, err := querier.Query(ctx, sql, learnerID, blockID)
	if err != nil {
		return nil, fmt.Errorf("list answered items: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRecent returns the learner's newest attempts, most recent first.
// The Anti-Gaming Guard inspects this window for implausible runs.
func (r *Repo) ListRecent(ctx context.Context, learnerID uuid.UUID, limit int) ([]domain.VerificationAttempt, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(allColumns).
		From("verification_attempts").
		Where(sq.Eq{"learner_id": learnerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list recent attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanAttempts(rows pgx.Rows) ([]domain.VerificationAttempt, error) {
	var attempts []domain.VerificationAttempt
	for rows.Next() {
		var (
			a       domain.VerificationAttempt
			verdict string
			raw     []byte
		)
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.BlockID, &a.ItemID, &a.SelectedOptionIndex,
			&a.Grade, &a.ResponseTimeMs, &a.AttemptNumber, &verdict, &raw, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Verdict = domain.Verdict(verdict)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}

	if attempts == nil {
		attempts = []domain.VerificationAttempt{}
	}

	return attempts, nil
}
