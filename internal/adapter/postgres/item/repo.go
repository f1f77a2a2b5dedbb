// Package item implements the VerificationItem repository using PostgreSQL.
// The table doubles as the durable fallback pool: when the content provider
// is unavailable, previously generated items are served from here.
package item

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

const allColumns = "id, block_id, question_type, prompt, options, correct_index, created_at"

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create persists a generated item for reuse.
func (r *Repo) Create(ctx context.Context, it domain.VerificationItem) (domain.VerificationItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	optionsJSON, err := json.Marshal(it.Options)
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("marshal options: %w", err)
	}

	it.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}

	sql, args, err := qb.Insert("verification_items").
		Columns("id", "block_id", "question_type", "prompt", "options", "correct_index", "created_at").
		Values(it.ID, it.BlockID, it.QuestionType, it.Prompt, optionsJSON, it.CorrectIndex, it.CreatedAt).
		ToSql()
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return domain.VerificationItem{}, postgres.MapError(err, "item", it.ID.String())
	}

	return it, nil
}

// GetByID returns one item by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.VerificationItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(allColumns).
		From("verification_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("build get query: %w", err)
	}

	it, err := scanItem(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.VerificationItem{}, postgres.MapError(err, "item", id.String())
	}

	return it, nil
}

// GetPooled returns a cached item for the block and question type, skipping
// the given item ids (already served to this learner). Returns
// domain.ErrNotFound when the pool has nothing left.
func (r *Repo) GetPooled(ctx context.Context, blockID string, qtype domain.QuestionType, excludeIDs []uuid.UUID) (domain.VerificationItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := qb.Select(allColumns).
		From("verification_items").
		Where(sq.Eq{"block_id": blockID, "question_type": qtype}).
		OrderBy("created_at DESC").
		Limit(1)

	if len(excludeIDs) > 0 {
		q = q.Where(sq.NotEq{"id": excludeIDs})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("build pool query: %w", err)
	}

	it, err := scanItem(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.VerificationItem{}, postgres.MapError(err, "item_pool", blockID)
	}

	return it, nil
}

func scanItem(row pgx.Row) (domain.VerificationItem, error) {
	var (
		it    domain.VerificationItem
		qtype string
		raw   []byte
	)
	if err := row.Scan(&it.ID, &it.BlockID, &qtype, &it.Prompt, &raw, &it.CorrectIndex, &it.CreatedAt); err != nil {
		return domain.VerificationItem{}, err
	}
	if err := json.Unmarshal(raw, &it.Options); err != nil {
		return domain.VerificationItem{}, fmt.Errorf("unmarshal options: %w", err)
	}
	it.QuestionType = domain.QuestionType(qtype)
	return it, nil
}
