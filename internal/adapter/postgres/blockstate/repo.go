// Package blockstate implements the LearnerBlockState repository using
// PostgreSQL. Writes go through optimistic versioning: every UPDATE carries
// the version the caller read, and a zero-row result maps to domain.ErrConflict.
package blockstate

import (
	"context"
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

const allColumns = `learner_id, block_id, status, ease_factor, interval_days,
consecutive_correct, lapse_count, learning_step, learning_grade_total,
last_reviewed_at, next_review_at, mastered_at, version, created_at, updated_at`

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	Statuses  []domain.BlockStatus
	DueBefore *time.Time
	Limit     int
}

// Repo provides block-state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new block-state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the state row for one (learner, block) pair.
func (r *Repo) Get(ctx context.Context, learnerID uuid.UUID, blockID string) (domain.BlockState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(allColumns).
		From("learner_block_states").
		Where(sq.Eq{"learner_id": learnerID, "block_id": blockID}).
		ToSql()
	if err != nil {
		return domain.BlockState{}, fmt.Errorf("build get query: %w", err)
	}

	state, err := scanState(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.BlockState{}, postgres.MapError(err, "block_state", blockID)
	}

	return state, nil
}

// List returns a learner's state rows matching the filter, ordered by
// next_review_at (nulls last).
func (r *Repo) List(ctx context.Context, learnerID uuid.UUID, filter Filter) ([]domain.BlockState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := qb.Select(allColumns).
		From("learner_block_states").
		Where(sq.Eq{"learner_id": learnerID}).
		OrderBy("next_review_at ASC NULLS LAST", "block_id ASC")

	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.DueBefore != nil {
		q = q.Where(sq.LtOrEq{"next_review_at": *filter.DueBefore})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list block states: %w", err)
	}
	defer rows.Close()

	return scanStates(rows)
}

// CountStartedSince returns how many blocks the learner first encountered at
// or after the given time. The Anti-Gaming Guard uses this for the rolling
// new-block cap.
func (r *Repo) CountStartedSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("count(*)").
		From("learner_block_states").
		Where(sq.Eq{"learner_id": learnerID}).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count started blocks: %w", err)
	}

	return count, nil
}

// CountLapsesSince returns how many failed checks the learner logged for a
// block at or after the given time. The scheduling core's fatigue guard
// disables ease growth past a configured count. The attempt history is the
// authoritative lapse record; state rows only carry the running total.
func (r *Repo) CountLapsesSince(ctx context.Context, learnerID uuid.UUID, blockID string, since time.Time, passThreshold float64) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `
SELECT count(*) FROM verification_attempts
WHERE learner_id = $1 AND block_id = $2 AND grade < $3 AND created_at >= $4`

	var count int
	if err := querier.QueryRow(ctx, sql, learnerID, blockID, passThreshold, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count lapses: %w", err)
	}

	return count, nil
}

// ListLearnerIDs returns the distinct learners that have any state rows.
// Used by the nightly recompute worker to fan out.
func (r *Repo) ListLearnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, `SELECT DISTINCT learner_id FROM learner_block_states`)
	if err != nil {
		return nil, fmt.Errorf("list learner ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan learner id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learner ids: %w", err)
	}

	return ids, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a fresh state row. A duplicate (learner, block) pair
// results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, state domain.BlockState) (domain.BlockState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	state.CreatedAt = now
	state.UpdatedAt = now
	state.Version = 1

	sql, args, err := qb.Insert("learner_block_states").
		Columns("learner_id", "block_id", "status", "ease_factor", "interval_days",
			"consecutive_correct", "lapse_count", "learning_step", "learning_grade_total",
			"last_reviewed_at", "next_review_at", "mastered_at", "version", "created_at", "updated_at").
		Values(state.LearnerID, state.BlockID, state.Status, state.EaseFactor, state.IntervalDays,
			state.ConsecutiveCorrect, state.LapseCount, state.LearningStep, state.LearningGradeTotal,
			state.LastReviewedAt, state.NextReviewAt, state.MasteredAt, state.Version, state.CreatedAt, state.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.BlockState{}, fmt.Errorf("build insert query: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return domain.BlockState{}, postgres.MapError(err, "block_state", state.BlockID)
	}

	return state, nil
}

// Update writes the full SRS state guarded by the version the caller read.
// Returns domain.ErrConflict if another writer got there first.
func (r *Repo) Update(ctx context.Context, state domain.BlockState) (domain.BlockState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	sql, args, err := qb.Update("learner_block_states").
		Set("status", state.Status).
		Set("ease_factor", state.EaseFactor).
		Set("interval_days", state.IntervalDays).
		Set("consecutive_correct", state.ConsecutiveCorrect).
		Set("lapse_count", state.LapseCount).
		Set("learning_step", state.LearningStep).
		Set("learning_grade_total", state.LearningGradeTotal).
		Set("last_reviewed_at", state.LastReviewedAt).
		Set("next_review_at", state.NextReviewAt).
		Set("mastered_at", state.MasteredAt).
		Set("version", state.Version+1).
		Set("updated_at", now).
		Where(sq.Eq{
			"learner_id": state.LearnerID,
			"block_id":   state.BlockID,
			"version":    state.Version,
		}).
		ToSql()
	if err != nil {
		return domain.BlockState{}, fmt.Errorf("build update query: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return domain.BlockState{}, postgres.MapError(err, "block_state", state.BlockID)
	}
	if tag.RowsAffected() == 0 {
		return domain.BlockState{}, fmt.Errorf("block_state %s version %d: %w",
			state.BlockID, state.Version, domain.ErrConflict)
	}

	state.Version++
	state.UpdatedAt = now
	return state, nil
}

// ScheduleRetentionProbes sets next_review_at = probeAt for MASTERED rows
// whose mastery is older than the cutoff and that have no pending schedule.
// Returns the number of rows scheduled.
func (r *Repo) ScheduleRetentionProbes(ctx context.Context, cutoff, probeAt time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `
UPDATE learner_block_states
SET next_review_at = $1, updated_at = now()
WHERE status = 'MASTERED'
  AND mastered_at <= $2
  AND (next_review_at IS NULL OR next_review_at < mastered_at)`

	tag, err := querier.Exec(ctx, sql, probeAt, cutoff)
	if err != nil {
		return 0, fmt.Errorf("schedule retention probes: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanState(row pgx.Row) (domain.BlockState, error) {
	var (
		s      domain.BlockState
		status string
	)
	err := row.Scan(&s.LearnerID, &s.BlockID, &status, &s.EaseFactor, &s.IntervalDays,
		&s.ConsecutiveCorrect, &s.LapseCount, &s.LearningStep, &s.LearningGradeTotal,
		&s.LastReviewedAt, &s.NextReviewAt, &s.MasteredAt, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.BlockState{}, err
	}
	s.Status = domain.BlockStatus(status)
	return s, nil
}

func scanStates(rows pgx.Rows) ([]domain.BlockState, error) {
	var states []domain.BlockState
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block states: %w", err)
	}

	if states == nil {
		states = []domain.BlockState{}
	}

	return states, nil
}
