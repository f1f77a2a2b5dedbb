package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/domain"
)

type learnerStates interface {
	ListLearnerIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, learnerID uuid.UUID, filter blockstate.Filter) ([]domain.BlockState, error)
	ScheduleRetentionProbes(ctx context.Context, cutoff, probeAt time.Time) (int64, error)
}

type attemptCounter interface {
	CountForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) (int, error)
	ListItemIDsForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) ([]uuid.UUID, error)
}

type poolWarmer interface {
	Generate(ctx context.Context, blockID string, qtype domain.QuestionType, excludeItemIDs []uuid.UUID) (domain.VerificationItem, error)
}

// Recomputer runs the nightly maintenance pass: it schedules retention
// probes for long-mastered blocks and pre-generates items for tomorrow's
// due reviews so morning sessions are served from the pool.
type Recomputer struct {
	states      learnerStates
	attempts    attemptCounter
	generator   poolWarmer
	probeAfter  time.Duration
	warmPerUser int
	parallelism int
	log         *slog.Logger
}

// NewRecomputer creates a Recomputer. warmPerUser bounds the number of due
// blocks warmed per learner and normally equals the daily cap.
func NewRecomputer(
	states learnerStates,
	attempts attemptCounter,
	generator poolWarmer,
	scheduleCfg config.ScheduleConfig,
	workerCfg config.WorkerConfig,
	warmPerUser int,
	logger *slog.Logger,
) *Recomputer {
	parallelism := workerCfg.PoolSize
	if parallelism < 1 {
		parallelism = 1
	}
	return &Recomputer{
		states:      states,
		attempts:    attempts,
		generator:   generator,
		probeAfter:  time.Duration(scheduleCfg.RetentionProbeDays) * 24 * time.Hour,
		warmPerUser: warmPerUser,
		parallelism: parallelism,
		log:         logger.With("worker", "recompute"),
	}
}

// Recompute runs one nightly pass.
func (r *Recomputer) Recompute(ctx context.Context) error {
	now := time.Now()

	scheduled, err := r.states.ScheduleRetentionProbes(ctx, now.Add(-r.probeAfter), now)
	if err != nil {
		return err
	}
	if scheduled > 0 {
		r.log.InfoContext(ctx, "retention probes scheduled", slog.Int64("count", scheduled))
	}

	learnerIDs, err := r.states.ListLearnerIDs(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for _, learnerID := range learnerIDs {
		learnerID := learnerID
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			r.warmLearner(gctx, learnerID, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.log.InfoContext(ctx, "nightly recompute finished",
		slog.Int("learners", len(learnerIDs)))
	return nil
}

// warmLearner pre-generates one item per block due within the next day.
// Failures are logged and skipped: the session path has its own fallbacks.
func (r *Recomputer) warmLearner(ctx context.Context, learnerID uuid.UUID, now time.Time) {
	horizon := now.Add(24 * time.Hour)
	due, err := r.states.List(ctx, learnerID, blockstate.Filter{
		Statuses: []domain.BlockStatus{
			domain.BlockStatusLearning,
			domain.BlockStatusReviewing,
			domain.BlockStatusLapsed,
			domain.BlockStatusMastered,
		},
		DueBefore: &horizon,
		Limit:     r.warmPerUser,
	})
	if err != nil {
		r.log.WarnContext(ctx, "due list failed",
			slog.String("learner_id", learnerID.String()),
			slog.String("error", err.Error()))
		return
	}

	for _, st := range due {
		count, err := r.attempts.CountForBlock(ctx, learnerID, st.BlockID)
		if err != nil {
			r.log.WarnContext(ctx, "attempt count failed",
				slog.String("block_id", st.BlockID),
				slog.String("error", err.Error()))
			continue
		}
		answered, err := r.attempts.ListItemIDsForBlock(ctx, learnerID, st.BlockID)
		if err != nil {
			r.log.WarnContext(ctx, "answered-item list failed",
				slog.String("block_id", st.BlockID),
				slog.String("error", err.Error()))
			continue
		}
		qtype := domain.RotatedQuestionType(count)
		if _, err := r.generator.Generate(ctx, st.BlockID, qtype, answered); err != nil {
			r.log.WarnContext(ctx, "pool warm failed",
				slog.String("block_id", st.BlockID),
				slog.String("error", err.Error()))
		}
	}
}
