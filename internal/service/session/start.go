package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	"github.com/lexigraph/engine/internal/domain"
)

// StartSession builds today's plan for the learner: due reviews first, then
// new exposures up to the day cap. Upstream degradation yields fewer items,
// never an error for the whole session; only learner-state reads are fatal.
func (s *Service) StartSession(ctx context.Context, learnerID uuid.UUID, mode domain.SessionMode) (SessionPlan, error) {
	if mode == "" {
		mode = domain.SessionModeGuided
	}
	if !mode.IsValid() {
		return SessionPlan{}, domain.NewValidationError("mode", fmt.Sprintf("unknown session mode %q", mode))
	}

	now := time.Now().UTC()

	due, err := s.states.List(ctx, learnerID, blockstate.Filter{
		Statuses: []domain.BlockStatus{
			domain.BlockStatusLearning,
			domain.BlockStatusReviewing,
			domain.BlockStatusLapsed,
			domain.BlockStatusMastered,
		},
		DueBefore: &now,
		Limit:     s.dayCap,
	})
	if err != nil {
		return SessionPlan{}, fmt.Errorf("list due states: %w", err)
	}

	plan := SessionPlan{LearnerID: learnerID, Mode: mode, CreatedAt: now}

	type slot struct {
		blockID string
		review  bool
	}
	slots := make([]slot, 0, s.dayCap)
	seen := make(map[string]bool, s.dayCap)
	for _, st := range due {
		slots = append(slots, slot{blockID: st.BlockID, review: true})
		seen[st.BlockID] = true
	}

	if remaining := s.dayCap - len(slots); remaining > 0 {
		picks, err := s.pickNew(ctx, learnerID, mode, remaining)
		if err != nil {
			// New-block selection rides on the Knowledge Graph; a review-only
			// session is better than no session.
			s.log.WarnContext(ctx, "new-block selection failed, serving reviews only",
				slog.String("learner_id", learnerID.String()),
				slog.Any("error", err))
			plan.Degraded = true
		}
		for _, id := range picks {
			if len(slots) >= s.dayCap {
				break
			}
			if !seen[id] {
				slots = append(slots, slot{blockID: id})
				seen[id] = true
			}
		}
	}

	items := make([]*PlanItem, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, sl := range slots {
		i, sl := i, sl
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			it, err := s.generateFor(gctx, learnerID, sl.blockID)
			if err != nil {
				// A block we cannot build an item for is dropped, not fatal.
				s.log.WarnContext(gctx, "item generation failed, dropping block",
					slog.String("learner_id", learnerID.String()),
					slog.String("block_id", sl.blockID),
					slog.Any("error", err))
				return nil
			}
			items[i] = &PlanItem{BlockID: sl.blockID, Item: it, Review: sl.review}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Only context cancellation reaches here.
		return SessionPlan{}, err
	}

	for _, it := range items {
		if it == nil {
			plan.Degraded = true
			continue
		}
		plan.Items = append(plan.Items, *it)
	}

	s.log.InfoContext(ctx, "session plan built",
		slog.String("learner_id", learnerID.String()),
		slog.String("mode", mode.String()),
		slog.Int("reviews", len(due)),
		slog.Int("items", len(plan.Items)),
		slog.Bool("degraded", plan.Degraded),
	)

	return plan, nil
}

func (s *Service) pickNew(ctx context.Context, learnerID uuid.UUID, mode domain.SessionMode, limit int) ([]string, error) {
	if mode == domain.SessionModeExplorer {
		return s.picker.SelectExplorer(ctx, learnerID, limit)
	}
	return s.picker.SelectDaily(ctx, learnerID, limit)
}

// generateFor builds one item for the block, rotating the question type by
// how many attempts the learner has already made on it and excluding every
// item the learner has answered. Both are correctness requirements: a
// repeated question, literal or same-typed, would invalidate the
// independent-trials assumption behind the confidence score, and an answered
// item would hit the idempotency key and replay a stale result.
func (s *Service) generateFor(ctx context.Context, learnerID uuid.UUID, blockID string) (domain.VerificationItem, error) {
	count, err := s.attempts.CountForBlock(ctx, learnerID, blockID)
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("count attempts: %w", err)
	}
	answered, err := s.attempts.ListItemIDsForBlock(ctx, learnerID, blockID)
	if err != nil {
		return domain.VerificationItem{}, fmt.Errorf("list answered items: %w", err)
	}
	return s.generator.Generate(ctx, blockID, domain.RotatedQuestionType(count), answered)
}
