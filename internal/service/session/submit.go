package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lexigraph/engine/internal/domain"
	"github.com/lexigraph/engine/internal/service/guard"
)

// SubmitAnswer scores one answered item and applies the full pipeline:
// guard verdict, scheduling transition, reward delta, outbox events. All
// writes happen in one transaction. The (learner, item) pair is the
// idempotency key: a duplicate submission replays the stored result instead
// of double-applying the transition.
func (s *Service) SubmitAnswer(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	if err := in.validate(); err != nil {
		return SubmitResult{}, err
	}

	// Fast path for network retries: the first submission stored its result.
	var stored SubmitResult
	err := s.attempts.GetResult(ctx, in.LearnerID, in.ItemID, &stored)
	if err == nil {
		stored.Replayed = true
		return stored, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return SubmitResult{}, fmt.Errorf("look up prior attempt: %w", err)
	}

	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("load item: %w", err)
	}

	now := time.Now().UTC()

	count, err := s.attempts.CountForBlock(ctx, in.LearnerID, item.BlockID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("count attempts: %w", err)
	}

	attempt := domain.VerificationAttempt{
		LearnerID:           in.LearnerID,
		BlockID:             item.BlockID,
		ItemID:              in.ItemID,
		SelectedOptionIndex: in.SelectedOptionIndex,
		Grade:               item.GradeFor(in.SelectedOptionIndex),
		ResponseTimeMs:      in.ResponseTimeMs,
		AttemptNumber:       count + 1,
	}

	decision, err := s.guard.Validate(ctx, attempt, now)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("guard: %w", err)
	}
	attempt.Verdict = decision.Verdict

	if decision.Verdict == domain.VerdictReject {
		return s.reject(ctx, attempt, decision)
	}
	if decision.Verdict == domain.VerdictAcceptZeroed {
		attempt.Grade = 0
	}

	result, err := s.applyAndPersist(ctx, attempt, decision, now)
	if err != nil && errors.Is(err, domain.ErrConflict) {
		// Lost an optimistic-versioning race; the state has moved underneath
		// us. Recompute once from the fresh row.
		s.log.WarnContext(ctx, "state version conflict, retrying once",
			slog.String("learner_id", in.LearnerID.String()),
			slog.String("block_id", item.BlockID))
		result, err = s.applyAndPersist(ctx, attempt, decision, now)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent duplicate won the insert; serve its result.
			var prior SubmitResult
			if getErr := s.attempts.GetResult(ctx, in.LearnerID, in.ItemID, &prior); getErr != nil {
				return SubmitResult{}, fmt.Errorf("load concurrent result: %w", getErr)
			}
			prior.Replayed = true
			return prior, nil
		}
		return SubmitResult{}, err
	}

	return result, nil
}

// applyAndPersist runs the scheduling transition and commits attempt, state,
// and events atomically.
func (s *Service) applyAndPersist(ctx context.Context, attempt domain.VerificationAttempt, decision guard.Decision, now time.Time) (SubmitResult, error) {
	state, err := s.states.Get(ctx, attempt.LearnerID, attempt.BlockID)
	created := false
	if errors.Is(err, domain.ErrNotFound) {
		state = domain.NewBlockState(attempt.LearnerID, attempt.BlockID, now)
		created = true
	} else if err != nil {
		return SubmitResult{}, fmt.Errorf("load block state: %w", err)
	}

	newState, delta, events, err := s.scheduler.Apply(ctx, state, attempt.Grade, now)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("apply schedule: %w", err)
	}

	if decision.Verdict == domain.VerdictFlag {
		events = append(events, domain.NewGuardEvent(domain.EventTypeGuardFlag,
			attempt.LearnerID, attempt.BlockID, decision.Reason, attempt.ResponseTimeMs))
	}

	result := SubmitResult{
		Verdict: decision.Verdict,
		Grade:   attempt.Grade,
		XPDelta: s.xpDelta(ctx, attempt.BlockID, attempt.Grade),
		Delta:   delta,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.attempts.Create(ctx, attempt, result); err != nil {
			return err
		}
		if created {
			if _, err := s.states.Create(ctx, newState); err != nil {
				return err
			}
		} else {
			if _, err := s.states.Update(ctx, newState); err != nil {
				return err
			}
		}
		if len(events) > 0 {
			if err := s.outbox.Append(ctx, events...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	return result, nil
}

// reject logs the attempt for abuse analysis without advancing any state.
// The rejection is an outcome, not an error.
func (s *Service) reject(ctx context.Context, attempt domain.VerificationAttempt, decision guard.Decision) (SubmitResult, error) {
	s.log.WarnContext(ctx, "attempt rejected",
		slog.String("learner_id", attempt.LearnerID.String()),
		slog.String("block_id", attempt.BlockID),
		slog.String("reason", decision.Reason),
	)

	event := domain.NewGuardEvent(domain.EventTypeGuardReject,
		attempt.LearnerID, attempt.BlockID, decision.Reason, attempt.ResponseTimeMs)
	if err := s.outbox.Append(ctx, event); err != nil {
		return SubmitResult{}, fmt.Errorf("append reject event: %w", err)
	}

	return SubmitResult{Verdict: domain.VerdictReject}, nil
}

// xpDelta computes the reward for a graded attempt from the block's base
// value. A graph outage costs the learner the reward for this attempt but
// never blocks the submission.
func (s *Service) xpDelta(ctx context.Context, blockID string, grade float64) int {
	if grade <= 0 {
		return 0
	}
	block, err := s.graph.GetBlock(ctx, blockID)
	if err != nil {
		s.log.WarnContext(ctx, "base value unavailable, awarding no xp",
			slog.String("block_id", blockID), slog.Any("error", err))
		return 0
	}
	return int(math.Round(float64(block.BaseValue) * grade))
}
