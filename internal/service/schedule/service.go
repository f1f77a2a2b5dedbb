// Package schedule is the scheduling core: a per-(learner, block) state
// machine that ingests verification outcomes and computes the next state,
// interval, and confidence. The transition itself is a pure function
// (Advance); Service wraps it with the attempt-history lookups and event
// construction the transaction needs.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/domain"
)

type lapseCounter interface {
	CountLapsesSince(ctx context.Context, learnerID uuid.UUID, blockID string, since time.Time, passThreshold float64) (int, error)
}

// Service applies verification outcomes to block states.
type Service struct {
	strategy      Strategy
	params        Params
	fatigueWindow time.Duration
	lapses        lapseCounter
	log           *slog.Logger
}

// New creates the scheduling service from config.
func New(cfg config.ScheduleConfig, lapses lapseCounter, logger *slog.Logger) (*Service, error) {
	strategy, err := NewStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	return &Service{
		strategy: strategy,
		params: Params{
			PassThreshold:      cfg.PassThreshold,
			EaseBonusThreshold: cfg.EaseBonusThreshold,
			Progression:        cfg.Progression,
			ImmediateCheckSize: cfg.ImmediateCheckSize,
			ImmediateCheckMean: cfg.ImmediateCheckMean,
			FatigueLapseLimit:  cfg.FatigueLapseLimit,
			RetentionProbeDays: cfg.RetentionProbeDays,
		},
		fatigueWindow: time.Duration(cfg.FatigueWindowDays) * 24 * time.Hour,
		lapses:        lapses,
		log:           logger.With("service", "schedule"),
	}, nil
}

// Params exposes the parsed scheduling constants to collaborators (the
// session orchestrator shares the pass threshold).
func (s *Service) Params() Params {
	return s.params
}

// Apply advances one block state by one graded outcome and returns the new
// state, the delta for the caller's response, and the outbox events the
// transition produced. The caller persists all three in one transaction.
func (s *Service) Apply(ctx context.Context, state domain.BlockState, grade float64, now time.Time) (domain.BlockState, domain.StateDelta, []domain.OutboxEvent, error) {
	recentLapses, err := s.lapses.CountLapsesSince(ctx, state.LearnerID, state.BlockID,
		now.Add(-s.fatigueWindow), s.params.PassThreshold)
	if err != nil {
		return domain.BlockState{}, domain.StateDelta{}, nil, fmt.Errorf("count recent lapses: %w", err)
	}

	out := s.strategy.Advance(AdvanceInput{
		State:        state,
		Grade:        grade,
		Now:          now,
		RecentLapses: recentLapses,
		Params:       s.params,
	})

	var events []domain.OutboxEvent
	if out.Mastered {
		events = append(events, domain.NewMasteryEvent(state.LearnerID, state.BlockID,
			out.State.Confidence(), out.State.ConsecutiveCorrect))
		s.log.InfoContext(ctx, "block mastered",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("block_id", state.BlockID),
			slog.Float64("confidence", out.State.Confidence()),
		)
	}
	if out.Lapsed {
		events = append(events, domain.NewLapseEvent(state.LearnerID, state.BlockID,
			out.State.LapseCount, out.FromMastered))
		s.log.InfoContext(ctx, "block lapsed",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("block_id", state.BlockID),
			slog.Bool("from_mastered", out.FromMastered),
			slog.Int("lapse_count", out.State.LapseCount),
		)
	}
	if out.FatigueActive {
		// Reported, never retried automatically.
		s.log.WarnContext(ctx, "fatigue guard withheld ease growth",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("block_id", state.BlockID),
			slog.Int("recent_lapses", recentLapses),
		)
	}

	delta := domain.StateDelta{
		BlockID:            state.BlockID,
		PrevStatus:         state.Status,
		NewStatus:          out.State.Status,
		EaseFactor:         out.State.EaseFactor,
		IntervalDays:       out.State.IntervalDays,
		ConsecutiveCorrect: out.State.ConsecutiveCorrect,
		LapseCount:         out.State.LapseCount,
		NextReviewAt:       out.State.NextReviewAt,
		ConfidenceScore:    out.State.Confidence(),
	}

	return out.State, delta, events, nil
}
