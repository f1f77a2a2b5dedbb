package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/domain"
)

// Decision is the guard's ruling on a single attempt. The verdict tells the
// orchestrator how to proceed; Reason names the policy that fired and goes
// into audit events.
type Decision struct {
	Verdict domain.Verdict
	Reason  string
}

const (
	ReasonSpeedTrap   = "speed_trap"
	ReasonNewBlockCap = "new_block_cap"
	ReasonPerfectRun  = "perfect_run"
)

type attemptLog interface {
	ListRecent(ctx context.Context, learnerID uuid.UUID, limit int) ([]domain.VerificationAttempt, error)
}

type startCounter interface {
	CountStartedSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error)
}

// Service is the anti-gaming policy layer. It inspects each attempt against
// the learner's recent history before the scheduling core sees it.
type Service struct {
	cfg      config.GuardConfig
	dayCap   int
	attempts attemptLog
	starts   startCounter
	log      *slog.Logger
}

func New(cfg config.GuardConfig, dayCap int, attempts attemptLog, starts startCounter, logger *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		dayCap:   dayCap,
		attempts: attempts,
		starts:   starts,
		log:      logger.With(slog.String("service", "guard")),
	}
}

// Validate rules on one attempt. Policies, in order of severity:
// starting more than dayCap new blocks inside the rolling window rejects the
// attempt; an implausibly fast answer is accepted with the grade forced to 0;
// a long run of perfect fast answers is flagged for human audit but still
// processed.
func (s *Service) Validate(ctx context.Context, attempt domain.VerificationAttempt, now time.Time) (Decision, error) {
	if attempt.AttemptNumber == 1 {
		window := time.Duration(s.cfg.NewBlockWindowH) * time.Hour
		started, err := s.starts.CountStartedSince(ctx, attempt.LearnerID, now.Add(-window))
		if err != nil {
			return Decision{}, fmt.Errorf("count started blocks: %w", err)
		}
		if started >= s.dayCap {
			s.log.WarnContext(ctx, "new-block cap hit, rejecting start",
				slog.String("learner_id", attempt.LearnerID.String()),
				slog.String("block_id", attempt.BlockID),
				slog.Int("started", started))
			return Decision{Verdict: domain.VerdictReject, Reason: ReasonNewBlockCap}, nil
		}
	}

	if attempt.ResponseTimeMs < s.cfg.SpeedTrapMs {
		s.log.InfoContext(ctx, "speed trap fired",
			slog.String("learner_id", attempt.LearnerID.String()),
			slog.String("block_id", attempt.BlockID),
			slog.Int("response_time_ms", attempt.ResponseTimeMs))
		return Decision{Verdict: domain.VerdictAcceptZeroed, Reason: ReasonSpeedTrap}, nil
	}

	if s.perfectAndFast(attempt) {
		flagged, err := s.inPerfectRun(ctx, attempt.LearnerID)
		if err != nil {
			// The run check is advisory; a read failure must not block
			// the attempt.
			s.log.WarnContext(ctx, "perfect-run check failed", slog.Any("error", err))
			return Decision{Verdict: domain.VerdictAccept}, nil
		}
		if flagged {
			s.log.WarnContext(ctx, "perfect run flagged for audit",
				slog.String("learner_id", attempt.LearnerID.String()),
				slog.String("block_id", attempt.BlockID))
			return Decision{Verdict: domain.VerdictFlag, Reason: ReasonPerfectRun}, nil
		}
	}

	return Decision{Verdict: domain.VerdictAccept}, nil
}

func (s *Service) perfectAndFast(a domain.VerificationAttempt) bool {
	return a.Grade >= domain.GradeCorrect && a.ResponseTimeMs < s.cfg.FastAnswerMs
}

// inPerfectRun reports whether the current attempt extends a run of at least
// PerfectRunLength consecutive perfect fast answers. The current attempt
// counts as one; the rest come from stored history, newest first.
func (s *Service) inPerfectRun(ctx context.Context, learnerID uuid.UUID) (bool, error) {
	need := s.cfg.PerfectRunLength - 1
	if need <= 0 {
		return true, nil
	}

	recent, err := s.attempts.ListRecent(ctx, learnerID, need)
	if err != nil {
		return false, err
	}
	if len(recent) < need {
		return false, nil
	}
	for _, a := range recent {
		if !s.perfectAndFast(a) {
			return false, nil
		}
	}
	return true, nil
}
