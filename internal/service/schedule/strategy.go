package schedule

import (
	"fmt"

	"github.com/lexigraph/engine/internal/domain"
	"github.com/lexigraph/engine/internal/service/schedule/fsrs"
)

// Strategy computes one state transition. The deterministic baseline is
// authoritative; alternatives plug in behind the same interface without
// changing callers. No migration between strategies is implied: a learner's
// state rows are only ever advanced by the strategy the deployment runs.
type Strategy interface {
	Name() string
	Advance(in AdvanceInput) AdvanceOutput
}

// NewStrategy builds a strategy by its configured name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "sm2", "":
		return sm2Strategy{}, nil
	case "fsrs":
		return fsrsStrategy{weights: fsrs.DefaultWeights, retention: fsrs.DefaultRetention}, nil
	default:
		return nil, fmt.Errorf("unknown schedule strategy %q: %w", name, domain.ErrValidation)
	}
}

// sm2Strategy is the deterministic baseline.
type sm2Strategy struct{}

func (sm2Strategy) Name() string { return "sm2" }

func (sm2Strategy) Advance(in AdvanceInput) AdvanceOutput {
	return Advance(in)
}

// fsrsStrategy replaces only the review-interval computation with the FSRS
// stability model. The state machine, mastery gate, fatigue guard, and
// immediate check are shared with the baseline: FSRS governs how fast
// intervals grow, not what the states mean.
type fsrsStrategy struct {
	weights   [19]float64
	retention float64
}

func (fsrsStrategy) Name() string { return "fsrs" }

func (f fsrsStrategy) Advance(in AdvanceInput) AdvanceOutput {
	out := Advance(in)

	// Only successful reviews past the fixed progression get FSRS-sized
	// intervals; everything earlier keeps the deterministic ladder so the
	// two strategies agree on young blocks. A cleared NextReviewAt means
	// the block just left the cadence (mastery) and must stay unscheduled.
	if out.Lapsed ||
		out.State.Status == domain.BlockStatusLearning ||
		out.State.NextReviewAt == nil ||
		out.State.ConsecutiveCorrect <= len(in.Params.Progression) {
		return out
	}

	interval := fsrs.ReviewInterval(fsrs.ReviewInput{
		Weights:          f.weights,
		RequestRetention: f.retention,
		PrevIntervalDays: in.State.IntervalDays,
		ElapsedDays:      elapsedDays(in),
		Ease:             in.State.EaseFactor,
		Grade:            in.Grade,
		PassThreshold:    in.Params.PassThreshold,
		BonusThreshold:   in.Params.EaseBonusThreshold,
	})

	out.State.IntervalDays = interval
	next := in.Now.AddDate(0, 0, interval)
	out.State.NextReviewAt = &next

	return out
}

func elapsedDays(in AdvanceInput) int {
	if in.State.LastReviewedAt == nil {
		return 0
	}
	d := int(in.Now.Sub(*in.State.LastReviewedAt).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
