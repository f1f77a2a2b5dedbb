package schedule

import (
	"math"
	"time"

	"github.com/lexigraph/engine/internal/domain"
)

// Params are the tunable scheduling constants. Built once from config and
// passed by value into every Advance call.
type Params struct {
	PassThreshold      float64
	EaseBonusThreshold float64
	Progression        []int // fixed early intervals, e.g. [1, 3, 7]
	ImmediateCheckSize int
	ImmediateCheckMean float64
	FatigueLapseLimit  int
	RetentionProbeDays int
}

// AdvanceInput holds all data needed for one state transition. Pure value,
// no side effects.
type AdvanceInput struct {
	State domain.BlockState
	Grade float64 // partial credit 0.0–1.0 from the item
	Now   time.Time

	// RecentLapses is the learner's lapse count for this block within the
	// trailing fatigue window. The caller reads it from attempt history.
	RecentLapses int

	Params Params
}

// AdvanceOutput is the result of one state transition. Transitions that
// external systems care about are surfaced as flags; the caller turns them
// into outbox events.
type AdvanceOutput struct {
	State domain.BlockState

	Mastered      bool // transitioned into MASTERED this call
	Lapsed        bool // transitioned into LAPSED this call
	FromMastered  bool // the lapse demoted a MASTERED block (retention probe)
	FatigueActive bool // ease growth was withheld by the fatigue guard
}

// Advance is a pure function. No DB, no context, no logger. All decisions
// are deterministic based on input parameters.
func Advance(in AdvanceInput) AdvanceOutput {
	switch in.State.Status {
	case domain.BlockStatusUnseen:
		// First exposure happens at session start, but tolerate a direct
		// attempt on an unseen block.
		in.State.Status = domain.BlockStatusLearning
		return advanceLearning(in)
	case domain.BlockStatusLearning:
		return advanceLearning(in)
	case domain.BlockStatusLapsed:
		return advanceLapsed(in)
	case domain.BlockStatusReviewing, domain.BlockStatusMastered:
		return advanceReview(in)
	default:
		in.State.Status = domain.BlockStatusLearning
		return advanceLearning(in)
	}
}

// advanceLearning accumulates the immediate post-exposure check: a fixed
// number of items answered in-session. The block graduates to REVIEWING when
// enough items pass and the mean grade clears the bar; otherwise the check
// restarts.
func advanceLearning(in AdvanceInput) AdvanceOutput {
	s := in.State
	p := in.Params

	s.LearningStep++
	s.LearningGradeTotal += in.Grade
	if in.Grade >= p.PassThreshold {
		// ConsecutiveCorrect doubles as the pass counter while LEARNING;
		// it is reset on graduation and only then starts counting the
		// distinct-day review streak.
		s.ConsecutiveCorrect++
	}
	now := in.Now
	s.LastReviewedAt = &now

	if s.LearningStep < p.ImmediateCheckSize {
		// Mid-check: stay due so the session serves the next item.
		s.NextReviewAt = &now
		in.State = s
		return AdvanceOutput{State: in.State}
	}

	mean := s.LearningGradeTotal / float64(p.ImmediateCheckSize)
	passes := s.ConsecutiveCorrect
	passed := passes >= p.ImmediateCheckSize-1 && mean >= p.ImmediateCheckMean

	s.LearningStep = 0
	s.LearningGradeTotal = 0
	s.ConsecutiveCorrect = 0

	if !passed {
		// Failed the immediate check: restart it. Not a lapse, the block
		// was never in review.
		s.NextReviewAt = &now
		in.State = s
		return AdvanceOutput{State: in.State}
	}

	s.Status = domain.BlockStatusReviewing
	s.IntervalDays = firstInterval(p.Progression)
	next := now.AddDate(0, 0, s.IntervalDays)
	s.NextReviewAt = &next

	in.State = s
	return AdvanceOutput{State: in.State}
}

// advanceLapsed handles re-exposure of a lapsed block: full reset of
// interval and ease, lapse_count persists, then the attempt counts as the
// first item of a fresh immediate check.
func advanceLapsed(in AdvanceInput) AdvanceOutput {
	s := in.State
	s.Status = domain.BlockStatusLearning
	s.EaseFactor = domain.DefaultEaseFactor
	s.IntervalDays = 0
	s.LearningStep = 0
	s.LearningGradeTotal = 0
	s.ConsecutiveCorrect = 0

	in.State = s
	return advanceLearning(in)
}

func advanceReview(in AdvanceInput) AdvanceOutput {
	s := in.State
	p := in.Params
	now := in.Now

	passed := in.Grade >= p.PassThreshold

	if !passed {
		wasMastered := s.Status == domain.BlockStatusMastered
		if wasMastered && !probeHorizonReached(s.MasteredAt, now, p.RetentionProbeDays) {
			// A failed check inside the probe horizon cannot demote a
			// mastered block. Record the exposure and keep the block out of
			// the review cadence; the nightly job owns the next probe.
			s.LastReviewedAt = &now
			s.NextReviewAt = nil
			in.State = s
			return AdvanceOutput{State: in.State}
		}

		s.EaseFactor = clampEase(s.EaseFactor - 0.2)
		s.IntervalDays = 1
		s.ConsecutiveCorrect = 0
		s.LapseCount++
		s.Status = domain.BlockStatusLapsed
		s.LastReviewedAt = &now
		next := now.AddDate(0, 0, 1)
		s.NextReviewAt = &next

		in.State = s
		return AdvanceOutput{
			State:        in.State,
			Lapsed:       true,
			FromMastered: wasMastered,
		}
	}

	fatigue := in.RecentLapses >= p.FatigueLapseLimit

	if in.Grade >= p.EaseBonusThreshold && !fatigue {
		s.EaseFactor = clampEase(s.EaseFactor + 0.1)
	}

	// Same-calendar-day passes never advance the streak: mastery requires
	// correct answers on distinct days, so a burst of same-session repeats
	// cannot shortcut it.
	if distinctDayFrom(s.LastReviewedAt, now) {
		s.ConsecutiveCorrect++
	}

	if s.ConsecutiveCorrect <= len(p.Progression) {
		idx := s.ConsecutiveCorrect - 1
		if idx < 0 {
			idx = 0
		}
		s.IntervalDays = p.Progression[idx]
	} else {
		s.IntervalDays = int(math.Round(float64(s.IntervalDays) * s.EaseFactor))
	}

	s.LastReviewedAt = &now
	next := now.AddDate(0, 0, s.IntervalDays)
	s.NextReviewAt = &next

	var mastered bool
	if s.Status == domain.BlockStatusReviewing &&
		s.ConsecutiveCorrect >= domain.MasteryStreak &&
		s.Confidence() >= domain.MasteryConfidence {
		s.Status = domain.BlockStatusMastered
		s.MasteredAt = &now
		// Mastery ends the regular review cadence. No next review is
		// scheduled here; the nightly retention job sets the first probe
		// once the horizon has passed.
		s.NextReviewAt = nil
		mastered = true
	}

	in.State = s
	return AdvanceOutput{
		State:         in.State,
		Mastered:      mastered,
		FatigueActive: fatigue,
	}
}

// probeHorizonReached reports whether enough time has passed since mastery
// for a failed check to count as a retention probe. A missing mastery
// timestamp counts as reached so legacy rows are not stuck mastered forever.
func probeHorizonReached(masteredAt *time.Time, now time.Time, probeDays int) bool {
	if masteredAt == nil {
		return true
	}
	return now.Sub(*masteredAt) >= time.Duration(probeDays)*24*time.Hour
}

func firstInterval(progression []int) int {
	if len(progression) == 0 {
		return 1
	}
	return progression[0]
}

func clampEase(ease float64) float64 {
	return math.Min(domain.MaxEaseFactor, math.Max(domain.MinEaseFactor, ease))
}

// distinctDayFrom reports whether now falls on a later UTC calendar day than
// the previous review.
func distinctDayFrom(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	ly, lm, ld := last.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	if ny != ly {
		return ny > ly
	}
	if nm != lm {
		return nm > lm
	}
	return nd > ld
}
