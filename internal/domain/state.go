package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Bounds and thresholds shared by the scheduling core and its callers.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0
	DefaultEaseFactor = 2.5

	// GuessChance is the probability of guessing a 6-option item correctly.
	GuessChance = 1.0 / 6.0

	// MasteryStreak is the number of distinct-day correct answers required
	// before a block can be considered mastered.
	MasteryStreak = 3

	// MasteryConfidence is the minimum confidence score for the MASTERED
	// transition. With a 6-option item, 3 correct answers give
	// 1 - (1/6)^3 ≈ 0.9954.
	MasteryConfidence = 0.995
)

// BlockState is one row per (learner, block) pair, created on first exposure
// and mutated only by the scheduling core. It is never deleted, only
// transitioned to LAPSED on failed retention checks.
type BlockState struct {
	LearnerID uuid.UUID
	BlockID   string

	Status             BlockStatus
	EaseFactor         float64 // bounded [1.3, 3.0]
	IntervalDays       int
	ConsecutiveCorrect int
	LapseCount         int

	// LearningStep and LearningGradeTotal track progress through the
	// three-item immediate post-exposure check while Status is LEARNING.
	LearningStep       int
	LearningGradeTotal float64

	LastReviewedAt *time.Time
	NextReviewAt   *time.Time
	MasteredAt     *time.Time

	// Version guards optimistic-concurrency writes.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Confidence is the probability that ConsecutiveCorrect successes on a
// 6-option item were not due to chance: 1 - (1/6)^n. It is derived, never
// stored independently of the attempt history.
func (s BlockState) Confidence() float64 {
	return ConfidenceForStreak(s.ConsecutiveCorrect)
}

// ConfidenceForStreak computes 1 - (1/6)^streak.
func ConfidenceForStreak(streak int) float64 {
	if streak <= 0 {
		return 0
	}
	return 1 - math.Pow(GuessChance, float64(streak))
}

// IsDue reports whether the block is scheduled for a check at the given time.
// Blocks without a schedule (UNSEEN, or LEARNING mid-check) are not due.
func (s BlockState) IsDue(now time.Time) bool {
	return s.NextReviewAt != nil && !s.NextReviewAt.After(now)
}

// NewBlockState returns the initial state for a learner's first exposure to
// a block.
func NewBlockState(learnerID uuid.UUID, blockID string, now time.Time) BlockState {
	return BlockState{
		LearnerID:  learnerID,
		BlockID:    blockID,
		Status:     BlockStatusLearning,
		EaseFactor: DefaultEaseFactor,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// StateDelta describes how one verified attempt changed a block's state.
// It is returned synchronously so the caller can render feedback without a
// follow-up query.
type StateDelta struct {
	BlockID    string
	PrevStatus BlockStatus
	NewStatus  BlockStatus

	EaseFactor         float64
	IntervalDays       int
	ConsecutiveCorrect int
	LapseCount         int
	NextReviewAt       *time.Time
	ConfidenceScore    float64
}
