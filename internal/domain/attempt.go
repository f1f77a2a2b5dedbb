package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationAttempt is an immutable record of one answered item.
// Append-only; it both drives state transitions and serves as the audit
// trail the Anti-Gaming Guard inspects. The (LearnerID, ItemID) pair is the
// idempotency key: a retried submission returns the previously computed
// result instead of double-applying the transition.
type VerificationAttempt struct {
	ID                  uuid.UUID
	LearnerID           uuid.UUID
	BlockID             string
	ItemID              uuid.UUID
	SelectedOptionIndex int
	Grade               float64 // derived from option grading, after guard adjustments
	ResponseTimeMs      int
	AttemptNumber       int // per (learner, block), starting at 1
	Verdict             Verdict
	CreatedAt           time.Time
}

// Passed reports whether the attempt's grade meets the pass threshold.
func (a VerificationAttempt) Passed(passThreshold float64) bool {
	return a.Grade >= passThreshold
}
