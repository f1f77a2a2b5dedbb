package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/domain"
)

// PlanItem is one served question in a session plan. Review reports whether
// the block was already scheduled (as opposed to a new exposure).
type PlanItem struct {
	BlockID string
	Item    domain.VerificationItem
	Review  bool
}

// SessionPlan is the ordered set of items a learner faces today. Degraded is
// set when upstream failures forced some blocks to be dropped; the session
// still runs with whatever could be generated.
type SessionPlan struct {
	LearnerID uuid.UUID
	Mode      domain.SessionMode
	Items     []PlanItem
	Degraded  bool
	CreatedAt time.Time
}

// SubmitInput carries one answered item.
type SubmitInput struct {
	LearnerID           uuid.UUID
	ItemID              uuid.UUID
	SelectedOptionIndex int
	ResponseTimeMs      int
}

// SubmitResult is the consolidated outcome of one submission: verdict,
// grade, reward delta, and the full state delta. It is serialized into the
// attempt row so a retried submission replays the identical result.
type SubmitResult struct {
	Verdict  domain.Verdict    `json:"verdict"`
	Grade    float64           `json:"grade"`
	XPDelta  int               `json:"xp_delta"`
	Delta    domain.StateDelta `json:"delta"`
	Replayed bool              `json:"-"`
}

func (in SubmitInput) validate() error {
	var errs []domain.FieldError
	if in.LearnerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "learner_id", Message: "required"})
	}
	if in.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if in.SelectedOptionIndex < 0 || in.SelectedOptionIndex >= domain.OptionsPerItem {
		errs = append(errs, domain.FieldError{Field: "selected_option_index", Message: "out of range"})
	}
	if in.ResponseTimeMs < 0 {
		errs = append(errs, domain.FieldError{Field: "response_time_ms", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
