package domain

import (
	"time"

	"github.com/google/uuid"
)

// Option grades, from the correct answer down to the fixed "I don't know"
// option. Every generated item carries exactly these six grades.
const (
	GradeCorrect    = 1.0
	GradeClose      = 0.8
	GradePartial    = 0.6
	GradeRelated    = 0.4
	GradeWrong      = 0.2
	GradeDontKnow   = 0.0
	OptionsPerItem  = 6
	DontKnowIndex   = 5 // "I don't know" is always the last option
)

// Option is one of the six answer options on a verification item.
type Option struct {
	Text          string  `json:"text"`
	Grade         float64 `json:"grade"` // partial credit 0.0–1.0
	SourceBlockID string  `json:"source_block_id,omitempty"`
	DontKnow      bool    `json:"dont_know,omitempty"`
}

// VerificationItem is a generated, cached 6-option question tied to one
// block and one question type. Items may be reused across learners and
// across a learner's spaced-repetition days as long as the question type
// rotates per schedule.
type VerificationItem struct {
	ID           uuid.UUID
	BlockID      string
	QuestionType QuestionType
	Prompt       string
	Options      []Option
	CorrectIndex int
	CreatedAt    time.Time
}

// GradeFor returns the partial-credit grade of the selected option.
// Out-of-range indexes are an input error resolved by the caller; this
// returns 0 for them.
func (it VerificationItem) GradeFor(selectedIndex int) float64 {
	if selectedIndex < 0 || selectedIndex >= len(it.Options) {
		return 0
	}
	return it.Options[selectedIndex].Grade
}

// IsDontKnow reports whether the selected option is the explicit
// "I don't know" option, which is never counted as a guess.
func (it VerificationItem) IsDontKnow(selectedIndex int) bool {
	return selectedIndex >= 0 && selectedIndex < len(it.Options) && it.Options[selectedIndex].DontKnow
}
