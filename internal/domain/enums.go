package domain

// BlockStatus represents the learning state of a (learner, block) pair.
type BlockStatus string

const (
	BlockStatusUnseen    BlockStatus = "UNSEEN"
	BlockStatusLearning  BlockStatus = "LEARNING"
	BlockStatusReviewing BlockStatus = "REVIEWING"
	BlockStatusMastered  BlockStatus = "MASTERED"
	BlockStatusLapsed    BlockStatus = "LAPSED"
)

func (s BlockStatus) String() string { return string(s) }

func (s BlockStatus) IsValid() bool {
	switch s {
	case BlockStatusUnseen, BlockStatusLearning, BlockStatusReviewing,
		BlockStatusMastered, BlockStatusLapsed:
		return true
	}
	return false
}

// QuestionType is the closed set of question formats an item can take.
// Rotating the type across a block's scheduled checks keeps repeated
// verifications statistically independent.
type QuestionType string

const (
	QuestionTypeDefinition   QuestionType = "DEFINITION"
	QuestionTypeContext      QuestionType = "CONTEXT_USAGE"
	QuestionTypeRelationship QuestionType = "RELATIONSHIP"
)

func (q QuestionType) String() string { return string(q) }

func (q QuestionType) IsValid() bool {
	switch q {
	case QuestionTypeDefinition, QuestionTypeContext, QuestionTypeRelationship:
		return true
	}
	return false
}

// QuestionTypeRotation is the fixed order types cycle through across a
// block's checks (immediate, day 3, day 7, day 14+).
var QuestionTypeRotation = [3]QuestionType{
	QuestionTypeDefinition,
	QuestionTypeContext,
	QuestionTypeRelationship,
}

// RotatedQuestionType returns the question type for the given attempt number
// (zero-based) for a block.
func RotatedQuestionType(attemptNumber int) QuestionType {
	if attemptNumber < 0 {
		attemptNumber = 0
	}
	return QuestionTypeRotation[attemptNumber%len(QuestionTypeRotation)]
}

// RelationType is a typed edge between two blocks in the knowledge graph.
type RelationType string

const (
	RelationPrerequisiteOf  RelationType = "PREREQUISITE_OF"
	RelationRelatedTo       RelationType = "RELATED_TO"
	RelationCollocatesWith  RelationType = "COLLOCATES_WITH"
	RelationOppositeOf      RelationType = "OPPOSITE_OF"
	RelationConfusedWith    RelationType = "CONFUSED_WITH"
	RelationPartOf          RelationType = "PART_OF"
	RelationMorphological   RelationType = "MORPHOLOGICAL"
	RelationRegisterVariant RelationType = "REGISTER_VARIANT"
)

func (r RelationType) String() string { return string(r) }

func (r RelationType) IsValid() bool {
	switch r {
	case RelationPrerequisiteOf, RelationRelatedTo, RelationCollocatesWith,
		RelationOppositeOf, RelationConfusedWith, RelationPartOf,
		RelationMorphological, RelationRegisterVariant:
		return true
	}
	return false
}

// Verdict is the Anti-Gaming Guard's decision on an attempt.
type Verdict string

const (
	// VerdictAccept processes the attempt normally.
	VerdictAccept Verdict = "ACCEPT"
	// VerdictAcceptZeroed processes the attempt with the grade forced to 0
	// (speed trap).
	VerdictAcceptZeroed Verdict = "ACCEPT_ZEROED"
	// VerdictFlag processes the attempt and marks the pair for human audit.
	VerdictFlag Verdict = "FLAG"
	// VerdictReject does not advance state; the attempt is logged for abuse
	// analysis only.
	VerdictReject Verdict = "REJECT"
)

func (v Verdict) String() string { return string(v) }

func (v Verdict) IsValid() bool {
	switch v {
	case VerdictAccept, VerdictAcceptZeroed, VerdictFlag, VerdictReject:
		return true
	}
	return false
}

// Advances reports whether an attempt with this verdict mutates scheduling state.
func (v Verdict) Advances() bool {
	return v == VerdictAccept || v == VerdictAcceptZeroed || v == VerdictFlag
}

// SessionMode selects how the day's candidates are chosen.
type SessionMode string

const (
	// SessionModeGuided uses the full connection-scored mix.
	SessionModeGuided SessionMode = "GUIDED"
	// SessionModeExplorer draws entirely from the level band, ignoring
	// connection scores.
	SessionModeExplorer SessionMode = "EXPLORER"
)

func (m SessionMode) String() string { return string(m) }

func (m SessionMode) IsValid() bool {
	switch m {
	case SessionModeGuided, SessionModeExplorer:
		return true
	}
	return false
}

// EventType identifies an outbox event consumed by external systems.
type EventType string

const (
	// EventTypeMastered is emitted when a block reaches MASTERED.
	EventTypeMastered EventType = "MASTERED"
	// EventTypeLapsed is emitted on any transition into LAPSED, including
	// retention-probe demotions from MASTERED.
	EventTypeLapsed EventType = "LAPSED"
	// EventTypeGuardFlag is emitted when the guard flags a pair for audit.
	EventTypeGuardFlag EventType = "GUARD_FLAG"
	// EventTypeGuardReject is emitted when the guard rejects an attempt.
	EventTypeGuardReject EventType = "GUARD_REJECT"
)

func (e EventType) String() string { return string(e) }

func (e EventType) IsValid() bool {
	switch e {
	case EventTypeMastered, EventTypeLapsed, EventTypeGuardFlag, EventTypeGuardReject:
		return true
	}
	return false
}
