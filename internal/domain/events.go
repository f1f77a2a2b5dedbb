package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event written in the same transaction as the state
// change it describes and dispatched asynchronously to external consumers
// (reward/ledger system, human-audit queue).
type OutboxEvent struct {
	ID           uuid.UUID
	Type         EventType
	LearnerID    uuid.UUID
	BlockID      string
	Payload      map[string]any
	CreatedAt    time.Time
	DispatchedAt *time.Time
}

// NewMasteryEvent builds the event emitted when a block reaches MASTERED.
func NewMasteryEvent(learnerID uuid.UUID, blockID string, confidence float64, streak int) OutboxEvent {
	return OutboxEvent{
		ID:        uuid.New(),
		Type:      EventTypeMastered,
		LearnerID: learnerID,
		BlockID:   blockID,
		Payload: map[string]any{
			"confidence_score":    confidence,
			"consecutive_correct": streak,
		},
	}
}

// NewLapseEvent builds the event emitted on any transition into LAPSED.
// fromMastered marks retention-probe demotions, which external reward
// systems treat differently (e.g. funded-reward recall).
func NewLapseEvent(learnerID uuid.UUID, blockID string, lapseCount int, fromMastered bool) OutboxEvent {
	return OutboxEvent{
		ID:        uuid.New(),
		Type:      EventTypeLapsed,
		LearnerID: learnerID,
		BlockID:   blockID,
		Payload: map[string]any{
			"lapse_count":   lapseCount,
			"from_mastered": fromMastered,
		},
	}
}

// NewGuardEvent builds a guard audit event (flag or reject).
func NewGuardEvent(t EventType, learnerID uuid.UUID, blockID string, reason string, responseTimeMs int) OutboxEvent {
	return OutboxEvent{
		ID:        uuid.New(),
		Type:      t,
		LearnerID: learnerID,
		BlockID:   blockID,
		Payload: map[string]any{
			"reason":           reason,
			"response_time_ms": responseTimeMs,
		},
	}
}
