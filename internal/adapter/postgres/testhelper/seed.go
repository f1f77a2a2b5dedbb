package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexigraph/engine/internal/domain"
)

// SeedItem inserts a minimal six-option verification item and returns it.
func SeedItem(t *testing.T, pool *pgxpool.Pool, blockID string, qtype domain.QuestionType) domain.VerificationItem {
	t.Helper()

	it := domain.VerificationItem{
		ID:           uuid.New(),
		BlockID:      blockID,
		QuestionType: qtype,
		Prompt:       "Which of the following best matches " + blockID + "?",
		Options: []domain.Option{
			{Text: "correct", Grade: domain.GradeCorrect, SourceBlockID: blockID},
			{Text: "close", Grade: domain.GradeClose},
			{Text: "partial", Grade: domain.GradePartial},
			{Text: "related", Grade: domain.GradeRelated},
			{Text: "wrong", Grade: domain.GradeWrong},
			{Text: "I don't know", Grade: domain.GradeDontKnow, DontKnow: true},
		},
		CorrectIndex: 0,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	optionsJSON, err := json.Marshal(it.Options)
	if err != nil {
		t.Fatalf("seed item: marshal options: %v", err)
	}

	_, err = pool.Exec(context.Background(), `
INSERT INTO verification_items (id, block_id, question_type, prompt, options, correct_index, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.BlockID, it.QuestionType, it.Prompt, optionsJSON, it.CorrectIndex, it.CreatedAt)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	return it
}

// SeedState inserts a block-state row for the given learner and block.
func SeedState(t *testing.T, pool *pgxpool.Pool, learnerID uuid.UUID, blockID string, status domain.BlockStatus) domain.BlockState {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	state := domain.BlockState{
		LearnerID:  learnerID,
		BlockID:    blockID,
		Status:     status,
		EaseFactor: domain.DefaultEaseFactor,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(context.Background(), `
INSERT INTO learner_block_states (learner_id, block_id, status, ease_factor, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		state.LearnerID, state.BlockID, state.Status, state.EaseFactor, state.Version, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		t.Fatalf("seed state: %v", err)
	}

	return state
}
