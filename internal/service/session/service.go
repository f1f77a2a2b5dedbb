// Package session orchestrates one verification session: it selects blocks,
// generates items, scores responses through the guard, applies the
// scheduling core, and returns a consolidated result in a single call so the
// caller can render feedback without a follow-up round trip.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/domain"
	"github.com/lexigraph/engine/internal/service/guard"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type blockPicker interface {
	SelectDaily(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error)
	SelectExplorer(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error)
}

type itemGenerator interface {
	Generate(ctx context.Context, blockID string, qtype domain.QuestionType, excludeItemIDs []uuid.UUID) (domain.VerificationItem, error)
}

type itemStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.VerificationItem, error)
}

type stateRepo interface {
	Get(ctx context.Context, learnerID uuid.UUID, blockID string) (domain.BlockState, error)
	List(ctx context.Context, learnerID uuid.UUID, filter blockstate.Filter) ([]domain.BlockState, error)
	Create(ctx context.Context, state domain.BlockState) (domain.BlockState, error)
	Update(ctx context.Context, state domain.BlockState) (domain.BlockState, error)
}

type attemptRepo interface {
	Create(ctx context.Context, a domain.VerificationAttempt, result any) (domain.VerificationAttempt, error)
	GetResult(ctx context.Context, learnerID, itemID uuid.UUID, dst any) error
	CountForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) (int, error)
	ListItemIDsForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) ([]uuid.UUID, error)
}

type outboxRepo interface {
	Append(ctx context.Context, events ...domain.OutboxEvent) error
}

type guardPolicy interface {
	Validate(ctx context.Context, attempt domain.VerificationAttempt, now time.Time) (guard.Decision, error)
}

type scheduler interface {
	Apply(ctx context.Context, state domain.BlockState, grade float64, now time.Time) (domain.BlockState, domain.StateDelta, []domain.OutboxEvent, error)
}

type blockSource interface {
	GetBlock(ctx context.Context, id string) (domain.Block, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the session orchestration logic.
type Service struct {
	picker    blockPicker
	generator itemGenerator
	items     itemStore
	states    stateRepo
	attempts  attemptRepo
	outbox    outboxRepo
	guard     guardPolicy
	scheduler scheduler
	graph     blockSource
	tx        txManager
	log       *slog.Logger

	dayCap      int
	parallelism int
}

// NewService creates a new session orchestrator.
func NewService(
	log *slog.Logger,
	picker blockPicker,
	generator itemGenerator,
	items itemStore,
	states stateRepo,
	attempts attemptRepo,
	outbox outboxRepo,
	guardSvc guardPolicy,
	scheduler scheduler,
	graph blockSource,
	tx txManager,
	selectorCfg config.SelectorConfig,
	workerCfg config.WorkerConfig,
) *Service {
	parallelism := workerCfg.PoolSize
	if parallelism < 1 {
		parallelism = 1
	}

	return &Service{
		picker:      picker,
		generator:   generator,
		items:       items,
		states:      states,
		attempts:    attempts,
		outbox:      outbox,
		guard:       guardSvc,
		scheduler:   scheduler,
		graph:       graph,
		tx:          tx,
		log:         log.With("service", "session"),
		dayCap:      selectorCfg.DayCap,
		parallelism: parallelism,
	}
}
