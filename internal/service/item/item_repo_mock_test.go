package item

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/domain"
)

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	CreateFunc    func(ctx context.Context, it domain.VerificationItem) (domain.VerificationItem, error)
	GetPooledFunc func(ctx context.Context, blockID string, qtype domain.QuestionType, excludeIDs []uuid.UUID) (domain.VerificationItem, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			It  domain.VerificationItem
		}
		GetPooled []struct {
			Ctx        context.Context
			BlockID    string
			Qtype      domain.QuestionType
			ExcludeIDs []uuid.UUID
		}
	}
	lockCreate    sync.RWMutex
	lockGetPooled sync.RWMutex
}

func (mock *itemRepoMock) Create(ctx context.Context, it domain.VerificationItem) (domain.VerificationItem, error) {
	if mock.CreateFunc == nil {
		panic("itemRepoMock.CreateFunc: method is nil but itemRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		It  domain.VerificationItem
	}{Ctx: ctx, It: it}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, it)
}

func (mock *itemRepoMock) CreateCalls() []struct {
	Ctx context.Context
	It  domain.VerificationItem
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *itemRepoMock) GetPooled(ctx context.Context, blockID string, qtype domain.QuestionType, excludeIDs []uuid.UUID) (domain.VerificationItem, error) {
	if mock.GetPooledFunc == nil {
		panic("itemRepoMock.GetPooledFunc: method is nil but itemRepo.GetPooled was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		BlockID    string
		Qtype      domain.QuestionType
		ExcludeIDs []uuid.UUID
	}{Ctx: ctx, BlockID: blockID, Qtype: qtype, ExcludeIDs: excludeIDs}
	mock.lockGetPooled.Lock()
	mock.calls.GetPooled = append(mock.calls.GetPooled, callInfo)
	mock.lockGetPooled.Unlock()
	return mock.GetPooledFunc(ctx, blockID, qtype, excludeIDs)
}

func (mock *itemRepoMock) GetPooledCalls() []struct {
	Ctx        context.Context
	BlockID    string
	Qtype      domain.QuestionType
	ExcludeIDs []uuid.UUID
} {
	mock.lockGetPooled.RLock()
	calls := mock.calls.GetPooled
	mock.lockGetPooled.RUnlock()
	return calls
}
