package selector

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	"github.com/lexigraph/engine/internal/domain"
)

var _ stateRepo = &stateRepoMock{}

type stateRepoMock struct {
	ListFunc func(ctx context.Context, learnerID uuid.UUID, filter blockstate.Filter) ([]domain.BlockState, error)

	calls struct {
		List []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			Filter    blockstate.Filter
		}
	}
	lockList sync.RWMutex
}

func (mock *stateRepoMock) List(ctx context.Context, learnerID uuid.UUID, filter blockstate.Filter) ([]domain.BlockState, error) {
	if mock.ListFunc == nil {
		panic("stateRepoMock.ListFunc: method is nil but stateRepo.List was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		Filter    blockstate.Filter
	}{Ctx: ctx, LearnerID: learnerID, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, learnerID, filter)
}

func (mock *stateRepoMock) ListCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	Filter    blockstate.Filter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
