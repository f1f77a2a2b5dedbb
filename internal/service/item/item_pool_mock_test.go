package item

import (
	"context"
	"sync"

	"github.com/lexigraph/engine/internal/domain"
)

var _ itemPool = &itemPoolMock{}

type itemPoolMock struct {
	GetFunc func(ctx context.Context, blockID string, qtype domain.QuestionType) (domain.VerificationItem, error)
	PutFunc func(ctx context.Context, it domain.VerificationItem) error

	calls struct {
		Get []struct {
			Ctx     context.Context
			BlockID string
			Qtype   domain.QuestionType
		}
		Put []struct {
			Ctx context.Context
			It  domain.VerificationItem
		}
	}
	lockGet sync.RWMutex
	lockPut sync.RWMutex
}

func (mock *itemPoolMock) Get(ctx context.Context, blockID string, qtype domain.QuestionType) (domain.VerificationItem, error) {
	if mock.GetFunc == nil {
		panic("itemPoolMock.GetFunc: method is nil but itemPool.Get was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		BlockID string
		Qtype   domain.QuestionType
	}{Ctx: ctx, BlockID: blockID, Qtype: qtype}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, blockID, qtype)
}

func (mock *itemPoolMock) GetCalls() []struct {
	Ctx     context.Context
	BlockID string
	Qtype   domain.QuestionType
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *itemPoolMock) Put(ctx context.Context, it domain.VerificationItem) error {
	if mock.PutFunc == nil {
		panic("itemPoolMock.PutFunc: method is nil but itemPool.Put was just called")
	}
	callInfo := struct {
		Ctx context.Context
		It  domain.VerificationItem
	}{Ctx: ctx, It: it}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, it)
}

func (mock *itemPoolMock) PutCalls() []struct {
	Ctx context.Context
	It  domain.VerificationItem
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}
