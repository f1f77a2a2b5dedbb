package guard

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/domain"
)

var _ attemptLog = &attemptLogMock{}

type attemptLogMock struct {
	ListRecentFunc func(ctx context.Context, learnerID uuid.UUID, limit int) ([]domain.VerificationAttempt, error)

	calls struct {
		ListRecent []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			Limit     int
		}
	}
	lockListRecent sync.RWMutex
}

func (mock *attemptLogMock) ListRecent(ctx context.Context, learnerID uuid.UUID, limit int) ([]domain.VerificationAttempt, error) {
	if mock.ListRecentFunc == nil {
		panic("attemptLogMock.ListRecentFunc: method is nil but attemptLog.ListRecent was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		Limit     int
	}{Ctx: ctx, LearnerID: learnerID, Limit: limit}
	mock.lockListRecent.Lock()
	mock.calls.ListRecent = append(mock.calls.ListRecent, callInfo)
	mock.lockListRecent.Unlock()
	return mock.ListRecentFunc(ctx, learnerID, limit)
}

func (mock *attemptLogMock) ListRecentCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	Limit     int
} {
	mock.lockListRecent.RLock()
	calls := mock.calls.ListRecent
	mock.lockListRecent.RUnlock()
	return calls
}
