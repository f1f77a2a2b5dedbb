package guard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ startCounter = &startCounterMock{}

type startCounterMock struct {
	CountStartedSinceFunc func(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error)

	calls struct {
		CountStartedSince []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			Since     time.Time
		}
	}
	lockCountStartedSince sync.RWMutex
}

func (mock *startCounterMock) CountStartedSince(ctx context.Context, learnerID uuid.UUID, since time.Time) (int, error) {
	if mock.CountStartedSinceFunc == nil {
		panic("startCounterMock.CountStartedSinceFunc: method is nil but startCounter.CountStartedSince was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		Since     time.Time
	}{Ctx: ctx, LearnerID: learnerID, Since: since}
	mock.lockCountStartedSince.Lock()
	mock.calls.CountStartedSince = append(mock.calls.CountStartedSince, callInfo)
	mock.lockCountStartedSince.Unlock()
	return mock.CountStartedSinceFunc(ctx, learnerID, since)
}

func (mock *startCounterMock) CountStartedSinceCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	Since     time.Time
} {
	mock.lockCountStartedSince.RLock()
	calls := mock.calls.CountStartedSince
	mock.lockCountStartedSince.RUnlock()
	return calls
}
