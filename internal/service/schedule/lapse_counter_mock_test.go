package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ lapseCounter = &lapseCounterMock{}

type lapseCounterMock struct {
	CountLapsesSinceFunc func(ctx context.Context, learnerID uuid.UUID, blockID string, since time.Time, passThreshold float64) (int, error)

	calls struct {
		CountLapsesSince []struct {
			Ctx           context.Context
			LearnerID     uuid.UUID
			BlockID       string
			Since         time.Time
			PassThreshold float64
		}
	}
	lockCountLapsesSince sync.RWMutex
}

func (mock *lapseCounterMock) CountLapsesSince(ctx context.Context, learnerID uuid.UUID, blockID string, since time.Time, passThreshold float64) (int, error) {
	if mock.CountLapsesSinceFunc == nil {
		panic("lapseCounterMock.CountLapsesSinceFunc: method is nil but lapseCounter.CountLapsesSince was just called")
	}
	callInfo := struct {
		Ctx           context.Context
		LearnerID     uuid.UUID
		BlockID       string
		Since         time.Time
		PassThreshold float64
	}{Ctx: ctx, LearnerID: learnerID, BlockID: blockID, Since: since, PassThreshold: passThreshold}
	mock.lockCountLapsesSince.Lock()
	mock.calls.CountLapsesSince = append(mock.calls.CountLapsesSince, callInfo)
	mock.lockCountLapsesSince.Unlock()
	return mock.CountLapsesSinceFunc(ctx, learnerID, blockID, since, passThreshold)
}

func (mock *lapseCounterMock) CountLapsesSinceCalls() []struct {
	Ctx           context.Context
	LearnerID     uuid.UUID
	BlockID       string
	Since         time.Time
	PassThreshold float64
} {
	mock.lockCountLapsesSince.RLock()
	calls := mock.calls.CountLapsesSince
	mock.lockCountLapsesSince.RUnlock()
	return calls
}
