package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/adapter/postgres/blockstate"
	"github.com/lexigraph/engine/internal/domain"
	"github.com/lexigraph/engine/internal/service/guard"
)

var _ blockPicker = &blockPickerMock{}

type blockPickerMock struct {
	SelectDailyFunc    func(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error)
	SelectExplorerFunc func(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error)

	calls struct {
		SelectDaily []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			DayCap    int
		}
		SelectExplorer []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			DayCap    int
		}
	}
	lockSelectDaily    sync.RWMutex
	lockSelectExplorer sync.RWMutex
}

func (mock *blockPickerMock) SelectDaily(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error) {
	if mock.SelectDailyFunc == nil {
		panic("blockPickerMock.SelectDailyFunc: method is nil but blockPicker.SelectDaily was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		DayCap    int
	}{Ctx: ctx, LearnerID: learnerID, DayCap: dayCap}
	mock.lockSelectDaily.Lock()
	mock.calls.SelectDaily = append(mock.calls.SelectDaily, callInfo)
	mock.lockSelectDaily.Unlock()
	return mock.SelectDailyFunc(ctx, learnerID, dayCap)
}

func (mock *blockPickerMock) SelectDailyCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	DayCap    int
} {
	mock.lockSelectDaily.RLock()
	calls := mock.calls.SelectDaily
	mock.lockSelectDaily.RUnlock()
	return calls
}

func (mock *blockPickerMock) SelectExplorer(ctx context.Context, learnerID uuid.UUID, dayCap int) ([]string, error) {
	if mock.SelectExplorerFunc == nil {
		panic("blockPickerMock.SelectExplorerFunc: method is nil but blockPicker.SelectExplorer was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		DayCap    int
	}{Ctx: ctx, LearnerID: learnerID, DayCap: dayCap}
	mock.lockSelectExplorer.Lock()
	mock.calls.SelectExplorer = append(mock.calls.SelectExplorer, callInfo)
	mock.lockSelectExplorer.Unlock()
	return mock.SelectExplorerFunc(ctx, learnerID, dayCap)
}

func (mock *blockPickerMock) SelectExplorerCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	DayCap    int
} {
	mock.lockSelectExplorer.RLock()
	calls := mock.calls.SelectExplorer
	mock.lockSelectExplorer.RUnlock()
	return calls
}

var _ itemGenerator = &itemGeneratorMock{}

type itemGeneratorMock struct {
	GenerateFunc func(ctx context.Context, blockID string, qtype domain.QuestionType, excludeItemIDs []uuid.UUID) (domain.VerificationItem, error)

	calls struct {
		Generate []struct {
			Ctx            context.Context
			BlockID        string
			Qtype          domain.QuestionType
			ExcludeItemIDs []uuid.UUID
		}
	}
	lockGenerate sync.RWMutex
}

func (mock *itemGeneratorMock) Generate(ctx context.Context, blockID string, qtype domain.QuestionType, excludeItemIDs []uuid.UUID) (domain.VerificationItem, error) {
	if mock.GenerateFunc == nil {
		panic("itemGeneratorMock.GenerateFunc: method is nil but itemGenerator.Generate was just called")
	}
	callInfo := struct {
		Ctx            context.Context
		BlockID        string
		Qtype          domain.QuestionType
		ExcludeItemIDs []uuid.UUID
	}{Ctx: ctx, BlockID: blockID, Qtype: qtype, ExcludeItemIDs: excludeItemIDs}
	mock.lockGenerate.Lock()
	mock.calls.Generate = append(mock.calls.Generate, callInfo)
	mock.lockGenerate.Unlock()
	return mock.GenerateFunc(ctx, blockID, qtype, excludeItemIDs)
}

func (mock *itemGeneratorMock) GenerateCalls() []struct {
	Ctx            context.Context
	BlockID        string
	Qtype          domain.QuestionType
	ExcludeItemIDs []uuid.UUID
} {
	mock.lockGenerate.RLock()
	calls := mock.calls.Generate
	mock.lockGenerate.RUnlock()
	return calls
}

var _ itemStore = &itemStoreMock{}

type itemStoreMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.VerificationItem, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *itemStoreMock) GetByID(ctx context.Context, id uuid.UUID) (domain.VerificationItem, error) {
	if mock.GetByIDFunc == nil {
		panic("itemStoreMock.GetByIDFunc: method is nil but itemStore.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *itemStoreMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

var _ stateRepo = &stateRepoMock{}

type stateRepoMock struct {
	GetFunc    func(ctx context.Context, learnerID uuid.UUID, blockID string) (domain.BlockState, error)
	ListFunc   func(ctx context.Context, learnerID uuid.UUID, filter blockstate.Filter) ([]domain.BlockState, error)
	CreateFunc func(ctx context.Context, state domain.BlockState) (domain.BlockState, error)
	UpdateFunc func(ctx context.Context, state domain.BlockState) (domain.BlockState, error)

	calls struct {
		Get []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			BlockID   string
		}
		List []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			Filter    blockstate.Filter
		}
		Create []struct {
			Ctx   context.Context
			State domain.BlockState
		}
		Update []struct {
			Ctx   context.Context
			State domain.BlockState
		}
	}
	lockGet    sync.RWMutex
	lockList   sync.RWMutex
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
}

func (mock *stateRepoMock) Get(ctx context.Context, learnerID uuid.UUID, blockID string) (domain.BlockState, error) {
	if mock.GetFunc == nil {
		panic("stateRepoMock.GetFunc: method is nil but stateRepo.Get was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		BlockID   string
	}{Ctx: ctx, LearnerID: learnerID, BlockID: blockID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, learnerID, blockID)
}

func (mock *stateRepoMock) GetCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	BlockID   string
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
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

func (mock *stateRepoMock) Create(ctx context.Context, state domain.BlockState) (domain.BlockState, error) {
	if mock.CreateFunc == nil {
		panic("stateRepoMock.CreateFunc: method is nil but stateRepo.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		State domain.BlockState
	}{Ctx: ctx, State: state}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, state)
}

func (mock *stateRepoMock) CreateCalls() []struct {
	Ctx   context.Context
	State domain.BlockState
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *stateRepoMock) Update(ctx context.Context, state domain.BlockState) (domain.BlockState, error) {
	if mock.UpdateFunc == nil {
		panic("stateRepoMock.UpdateFunc: method is nil but stateRepo.Update was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		State domain.BlockState
	}{Ctx: ctx, State: state}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, state)
}

func (mock *stateRepoMock) UpdateCalls() []struct {
	Ctx   context.Context
	State domain.BlockState
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

var _ attemptRepo = &attemptRepoMock{}

type attemptRepoMock struct {
	CreateFunc              func(ctx context.Context, a domain.VerificationAttempt, result any) (domain.VerificationAttempt, error)
	GetResultFunc           func(ctx context.Context, learnerID uuid.UUID, itemID uuid.UUID, dst any) error
	CountForBlockFunc       func(ctx context.Context, learnerID uuid.UUID, blockID string) (int, error)
	ListItemIDsForBlockFunc func(ctx context.Context, learnerID uuid.UUID, blockID string) ([]uuid.UUID, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			A      domain.VerificationAttempt
			Result any
		}
		GetResult []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			ItemID    uuid.UUID
			Dst       any
		}
		CountForBlock []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			BlockID   string
		}
		ListItemIDsForBlock []struct {
			Ctx       context.Context
			LearnerID uuid.UUID
			BlockID   string
		}
	}
	lockCreate              sync.RWMutex
	lockGetResult           sync.RWMutex
	lockCountForBlock       sync.RWMutex
	lockListItemIDsForBlock sync.RWMutex
}

func (mock *attemptRepoMock) Create(ctx context.Context, a domain.VerificationAttempt, result any) (domain.VerificationAttempt, error) {
	if mock.CreateFunc == nil {
		panic("attemptRepoMock.CreateFunc: method is nil but attemptRepo.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		A      domain.VerificationAttempt
		Result any
	}{Ctx: ctx, A: a, Result: result}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, a, result)
}

func (mock *attemptRepoMock) CreateCalls() []struct {
	Ctx    context.Context
	A      domain.VerificationAttempt
	Result any
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *attemptRepoMock) GetResult(ctx context.Context, learnerID uuid.UUID, itemID uuid.UUID, dst any) error {
	if mock.GetResultFunc == nil {
		panic("attemptRepoMock.GetResultFunc: method is nil but attemptRepo.GetResult was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		ItemID    uuid.UUID
		Dst       any
	}{Ctx: ctx, LearnerID: learnerID, ItemID: itemID, Dst: dst}
	mock.lockGetResult.Lock()
	mock.calls.GetResult = append(mock.calls.GetResult, callInfo)
	mock.lockGetResult.Unlock()
	return mock.GetResultFunc(ctx, learnerID, itemID, dst)
}

func (mock *attemptRepoMock) GetResultCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	ItemID    uuid.UUID
	Dst       any
} {
	mock.lockGetResult.RLock()
	calls := mock.calls.GetResult
	mock.lockGetResult.RUnlock()
	return calls
}

func (mock *attemptRepoMock) CountForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) (int, error) {
	if mock.CountForBlockFunc == nil {
		panic("attemptRepoMock.CountForBlockFunc: method is nil but attemptRepo.CountForBlock was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		BlockID   string
	}{Ctx: ctx, LearnerID: learnerID, BlockID: blockID}
	mock.lockCountForBlock.Lock()
	mock.calls.CountForBlock = append(mock.calls.CountForBlock, callInfo)
	mock.lockCountForBlock.Unlock()
	return mock.CountForBlockFunc(ctx, learnerID, blockID)
}

func (mock *attemptRepoMock) CountForBlockCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	BlockID   string
} {
	mock.lockCountForBlock.RLock()
	calls := mock.calls.CountForBlock
	mock.lockCountForBlock.RUnlock()
	return calls
}

func (mock *attemptRepoMock) ListItemIDsForBlock(ctx context.Context, learnerID uuid.UUID, blockID string) ([]uuid.UUID, error) {
	if mock.ListItemIDsForBlockFunc == nil {
		panic("attemptRepoMock.ListItemIDsForBlockFunc: method is nil but attemptRepo.ListItemIDsForBlock was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		LearnerID uuid.UUID
		BlockID   string
	}{Ctx: ctx, LearnerID: learnerID, BlockID: blockID}
	mock.lockListItemIDsForBlock.Lock()
	mock.calls.ListItemIDsForBlock = append(mock.calls.ListItemIDsForBlock, callInfo)
	mock.lockListItemIDsForBlock.Unlock()
	return mock.ListItemIDsForBlockFunc(ctx, learnerID, blockID)
}

func (mock *attemptRepoMock) ListItemIDsForBlockCalls() []struct {
	Ctx       context.Context
	LearnerID uuid.UUID
	BlockID   string
} {
	mock.lockListItemIDsForBlock.RLock()
	calls := mock.calls.ListItemIDsForBlock
	mock.lockListItemIDsForBlock.RUnlock()
	return calls
}

var _ outboxRepo = &outboxRepoMock{}

type outboxRepoMock struct {
	AppendFunc func(ctx context.Context, events ...domain.OutboxEvent) error

	calls struct {
		Append []struct {
			Ctx    context.Context
			Events []domain.OutboxEvent
		}
	}
	lockAppend sync.RWMutex
}

func (mock *outboxRepoMock) Append(ctx context.Context, events ...domain.OutboxEvent) error {
	if mock.AppendFunc == nil {
		panic("outboxRepoMock.AppendFunc: method is nil but outboxRepo.Append was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Events []domain.OutboxEvent
	}{Ctx: ctx, Events: events}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, events...)
}

func (mock *outboxRepoMock) AppendCalls() []struct {
	Ctx    context.Context
	Events []domain.OutboxEvent
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

var _ guardPolicy = &guardPolicyMock{}

type guardPolicyMock struct {
	ValidateFunc func(ctx context.Context, attempt domain.VerificationAttempt, now time.Time) (guard.Decision, error)

	calls struct {
		Validate []struct {
			Ctx     context.Context
			Attempt domain.VerificationAttempt
			Now     time.Time
		}
	}
	lockValidate sync.RWMutex
}

func (mock *guardPolicyMock) Validate(ctx context.Context, attempt domain.VerificationAttempt, now time.Time) (guard.Decision, error) {
	if mock.ValidateFunc == nil {
		panic("guardPolicyMock.ValidateFunc: method is nil but guardPolicy.Validate was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Attempt domain.VerificationAttempt
		Now     time.Time
	}{Ctx: ctx, Attempt: attempt, Now: now}
	mock.lockValidate.Lock()
	mock.calls.Validate = append(mock.calls.Validate, callInfo)
	mock.lockValidate.Unlock()
	return mock.ValidateFunc(ctx, attempt, now)
}

func (mock *guardPolicyMock) ValidateCalls() []struct {
	Ctx     context.Context
	Attempt domain.VerificationAttempt
	Now     time.Time
} {
	mock.lockValidate.RLock()
	calls := mock.calls.Validate
	mock.lockValidate.RUnlock()
	return calls
}

var _ scheduler = &schedulerMock{}

type schedulerMock struct {
	ApplyFunc func(ctx context.Context, state domain.BlockState, grade float64, now time.Time) (domain.BlockState, domain.StateDelta, []domain.OutboxEvent, error)

	calls struct {
		Apply []struct {
			Ctx   context.Context
			State domain.BlockState
			Grade float64
			Now   time.Time
		}
	}
	lockApply sync.RWMutex
}

func (mock *schedulerMock) Apply(ctx context.Context, state domain.BlockState, grade float64, now time.Time) (domain.BlockState, domain.StateDelta, []domain.OutboxEvent, error) {
	if mock.ApplyFunc == nil {
		panic("schedulerMock.ApplyFunc: method is nil but scheduler.Apply was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		State domain.BlockState
		Grade float64
		Now   time.Time
	}{Ctx: ctx, State: state, Grade: grade, Now: now}
	mock.lockApply.Lock()
	mock.calls.Apply = append(mock.calls.Apply, callInfo)
	mock.lockApply.Unlock()
	return mock.ApplyFunc(ctx, state, grade, now)
}

func (mock *schedulerMock) ApplyCalls() []struct {
	Ctx   context.Context
	State domain.BlockState
	Grade float64
	Now   time.Time
} {
	mock.lockApply.RLock()
	calls := mock.calls.Apply
	mock.lockApply.RUnlock()
	return calls
}

var _ blockSource = &blockSourceMock{}

type blockSourceMock struct {
	GetBlockFunc func(ctx context.Context, id string) (domain.Block, error)

	calls struct {
		GetBlock []struct {
			Ctx context.Context
			Id  string
		}
	}
	lockGetBlock sync.RWMutex
}

func (mock *blockSourceMock) GetBlock(ctx context.Context, id string) (domain.Block, error) {
	if mock.GetBlockFunc == nil {
		panic("blockSourceMock.GetBlockFunc: method is nil but blockSource.GetBlock was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  string
	}{Ctx: ctx, Id: id}
	mock.lockGetBlock.Lock()
	mock.calls.GetBlock = append(mock.calls.GetBlock, callInfo)
	mock.lockGetBlock.Unlock()
	return mock.GetBlockFunc(ctx, id)
}

func (mock *blockSourceMock) GetBlockCalls() []struct {
	Ctx context.Context
	Id  string
} {
	mock.lockGetBlock.RLock()
	calls := mock.calls.GetBlock
	mock.lockGetBlock.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
			Fn  func(ctx context.Context) error
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Fn  func(ctx context.Context) error
	}{Ctx: ctx, Fn: fn}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
	Fn  func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
