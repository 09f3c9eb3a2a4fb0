package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepo) UpdateStock(ctx context.Context, id int64, stock int64) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

func (m *MockProductRepo) GetView(ctx context.Context, id int64) (*ProductView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProductView), args.Error(1)
}

func (m *MockProductRepo) Query(ctx context.Context, filter *ProductFilter, sort SortParams, page PageParams) ([]ProductView, int64, error) {
	args := m.Called(ctx, filter, sort, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ProductView), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) Stats(ctx context.Context, lowThreshold int64) (*StockStatsRes, error) {
	args := m.Called(ctx, lowThreshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockStatsRes), args.Error(1)
}

type MockAdjustmentRepo struct {
	mock.Mock
}

// Create при настройке Return(nil, nil) отдает копию входной записи
// с проставленным id, как это делает INSERT ... RETURNING.
func (m *MockAdjustmentRepo) Create(ctx context.Context, adj *domain.StockAdjustment) (*domain.StockAdjustment, error) {
	args := m.Called(ctx, adj)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if args.Get(0) == nil {
		created := *adj
		created.ID = int64(len(m.Calls))
		return &created, nil
	}
	return args.Get(0).(*domain.StockAdjustment), nil
}

func (m *MockAdjustmentRepo) History(ctx context.Context, productID int64, page PageParams) ([]domain.StockAdjustment, int64, error) {
	args := m.Called(ctx, productID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.StockAdjustment), args.Get(1).(int64), args.Error(2)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) UpdateStage(ctx context.Context, id string, stage domain.Stage) error {
	args := m.Called(ctx, id, stage)
	return args.Error(0)
}

func (m *MockOrderRepo) AddStageEvent(ctx context.Context, event *domain.StageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOrderRepo) Query(ctx context.Context, filter *OrderFilter, sort SortParams, page PageParams) ([]OrderView, int64, error) {
	args := m.Called(ctx, filter, sort, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]OrderView), args.Get(1).(int64), args.Error(2)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	args := m.Called(ctx, event)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	if args.Get(0) == nil {
		created := *event
		created.ID = int64(len(m.Calls))
		return &created, nil
	}
	return args.Get(0).(*OutboxEvent), nil
}

func (m *MockOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*OutboxEvent), args.Error(1)
}

func (m *MockOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockIdempotencyRepo struct {
	mock.Mock
}

func (m *MockIdempotencyRepo) Get(ctx context.Context, key string) (*IdempotencyRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepo) Create(ctx context.Context, record *IdempotencyRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]ProductView, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]ProductView), args.Error(1)
}

func (m *MockCacheRepo) SetProducts(ctx context.Context, products []ProductView) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockCacheRepo) DeleteProducts(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// fakeTx фиксирует исход транзакции для проверок в тестах.
type fakeTx struct {
	active     bool
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.active = false
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.active = false
	t.rolledBack = true
	return nil
}

func (t *fakeTx) IsActive() bool { return t.active }

type fakeTransactor struct {
	tx     *fakeTx
	opened int
}

func (f *fakeTransactor) NewTransaction(ctx context.Context) (context.Context, Tx, error) {
	f.tx = &fakeTx{active: true}
	f.opened++
	return ctx, f.tx, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}
