package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type fulfillmentFixture struct {
	orders      *MockOrderRepo
	products    *MockProductRepo
	adjustments *MockAdjustmentRepo
	outbox      *MockOutboxRepo
	idem        *MockIdempotencyRepo
	cache       *MockCacheRepo
	transactor  *fakeTransactor
	uc          *FulfillmentUseCase
}

func newFulfillmentFixture() *fulfillmentFixture {
	f := &fulfillmentFixture{
		orders:      new(MockOrderRepo),
		products:    new(MockProductRepo),
		adjustments: new(MockAdjustmentRepo),
		outbox:      new(MockOutboxRepo),
		idem:        new(MockIdempotencyRepo),
		cache:       new(MockCacheRepo),
		transactor:  &fakeTransactor{},
	}
	f.uc = NewFulfillmentUC(f.orders, f.products, f.adjustments, f.outbox, f.idem, f.transactor, f.cache, nopLogger{})
	return f
}

// expectTransitionPlumbing настраивает общие для любого перехода вызовы:
// идемпотентность, событие стадии и запись в outbox.
func (f *fulfillmentFixture) expectTransitionPlumbing(key string, order *domain.Order, target domain.Stage) {
	f.idem.On("Get", mock.Anything, key).Return(nil, nil).Once()
	f.orders.On("GetForUpdate", mock.Anything, order.ID).Return(order, nil).Once()
	f.orders.On("UpdateStage", mock.Anything, order.ID, target).Return(nil).Once()
	f.orders.On("AddStageEvent", mock.Anything, mock.AnythingOfType("*domain.StageEvent")).Return(nil).Once()
	f.outbox.On("Create", mock.Anything, mock.AnythingOfType("*usecase.OutboxEvent")).Return(nil, nil)
	f.idem.On("Create", mock.Anything, mock.AnythingOfType("*usecase.IdempotencyRecord")).Return(true, nil).Once()
}

func testOrder(stage domain.Stage, items ...domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:            "8f14e45f-ceea-467f-a0f6-dd7a3b1c0c71",
		CustomerID:    "c-100",
		Stage:         stage,
		Priority:      domain.PriorityMedium,
		PaymentStatus: "paid",
		Items:         items,
	}
}

func TestAdvance_ReceivedToConfirmed_NoStockMovement(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageReceived)

	f.expectTransitionPlumbing("key-1", order, domain.StageConfirmed)

	res, err := f.uc.Advance(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	require.Equal(t, domain.StageConfirmed, res.Order.Stage)
	require.True(t, f.transactor.tx.committed)
	f.products.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	f.orders.AssertExpectations(t)
}

func TestAdvance_PickingToPacking_DecrementsEveryItem(t *testing.T) {
	f := newFulfillmentFixture()
	// Позиции нарочно не отсортированы по товару.
	order := testOrder(domain.StagePicking,
		domain.OrderItem{ProductID: 7, Quantity: 2},
		domain.OrderItem{ProductID: 3, Quantity: 1},
	)

	f.expectTransitionPlumbing("key-2", order, domain.StagePacking)

	var lockOrder []int64
	f.products.On("GetForUpdate", mock.Anything, int64(3)).
		Run(func(args mock.Arguments) { lockOrder = append(lockOrder, 3) }).
		Return(&domain.Product{ID: 3, Stock: 5}, nil).Once()
	f.products.On("GetForUpdate", mock.Anything, int64(7)).
		Run(func(args mock.Arguments) { lockOrder = append(lockOrder, 7) }).
		Return(&domain.Product{ID: 7, Stock: 10}, nil).Once()
	f.adjustments.On("Create", mock.Anything, mock.AnythingOfType("*domain.StockAdjustment")).Return(nil, nil).Twice()
	f.products.On("UpdateStock", mock.Anything, int64(3), int64(4)).Return(nil).Once()
	f.products.On("UpdateStock", mock.Anything, int64(7), int64(8)).Return(nil).Once()
	f.cache.On("DeleteProducts", mock.Anything, []int64{3, 7}).Return(nil).Once()

	res, err := f.uc.Advance(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "picker",
		IdempotencyKey: "key-2",
	})

	require.NoError(t, err)
	require.Equal(t, domain.StagePacking, res.Order.Stage)
	// Блокировки берутся в порядке возрастания id товара.
	require.Equal(t, []int64{3, 7}, lockOrder)
	require.True(t, f.transactor.tx.committed)

	f.products.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestAdvance_PickingToPacking_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StagePicking,
		domain.OrderItem{ProductID: 3, Quantity: 1},
		domain.OrderItem{ProductID: 7, Quantity: 20},
	)

	f.idem.On("Get", mock.Anything, "key-3").Return(nil, nil).Once()
	f.orders.On("GetForUpdate", mock.Anything, order.ID).Return(order, nil).Once()
	f.products.On("GetForUpdate", mock.Anything, int64(3)).
		Return(&domain.Product{ID: 3, Stock: 5}, nil).Once()
	f.adjustments.On("Create", mock.Anything, mock.AnythingOfType("*domain.StockAdjustment")).Return(nil, nil).Once()
	f.products.On("UpdateStock", mock.Anything, int64(3), int64(4)).Return(nil).Once()
	f.outbox.On("Create", mock.Anything, mock.AnythingOfType("*usecase.OutboxEvent")).Return(nil, nil)
	f.products.On("GetForUpdate", mock.Anything, int64(7)).
		Return(&domain.Product{ID: 7, Stock: 10}, nil).Once()

	_, err := f.uc.Advance(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "picker",
		IdempotencyKey: "key-3",
	})

	require.ErrorIs(t, err, e.ErrInsufficientStock)
	// Частичное списание по первой позиции откатывается вместе с переходом.
	require.True(t, f.transactor.tx.rolledBack)
	f.orders.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "DeleteProducts", mock.Anything, mock.Anything)
}

func TestAdvance_FromDelivered_Fails(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageDelivered)

	f.idem.On("Get", mock.Anything, "key-4").Return(nil, nil).Once()
	f.orders.On("GetForUpdate", mock.Anything, order.ID).Return(order, nil).Once()

	_, err := f.uc.Advance(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		IdempotencyKey: "key-4",
	})

	require.ErrorIs(t, err, e.ErrInvalidTransition)
	require.True(t, f.transactor.tx.rolledBack)
	f.orders.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_BeforeStockCommit_NoCompensation(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageConfirmed, domain.OrderItem{ProductID: 3, Quantity: 1})

	f.expectTransitionPlumbing("key-5", order, domain.StageCancelled)

	res, err := f.uc.Cancel(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		Reason:         "customer request",
		IdempotencyKey: "key-5",
	})

	require.NoError(t, err)
	require.Equal(t, domain.StageCancelled, res.Order.Stage)
	f.products.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestCancel_AfterStockCommit_RestoresStock(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageQualityCheck, domain.OrderItem{ProductID: 3, Quantity: 2})

	f.expectTransitionPlumbing("key-6", order, domain.StageCancelled)
	f.products.On("GetForUpdate", mock.Anything, int64(3)).
		Return(&domain.Product{ID: 3, Stock: 4}, nil).Once()
	f.adjustments.On("Create", mock.Anything, mock.AnythingOfType("*domain.StockAdjustment")).
		Run(func(args mock.Arguments) {
			adj := args.Get(1).(*domain.StockAdjustment)
			require.Equal(t, domain.AdjustmentIncrease, adj.Kind)
			require.NotNil(t, adj.OriginOrderID)
			require.Equal(t, order.ID, *adj.OriginOrderID)
		}).
		Return(nil, nil).Once()
	f.products.On("UpdateStock", mock.Anything, int64(3), int64(6)).Return(nil).Once()
	f.cache.On("DeleteProducts", mock.Anything, []int64{3}).Return(nil).Once()

	res, err := f.uc.Cancel(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		Reason:         "customer request",
		IdempotencyKey: "key-6",
	})

	require.NoError(t, err)
	require.Equal(t, domain.StageCancelled, res.Order.Stage)
	f.products.AssertExpectations(t)
}

func TestCancel_AfterShipped_Fails(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageShipped)

	f.idem.On("Get", mock.Anything, "key-7").Return(nil, nil).Once()
	f.orders.On("GetForUpdate", mock.Anything, order.ID).Return(order, nil).Once()

	_, err := f.uc.Cancel(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		IdempotencyKey: "key-7",
	})

	require.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestReturn_FromDelivered_RestoresStock(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageDelivered, domain.OrderItem{ProductID: 9, Quantity: 1})

	f.expectTransitionPlumbing("key-8", order, domain.StageReturned)
	f.products.On("GetForUpdate", mock.Anything, int64(9)).
		Return(&domain.Product{ID: 9, Stock: 0}, nil).Once()
	f.adjustments.On("Create", mock.Anything, mock.AnythingOfType("*domain.StockAdjustment")).Return(nil, nil).Once()
	f.products.On("UpdateStock", mock.Anything, int64(9), int64(1)).Return(nil).Once()
	f.cache.On("DeleteProducts", mock.Anything, []int64{9}).Return(nil).Once()

	res, err := f.uc.Return(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		Reason:         "defect",
		IdempotencyKey: "key-8",
	})

	require.NoError(t, err)
	require.Equal(t, domain.StageReturned, res.Order.Stage)
	f.products.AssertExpectations(t)
}

func TestReturn_NotDelivered_Fails(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageShipped)

	f.idem.On("Get", mock.Anything, "key-9").Return(nil, nil).Once()
	f.orders.On("GetForUpdate", mock.Anything, order.ID).Return(order, nil).Once()

	_, err := f.uc.Return(context.Background(), &TransitionReq{
		OrderID:        order.ID,
		Actor:          "operator",
		IdempotencyKey: "key-9",
	})

	require.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestGetOrder_ViewDerivesProgress(t *testing.T) {
	f := newFulfillmentFixture()
	order := testOrder(domain.StageShipped)
	order.StageEvents = []domain.StageEvent{
		{Stage: domain.StageReceived},
		{Stage: domain.StageConfirmed},
	}

	f.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil).Once()

	view, err := f.uc.GetOrder(context.Background(), order.ID)

	require.NoError(t, err)
	require.InDelta(t, 85.714, view.Progress, 0.001)
	require.Len(t, view.StageHistory, 2)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFulfillmentFixture()

	f.orders.On("GetByID", mock.Anything, "missing").Return(nil, e.ErrOrderNotFound).Once()

	_, err := f.uc.GetOrder(context.Background(), "missing")

	require.ErrorIs(t, err, e.ErrOrderNotFound)
}
