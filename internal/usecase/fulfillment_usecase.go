package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	reasonFulfillment  = "order fulfillment"
	reasonCancellation = "order cancellation"
	reasonReturn       = "order return"
)

// FulfillmentUseCase реализует машину состояний выполнения заказа.
// Переходы одного заказа сериализуются блокировкой строки заказа; списание
// остатков на Picking → Packing выполняется в той же транзакции, что и смена
// стадии — частично выполненный заказ невозможен по построению.
type FulfillmentUseCase struct {
	orderRepo      OrderRepository
	productRepo    ProductRepository
	adjustmentRepo AdjustmentRepository
	outboxRepo     OutboxRepository
	idemRepo       IdempotencyRepository
	transactor     Transactor
	cacheRepo      CacheRepository
	logger         logger.Logger
}

func NewFulfillmentUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	adjustmentRepo AdjustmentRepository,
	outboxRepo OutboxRepository,
	idemRepo IdempotencyRepository,
	transactor Transactor,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		adjustmentRepo: adjustmentRepo,
		outboxRepo:     outboxRepo,
		idemRepo:       idemRepo,
		transactor:     transactor,
		cacheRepo:      cacheRepo,
		logger:         logger,
	}
}

// Advance переводит заказ на следующую стадию основной последовательности.
// На переходе Picking → Packing списывает остаток по каждой позиции заказа;
// недостаток по любой позиции откатывает переход целиком.
func (u *FulfillmentUseCase) Advance(ctx context.Context, req *TransitionReq) (*TransitionRes, error) {
	const op = "FulfillmentUseCase.Advance"

	res, err := u.transition(ctx, op, req, "advance", func(order *domain.Order) (domain.Stage, bool, error) {
		next, err := domain.NextStage(order.Stage)
		if err != nil {
			return "", false, err
		}
		// Списание остатков ровно один раз — при входе в Packing.
		return next, order.Stage == domain.StagePicking, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// Cancel отменяет заказ из любой стадии до Shipped.
// Если остаток уже был списан, выполняются компенсирующие начисления.
func (u *FulfillmentUseCase) Cancel(ctx context.Context, req *TransitionReq) (*TransitionRes, error) {
	const op = "FulfillmentUseCase.Cancel"

	res, err := u.transition(ctx, op, req, "cancel", func(order *domain.Order) (domain.Stage, bool, error) {
		if !domain.CanCancel(order.Stage) {
			return "", false, e.ErrInvalidTransition
		}
		return domain.StageCancelled, false, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// Return оформляет возврат доставленного заказа с компенсирующим начислением остатка.
func (u *FulfillmentUseCase) Return(ctx context.Context, req *TransitionReq) (*TransitionRes, error) {
	const op = "FulfillmentUseCase.Return"

	res, err := u.transition(ctx, op, req, "return", func(order *domain.Order) (domain.Stage, bool, error) {
		if !domain.CanReturn(order.Stage) {
			return "", false, e.ErrInvalidTransition
		}
		return domain.StageReturned, false, nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// GetOrder возвращает заказ с производным прогрессом.
func (u *FulfillmentUseCase) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	const op = "FulfillmentUseCase.GetOrder"

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewOrderView(order), nil
}

// transition выполняет общий сценарий перехода: идемпотентность, блокировка
// заказа, решение о целевой стадии, движение остатков, событие outbox, коммит.
func (u *FulfillmentUseCase) transition(
	ctx context.Context,
	op string,
	req *TransitionReq,
	command string,
	decide func(order *domain.Order) (domain.Stage, bool, error),
) (*TransitionRes, error) {
	hash := requestHash(command, req.OrderID, req.Actor, req.Reason)

	replay, err := checkReplay(ctx, u.idemRepo, req.IdempotencyKey, hash)
	if err != nil {
		return nil, err
	}
	if replay != nil {
		return decodeTransitionReplay(replay)
	}

	ctx, tx, err := u.transactor.NewTransaction(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()

	order, err := u.orderRepo.GetForUpdate(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	target, commitStock, err := decide(order)
	if err != nil {
		return nil, err
	}

	var touched []int64
	switch {
	case commitStock:
		touched, err = u.moveStock(ctx, order, domain.AdjustmentDecrease, reasonFulfillment, req.Actor)
	case target == domain.StageCancelled && domain.StockCommitted(order.Stage):
		touched, err = u.moveStock(ctx, order, domain.AdjustmentIncrease, reasonCancellation, req.Actor)
	case target == domain.StageReturned:
		touched, err = u.moveStock(ctx, order, domain.AdjustmentIncrease, reasonReturn, req.Actor)
	}
	if err != nil {
		return nil, err
	}

	if err = u.orderRepo.UpdateStage(ctx, order.ID, target); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = u.orderRepo.AddStageEvent(ctx, &domain.StageEvent{
		OrderID:   order.ID,
		Stage:     target,
		Actor:     req.Actor,
		Reason:    req.Reason,
		EnteredAt: now,
	})
	if err != nil {
		return nil, err
	}

	fromStage := order.Stage
	order.Stage = target
	view := NewOrderView(order)

	if err = u.enqueueStageEvent(ctx, order, fromStage, req, now); err != nil {
		return nil, err
	}

	inserted, err := storeTransitionResult(ctx, u.idemRepo, req.IdempotencyKey, hash, view)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Конкурентный повтор успел закоммититься первым — откатываемся и отдаём его результат.
		tx.Rollback(ctx)
		replay, err = checkReplay(ctx, u.idemRepo, req.IdempotencyKey, hash)
		if err != nil {
			return nil, err
		}
		return decodeTransitionReplay(replay)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	if len(touched) > 0 {
		if cacheErr := u.cacheRepo.DeleteProducts(ctx, touched); cacheErr != nil {
			u.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, cacheErr))
		}
	}

	return &TransitionRes{Order: view}, nil
}

// moveStock применяет корректировку по каждой позиции заказа.
// Строки товаров блокируются в порядке возрастания product_id — фиксированный
// порядок исключает взаимную блокировку заказов с пересекающимися SKU.
func (u *FulfillmentUseCase) moveStock(ctx context.Context, order *domain.Order, kind domain.AdjustmentKind, reason, actor string) ([]int64, error) {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	touched := make([]int64, 0, len(items))
	for _, item := range items {
		product, err := u.productRepo.GetForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		stockAfter, err := domain.ApplyAdjustment(product.Stock, kind, item.Quantity)
		if err != nil {
			return nil, err
		}

		originID := order.ID
		adjustment := &domain.StockAdjustment{
			AdjustmentID:  uuid.NewString(),
			ProductID:     item.ProductID,
			Kind:          kind,
			Magnitude:     item.Quantity,
			StockBefore:   product.Stock,
			StockAfter:    stockAfter,
			Reason:        reason,
			Actor:         actor,
			OriginOrderID: &originID,
			CreatedAt:     time.Now().UTC(),
		}

		if _, err := persistAdjustment(ctx, adjustment, u.productRepo, u.adjustmentRepo, u.outboxRepo); err != nil {
			return nil, err
		}

		touched = append(touched, item.ProductID)
	}

	return touched, nil
}

func (u *FulfillmentUseCase) enqueueStageEvent(ctx context.Context, order *domain.Order, fromStage domain.Stage, req *TransitionReq, occurredAt time.Time) error {
	payload, err := json.Marshal(&OrderStageChangedEvent{
		OrderID:    order.ID,
		FromStage:  string(fromStage),
		ToStage:    string(order.Stage),
		Actor:      req.Actor,
		Reason:     req.Reason,
		Progress:   domain.Progress(order.Stage),
		OccurredAt: occurredAt.UnixNano(),
	})
	if err != nil {
		return err
	}

	_, err = u.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   EventOrderStageChanged,
		AggregateID: order.ID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   occurredAt,
	})
	return err
}

func storeTransitionResult(ctx context.Context, repo IdempotencyRepository, key, hash string, view *OrderView) (bool, error) {
	body, err := json.Marshal(view)
	if err != nil {
		return false, err
	}

	return repo.Create(ctx, &IdempotencyRecord{
		Key:         key,
		RequestHash: hash,
		StatusCode:  http.StatusOK,
		Response:    body,
		CreatedAt:   time.Now().UTC(),
	})
}

func decodeTransitionReplay(record *IdempotencyRecord) (*TransitionRes, error) {
	var view OrderView
	if err := json.Unmarshal(record.Response, &view); err != nil {
		return nil, err
	}
	return &TransitionRes{Order: &view, Replayed: true}, nil
}
