package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/google/uuid"
)

// StockLedgerUseCase реализует бизнес-логику леджера остатков.
// Все корректировки одного товара сериализуются блокировкой строки товара,
// поэтому пары stock_before/stock_after образуют полный порядок без потерянных обновлений.
type StockLedgerUseCase struct {
	productRepo    ProductRepository
	adjustmentRepo AdjustmentRepository
	outboxRepo     OutboxRepository
	idemRepo       IdempotencyRepository
	transactor     Transactor
	cacheRepo      CacheRepository
	logger         logger.Logger
}

func NewStockLedgerUC(
	productRepo ProductRepository,
	adjustmentRepo AdjustmentRepository,
	outboxRepo OutboxRepository,
	idemRepo IdempotencyRepository,
	transactor Transactor,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		productRepo:    productRepo,
		adjustmentRepo: adjustmentRepo,
		outboxRepo:     outboxRepo,
		idemRepo:       idemRepo,
		transactor:     transactor,
		cacheRepo:      cacheRepo,
		logger:         logger,
	}
}

// Adjust фиксирует корректировку остатка: запись леджера, производное поле stock
// и событие outbox коммитятся одной транзакцией, либо не применяется ничего.
func (u *StockLedgerUseCase) Adjust(ctx context.Context, req *AdjustStockReq) (*AdjustStockRes, error) {
	const op = "StockLedgerUseCase.Adjust"

	var err error
	if err = u.validateAdjust(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	hash := adjustRequestHash(req)
	replay, err := checkReplay(ctx, u.idemRepo, req.IdempotencyKey, hash)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if replay != nil {
		return decodeAdjustReplay(replay)
	}

	ctx, tx, err := u.transactor.NewTransaction(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()

	product, err := u.productRepo.GetForUpdate(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	stockAfter, err := domain.ApplyAdjustment(product.Stock, req.Kind, req.Magnitude)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	adjustment := &domain.StockAdjustment{
		AdjustmentID: uuid.NewString(),
		ProductID:    req.ProductID,
		Kind:         req.Kind,
		Magnitude:    req.Magnitude,
		StockBefore:  product.Stock,
		StockAfter:   stockAfter,
		Reason:       req.Reason,
		Actor:        req.Actor,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := persistAdjustment(ctx, adjustment, u.productRepo, u.adjustmentRepo, u.outboxRepo)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	inserted, err := storeAdjustResult(ctx, u.idemRepo, req.IdempotencyKey, hash, created)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !inserted {
		// Конкурентный повтор успел закоммититься первым — откатываемся и отдаём его результат.
		tx.Rollback(ctx)
		replay, err = checkReplay(ctx, u.idemRepo, req.IdempotencyKey, hash)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return decodeAdjustReplay(replay)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша устаревших данных товара
	if cacheErr := u.cacheRepo.DeleteProducts(ctx, []int64{req.ProductID}); cacheErr != nil {
		u.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, cacheErr))
	}

	return &AdjustStockRes{Adjustment: created}, nil
}

// CurrentStock возвращает текущий остаток: stock_after последней корректировки.
func (u *StockLedgerUseCase) CurrentStock(ctx context.Context, productID int64) (int64, error) {
	const op = "StockLedgerUseCase.CurrentStock"

	view, err := u.productRepo.GetView(ctx, productID)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return view.Stock, nil
}

// History возвращает страницу истории корректировок товара, от новых к старым.
func (u *StockLedgerUseCase) History(ctx context.Context, productID int64, page PageParams) (*AdjustmentHistoryRes, error) {
	const op = "StockLedgerUseCase.History"

	if err := page.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Проверка существования товара: пустая история и неизвестный товар — разные ответы.
	if _, err := u.productRepo.GetView(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	items, total, err := u.adjustmentRepo.History(ctx, productID, page)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &AdjustmentHistoryRes{Items: items, TotalCount: total}, nil
}

// Stats возвращает агрегаты остатков для шапки дашборда.
func (u *StockLedgerUseCase) Stats(ctx context.Context) (*StockStatsRes, error) {
	const op = "StockLedgerUseCase.Stats"

	stats, err := u.productRepo.Stats(ctx, domain.DefaultLowStockThreshold)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}

// validateAdjust проверяет корректность входных данных корректировки.
func (u *StockLedgerUseCase) validateAdjust(req *AdjustStockReq) error {
	if req.Magnitude < 0 {
		return e.ErrInvalidMagnitude
	}
	if req.Reason == "" {
		return e.ErrReasonRequired
	}
	if _, err := domain.ParseAdjustmentKind(string(req.Kind)); err != nil {
		return err
	}
	return nil
}

// persistAdjustment записывает корректировку, обновляет производный остаток
// и ставит событие в outbox. Вызывается только внутри открытой транзакции
// с уже заблокированной строкой товара.
func persistAdjustment(
	ctx context.Context,
	adjustment *domain.StockAdjustment,
	products ProductRepository,
	adjustments AdjustmentRepository,
	outbox OutboxRepository,
) (*domain.StockAdjustment, error) {
	created, err := adjustments.Create(ctx, adjustment)
	if err != nil {
		return nil, err
	}

	if err := products.UpdateStock(ctx, created.ProductID, created.StockAfter); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(&StockAdjustedEvent{
		AdjustmentID:  created.AdjustmentID,
		ProductID:     created.ProductID,
		Kind:          string(created.Kind),
		Magnitude:     created.Magnitude,
		StockBefore:   created.StockBefore,
		StockAfter:    created.StockAfter,
		Reason:        created.Reason,
		Actor:         created.Actor,
		OriginOrderID: created.OriginOrderID,
		OccurredAt:    created.CreatedAt.UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	_, err = outbox.Create(ctx, &OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   EventStockAdjusted,
		AggregateID: strconv.FormatInt(created.ProductID, 10),
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   created.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func adjustRequestHash(req *AdjustStockReq) string {
	return requestHash(
		"adjust",
		strconv.FormatInt(req.ProductID, 10),
		string(req.Kind),
		strconv.FormatInt(req.Magnitude, 10),
		req.Reason,
		req.Actor,
	)
}

func storeAdjustResult(ctx context.Context, repo IdempotencyRepository, key, hash string, created *domain.StockAdjustment) (bool, error) {
	body, err := json.Marshal(created)
	if err != nil {
		return false, err
	}

	return repo.Create(ctx, &IdempotencyRecord{
		Key:         key,
		RequestHash: hash,
		StatusCode:  http.StatusCreated,
		Response:    body,
		CreatedAt:   time.Now().UTC(),
	})
}

func decodeAdjustReplay(record *IdempotencyRecord) (*AdjustStockRes, error) {
	var adjustment domain.StockAdjustment
	if err := json.Unmarshal(record.Response, &adjustment); err != nil {
		return nil, err
	}
	return &AdjustStockRes{Adjustment: &adjustment, Replayed: true}, nil
}
