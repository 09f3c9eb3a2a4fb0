package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

type ProductRepository interface {
	GetForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int64) error
	GetView(ctx context.Context, id int64) (*ProductView, error)
	Query(ctx context.Context, filter *ProductFilter, sort SortParams, page PageParams) ([]ProductView, int64, error)
	Stats(ctx context.Context, lowThreshold int64) (*StockStatsRes, error)
}

type AdjustmentRepository interface {
	Create(ctx context.Context, adj *domain.StockAdjustment) (*domain.StockAdjustment, error)
	History(ctx context.Context, productID int64, page PageParams) ([]domain.StockAdjustment, int64, error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Order, error)
	UpdateStage(ctx context.Context, id string, stage domain.Stage) error
	AddStageEvent(ctx context.Context, event *domain.StageEvent) error
	Query(ctx context.Context, filter *OrderFilter, sort SortParams, page PageParams) ([]OrderView, int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type IdempotencyRepository interface {
	// Get возвращает (nil, nil), если ключ ещё не встречался.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Create вставляет запись в рамках текущей транзакции.
	// Возвращает false, если ключ уже занят конкурентным коммитом.
	Create(ctx context.Context, record *IdempotencyRecord) (bool, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductView, error)
	SetProducts(ctx context.Context, products []ProductView) error
	DeleteProducts(ctx context.Context, ids []int64) error
}
