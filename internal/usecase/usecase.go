package usecase

import "context"

// LedgerUC — операции леджера остатков.
type LedgerUC interface {
	Adjust(ctx context.Context, req *AdjustStockReq) (*AdjustStockRes, error)
	CurrentStock(ctx context.Context, productID int64) (int64, error)
	History(ctx context.Context, productID int64, page PageParams) (*AdjustmentHistoryRes, error)
	Stats(ctx context.Context) (*StockStatsRes, error)
}

// FulfillmentUC — переходы жизненного цикла заказа.
type FulfillmentUC interface {
	Advance(ctx context.Context, req *TransitionReq) (*TransitionRes, error)
	Cancel(ctx context.Context, req *TransitionReq) (*TransitionRes, error)
	Return(ctx context.Context, req *TransitionReq) (*TransitionRes, error)
	GetOrder(ctx context.Context, orderID string) (*OrderView, error)
}

// CatalogUC — read-only запросы каталога для дашборда.
type CatalogUC interface {
	GetProduct(ctx context.Context, productID int64) (*ProductView, error)
	QueryProducts(ctx context.Context, filter *ProductFilter, sort SortParams, page PageParams) (*ProductListRes, error)
	QueryOrders(ctx context.Context, filter *OrderFilter, sort SortParams, page PageParams) (*OrderListRes, error)
}
