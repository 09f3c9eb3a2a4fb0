package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

// productSortFields — поля сортировки, разрешённые для списка товаров.
var productSortFields = map[string]bool{
	"name":      true,
	"sku":       true,
	"price":     true,
	"stock":     true,
	"createdAt": true,
}

// orderSortFields — поля сортировки, разрешённые для списка заказов.
var orderSortFields = map[string]bool{
	"createdAt":   true,
	"totalAmount": true,
	"stage":       true,
	"priority":    true,
}

// CatalogUseCase обслуживает read-only выборки дашборда.
// Состояние леджера и заказов не мутируется; каждый список читается одним
// SQL-запросом, то есть одним консистентным снапшотом MVCC.
type CatalogUseCase struct {
	productRepo ProductRepository
	orderRepo   OrderRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	orderRepo OrderRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// GetProduct возвращает карточку товара с текущим остатком и статусом.
// Чтение cache-aside: промах добирается из БД и фоном кладётся в кэш.
func (c *CatalogUseCase) GetProduct(ctx context.Context, productID int64) (*ProductView, error) {
	const op = "CatalogUseCase.GetProduct"

	cached, err := c.cacheRepo.GetProducts(ctx, []int64{productID})
	if err == nil {
		if view, ok := cached[productID]; ok {
			return &view, nil
		}
	}

	view, err := c.productRepo.GetView(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProducts(bgCtx, []ProductView{*view}); err != nil {
			c.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return view, nil
}

// QueryProducts возвращает отфильтрованную, отсортированную страницу товаров
// и полный размер выборки до среза.
func (c *CatalogUseCase) QueryProducts(ctx context.Context, filter *ProductFilter, sort SortParams, page PageParams) (*ProductListRes, error) {
	const op = "CatalogUseCase.QueryProducts"

	if err := page.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := validateSort(sort, productSortFields); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := validateProductFilter(filter); err != nil {
		return nil, e.Wrap(op, err)
	}

	if filter.LowThreshold <= 0 {
		filter.LowThreshold = domain.DefaultLowStockThreshold
	}

	items, total, err := c.productRepo.Query(ctx, filter, sort, page)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ProductListRes{Items: items, TotalCount: total}, nil
}

// QueryOrders — симметричная выборка по заказам.
func (c *CatalogUseCase) QueryOrders(ctx context.Context, filter *OrderFilter, sort SortParams, page PageParams) (*OrderListRes, error) {
	const op = "CatalogUseCase.QueryOrders"

	if err := page.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := validateSort(sort, orderSortFields); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := validateOrderFilter(filter); err != nil {
		return nil, e.Wrap(op, err)
	}

	items, total, err := c.orderRepo.Query(ctx, filter, sort, page)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &OrderListRes{Items: items, TotalCount: total}, nil
}

func validateSort(sort SortParams, allowed map[string]bool) error {
	if sort.Field == "" {
		return nil
	}
	if !allowed[sort.Field] {
		return e.ErrInvalidSortField
	}
	return nil
}

func validateProductFilter(filter *ProductFilter) error {
	if filter == nil {
		return nil
	}

	if filter.PriceMin != nil && *filter.PriceMin < 0 {
		return e.ErrInvalidPriceRange
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return e.ErrInvalidPriceRange
	}

	for _, status := range filter.Statuses {
		if _, err := domain.ParseStockStatus(string(status)); err != nil {
			return err
		}
	}

	return nil
}

func validateOrderFilter(filter *OrderFilter) error {
	if filter == nil {
		return nil
	}

	for _, stage := range filter.Stages {
		if _, err := domain.ParseStage(string(stage)); err != nil {
			return err
		}
	}

	if filter.AmountMin != nil && filter.AmountMax != nil && *filter.AmountMin > *filter.AmountMax {
		return e.ErrInvalidPriceRange
	}

	return nil
}
