package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// GetForUpdate читает товар с блокировкой строки (FOR UPDATE).
// Блокировка сериализует все корректировки одного товара; вызывать только внутри транзакции.
func (p *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT id, sku, name, price, stock, min_order_qty, max_order_qty, category_id
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var product domain.Product
	err = tx.QueryRow(ctx, query, id).Scan(
		&product.ID, &product.SKU, &product.Name, &product.Price, &product.Stock,
		&product.MinOrderQty, &product.MaxOrderQty, &product.CategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &product, nil
}

// UpdateStock записывает производное поле stock. Единственный путь записи — леджер;
// вызывать только внутри транзакции, удерживающей блокировку строки.
func (p *ProductRepo) UpdateStock(ctx context.Context, id int64, stock int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`, stock, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// GetView возвращает карточку товара с названием категории и статусным бейджем.
func (p *ProductRepo) GetView(ctx context.Context, id int64) (*usecase.ProductView, error) {
	query := `
		SELECT pr.id, pr.sku, pr.name, pr.price, pr.stock,
		       pr.min_order_qty, pr.max_order_qty,
		       pr.category_id, cat.name, pr.tags,
		       pr.is_new_arrival, pr.is_on_sale, pr.created_at
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = $1
	`

	view, err := scanProductView(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return view, nil
}

// Query возвращает страницу товаров и полный размер выборки.
// Один SQL-запрос с оконным COUNT — страница и счётчик читаются из одного снапшота MVCC.
func (p *ProductRepo) Query(ctx context.Context, filter *usecase.ProductFilter, sort usecase.SortParams, page usecase.PageParams) ([]usecase.ProductView, int64, error) {
	where, args := buildProductWhere(filter)
	orderBy := buildProductOrderBy(sort)

	query := fmt.Sprintf(`
		SELECT pr.id, pr.sku, pr.name, pr.price, pr.stock,
		       pr.min_order_qty, pr.max_order_qty,
		       pr.category_id, cat.name, pr.tags,
		       pr.is_new_arrival, pr.is_on_sale, pr.created_at,
		       COUNT(*) OVER () AS total_count
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE %s
		%s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)+1, len(args)+2)

	args = append(args, page.Limit, page.Offset())

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	items := make([]usecase.ProductView, 0, page.Limit)
	var total int64
	for rows.Next() {
		var view usecase.ProductView
		err := rows.Scan(
			&view.ID, &view.SKU, &view.Name, &view.Price, &view.Stock,
			&view.MinOrderQty, &view.MaxOrderQty,
			&view.CategoryID, &view.CategoryName, &view.Tags,
			&view.IsNewArrival, &view.IsOnSale, &view.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		view.Status = domain.ClassifyStock(view.Stock, lowThreshold(filter))
		items = append(items, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	// Страница за пределами выборки: оконный счётчик недоступен, добираем отдельным COUNT.
	if len(items) == 0 && page.Page > 1 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products pr WHERE %s`, where)
		if err := p.pool.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return items, total, nil
}

// Stats возвращает агрегаты остатков для счётчиков дашборда.
func (p *ProductRepo) Stats(ctx context.Context, lowThreshold int64) (*usecase.StockStatsRes, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE stock > 0 AND stock <= $1),
		       COUNT(*) FILTER (WHERE stock = 0)
		FROM products
	`

	var stats usecase.StockStatsRes
	err := p.pool.QueryRow(ctx, query, lowThreshold).Scan(&stats.Total, &stats.LowStock, &stats.OutOfStock)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &stats, nil
}

func scanProductView(row pgx.Row) (*usecase.ProductView, error) {
	var view usecase.ProductView
	err := row.Scan(
		&view.ID, &view.SKU, &view.Name, &view.Price, &view.Stock,
		&view.MinOrderQty, &view.MaxOrderQty,
		&view.CategoryID, &view.CategoryName, &view.Tags,
		&view.IsNewArrival, &view.IsOnSale, &view.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	view.Status = domain.ClassifyStock(view.Stock, domain.DefaultLowStockThreshold)
	return &view, nil
}

func lowThreshold(filter *usecase.ProductFilter) int64 {
	if filter == nil || filter.LowThreshold <= 0 {
		return domain.DefaultLowStockThreshold
	}
	return filter.LowThreshold
}
