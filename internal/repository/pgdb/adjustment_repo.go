package pgdb

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jimlawless/whereami"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdjustmentRepo — append-only хранилище записей леджера.
// Записи никогда не обновляются и не удаляются.
type AdjustmentRepo struct {
	pool *pgxpool.Pool
}

func NewAdjustmentRepo(pool *pgxpool.Pool) *AdjustmentRepo {
	return &AdjustmentRepo{pool: pool}
}

// Create вставляет запись леджера в рамках текущей транзакции.
func (a *AdjustmentRepo) Create(ctx context.Context, adj *domain.StockAdjustment) (*domain.StockAdjustment, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO stock_adjustments (
			adjustment_id, product_id, kind, magnitude,
			stock_before, stock_after, reason, actor, origin_order_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	created := *adj
	err = tx.QueryRow(ctx, query,
		adj.AdjustmentID, adj.ProductID, string(adj.Kind), adj.Magnitude,
		adj.StockBefore, adj.StockAfter, adj.Reason, adj.Actor, adj.OriginOrderID, adj.CreatedAt,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &created, nil
}

// History возвращает страницу истории корректировок товара, от новых к старым,
// и полный размер истории. Оконный COUNT — один снапшот на страницу и счётчик.
func (a *AdjustmentRepo) History(ctx context.Context, productID int64, page usecase.PageParams) ([]domain.StockAdjustment, int64, error) {
	query := `
		SELECT id, adjustment_id, product_id, kind, magnitude,
		       stock_before, stock_after, reason, actor, origin_order_id, created_at,
		       COUNT(*) OVER () AS total_count
		FROM stock_adjustments
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := a.pool.Query(ctx, query, productID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	items := make([]domain.StockAdjustment, 0, page.Limit)
	var total int64
	for rows.Next() {
		var (
			adj  domain.StockAdjustment
			kind string
		)
		err := rows.Scan(
			&adj.ID, &adj.AdjustmentID, &adj.ProductID, &kind, &adj.Magnitude,
			&adj.StockBefore, &adj.StockAfter, &adj.Reason, &adj.Actor, &adj.OriginOrderID, &adj.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		adj.Kind = domain.AdjustmentKind(kind)
		items = append(items, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(items) == 0 && page.Page > 1 {
		countQuery := `SELECT COUNT(*) FROM stock_adjustments WHERE product_id = $1`
		if err := a.pool.QueryRow(ctx, countQuery, productID).Scan(&total); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return items, total, nil
}
