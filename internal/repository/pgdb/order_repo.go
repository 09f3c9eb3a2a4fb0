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

const orderColumns = `id, customer_id, customer_type, stage, priority, payment_status,
	       shipping_method, tracking_number, assigned_to, total_amount, created_at, updated_at`

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// GetByID возвращает заказ с позициями и историей стадий.
func (o *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(o.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if order.Items, err = o.loadItems(ctx, id); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if order.StageEvents, err = o.loadStageEvents(ctx, id); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return order, nil
}

// GetForUpdate читает заказ с позициями под блокировкой строки заказа.
// Блокировка сериализует переходы одного заказа; вызывать только внутри транзакции.
func (o *OrderRepo) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := tx.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return order, nil
}

// UpdateStage записывает стадию заказа в рамках текущей транзакции.
func (o *OrderRepo) UpdateStage(ctx context.Context, id string, stage domain.Stage) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `UPDATE orders SET stage = $1, updated_at = NOW() WHERE id = $2`, string(stage), id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if result.RowsAffected() == 0 {
		return e.ErrOrderNotFound
	}

	return nil
}

// AddStageEvent фиксирует факт входа заказа в стадию.
func (o *OrderRepo) AddStageEvent(ctx context.Context, event *domain.StageEvent) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO order_stage_events (order_id, stage, actor, reason, entered_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, query, event.OrderID, string(event.Stage), event.Actor, event.Reason, event.EnteredAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Query возвращает страницу заказов и полный размер выборки одним запросом.
func (o *OrderRepo) Query(ctx context.Context, filter *usecase.OrderFilter, sort usecase.SortParams, page usecase.PageParams) ([]usecase.OrderView, int64, error) {
	where, args := buildOrderWhere(filter)
	orderBy := buildOrderOrderBy(sort)

	query := fmt.Sprintf(`
		SELECT o.id, o.customer_id, o.customer_type, o.stage, o.priority, o.payment_status,
		       o.shipping_method, o.tracking_number, o.assigned_to, o.total_amount, o.created_at,
		       COUNT(*) OVER () AS total_count
		FROM orders o
		WHERE %s
		%s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)+1, len(args)+2)

	args = append(args, page.Limit, page.Offset())

	rows, err := o.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	items := make([]usecase.OrderView, 0, page.Limit)
	var total int64
	for rows.Next() {
		var (
			view  usecase.OrderView
			stage string
		)
		err := rows.Scan(
			&view.ID, &view.CustomerID, &view.CustomerType, &stage, &view.Priority, &view.PaymentStatus,
			&view.ShippingMethod, &view.TrackingNumber, &view.AssignedTo, &view.TotalAmount, &view.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		view.Stage = domain.Stage(stage)
		view.Progress = domain.Progress(view.Stage)
		items = append(items, view)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(items) == 0 && page.Page > 1 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders o WHERE %s`, where)
		if err := o.pool.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return items, total, nil
}

func (o *OrderRepo) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := o.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (o *OrderRepo) loadStageEvents(ctx context.Context, orderID string) ([]domain.StageEvent, error) {
	query := `
		SELECT id, order_id, stage, actor, reason, entered_at
		FROM order_stage_events
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := o.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.StageEvent
	for rows.Next() {
		var (
			event domain.StageEvent
			stage string
		)
		if err := rows.Scan(&event.ID, &event.OrderID, &stage, &event.Actor, &event.Reason, &event.EnteredAt); err != nil {
			return nil, err
		}
		event.Stage = domain.Stage(stage)
		events = append(events, event)
	}

	return events, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order    domain.Order
		stage    string
		priority string
	)
	err := row.Scan(
		&order.ID, &order.CustomerID, &order.CustomerType, &stage, &priority, &order.PaymentStatus,
		&order.ShippingMethod, &order.TrackingNumber, &order.AssignedTo, &order.TotalAmount,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Stage = domain.Stage(stage)
	order.Priority = domain.Priority(priority)
	return &order, nil
}
