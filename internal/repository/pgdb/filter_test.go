package pgdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

func TestBuildProductWhere_Empty(t *testing.T) {
	where, args := buildProductWhere(nil)
	require.Equal(t, "TRUE", where)
	require.Empty(t, args)

	where, args = buildProductWhere(&usecase.ProductFilter{})
	require.Equal(t, "TRUE", where)
	require.Empty(t, args)
}

func TestBuildProductWhere_Search(t *testing.T) {
	where, args := buildProductWhere(&usecase.ProductFilter{Search: "wid"})

	require.Equal(t, "(pr.name ILIKE $1 OR pr.sku ILIKE $2)", where)
	require.Equal(t, []any{"%wid%", "%wid%"}, args)
}

func TestBuildProductWhere_SearchEscapesLikeMetachars(t *testing.T) {
	_, args := buildProductWhere(&usecase.ProductFilter{Search: "50%_off"})

	require.Equal(t, `%50\%\_off%`, args[0])
}

func TestBuildProductWhere_CombinesWithAnd(t *testing.T) {
	categoryID := int64(3)
	min := int64(10000)
	max := int64(50000)

	where, args := buildProductWhere(&usecase.ProductFilter{
		Search:      "cable",
		CategoryID:  &categoryID,
		PriceMin:    &min,
		PriceMax:    &max,
		InStockOnly: true,
	})

	require.Equal(t,
		"(pr.name ILIKE $1 OR pr.sku ILIKE $2) AND pr.category_id = $3 AND pr.price >= $4 AND pr.price <= $5 AND pr.stock > 0",
		where)
	require.Equal(t, []any{"%cable%", "%cable%", int64(3), int64(10000), int64(50000)}, args)
}

func TestBuildProductWhere_StatusGroup(t *testing.T) {
	where, args := buildProductWhere(&usecase.ProductFilter{
		Statuses:     []domain.StockStatus{domain.StockOutOfStock, domain.StockLow},
		LowThreshold: 10,
	})

	require.Equal(t, "(pr.stock = 0 OR (pr.stock > 0 AND pr.stock <= 10))", where)
	require.Empty(t, args)
}

func TestBuildProductWhere_StatusDefaultThreshold(t *testing.T) {
	where, _ := buildProductWhere(&usecase.ProductFilter{
		Statuses: []domain.StockStatus{domain.StockInStock},
	})

	require.Equal(t, "pr.stock > 10", where)
}

func TestBuildProductOrderBy(t *testing.T) {
	require.Equal(t, "ORDER BY pr.price DESC, pr.id ASC",
		buildProductOrderBy(usecase.SortParams{Field: "price", Desc: true}))

	// Неизвестное поле откатывается на колонку по умолчанию.
	require.Equal(t, "ORDER BY pr.name ASC, pr.id ASC",
		buildProductOrderBy(usecase.SortParams{}))
}

func TestBuildOrderWhere(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	min := int64(100000)
	priority := domain.PriorityHigh

	where, args := buildOrderWhere(&usecase.OrderFilter{
		Stages:        []domain.Stage{domain.StagePicking, domain.StagePacking},
		PaymentStatus: "paid",
		CreatedFrom:   &from,
		AmountMin:     &min,
		Priority:      &priority,
	})

	require.Equal(t,
		"o.stage = ANY($1) AND o.payment_status = $2 AND o.created_at >= $3 AND o.total_amount >= $4 AND o.priority = $5",
		where)
	require.Equal(t, []any{[]string{"picking", "packing"}, "paid", from, int64(100000), "high"}, args)
}

func TestBuildOrderOrderBy(t *testing.T) {
	require.Equal(t, "ORDER BY o.total_amount DESC, o.id ASC",
		buildOrderOrderBy(usecase.SortParams{Field: "totalAmount", Desc: true}))

	require.Equal(t, "ORDER BY o.created_at ASC, o.id ASC",
		buildOrderOrderBy(usecase.SortParams{}))
}
