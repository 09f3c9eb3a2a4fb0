package pgdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

// condBuilder накапливает независимые предикаты WHERE и их аргументы.
// Каждый предикат собирается отдельной функцией и комбинируется через AND.
type condBuilder struct {
	conds []string
	args  []any
}

// add регистрирует условие; вхождения $? заменяются на очередные номера плейсхолдеров.
func (b *condBuilder) add(cond string, args ...any) {
	for _, arg := range args {
		b.args = append(b.args, arg)
		cond = strings.Replace(cond, "$?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, cond)
}

// where возвращает готовую SQL-часть (без ключевого слова WHERE) и аргументы.
func (b *condBuilder) where() (string, []any) {
	if len(b.conds) == 0 {
		return "TRUE", nil
	}
	return strings.Join(b.conds, " AND "), b.args
}

// buildProductWhere компилирует фильтр товаров в SQL-условия.
func buildProductWhere(f *usecase.ProductFilter) (string, []any) {
	b := &condBuilder{}
	if f == nil {
		return b.where()
	}

	productSearchCond(b, f.Search)
	productCategoryCond(b, f.CategoryID)
	productPriceCond(b, f.PriceMin, f.PriceMax)
	productStatusCond(b, f.Statuses, f.LowThreshold)
	productFlagsCond(b, f.InStockOnly, f.NewArrivalsOnly, f.OnSaleOnly)

	return b.where()
}

// productSearchCond — подстрока имени или SKU без учёта регистра.
func productSearchCond(b *condBuilder, search string) {
	if search == "" {
		return
	}
	pattern := "%" + escapeLike(search) + "%"
	b.add("(pr.name ILIKE $? OR pr.sku ILIKE $?)", pattern, pattern)
}

func productCategoryCond(b *condBuilder, categoryID *int64) {
	if categoryID == nil {
		return
	}
	b.add("pr.category_id = $?", *categoryID)
}

// productPriceCond — включительный диапазон цены в копейках.
func productPriceCond(b *condBuilder, min, max *int64) {
	if min != nil {
		b.add("pr.price >= $?", *min)
	}
	if max != nil {
		b.add("pr.price <= $?", *max)
	}
}

// productStatusCond — принадлежность статуса остатка множеству.
// Статусы внутри группы комбинируются через OR, группа — AND с остальным фильтром.
func productStatusCond(b *condBuilder, statuses []domain.StockStatus, threshold int64) {
	if len(statuses) == 0 {
		return
	}
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		switch status {
		case domain.StockOutOfStock:
			parts = append(parts, "pr.stock = 0")
		case domain.StockLow:
			parts = append(parts, fmt.Sprintf("(pr.stock > 0 AND pr.stock <= %d)", threshold))
		case domain.StockInStock:
			parts = append(parts, fmt.Sprintf("pr.stock > %d", threshold))
		}
	}
	if len(parts) > 0 {
		b.add("(" + strings.Join(parts, " OR ") + ")")
	}
}

func productFlagsCond(b *condBuilder, inStockOnly, newArrivalsOnly, onSaleOnly bool) {
	if inStockOnly {
		b.add("pr.stock > 0")
	}
	if newArrivalsOnly {
		b.add("pr.is_new_arrival")
	}
	if onSaleOnly {
		b.add("pr.is_on_sale")
	}
}

// productSortColumns — отображение внешних имён полей сортировки на колонки.
var productSortColumns = map[string]string{
	"name":      "pr.name",
	"sku":       "pr.sku",
	"price":     "pr.price",
	"stock":     "pr.stock",
	"createdAt": "pr.created_at",
}

// buildProductOrderBy возвращает ORDER BY с детерминированным tie-break по id.
func buildProductOrderBy(sort usecase.SortParams) string {
	return buildOrderBy(sort, productSortColumns, "pr.id", "pr.name")
}

// buildOrderWhere компилирует фильтр заказов в SQL-условия.
func buildOrderWhere(f *usecase.OrderFilter) (string, []any) {
	b := &condBuilder{}
	if f == nil {
		return b.where()
	}

	orderStageCond(b, f.Stages)
	if f.PaymentStatus != "" {
		b.add("o.payment_status = $?", f.PaymentStatus)
	}
	orderDateCond(b, f.CreatedFrom, f.CreatedTo)
	orderAmountCond(b, f.AmountMin, f.AmountMax)
	if f.CustomerType != "" {
		b.add("o.customer_type = $?", f.CustomerType)
	}
	if f.ShippingMethod != "" {
		b.add("o.shipping_method = $?", f.ShippingMethod)
	}
	if f.Priority != nil {
		b.add("o.priority = $?", string(*f.Priority))
	}

	return b.where()
}

func orderStageCond(b *condBuilder, stages []domain.Stage) {
	if len(stages) == 0 {
		return
	}
	values := make([]string, 0, len(stages))
	for _, stage := range stages {
		values = append(values, string(stage))
	}
	b.add("o.stage = ANY($?)", values)
}

func orderDateCond(b *condBuilder, from, to *time.Time) {
	if from != nil {
		b.add("o.created_at >= $?", *from)
	}
	if to != nil {
		b.add("o.created_at <= $?", *to)
	}
}

func orderAmountCond(b *condBuilder, min, max *int64) {
	if min != nil {
		b.add("o.total_amount >= $?", *min)
	}
	if max != nil {
		b.add("o.total_amount <= $?", *max)
	}
}

var orderSortColumns = map[string]string{
	"createdAt":   "o.created_at",
	"totalAmount": "o.total_amount",
	"stage":       "o.stage",
	"priority":    "o.priority",
}

func buildOrderOrderBy(sort usecase.SortParams) string {
	return buildOrderBy(sort, orderSortColumns, "o.id", "o.created_at")
}

func buildOrderBy(sort usecase.SortParams, columns map[string]string, tieBreak, defaultColumn string) string {
	column, ok := columns[sort.Field]
	if !ok {
		column = defaultColumn
	}

	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s, %s ASC", column, direction, tieBreak)
}

// escapeLike экранирует спецсимволы LIKE в пользовательском вводе.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
