package usecase

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// LEDGER USECASE

// AdjustStockReq — запрос на корректировку остатка.
type AdjustStockReq struct {
	ProductID      int64
	Kind           domain.AdjustmentKind
	Magnitude      int64
	Reason         string
	Actor          string
	IdempotencyKey string
}

// AdjustStockRes — результат корректировки.
// Replayed выставляется при безопасном повторе по ключу идемпотентности.
type AdjustStockRes struct {
	Adjustment *domain.StockAdjustment
	Replayed   bool
}

// AdjustmentHistoryRes — страница истории корректировок (от новых к старым).
type AdjustmentHistoryRes struct {
	Items      []domain.StockAdjustment
	TotalCount int64
}

// StockStatsRes — агрегаты для шапки дашборда.
type StockStatsRes struct {
	Total      int64
	LowStock   int64
	OutOfStock int64
}

// FULFILLMENT USECASE

// TransitionReq — запрос на переход стадии заказа.
type TransitionReq struct {
	OrderID        string
	Actor          string
	Reason         string
	IdempotencyKey string
}

// TransitionRes — заказ после перехода.
type TransitionRes struct {
	Order    *OrderView
	Replayed bool
}

// CATALOG USECASE

// PageParams — параметры пагинации, нумерация страниц с единицы.
type PageParams struct {
	Page  int
	Limit int
}

// Validate проверяет границы пагинации.
func (p PageParams) Validate() error {
	if p.Page < 1 || p.Limit < 1 {
		return e.ErrInvalidPage
	}
	return nil
}

// Offset возвращает смещение для SQL.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SortParams — поле и направление сортировки.
type SortParams struct {
	Field string
	Desc  bool
}

// ProductFilter — AND-композиция предикатов списка товаров.
type ProductFilter struct {
	Search          string // подстрока имени или SKU, без учёта регистра
	CategoryID      *int64
	Statuses        []domain.StockStatus
	PriceMin        *int64 // в копейках, включительно
	PriceMax        *int64
	InStockOnly     bool
	NewArrivalsOnly bool
	OnSaleOnly      bool
	LowThreshold    int64 // порог для статусов; 0 — использовать значение по умолчанию
}

// OrderFilter — AND-композиция предикатов списка заказов.
type OrderFilter struct {
	Stages         []domain.Stage
	PaymentStatus  string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	AmountMin      *int64
	AmountMax      *int64
	CustomerType   string
	ShippingMethod string
	Priority       *domain.Priority
}

// ProductView — DTO товара для дашборда: текущий остаток плюс статусный бейдж.
type ProductView struct {
	ID           int64              `json:"id"`
	SKU          string             `json:"sku"`
	Name         string             `json:"name"`
	Price        int64              `json:"price"`
	Stock        int64              `json:"stock"`
	Status       domain.StockStatus `json:"status"`
	MinOrderQty  int32              `json:"minOrderQty"`
	MaxOrderQty  int32              `json:"maxOrderQty"`
	CategoryID   int64              `json:"categoryId"`
	CategoryName string             `json:"categoryName"`
	Tags         []string           `json:"tags"`
	IsNewArrival bool               `json:"isNewArrival"`
	IsOnSale     bool               `json:"isOnSale"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// OrderView — DTO заказа с производным прогрессом.
type OrderView struct {
	ID             string             `json:"id"`
	CustomerID     string             `json:"customerId"`
	CustomerType   string             `json:"customerType"`
	Stage          domain.Stage       `json:"stage"`
	Priority       domain.Priority    `json:"priority"`
	PaymentStatus  string             `json:"paymentStatus"`
	ShippingMethod string             `json:"shippingMethod"`
	TrackingNumber string             `json:"trackingNumber"`
	AssignedTo     string             `json:"assignedTo"`
	TotalAmount    int64              `json:"totalAmount"`
	Progress       float64            `json:"progress"`
	Items          []domain.OrderItem `json:"items,omitempty"`
	StageHistory   []domain.StageEvent `json:"stageHistory,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// NewOrderView строит DTO заказа из доменной сущности.
func NewOrderView(order *domain.Order) *OrderView {
	return &OrderView{
		ID:             order.ID,
		CustomerID:     order.CustomerID,
		CustomerType:   order.CustomerType,
		Stage:          order.Stage,
		Priority:       order.Priority,
		PaymentStatus:  order.PaymentStatus,
		ShippingMethod: order.ShippingMethod,
		TrackingNumber: order.TrackingNumber,
		AssignedTo:     order.AssignedTo,
		TotalAmount:    order.TotalAmount,
		Progress:       domain.Progress(order.Stage),
		Items:          order.Items,
		StageHistory:   order.StageEvents,
		CreatedAt:      order.CreatedAt,
	}
}

// ProductListRes — страница товаров с полным размером выборки до среза.
type ProductListRes struct {
	Items      []ProductView
	TotalCount int64
}

// OrderListRes — страница заказов.
type OrderListRes struct {
	Items      []OrderView
	TotalCount int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

const (
	EventStockAdjusted     = "inventory.stock_adjusted"
	EventOrderStageChanged = "inventory.order_stage_changed"
)

// OutboxEvent — запись транзакционного outbox.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// StockAdjustedEvent — полезная нагрузка события корректировки остатка.
type StockAdjustedEvent struct {
	AdjustmentID  string  `json:"adjustmentId"`
	ProductID     int64   `json:"productId"`
	Kind          string  `json:"kind"`
	Magnitude     int64   `json:"magnitude"`
	StockBefore   int64   `json:"stockBefore"`
	StockAfter    int64   `json:"stockAfter"`
	Reason        string  `json:"reason"`
	Actor         string  `json:"actor"`
	OriginOrderID *string `json:"originOrderId,omitempty"`
	OccurredAt    int64   `json:"occurredAt"`
}

// OrderStageChangedEvent — полезная нагрузка события перехода стадии.
type OrderStageChangedEvent struct {
	OrderID    string  `json:"orderId"`
	FromStage  string  `json:"fromStage"`
	ToStage    string  `json:"toStage"`
	Actor      string  `json:"actor"`
	Reason     string  `json:"reason,omitempty"`
	Progress   float64 `json:"progress"`
	OccurredAt int64   `json:"occurredAt"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{Key: key, Payload: payload}
}

// IDEMPOTENCY

// IdempotencyRecord — зафиксированный результат команды по клиентскому ключу.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	StatusCode  int
	Response    []byte
	CreatedAt   time.Time
}
