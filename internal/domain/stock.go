package domain

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// AdjustmentKind — тип корректировки остатка.
type AdjustmentKind string

const (
	AdjustmentIncrease    AdjustmentKind = "increase"
	AdjustmentDecrease    AdjustmentKind = "decrease"
	AdjustmentSetAbsolute AdjustmentKind = "set_absolute"
)

// ParseAdjustmentKind валидирует строковое значение типа корректировки.
func ParseAdjustmentKind(s string) (AdjustmentKind, error) {
	switch AdjustmentKind(s) {
	case AdjustmentIncrease, AdjustmentDecrease, AdjustmentSetAbsolute:
		return AdjustmentKind(s), nil
	default:
		return "", e.ErrInvalidAdjustmentKind
	}
}

// StockAdjustment — запись append-only леджера остатков.
// После коммита неизменяема; stock_before/stock_after фиксируются в момент коммита.
type StockAdjustment struct {
	ID            int64
	AdjustmentID  string // uuid, внешний идентификатор записи
	ProductID     int64
	Kind          AdjustmentKind
	Magnitude     int64
	StockBefore   int64
	StockAfter    int64
	Reason        string
	Actor         string
	OriginOrderID *string // uuid заказа, если корректировка вызвана переходом стадии
	CreatedAt     time.Time
}

// ApplyAdjustment вычисляет новый остаток по правилам леджера.
// Decrease сверх текущего остатка — ошибка ErrInsufficientStock, а не обнуление:
// молчаливое обрезание сломало бы арифметический инвариант аудита.
func ApplyAdjustment(stockBefore int64, kind AdjustmentKind, magnitude int64) (int64, error) {
	if magnitude < 0 {
		return 0, e.ErrInvalidMagnitude
	}

	switch kind {
	case AdjustmentIncrease:
		return stockBefore + magnitude, nil
	case AdjustmentDecrease:
		if magnitude > stockBefore {
			return 0, e.ErrInsufficientStock
		}
		return stockBefore - magnitude, nil
	case AdjustmentSetAbsolute:
		return magnitude, nil
	default:
		return 0, e.ErrInvalidAdjustmentKind
	}
}

// StockStatus — статус остатка для бейджей дашборда.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockLow        StockStatus = "low"
	StockInStock    StockStatus = "in_stock"
)

// DefaultLowStockThreshold — порог «мало на складе» по умолчанию.
const DefaultLowStockThreshold = 10

// ClassifyStock классифицирует остаток: 0 — out_of_stock,
// (0, threshold] — low, иначе in_stock.
func ClassifyStock(stock, threshold int64) StockStatus {
	switch {
	case stock == 0:
		return StockOutOfStock
	case stock <= threshold:
		return StockLow
	default:
		return StockInStock
	}
}

// ParseStockStatus валидирует строковое значение статуса остатка.
func ParseStockStatus(s string) (StockStatus, error) {
	switch StockStatus(s) {
	case StockOutOfStock, StockLow, StockInStock:
		return StockStatus(s), nil
	default:
		return "", e.ErrInvalidStockStatus
	}
}
