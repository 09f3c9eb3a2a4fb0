package domain

import "time"

// Product описывает товар каталога. Запись создаётся внешним сервисом каталога,
// ядро меняет только поле Stock — и только через леджер.
type Product struct {
	ID           int64
	SKU          string
	Name         string
	Price        int64 // Цена хранится в копейках
	Stock        int64 // Производное поле: stock_after последней корректировки
	MinOrderQty  int32
	MaxOrderQty  int32
	CategoryID   int64
	Tags         []string
	IsNewArrival bool
	IsOnSale     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
