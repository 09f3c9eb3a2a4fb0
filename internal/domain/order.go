package domain

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// Stage — стадия жизненного цикла заказа.
type Stage string

const (
	StageReceived     Stage = "received"
	StageConfirmed    Stage = "confirmed"
	StagePicking      Stage = "picking"
	StagePacking      Stage = "packing"
	StageQualityCheck Stage = "quality_check"
	StageReadyToShip  Stage = "ready_to_ship"
	StageShipped      Stage = "shipped"
	StageDelivered    Stage = "delivered"
	StageCancelled    Stage = "cancelled"
	StageReturned     Stage = "returned"
)

// linearStages — основная последовательность стадий без боковых веток.
var linearStages = []Stage{
	StageReceived,
	StageConfirmed,
	StagePicking,
	StagePacking,
	StageQualityCheck,
	StageReadyToShip,
	StageShipped,
	StageDelivered,
}

// linearIndex возвращает позицию стадии в основной последовательности, -1 для веток.
func linearIndex(s Stage) int {
	for i, st := range linearStages {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStage валидирует строковое значение стадии.
func ParseStage(s string) (Stage, error) {
	if Stage(s) == StageCancelled || Stage(s) == StageReturned {
		return Stage(s), nil
	}
	if linearIndex(Stage(s)) >= 0 {
		return Stage(s), nil
	}
	return "", e.ErrInvalidStage
}

// NextStage возвращает следующую стадию основной последовательности.
// Для терминальных стадий и веток — ErrInvalidTransition.
func NextStage(s Stage) (Stage, error) {
	idx := linearIndex(s)
	if idx < 0 || idx == len(linearStages)-1 {
		return "", e.ErrInvalidTransition
	}
	return linearStages[idx+1], nil
}

// CanCancel сообщает, допустима ли отмена из данной стадии.
// Отмена возможна из любой стадии до Shipped.
func CanCancel(s Stage) bool {
	idx := linearIndex(s)
	return idx >= 0 && idx < linearIndex(StageShipped)
}

// CanReturn сообщает, допустим ли возврат: только из Delivered.
func CanReturn(s Stage) bool {
	return s == StageDelivered
}

// StockCommitted сообщает, был ли остаток уже списан для заказа в данной стадии.
// Списание выполняется на переходе Picking → Packing.
func StockCommitted(s Stage) bool {
	idx := linearIndex(s)
	return idx >= linearIndex(StagePacking)
}

// Progress — прогресс выполнения заказа в процентах,
// производная величина от позиции стадии в основной последовательности.
func Progress(s Stage) float64 {
	idx := linearIndex(s)
	if idx < 0 {
		return 0
	}
	return float64(idx) / float64(len(linearStages)-1) * 100
}

// Priority — приоритет заказа.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// OrderItem — позиция заказа со снапшотом цены на момент оформления.
type OrderItem struct {
	ID        int64
	OrderID   string
	ProductID int64
	Quantity  int64
	UnitPrice int64 // Цена хранится в копейках
}

// StageEvent — факт входа заказа в стадию.
type StageEvent struct {
	ID        int64
	OrderID   string
	Stage     Stage
	Actor     string
	Reason    string
	EnteredAt time.Time
}

// Order описывает заказ. Создаётся внешним чекаутом,
// мутируется только через переходы стадий, никогда не удаляется.
type Order struct {
	ID             string // uuid
	CustomerID     string
	CustomerType   string
	Stage          Stage
	Priority       Priority
	PaymentStatus  string
	ShippingMethod string
	TrackingNumber string
	AssignedTo     string
	TotalAmount    int64 // Сумма хранится в копейках
	Items          []OrderItem
	StageEvents    []StageEvent
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
