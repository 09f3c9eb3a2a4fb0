package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 409 Conflict — нарушение доменных инвариантов
	ErrInsufficientStock   = fmt.Errorf("insufficient stock")
	ErrInvalidTransition   = fmt.Errorf("invalid order stage transition")
	ErrIdempotencyConflict = fmt.Errorf("idempotency key reused with a different request")

	// 400 Bad Request
	ErrInvalidMagnitude       = fmt.Errorf("magnitude must be non-negative")
	ErrInvalidAdjustmentKind  = fmt.Errorf("unknown adjustment kind")
	ErrReasonRequired         = fmt.Errorf("reason is required")
	ErrInvalidSortField       = fmt.Errorf("unknown sort field")
	ErrInvalidSortOrder       = fmt.Errorf("sort order must be asc or desc")
	ErrInvalidPage            = fmt.Errorf("page and limit must be positive")
	ErrInvalidPriceRange      = fmt.Errorf("invalid price range")
	ErrInvalidStockStatus     = fmt.Errorf("unknown stock status")
	ErrInvalidStage           = fmt.Errorf("unknown order stage")
	ErrInvalidPrice           = fmt.Errorf("invalid price")
	ErrIdempotencyKeyRequired = fmt.Errorf("Idempotency-Key header is required")
	ErrStatusBadRequest       = fmt.Errorf("bad request")

	// 500 Internal Server Error
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
