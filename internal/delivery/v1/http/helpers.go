package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ListResponse — конверт списочных ответов: страница плюс полный размер выборки,
// чтобы клиент мог отрисовать «Showing X–Y of N».
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrOrderNotFound):
		return http.StatusNotFound, e.ErrOrderNotFound.Error()
	case errors.Is(err, e.ErrInsufficientStock):
		return http.StatusConflict, e.ErrInsufficientStock.Error()
	case errors.Is(err, e.ErrInvalidTransition):
		return http.StatusConflict, e.ErrInvalidTransition.Error()
	case errors.Is(err, e.ErrIdempotencyConflict):
		return http.StatusConflict, e.ErrIdempotencyConflict.Error()
	case errors.Is(err, e.ErrInvalidMagnitude):
		return http.StatusBadRequest, e.ErrInvalidMagnitude.Error()
	case errors.Is(err, e.ErrInvalidAdjustmentKind):
		return http.StatusBadRequest, e.ErrInvalidAdjustmentKind.Error()
	case errors.Is(err, e.ErrReasonRequired):
		return http.StatusBadRequest, e.ErrReasonRequired.Error()
	case errors.Is(err, e.ErrInvalidSortField):
		return http.StatusBadRequest, e.ErrInvalidSortField.Error()
	case errors.Is(err, e.ErrInvalidSortOrder):
		return http.StatusBadRequest, e.ErrInvalidSortOrder.Error()
	case errors.Is(err, e.ErrInvalidPage):
		return http.StatusBadRequest, e.ErrInvalidPage.Error()
	case errors.Is(err, e.ErrInvalidPriceRange):
		return http.StatusBadRequest, e.ErrInvalidPriceRange.Error()
	case errors.Is(err, e.ErrInvalidStockStatus):
		return http.StatusBadRequest, e.ErrInvalidStockStatus.Error()
	case errors.Is(err, e.ErrInvalidStage):
		return http.StatusBadRequest, e.ErrInvalidStage.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrIdempotencyKeyRequired):
		return http.StatusBadRequest, e.ErrIdempotencyKeyRequired.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// idempotencyKey извлекает обязательный для мутирующих запросов заголовок.
func idempotencyKey(r *http.Request) (string, error) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		return "", e.ErrIdempotencyKeyRequired
	}
	return key, nil
}

// actorFrom возвращает инициатора операции; auth-контур внешний,
// поэтому берём заголовок дашборда как есть.
func actorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "dashboard"
}

// parsePageParams читает page/limit с умолчаниями page=1, limit=20.
func parsePageParams(r *http.Request) (usecase.PageParams, error) {
	page := usecase.PageParams{Page: 1, Limit: 20}

	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return page, e.ErrInvalidPage
		}
		page.Page = parsed
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return page, e.ErrInvalidPage
		}
		page.Limit = parsed
	}

	return page, page.Validate()
}

// parseSortParams читает sortBy/sortOrder; допустимость поля проверяет usecase.
func parseSortParams(r *http.Request) (usecase.SortParams, error) {
	sort := usecase.SortParams{Field: r.URL.Query().Get("sortBy")}

	switch r.URL.Query().Get("sortOrder") {
	case "", "asc":
	case "desc":
		sort.Desc = true
	default:
		return sort, e.ErrInvalidSortOrder
	}

	return sort, nil
}

func parseBoolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, e.Wrap(name, e.ErrStatusBadRequest)
	}
	return parsed, nil
}

func parseInt64Param(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, e.Wrap(name, e.ErrStatusBadRequest)
	}
	return &parsed, nil
}

// parsePriceToCents converts a string like "599.99" or "600" to int64 cents.
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds reasonable limit (e.g. 10^9 rubles)
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	// Reject negative
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Enforce max value (e.g. 1 billion rubles = 100_000_000_000 cents)
	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100)) // 1B rub in cents
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	// Check decimal places
	if d.Exponent() < -2 {
		return 0, e.ErrInvalidPrice // "price must have at most 2 decimal places"
	}

	// Convert to cents: multiply by 100 and round
	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

// parsePriceParam читает денежный query-параметр («599.99») в копейки.
func parsePriceParam(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	cents, err := parsePriceToCents(v)
	if err != nil {
		return nil, err
	}
	return &cents, nil
}
