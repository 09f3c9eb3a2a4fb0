package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type MockLedgerUC struct {
	mock.Mock
}

func (m *MockLedgerUC) Adjust(ctx context.Context, req *usecase.AdjustStockReq) (*usecase.AdjustStockRes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AdjustStockRes), args.Error(1)
}

func (m *MockLedgerUC) CurrentStock(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerUC) History(ctx context.Context, productID int64, page usecase.PageParams) (*usecase.AdjustmentHistoryRes, error) {
	args := m.Called(ctx, productID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AdjustmentHistoryRes), args.Error(1)
}

func (m *MockLedgerUC) Stats(ctx context.Context) (*usecase.StockStatsRes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.StockStatsRes), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

func stockTestRouter(uc usecase.LedgerUC) *chi.Mux {
	handler := NewStockHandler(uc, nopLogger{})
	r := chi.NewRouter()
	r.Post("/products/{id}/stock-adjustments", handler.adjustStock)
	r.Get("/products/{id}/stock-adjustments", handler.adjustmentHistory)
	r.Get("/products/stats", handler.stockStats)
	return r
}

func TestAdjustStock_Created(t *testing.T) {
	uc := new(MockLedgerUC)
	uc.On("Adjust", mock.Anything, mock.MatchedBy(func(req *usecase.AdjustStockReq) bool {
		return req.ProductID == 42 &&
			req.Kind == domain.AdjustmentIncrease &&
			req.Magnitude == 5 &&
			req.IdempotencyKey == "idem-1"
	})).Return(&usecase.AdjustStockRes{
		Adjustment: &domain.StockAdjustment{
			AdjustmentID: "adj-1",
			ProductID:    42,
			Kind:         domain.AdjustmentIncrease,
			Magnitude:    5,
			StockBefore:  10,
			StockAfter:   15,
		},
	}, nil).Once()

	body, _ := json.Marshal(map[string]any{"kind": "increase", "magnitude": 5, "reason": "restock"})
	req := httptest.NewRequest(http.MethodPost, "/products/42/stock-adjustments", bytes.NewReader(body))
	req.Header.Set("Idempotency-Key", "idem-1")
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var res AdjustmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, int64(15), res.StockAfter)
	require.False(t, res.Replayed)
	uc.AssertExpectations(t)
}

func TestAdjustStock_ReplayReturnsOK(t *testing.T) {
	uc := new(MockLedgerUC)
	uc.On("Adjust", mock.Anything, mock.Anything).Return(&usecase.AdjustStockRes{
		Adjustment: &domain.StockAdjustment{AdjustmentID: "adj-1", ProductID: 42},
		Replayed:   true,
	}, nil).Once()

	body, _ := json.Marshal(map[string]any{"kind": "increase", "magnitude": 5, "reason": "restock"})
	req := httptest.NewRequest(http.MethodPost, "/products/42/stock-adjustments", bytes.NewReader(body))
	req.Header.Set("Idempotency-Key", "idem-1")
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdjustStock_MissingKey(t *testing.T) {
	uc := new(MockLedgerUC)

	body, _ := json.Marshal(map[string]any{"kind": "increase", "magnitude": 5, "reason": "restock"})
	req := httptest.NewRequest(http.MethodPost, "/products/42/stock-adjustments", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func TestAdjustStock_InsufficientStockConflict(t *testing.T) {
	uc := new(MockLedgerUC)
	uc.On("Adjust", mock.Anything, mock.Anything).
		Return(nil, e.Wrap("StockLedgerUseCase.Adjust", e.ErrInsufficientStock)).Once()

	body, _ := json.Marshal(map[string]any{"kind": "decrease", "magnitude": 99, "reason": "write-off"})
	req := httptest.NewRequest(http.MethodPost, "/products/42/stock-adjustments", bytes.NewReader(body))
	req.Header.Set("Idempotency-Key", "idem-2")
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, http.StatusConflict, res.Code)
}

func TestAdjustStock_UnknownKind(t *testing.T) {
	uc := new(MockLedgerUC)

	body, _ := json.Marshal(map[string]any{"kind": "reset", "magnitude": 1, "reason": "x"})
	req := httptest.NewRequest(http.MethodPost, "/products/42/stock-adjustments", bytes.NewReader(body))
	req.Header.Set("Idempotency-Key", "idem-3")
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func TestAdjustmentHistory_DefaultPaging(t *testing.T) {
	uc := new(MockLedgerUC)
	uc.On("History", mock.Anything, int64(42), usecase.PageParams{Page: 1, Limit: 20}).
		Return(&usecase.AdjustmentHistoryRes{
			Items:      []domain.StockAdjustment{{AdjustmentID: "a2"}, {AdjustmentID: "a1"}},
			TotalCount: 2,
		}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/products/42/stock-adjustments", nil)
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Items      []AdjustmentResponse `json:"items"`
		TotalCount int64                `json:"totalCount"`
		Page       int                  `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	require.Equal(t, int64(2), res.TotalCount)
	require.Equal(t, 1, res.Page)
	uc.AssertExpectations(t)
}

func TestStockStats(t *testing.T) {
	uc := new(MockLedgerUC)
	uc.On("Stats", mock.Anything).
		Return(&usecase.StockStatsRes{Total: 12, LowStock: 3, OutOfStock: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/products/stats", nil)
	rec := httptest.NewRecorder()

	stockTestRouter(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"total":12,"lowStock":3,"outOfStock":1}`, rec.Body.String())
}
