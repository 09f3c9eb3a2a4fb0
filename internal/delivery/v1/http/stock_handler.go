package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type StockHandler struct {
	ledgerUsecase usecase.LedgerUC
	logger        logger.Logger
}

func NewStockHandler(ledgerUsecase usecase.LedgerUC, logger logger.Logger) *StockHandler {
	return &StockHandler{ledgerUsecase: ledgerUsecase, logger: logger}
}

type adjustStockRequest struct {
	Kind      string `json:"kind"`
	Magnitude int64  `json:"magnitude"`
	Reason    string `json:"reason"`
}

// AdjustmentResponse — запись леджера в ответе API.
type AdjustmentResponse struct {
	AdjustmentID  string    `json:"adjustmentId"`
	ProductID     int64     `json:"productId"`
	Kind          string    `json:"kind"`
	Magnitude     int64     `json:"magnitude"`
	StockBefore   int64     `json:"stockBefore"`
	StockAfter    int64     `json:"stockAfter"`
	Reason        string    `json:"reason"`
	Actor         string    `json:"actor"`
	OriginOrderID *string   `json:"originOrderId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Replayed      bool      `json:"replayed"`
}

func newAdjustmentResponse(adj *domain.StockAdjustment, replayed bool) *AdjustmentResponse {
	return &AdjustmentResponse{
		AdjustmentID:  adj.AdjustmentID,
		ProductID:     adj.ProductID,
		Kind:          string(adj.Kind),
		Magnitude:     adj.Magnitude,
		StockBefore:   adj.StockBefore,
		StockAfter:    adj.StockAfter,
		Reason:        adj.Reason,
		Actor:         adj.Actor,
		OriginOrderID: adj.OriginOrderID,
		CreatedAt:     adj.CreatedAt,
		Replayed:      replayed,
	}
}

// adjustStock
//
//	@Summary		Корректировка остатка товара
//	@Description	Добавляет запись в леджер и атомарно меняет остаток
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			id				path	int					true	"ID товара"
//	@Param			Idempotency-Key	header	string				true	"Ключ идемпотентности"
//	@Param			request			body	adjustStockRequest	true	"Параметры корректировки"
//	@Success		201	{object}	AdjustmentResponse		"Корректировка применена"
//	@Failure		400	{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		404	{object}	ErrorResponse			"Товар не найден"
//	@Failure		409	{object}	ErrorResponse			"Недостаточно остатка или конфликт ключа"
//	@Router			/products/{id}/stock-adjustments [post]
func (h *StockHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.logger.Warnf("%d %s: bad product id", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	key, err := idempotencyKey(r)
	if err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	var body adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	kind, err := domain.ParseAdjustmentKind(body.Kind)
	if err != nil {
		h.logger.Warnf("%d %s: %q", http.StatusBadRequest, err.Error(), body.Kind)
		WriteError(w, err)
		return
	}

	res, err := h.ledgerUsecase.Adjust(r.Context(), &usecase.AdjustStockReq{
		ProductID:      productID,
		Kind:           kind,
		Magnitude:      body.Magnitude,
		Reason:         body.Reason,
		Actor:          actorFrom(r),
		IdempotencyKey: key,
	})
	if err != nil {
		h.logger.Warnf("adjust stock: %s", err.Error())
		WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	WriteSuccess(w, status, newAdjustmentResponse(res.Adjustment, res.Replayed))
}

// adjustmentHistory
//
//	@Summary		История корректировок товара
//	@Description	Страница записей леджера, от новых к старым
//	@Tags			stock
//	@Produce		json
//	@Param			id		path	int	true	"ID товара"
//	@Param			page	query	int	false	"Номер страницы"
//	@Param			limit	query	int	false	"Размер страницы"
//	@Success		200	{object}	ListResponse	"Страница истории"
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id}/stock-adjustments [get]
func (h *StockHandler) adjustmentHistory(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	page, err := parsePageParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	history, err := h.ledgerUsecase.History(r.Context(), productID, page)
	if err != nil {
		h.logger.Warnf("adjustment history: %s", err.Error())
		WriteError(w, err)
		return
	}

	items := make([]AdjustmentResponse, 0, len(history.Items))
	for i := range history.Items {
		items = append(items, *newAdjustmentResponse(&history.Items[i], false))
	}

	WriteSuccess(w, http.StatusOK, ListResponse{
		Items:      items,
		TotalCount: history.TotalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	})
}

type stockStatsResponse struct {
	Total      int64 `json:"total"`
	LowStock   int64 `json:"lowStock"`
	OutOfStock int64 `json:"outOfStock"`
}

// stockStats
//
//	@Summary	Агрегаты остатков
//	@Tags		stock
//	@Produce	json
//	@Success	200	{object}	stockStatsResponse	"Счётчики по всему каталогу"
//	@Router		/products/stats [get]
func (h *StockHandler) stockStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledgerUsecase.Stats(r.Context())
	if err != nil {
		h.logger.Warnf("stock stats: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, stockStatsResponse{
		Total:      stats.Total,
		LowStock:   stats.LowStock,
		OutOfStock: stats.OutOfStock,
	})
}
