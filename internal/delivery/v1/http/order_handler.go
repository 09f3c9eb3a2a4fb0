package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type OrderHandler struct {
	fulfillmentUsecase usecase.FulfillmentUC
	logger             logger.Logger
}

func NewOrderHandler(fulfillmentUsecase usecase.FulfillmentUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{fulfillmentUsecase: fulfillmentUsecase, logger: logger}
}

type transitionRequest struct {
	Reason string `json:"reason"`
}

type transitionResponse struct {
	Order    *usecase.OrderView `json:"order"`
	Replayed bool               `json:"replayed"`
}

// advanceOrder
//
//	@Summary		Перевод заказа на следующую стадию
//	@Description	Переход Picking -> Packing атомарно списывает остатки по позициям
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id				path	string				true	"ID заказа"
//	@Param			Idempotency-Key	header	string				true	"Ключ идемпотентности"
//	@Param			request			body	transitionRequest	false	"Причина перехода"
//	@Success		200	{object}	transitionResponse	"Заказ после перехода"
//	@Failure		404	{object}	ErrorResponse		"Заказ не найден"
//	@Failure		409	{object}	ErrorResponse		"Переход запрещён или не хватает остатка"
//	@Router			/orders/{id}/advance [post]
func (h *OrderHandler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "advance", h.fulfillmentUsecase.Advance)
}

// cancelOrder
//
//	@Summary		Отмена заказа
//	@Description	Возвращает списанные остатки, если заказ уже прошёл упаковку
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id				path	string				true	"ID заказа"
//	@Param			Idempotency-Key	header	string				true	"Ключ идемпотентности"
//	@Param			request			body	transitionRequest	false	"Причина отмены"
//	@Success		200	{object}	transitionResponse	"Заказ после отмены"
//	@Failure		404	{object}	ErrorResponse		"Заказ не найден"
//	@Failure		409	{object}	ErrorResponse		"Отмена после отгрузки запрещена"
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel", h.fulfillmentUsecase.Cancel)
}

// returnOrder
//
//	@Summary		Возврат доставленного заказа
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id				path	string				true	"ID заказа"
//	@Param			Idempotency-Key	header	string				true	"Ключ идемпотентности"
//	@Param			request			body	transitionRequest	false	"Причина возврата"
//	@Success		200	{object}	transitionResponse	"Заказ после возврата"
//	@Failure		404	{object}	ErrorResponse		"Заказ не найден"
//	@Failure		409	{object}	ErrorResponse		"Возврат возможен только из Delivered"
//	@Router			/orders/{id}/return [post]
func (h *OrderHandler) returnOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "return", h.fulfillmentUsecase.Return)
}

func (h *OrderHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	command func(ctx context.Context, req *usecase.TransitionReq) (*usecase.TransitionRes, error),
) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	key, err := idempotencyKey(r)
	if err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	// Тело необязательное: переход без причины легален.
	var body transitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
	}

	res, err := command(r.Context(), &usecase.TransitionReq{
		OrderID:        orderID,
		Actor:          actorFrom(r),
		Reason:         body.Reason,
		IdempotencyKey: key,
	})
	if err != nil {
		h.logger.Warnf("%s order %s: %s", op, orderID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, transitionResponse{Order: res.Order, Replayed: res.Replayed})
}

// getOrder
//
//	@Summary	Карточка заказа
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"ID заказа"
//	@Success	200	{object}	usecase.OrderView	"Заказ с историей стадий"
//	@Failure	404	{object}	ErrorResponse		"Заказ не найден"
//	@Router		/orders/{id} [get]
func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	order, err := h.fulfillmentUsecase.GetOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Warnf("get order %s: %s", orderID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, order)
}
