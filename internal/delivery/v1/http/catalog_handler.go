package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	usecase.ProductView	"Товар с текущим остатком"
//	@Failure	404	{object}	ErrorResponse		"Товар не найден"
//	@Router		/products/{id} [get]
func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	product, err := h.catalogUsecase.GetProduct(r.Context(), productID)
	if err != nil {
		h.logger.Warnf("get product %d: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Фильтры комбинируются по AND, страница и totalCount считаются одним снапшотом
//	@Tags			products
//	@Produce		json
//	@Param			search		query	string	false	"Подстрока имени или SKU"
//	@Param			categoryId	query	int		false	"ID категории"
//	@Param			status		query	string	false	"Статусы остатка через запятую: in_stock,low,out_of_stock"
//	@Param			priceMin	query	number	false	"Нижняя граница цены, рубли"
//	@Param			priceMax	query	number	false	"Верхняя граница цены, рубли"
//	@Param			inStock		query	bool	false	"Только с положительным остатком"
//	@Param			newArrivals	query	bool	false	"Только новинки"
//	@Param			onSale		query	bool	false	"Только со скидкой"
//	@Param			sortBy		query	string	false	"name | sku | price | stock | createdAt"
//	@Param			sortOrder	query	string	false	"asc | desc"
//	@Param			page		query	int		false	"Номер страницы"
//	@Param			limit		query	int		false	"Размер страницы"
//	@Success		200	{object}	ListResponse	"Страница товаров"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации фильтра"
//	@Router			/products [get]
func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sort, err := parseSortParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	filter, err := parseProductFilter(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.catalogUsecase.QueryProducts(r.Context(), filter, sort, page)
	if err != nil {
		h.logger.Warnf("list products: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ListResponse{
		Items:      res.Items,
		TotalCount: res.TotalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	})
}

// listOrders
//
//	@Summary	Список заказов
//	@Tags		orders
//	@Produce	json
//	@Param		stage			query	string	false	"Стадии через запятую"
//	@Param		paymentStatus	query	string	false	"Статус оплаты"
//	@Param		customerType	query	string	false	"Тип клиента"
//	@Param		shippingMethod	query	string	false	"Способ доставки"
//	@Param		priority		query	string	false	"low | medium | high"
//	@Param		createdFrom		query	string	false	"Нижняя граница даты создания, RFC3339"
//	@Param		createdTo		query	string	false	"Верхняя граница даты создания, RFC3339"
//	@Param		amountMin		query	number	false	"Нижняя граница суммы, рубли"
//	@Param		amountMax		query	number	false	"Верхняя граница суммы, рубли"
//	@Param		sortBy			query	string	false	"createdAt | totalAmount | stage | priority"
//	@Param		sortOrder		query	string	false	"asc | desc"
//	@Param		page			query	int		false	"Номер страницы"
//	@Param		limit			query	int		false	"Размер страницы"
//	@Success	200	{object}	ListResponse	"Страница заказов"
//	@Failure	400	{object}	ErrorResponse	"Ошибка валидации фильтра"
//	@Router		/orders [get]
func (h *CatalogHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sort, err := parseSortParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.catalogUsecase.QueryOrders(r.Context(), filter, sort, page)
	if err != nil {
		h.logger.Warnf("list orders: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ListResponse{
		Items:      res.Items,
		TotalCount: res.TotalCount,
		Page:       page.Page,
		Limit:      page.Limit,
	})
}

func parseProductFilter(r *http.Request) (*usecase.ProductFilter, error) {
	filter := &usecase.ProductFilter{Search: r.URL.Query().Get("search")}

	var err error
	if filter.CategoryID, err = parseInt64Param(r, "categoryId"); err != nil {
		return nil, err
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseStockStatus(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if filter.PriceMin, err = parsePriceParam(r, "priceMin"); err != nil {
		return nil, err
	}
	if filter.PriceMax, err = parsePriceParam(r, "priceMax"); err != nil {
		return nil, err
	}

	if filter.InStockOnly, err = parseBoolParam(r, "inStock"); err != nil {
		return nil, err
	}
	if filter.NewArrivalsOnly, err = parseBoolParam(r, "newArrivals"); err != nil {
		return nil, err
	}
	if filter.OnSaleOnly, err = parseBoolParam(r, "onSale"); err != nil {
		return nil, err
	}

	return filter, nil
}

func parseOrderFilter(r *http.Request) (*usecase.OrderFilter, error) {
	q := r.URL.Query()
	filter := &usecase.OrderFilter{
		PaymentStatus:  q.Get("paymentStatus"),
		CustomerType:   q.Get("customerType"),
		ShippingMethod: q.Get("shippingMethod"),
	}

	if raw := q.Get("stage"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			stage, err := domain.ParseStage(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			filter.Stages = append(filter.Stages, stage)
		}
	}

	if raw := q.Get("priority"); raw != "" {
		priority := domain.Priority(raw)
		switch priority {
		case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
			filter.Priority = &priority
		default:
			return nil, e.Wrap("priority", e.ErrStatusBadRequest)
		}
	}

	for name, dst := range map[string]**time.Time{"createdFrom": &filter.CreatedFrom, "createdTo": &filter.CreatedTo} {
		if raw := q.Get(name); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, e.Wrap(name, e.ErrStatusBadRequest)
			}
			*dst = &parsed
		}
	}

	var err error
	if filter.AmountMin, err = parsePriceParam(r, "amountMin"); err != nil {
		return nil, err
	}
	if filter.AmountMax, err = parsePriceParam(r, "amountMax"); err != nil {
		return nil, err
	}

	return filter, nil
}
