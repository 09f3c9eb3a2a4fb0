package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/DRSN-tech/inventory-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(ledgerUC usecase.LedgerUC, fulfillmentUC usecase.FulfillmentUC, catalogUC usecase.CatalogUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		catalog := NewCatalogHandler(catalogUC, r.logger)
		registerProductRoutes(v1, NewStockHandler(ledgerUC, r.logger), catalog)
		registerOrderRoutes(v1, NewOrderHandler(fulfillmentUC, r.logger), catalog)
	})
}

func registerProductRoutes(router chi.Router, stock *StockHandler, catalog *CatalogHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", catalog.listProducts)
		pr.Get("/stats", stock.stockStats)
		pr.Get("/{id}", catalog.getProduct)
		pr.Post("/{id}/stock-adjustments", stock.adjustStock)
		pr.Get("/{id}/stock-adjustments", stock.adjustmentHistory)
	})
}

func registerOrderRoutes(router chi.Router, orders *OrderHandler, catalog *CatalogHandler) {
	router.Route("/orders", func(or chi.Router) {
		or.Get("/", catalog.listOrders)
		or.Get("/{id}", orders.getOrder)
		or.Post("/{id}/advance", orders.advanceOrder)
		or.Post("/{id}/cancel", orders.cancelOrder)
		or.Post("/{id}/return", orders.returnOrder)
	})
}
