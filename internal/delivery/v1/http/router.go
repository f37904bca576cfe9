package http

import (
	"net/http"

	_ "github.com/DRSN-tech/shop-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// UseCases: всё, что обслуживает /api/v1.
type UseCases struct {
	Products usecase.ProductUC
	Orders   usecase.OrderUC
	Reports  usecase.ReportUC
}

// Init регистрирует маршруты. instrument оборачивает каждый запрос метриками,
// metrics отдаётся на /metrics; оба могут быть nil.
func (r *Router) Init(uc UseCases, instrument func(http.Handler) http.Handler, metrics http.Handler) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	if instrument != nil {
		r.router.Use(instrument)
	}

	if metrics != nil {
		r.router.Method(http.MethodGet, "/metrics", metrics)
	}

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(withIdentity)

		prHandler := NewProductHandler(uc.Products, r.logger)
		orderHandler := NewOrderHandler(uc.Orders, uc.Reports, r.logger)

		registerProductRoutes(v1, prHandler)
		registerOrderRoutes(v1, orderHandler)

		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(requireAdmin)
			registerAdminRoutes(admin, orderHandler, prHandler)
		})
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.getProducts)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Route("/orders", func(or chi.Router) {
		or.Post("/", h.createOrder)
		or.Get("/", h.listOrders)
		or.Get("/{id}", h.getOrder)
		or.Post("/{id}/cancel", h.cancelOrder)
	})
}

func registerAdminRoutes(router chi.Router, h *OrderHandler, prHandler *ProductHandler) {
	router.Post("/products", prHandler.registerProduct)

	router.Route("/orders", func(or chi.Router) {
		or.Get("/analytics", h.getAnalytics)
		or.Post("/analytics/export", h.exportAnalytics)
		or.Patch("/{id}/status", h.updateOrderStatus)
	})
}
