package http

import (
	"net/http"

	_ "github.com/DRSN-tech/storefront/docs" // Импорт спецификации swagger
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Handlers — все HTTP-обработчики приложения.
type Handlers struct {
	Catalog      *CatalogHandler
	Category     *CategoryHandler
	Product      *ProductHandler
	ShopSettings *ShopSettingsHandler
	Order        *OrderHandler
	Auth         *AuthHandler
	// Admin проверяет токен администратора.
	Admin func(http.Handler) http.Handler
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(h *Handlers, adminCfg *cfg.AdminCfg, httpCfg *cfg.HTTPConfig) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(RequestLogger(r.logger))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(httpCfg.SwaggerURL),
	))
	r.router.Handle("/metrics", promhttp.Handler())

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerPublicRoutes(v1, h)

		v1.Route("/"+adminCfg.PathPrefix, func(admin chi.Router) {
			registerAdminRoutes(admin, h)
		})
	})
}

func registerPublicRoutes(router chi.Router, h *Handlers) {
	router.Get("/health", h.Catalog.health)
	router.Get("/products", h.Catalog.listProducts)

	router.Route("/categories", func(cr chi.Router) {
		cr.Get("/", h.Category.listCategories)
		cr.Get("/{id}", h.Category.getCategory)
	})

	router.Get("/shop-settings", h.ShopSettings.getShopSettings)
	router.Post("/orders/whatsapp", h.Order.whatsAppOrder)
}

func registerAdminRoutes(router chi.Router, h *Handlers) {
	router.Route("/auth", func(ar chi.Router) {
		ar.Post("/", h.Auth.signIn)
		ar.Delete("/", h.Auth.signOut)
	})

	router.Group(func(protected chi.Router) {
		protected.Use(h.Admin)
		protected.Use(countAdminOperations)

		protected.Route("/categories", func(cr chi.Router) {
			cr.Post("/", h.Category.createCategory)
			cr.Put("/", h.Category.updateCategory)
			cr.Delete("/", h.Category.deleteCategory)
		})

		protected.Route("/products", func(pr chi.Router) {
			pr.Get("/", h.Catalog.listProducts)
			pr.Post("/", h.Product.createProduct)
			pr.Put("/", h.Product.updateProduct)
			pr.Delete("/", h.Product.deleteProduct)
			pr.Post("/upload", h.Product.uploadImage)
		})

		protected.Route("/shop-settings", func(sr chi.Router) {
			sr.Get("/", h.ShopSettings.getShopSettings)
			sr.Put("/", h.ShopSettings.updateShopSettings)
		})
	})
}
