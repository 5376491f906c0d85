package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockflow/inventory-api/internal/http/handlers"
	mw "github.com/stockflow/inventory-api/internal/http/middleware"
	obs "github.com/stockflow/inventory-api/internal/observability/metrics"
)

func New() http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger)
	r.Use(obs.HTTPMetricsMiddleware)

	r.Get("/", handlers.RootHandler)
	r.Get("/health", handlers.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit)
			r.Post("/auth/register", handlers.RegisterHandler)
			r.Post("/auth/login", handlers.LoginHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireUser)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", handlers.GetProductsHandler)
				r.Post("/", handlers.CreateProductHandler)
				r.Get("/categories", handlers.GetCategoriesHandler)
				r.Get("/low-stock", handlers.GetLowStockHandler)
				r.Get("/inventory-value", handlers.GetInventoryValueHandler)
				r.Post("/import", handlers.ImportProductsHandler)
				r.Get("/{id}", handlers.GetProductByIDHandler)
				r.Put("/{id}", handlers.UpdateProductHandler)
				r.Delete("/{id}", handlers.DeleteProductHandler)
				r.Post("/{id}/adjust", handlers.AdjustQuantityHandler)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", handlers.MeHandler)
				r.Put("/me", handlers.UpdateMeHandler)

				r.Group(func(r chi.Router) {
					r.Use(mw.RequireAdmin)
					r.Get("/", handlers.GetUsersHandler)
					r.Get("/{id}", handlers.GetUserByIDHandler)
					r.Delete("/{id}", handlers.DeleteUserHandler)
				})
			})
		})
	})

	return r
}
