package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/wegx-store/internal/app/handlers"
	"github.com/linemk/wegx-store/internal/lib/logger/handlers/urllog"
)

// Router собирает chi роутер со всеми маршрутами API
func (a *App) Router() http.Handler {
	log := a.Logger
	router := chi.NewRouter()

	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handlers.HealthHandler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/categories", handlers.ListCategoriesHandler(log, a.Catalog))
		r.Get("/categories/popular", handlers.PopularCategoriesHandler(log, a.Catalog))
		r.Get("/categories/{id}", handlers.GetCategoryHandler(log, a.Catalog))

		r.Get("/products", handlers.ListProductsHandler(log, a.Catalog))
		r.Get("/products/featured", handlers.FeaturedProductsHandler(log, a.Catalog))
		r.Get("/products/{id}", handlers.GetProductHandler(log, a.Catalog))
		r.Get("/products/{id}/related", handlers.RelatedProductsHandler(log, a.Catalog))

		r.Get("/cart", handlers.GetCartHandler(log, a.Cart))
		r.Delete("/cart", handlers.ClearCartHandler(log, a.Cart))
		r.Post("/cart/items", handlers.AddCartItemHandler(log, a.Cart))
		r.Patch("/cart/items/{id}", handlers.UpdateCartItemHandler(log, a.Cart))
		r.Delete("/cart/items/{id}", handlers.RemoveCartItemHandler(log, a.Cart))

		r.Post("/checkout", handlers.CheckoutHandler(log, a.Checkout))

		r.Get("/orders", handlers.ListOrdersHandler(log, a.Orders))
		r.Get("/orders/by-number/{number}", handlers.GetOrderByNumberHandler(log, a.Orders))
		r.Get("/orders/{id}", handlers.GetOrderHandler(log, a.Orders))
		r.Get("/orders/{id}/timeline", handlers.OrderTimelineHandler(log, a.Orders))
		r.Post("/orders/{id}/cancel", handlers.CancelOrderHandler(log, a.Orders))
		r.Post("/orders/{id}/advance", handlers.AdvanceOrderHandler(log, a.Orders))

		r.Get("/address/{cep}", handlers.AddressLookupHandler(log, a.Lookup))

		r.Get("/auth/me", handlers.MeHandler(log, a.Session))
		r.Post("/auth/logout", handlers.LogoutHandler(log, a.Session))
	})

	return router
}
