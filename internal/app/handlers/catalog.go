package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/wegx-store/internal/service"
)

// ListCategoriesHandler обрабатывает GET /api/categories
func ListCategoriesHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListCategoriesHandler"))

		cats, err := catalog.ListCategories(r.Context())
		if err != nil {
			fail(w, logger, "failed to list categories", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, cats)
	}
}

// PopularCategoriesHandler обрабатывает GET /api/categories/popular
func PopularCategoriesHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.PopularCategoriesHandler"))

		cats, err := catalog.PopularCategories(r.Context())
		if err != nil {
			fail(w, logger, "failed to list popular categories", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, cats)
	}
}

// GetCategoryHandler обрабатывает GET /api/categories/{id}
func GetCategoryHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetCategoryHandler"))

		cat, err := catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, logger, "failed to get category", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, cat)
	}
}

// ListProductsHandler обрабатывает GET /api/products?category_id=&express_only=&in_stock_only=&sort=&limit=
func ListProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		query := service.ProductQuery{
			CategoryID: q.Get("category_id"),
			Sort:       q.Get("sort"),
		}
		var err error
		if query.ExpressOnly, err = parseBool(q.Get("express_only")); err != nil {
			http.Error(w, "express_only must be a boolean", http.StatusBadRequest)
			return
		}
		if query.InStockOnly, err = parseBool(q.Get("in_stock_only")); err != nil {
			http.Error(w, "in_stock_only must be a boolean", http.StatusBadRequest)
			return
		}
		if raw := q.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			query.Limit = limit
		}

		products, err := catalog.ListProducts(r.Context(), query)
		if err != nil {
			fail(w, logger, "failed to list products", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// FeaturedProductsHandler обрабатывает GET /api/products/featured
func FeaturedProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.FeaturedProductsHandler"))

		products, err := catalog.Featured(r.Context())
		if err != nil {
			fail(w, logger, "failed to list featured products", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// GetProductHandler обрабатывает GET /api/products/{id}
func GetProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProductHandler"))

		product, err := catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, logger, "failed to get product", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, product)
	}
}

// RelatedProductsHandler обрабатывает GET /api/products/{id}/related
func RelatedProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RelatedProductsHandler"))

		products, err := catalog.Related(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, logger, "failed to list related products", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}
