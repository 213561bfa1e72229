package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/wegx-store/internal/service"
)

// AddItemRequest — тело POST /api/cart/items. quantity 0 или отсутствует — добавить один.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

// UpdateQuantityRequest — тело PATCH /api/cart/items/{id}
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// GetCartHandler обрабатывает GET /api/cart
func GetCartHandler(log *slog.Logger, cart service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetCartHandler"))

		view, err := cart.Get(r.Context())
		if err != nil {
			fail(w, logger, "failed to get cart", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// AddCartItemHandler обрабатывает POST /api/cart/items
func AddCartItemHandler(log *slog.Logger, cart service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		var req AddItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		item, err := cart.Add(r.Context(), req.ProductID, req.Quantity)
		if err != nil {
			fail(w, logger, "failed to add item", err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, item)
	}
}

// UpdateCartItemHandler обрабатывает PATCH /api/cart/items/{id}.
// Для неизвестной строки отвечает 204: обновлять нечего.
func UpdateCartItemHandler(log *slog.Logger, cart service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		var req UpdateQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "quantity must be at least 1", http.StatusBadRequest)
			return
		}

		item, err := cart.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
		if err != nil {
			fail(w, logger, "failed to update quantity", err)
			return
		}
		if item == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, logger, http.StatusOK, item)
	}
}

// RemoveCartItemHandler обрабатывает DELETE /api/cart/items/{id}
func RemoveCartItemHandler(log *slog.Logger, cart service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RemoveCartItemHandler"))

		if err := cart.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			fail(w, logger, "failed to remove item", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearCartHandler обрабатывает DELETE /api/cart
func ClearCartHandler(log *slog.Logger, cart service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ClearCartHandler"))

		if err := cart.Clear(r.Context()); err != nil {
			fail(w, logger, "failed to clear cart", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
