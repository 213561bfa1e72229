package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/wegx-store/internal/service"
)

// AdvanceRequest — необязательное тело POST /api/orders/{id}/advance
type AdvanceRequest struct {
	Message string `json:"message" validate:"max=200"`
}

// ListOrdersHandler обрабатывает GET /api/orders?filter=all|active|delivered
func ListOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListOrdersHandler"))

		list, err := orders.List(r.Context(), service.OrderFilter(r.URL.Query().Get("filter")))
		if err != nil {
			fail(w, logger, "failed to list orders", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// GetOrderHandler обрабатывает GET /api/orders/{id}
func GetOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetOrderHandler"))

		order, err := orders.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, logger, "failed to get order", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// GetOrderByNumberHandler обрабатывает GET /api/orders/by-number/{number}, страница подтверждения
func GetOrderByNumberHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetOrderByNumberHandler"))

		order, err := orders.GetByNumber(r.Context(), chi.URLParam(r, "number"))
		if err != nil {
			fail(w, logger, "failed to get order by number", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// OrderTimelineHandler обрабатывает GET /api/orders/{id}/timeline
func OrderTimelineHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.OrderTimelineHandler"))

		tl, err := orders.Timeline(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, logger, "failed to build timeline", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, tl)
	}
}

// CancelOrderHandler обрабатывает POST /api/orders/{id}/cancel
func CancelOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.CancelOrderHandler"))

		order, err := orders.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, logger, "failed to cancel order", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// AdvanceOrderHandler обрабатывает POST /api/orders/{id}/advance
func AdvanceOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdvanceOrderHandler"
		logger := log.With(slog.String("op", op))

		var req AdvanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		order, err := orders.Advance(r.Context(), chi.URLParam(r, "id"), req.Message)
		if err != nil {
			fail(w, logger, "failed to advance order", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}
