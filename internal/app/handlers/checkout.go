package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/linemk/wegx-store/internal/service"
)

// IdempotencyKeyHeader — повтор оформления с тем же ключом вернёт уже созданный заказ
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutRequest — тело POST /api/checkout. Поля проверяет сервис.
type CheckoutRequest struct {
	Address models.Address       `json:"address"`
	Payment service.PaymentInput `json:"payment"`
}

// CheckoutHandler обрабатывает POST /api/checkout
func CheckoutHandler(log *slog.Logger, checkout service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		order, err := checkout.Submit(r.Context(), service.CheckoutRequest{
			Address:        req.Address,
			Payment:        req.Payment,
			IdempotencyKey: r.Header.Get(IdempotencyKeyHeader),
		})
		if err != nil {
			fail(w, logger, "checkout failed", err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, order)
	}
}
