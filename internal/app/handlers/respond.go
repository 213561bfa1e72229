package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/wegx-store/internal/postal"
	"github.com/linemk/wegx-store/internal/service"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// clientErrors — ошибки, текст которых можно показать клиенту
var clientErrors = []error{
	service.ErrValidation,
	service.ErrInvalidQuantity,
	service.ErrEmptyCart,
	postal.ErrInvalidCEP,
	service.ErrNotAuthenticated,
	service.ErrProductNotFound,
	service.ErrCategoryNotFound,
	service.ErrOrderNotFound,
	postal.ErrNotFound,
	service.ErrCannotCancel,
	service.ErrInvalidTransition,
}

// publicMessage отрезает от ошибки префиксы операций: остаётся текст
// известной ошибки и уточнения после него.
func publicMessage(err error, status int) string {
	for _, known := range clientErrors {
		if !errors.Is(err, known) {
			continue
		}
		msg := err.Error()
		if idx := strings.Index(msg, known.Error()); idx >= 0 {
			return msg[idx:]
		}
		return known.Error()
	}
	return http.StatusText(status)
}

// statusFor переводит ошибку сервиса в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, postal.ErrInvalidCEP):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, postal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCannotCancel),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrCatalogUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail пишет ошибку клиенту. Текст внутренних ошибок наружу не отдаётся.
func fail(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.Any("error", err))
		http.Error(w, http.StatusText(status), status)
		return
	}
	logger.Warn(msg, slog.Any("error", err), slog.Int("status", status))
	http.Error(w, publicMessage(err, status), status)
}

// HealthHandler — проверка живости для GET /healthz
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
