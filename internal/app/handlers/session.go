package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/wegx-store/internal/service"
)

// MeHandler обрабатывает GET /api/auth/me. Аутентификации нет, поэтому всегда 401.
func MeHandler(log *slog.Logger, session service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.MeHandler"))

		if err := session.Me(r.Context()); err != nil {
			fail(w, logger, "no active session", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// LogoutHandler обрабатывает POST /api/auth/logout
func LogoutHandler(log *slog.Logger, session service.SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.LogoutHandler"))

		if err := session.Logout(r.Context()); err != nil {
			fail(w, logger, "logout failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
