package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/wegx-store/internal/postal"
)

// AddressLookupHandler обрабатывает GET /api/address/{cep}. lookup == nil — поиск выключен в конфиге.
func AddressLookupHandler(log *slog.Logger, lookup postal.Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AddressLookupHandler"))

		if lookup == nil {
			http.Error(w, "postal lookup disabled", http.StatusServiceUnavailable)
			return
		}
		addr, err := lookup.Lookup(r.Context(), chi.URLParam(r, "cep"))
		if err != nil {
			fail(w, logger, "postal lookup failed", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, addr)
	}
}
