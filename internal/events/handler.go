package events

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reqforge/internal/platform/middleware"
	"reqforge/internal/transport/http/shared"
)

// AdminHandler exposes operational outbox endpoints behind the admin token.
type AdminHandler struct {
	worker *Worker
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs the admin handler.
func NewAdminHandler(worker *Worker, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{worker: worker, token: token, logger: logger}
}

// Register mounts the admin routes. An empty token disables them.
func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin/outbox", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(h.token))
		r.Post("/drain", h.handleDrain)
	})
}

// handleDrain forces one drain pass instead of waiting for the next tick.
func (h *AdminHandler) handleDrain(w http.ResponseWriter, r *http.Request) {
	published, err := h.worker.DrainOnce(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "manual outbox drain failed", "error", err)
		shared.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"published": published,
			"error":     err.Error(),
		})
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"published": published})
}
