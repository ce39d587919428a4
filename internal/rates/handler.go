package rates

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Josecau2/njfinish-sub001/internal/platform/httpx"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Handler wires HTTP endpoints for the rates module.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers rates routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/multiplier", h.multiplier)
	r.Get("/tax/{zone}", h.taxRate)
}

// multiplier returns the rate contracted for the caller's user group.
func (h *Handler) multiplier(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	m, err := h.service.Multiplier(r.Context(), identity.GroupID)
	if err != nil {
		h.logger.Error("resolve multiplier", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"multiplier": m})
}

func (h *Handler) taxRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.service.TaxRate(r.Context(), chi.URLParam(r, "zone"))
	if err != nil {
		h.logger.Error("resolve tax rate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"tax_rate": rate})
}
