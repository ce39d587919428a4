package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Josecau2/njfinish-sub001/internal/auth"
	"github.com/Josecau2/njfinish-sub001/internal/platform/httpx"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Handler wires HTTP endpoints for the catalog module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers catalog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/entries", h.listEntries)
	r.Get("/entries/{entryID}", h.getEntry)
	r.Get("/templates", h.listTemplates)
	r.With(auth.RequireAdmin).Post("/templates", h.createTemplate)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), r.URL.Query().Get("style_id"))
	if err != nil {
		h.logger.Error("list catalog entries", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetEntry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("get catalog entry", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		h.logger.Error("list templates", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if templates == nil {
		templates = []ModTemplate{}
	}
	httpx.JSON(w, http.StatusOK, templates)
}

type createTemplateRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}

	tpl, err := h.service.CreateTemplate(r.Context(), req.Name, req.Price)
	if err != nil {
		if errors.Is(err, ErrDuplicateTemplate) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "template name already exists")
			return
		}
		h.logger.Error("create template", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, tpl)
}
