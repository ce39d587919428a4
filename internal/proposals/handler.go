package proposals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Josecau2/njfinish-sub001/internal/platform/httpx"
	"github.com/Josecau2/njfinish-sub001/internal/pricing"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// Handler wires HTTP endpoints for the proposals module.
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

func (h *Handler) createProposal(w http.ResponseWriter, r *http.Request) {
	var req CreateProposalRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	p, err := h.service.CreateProposal(r.Context(), req, identity)
	if err != nil {
		h.respondError(w, err, "create proposal")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) listProposals(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	proposals, pg, err := h.service.ListProposals(r.Context(), identity, page, perPage)
	if err != nil {
		h.respondError(w, err, "list proposals")
		return
	}
	if proposals == nil {
		proposals = []Proposal{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"proposals":  proposals,
		"pagination": pg,
	})
}

func (h *Handler) getProposal(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	p, err := h.service.GetProposal(r.Context(), identity, chi.URLParam(r, "proposalID"))
	if err != nil {
		h.respondError(w, err, "get proposal")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) createVersion(w http.ResponseWriter, r *http.Request) {
	var req CreateVersionRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.CreateVersion(r.Context(), identity, chi.URLParam(r, "proposalID"), req.Manufacturer)
	if err != nil {
		h.respondError(w, err, "create version")
		return
	}
	httpx.JSON(w, http.StatusCreated, versionResponse(mv))
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	mv, err := h.service.GetVersion(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"))
	if err != nil {
		h.respondError(w, err, "get version")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.AddItem(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), req)
	if err != nil {
		h.respondError(w, err, "add item")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) updateQty(w http.ResponseWriter, r *http.Request) {
	var req UpdateQtyRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.UpdateQty(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), chi.URLParam(r, "itemID"), req.Qty)
	if err != nil {
		h.respondError(w, err, "update qty")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	mv, err := h.service.DeleteItem(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.respondError(w, err, "delete item")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) addModification(w http.ResponseWriter, r *http.Request) {
	var req AddModificationRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.AddModification(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), chi.URLParam(r, "itemID"), req)
	if err != nil {
		h.respondError(w, err, "add modification")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) removeModification(w http.ResponseWriter, r *http.Request) {
	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.RemoveModification(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), chi.URLParam(r, "itemID"), index)
	if err != nil {
		h.respondError(w, err, "remove modification")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) toggleAssembly(w http.ResponseWriter, r *http.Request) {
	var req AssemblyRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.ToggleAssembly(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), req.Assembled)
	if err != nil {
		h.respondError(w, err, "toggle assembly")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) toggleRowAssembly(w http.ResponseWriter, r *http.Request) {
	var req AssemblyRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.ToggleRowAssembly(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), chi.URLParam(r, "itemID"), req.Assembled)
	if err != nil {
		h.respondError(w, err, "toggle row assembly")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) setSides(w http.ResponseWriter, r *http.Request) {
	var req SidesRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.SetSides(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), chi.URLParam(r, "itemID"), req)
	if err != nil {
		h.respondError(w, err, "set sides")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.SetDiscount(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), req.Percent)
	if err != nil {
		h.respondError(w, err, "set discount")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) addCustomItem(w http.ResponseWriter, r *http.Request) {
	var req CustomItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.AddCustomItem(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), req)
	if err != nil {
		h.respondError(w, err, "add custom item")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) removeCustomItem(w http.ResponseWriter, r *http.Request) {
	index, ok := h.parseIndex(w, r)
	if !ok {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.RemoveCustomItem(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), index)
	if err != nil {
		h.respondError(w, err, "remove custom item")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())

	mv, err := h.service.Reconcile(r.Context(), identity, chi.URLParam(r, "proposalID"), chi.URLParam(r, "versionID"), req.Revision)
	if err != nil {
		h.respondError(w, err, "reconcile")
		return
	}
	httpx.JSON(w, http.StatusOK, versionResponse(mv))
}

// decode parses and validates the JSON body, writing the problem response
// itself when the input is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "index must be an integer")
		return 0, false
	}
	return index, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	var verr *pricing.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", verr.Error())
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, shared.ErrForbidden):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, shared.ErrVersionMismatch):
		httpx.Problem(w, http.StatusConflict, "Version Mismatch", "the version changed since it was loaded")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
