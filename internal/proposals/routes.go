package proposals

import "github.com/go-chi/chi/v5"

// MountRoutes registers proposal routes on the provided router. Mutating
// version endpoints mirror the engine operations one-to-one.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createProposal)
	r.Get("/", h.listProposals)
	r.Get("/{proposalID}", h.getProposal)

	r.Post("/{proposalID}/versions", h.createVersion)
	r.Route("/{proposalID}/versions/{versionID}", func(r chi.Router) {
		r.Get("/", h.getVersion)
		r.Post("/items", h.addItem)
		r.Put("/items/{itemID}/qty", h.updateQty)
		r.Delete("/items/{itemID}", h.deleteItem)
		r.Post("/items/{itemID}/modifications", h.addModification)
		r.Delete("/items/{itemID}/modifications/{index}", h.removeModification)
		r.Put("/items/{itemID}/assembly", h.toggleRowAssembly)
		r.Put("/items/{itemID}/sides", h.setSides)
		r.Put("/assembly", h.toggleAssembly)
		r.Put("/discount", h.setDiscount)
		r.Post("/custom-items", h.addCustomItem)
		r.Delete("/custom-items/{index}", h.removeCustomItem)
		r.Post("/reconcile", h.reconcile)
	})
}
