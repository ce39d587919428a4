package proposals

import "github.com/Josecau2/njfinish-sub001/internal/pricing"

// CreateProposalRequest opens a new quote document.
type CreateProposalRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	TaxZone      string `json:"tax_zone"`
}

// CreateVersionRequest adds a manufacturer version to a proposal.
type CreateVersionRequest struct {
	Manufacturer string `json:"manufacturer" validate:"required"`
}

// AddItemRequest appends a catalog selection to the version.
type AddItemRequest struct {
	EntryID  string `json:"entry_id" validate:"required"`
	AddOnTop bool   `json:"add_on_top"`
}

// UpdateQtyRequest changes a line item's quantity. Values below 1 are
// ignored by the engine, not rejected here.
type UpdateQtyRequest struct {
	Qty int `json:"qty"`
}

// AddModificationRequest attaches a modification to a line item. Taxable is
// a pointer because only administrators may clear it; for everyone else the
// service forces it to true. Price stays text until the engine coerces it.
type AddModificationRequest struct {
	Type       string `json:"type" validate:"required,oneof=existing custom"`
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Qty        int    `json:"qty"`
	Note       string `json:"note"`
	Taxable    *bool  `json:"taxable"`
}

// AssemblyRequest toggles assembly globally or for one row.
type AssemblyRequest struct {
	Assembled bool `json:"assembled"`
}

// SidesRequest records hinge and exposed-side picks for an assembled row.
type SidesRequest struct {
	HingeSide   string `json:"hinge_side" validate:"omitempty,oneof=L R"`
	ExposedSide string `json:"exposed_side" validate:"omitempty,oneof=L R"`
}

// DiscountRequest sets the version discount percentage.
type DiscountRequest struct {
	Percent float64 `json:"percent"`
}

// CustomItemRequest appends a manually entered charge.
type CustomItemRequest struct {
	Name    string `json:"name" validate:"required"`
	Price   string `json:"price"`
	Taxable *bool  `json:"taxable"`
}

// ReconcileRequest re-applies the group multiplier. Revision is the snapshot
// revision the caller based its view on; a mismatch rejects the request.
type ReconcileRequest struct {
	Revision int64 `json:"revision"`
}

// VersionResponse is the view returned for a manufacturer version.
type VersionResponse struct {
	ID           string               `json:"id"`
	ProposalID   string               `json:"proposal_id"`
	Manufacturer string               `json:"manufacturer"`
	Revision     int64                `json:"revision"`
	Items        []pricing.LineItem   `json:"items"`
	CustomItems  []pricing.CustomItem `json:"custom_items"`
	Summary      pricing.PriceSummary `json:"summary"`
}

func versionResponse(mv *ManufacturerVersion) VersionResponse {
	items := mv.Snapshot.Items
	if items == nil {
		items = []pricing.LineItem{}
	}
	custom := mv.Snapshot.CustomItems
	if custom == nil {
		custom = []pricing.CustomItem{}
	}
	return VersionResponse{
		ID:           mv.ID,
		ProposalID:   mv.ProposalID,
		Manufacturer: mv.Manufacturer,
		Revision:     mv.Revision,
		Items:        items,
		CustomItems:  custom,
		Summary:      mv.Snapshot.Summary,
	}
}
