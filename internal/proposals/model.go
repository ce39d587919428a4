package proposals

import (
	"time"

	"github.com/Josecau2/njfinish-sub001/internal/pricing"
)

// Proposal is a customer quote document. Pricing lives in its manufacturer
// versions, not here.
type Proposal struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	OwnerGroupID string    `json:"owner_group_id"`
	TaxZone      string    `json:"tax_zone"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ManufacturerVersion pairs a proposal with one manufacturer's pricing
// context. Snapshot is the engine state persisted as a whole; Revision
// increments on every save and guards against stale submissions.
type ManufacturerVersion struct {
	ID           string          `json:"id"`
	ProposalID   string          `json:"proposal_id"`
	Manufacturer string          `json:"manufacturer"`
	Revision     int64           `json:"revision"`
	Snapshot     pricing.Version `json:"snapshot"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
