package catalog

import (
	"time"

	"github.com/Josecau2/njfinish-sub001/internal/pricing"
)

// Entry is a priced catalog item belonging to a manufacturer style.
type Entry struct {
	ID            string    `json:"id"`
	StyleID       string    `json:"style_id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	AssemblyType  *string   `json:"assembly_type,omitempty"`
	AssemblyPrice *float64  `json:"assembly_price,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PricingEntry converts the catalog row into the engine's entry shape.
func (e Entry) PricingEntry() pricing.CatalogEntry {
	out := pricing.CatalogEntry{
		ID:          e.ID,
		Code:        e.Code,
		Description: e.Description,
		Price:       e.Price,
	}
	if e.AssemblyType != nil && e.AssemblyPrice != nil {
		out.AssemblyRule = &pricing.AssemblyRule{
			Type:  pricing.RuleType(*e.AssemblyType),
			Price: *e.AssemblyPrice,
		}
	}
	return out
}

// ModTemplate is a reusable modification preset.
type ModTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
