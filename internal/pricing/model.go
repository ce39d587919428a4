package pricing

// Side identifies a hinge or exposed-side selection on a line item.
type Side string

const (
	SideLeft  Side = "L"
	SideRight Side = "R"
	SideNone  Side = ""
	// SideNA marks the field as not applicable while the row is unassembled.
	SideNA Side = "N/A"
)

// RuleType distinguishes how a catalog entry prices factory assembly.
type RuleType string

const (
	RuleFlat       RuleType = "flat"
	RuleFixed      RuleType = "fixed"
	RulePercentage RuleType = "percentage"
)

// AssemblyRule is the assembly-cost rule attached to a catalog entry.
// Flat and fixed rules carry an absolute unit fee; percentage rules carry a
// percent applied to the unmultiplied catalog base price.
type AssemblyRule struct {
	Type  RuleType `json:"type"`
	Price float64  `json:"price"`
}

// CatalogEntry is the catalog shape the engine consumes when a selection is
// made. It is supplied by the catalog collaborator and never stored here.
type CatalogEntry struct {
	ID           string        `json:"id"`
	Code         string        `json:"code"`
	Description  string        `json:"description"`
	Price        float64       `json:"price"`
	AssemblyRule *AssemblyRule `json:"assembly_rule,omitempty"`
}

// ModType distinguishes template-backed modifications from freeform ones.
type ModType string

const (
	ModExisting ModType = "existing"
	ModCustom   ModType = "custom"
)

// Modification is an add-on charge attached to one line item.
type Modification struct {
	ID         string  `json:"id"`
	Type       ModType `json:"type"`
	TemplateID string  `json:"template_id,omitempty"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Qty        int     `json:"qty"`
	Note       string  `json:"note,omitempty"`
	Taxable    bool    `json:"taxable"`
}

// ModificationInput carries a modification as entered, before validation and
// numeric coercion. Price is kept as text because custom prices arrive as
// free-form user input.
type ModificationInput struct {
	Type       ModType
	TemplateID string
	Name       string
	Price      string
	Qty        int
	Note       string
	Taxable    bool
}

// LineItem is one priced row derived from a catalog selection.
//
// Price is always OriginalPrice * AppliedMultiplier, and Total is always
// Qty*Price plus the assembly fee when included. Callers never set Total
// directly; every mutating operation recomputes it.
type LineItem struct {
	ID                 string         `json:"id"`
	Code               string         `json:"code"`
	Description        string         `json:"description"`
	Qty                int            `json:"qty"`
	OriginalPrice      float64        `json:"original_price"`
	AppliedMultiplier  float64        `json:"applied_multiplier"`
	Price              float64        `json:"price"`
	AssemblyFee        float64        `json:"assembly_fee"`
	IncludeAssemblyFee bool           `json:"include_assembly_fee"`
	IsRowAssembled     bool           `json:"is_row_assembled"`
	HingeSide          Side           `json:"hinge_side"`
	ExposedSide        Side           `json:"exposed_side"`
	Modifications      []Modification `json:"modifications,omitempty"`
	Total              float64        `json:"total"`

	// Side selections are stashed here while the row is unassembled so that
	// re-assembling restores what the user had picked.
	PrevHingeSide   Side `json:"prev_hinge_side,omitempty"`
	PrevExposedSide Side `json:"prev_exposed_side,omitempty"`
}

// retotal re-derives Total from the item's current fields.
func (li *LineItem) retotal() {
	fee := 0.0
	if li.IncludeAssemblyFee {
		fee = li.AssemblyFee
	}
	li.Total = float64(li.Qty)*li.Price + fee*float64(li.Qty)
}

// CustomItem is a manually entered charge with no catalog backing. It has no
// quantity; Price is the full amount.
type CustomItem struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Taxable bool    `json:"taxable"`
}

// PriceSummary is the derived, immutable totals snapshot for one manufacturer
// version. Monetary fields are rounded to two decimals only here; the running
// sums behind them are never rounded.
type PriceSummary struct {
	CabinetsSubtotal   float64 `json:"cabinets_subtotal"`
	AssemblyFeeTotal   float64 `json:"assembly_fee_total"`
	ModificationsTotal float64 `json:"modifications_total"`
	CustomItemsTotal   float64 `json:"custom_items_total"`
	StyleTotal         float64 `json:"style_total"`
	DiscountPercent    float64 `json:"discount_percent"`
	DiscountAmount     float64 `json:"discount_amount"`
	TotalAfterDiscount float64 `json:"total_after_discount"`
	TaxRate            float64 `json:"tax_rate"`
	TaxAmount          float64 `json:"tax_amount"`
	GrandTotal         float64 `json:"grand_total"`
}

// ValidationError reports a field-level input failure. The operation that
// raised it performs no mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
