package pricing

// Version is the owned pricing context for one manufacturer version of a
// proposal. All engine operations are methods on it; each mutating operation
// recomputes Summary before returning, so the struct is always internally
// consistent. One Version exists per proposal manufacturer-version and
// nothing here is shared or global, so multiple versions coexist without
// cross-talk.
type Version struct {
	ID              string       `json:"id"`
	Items           []LineItem   `json:"items"`
	CustomItems     []CustomItem `json:"custom_items,omitempty"`
	DiscountPercent float64      `json:"discount_percent"`
	Assembled       bool         `json:"assembled"`
	Multiplier      float64      `json:"multiplier"`
	TaxRate         float64      `json:"tax_rate"`
	Summary         PriceSummary `json:"summary"`
}

// NewVersion constructs an empty pricing context. A zero multiplier means the
// real one has not arrived yet; the provisional default 1.0 is used until
// ReconcileMultiplier is invoked.
func NewVersion(id string, multiplier, taxRate float64) *Version {
	if multiplier <= 0 {
		multiplier = 1
	}
	v := &Version{
		ID:         id,
		Multiplier: multiplier,
		TaxRate:    taxRate,
	}
	v.recalc()
	return v
}

// recalc re-derives the summary from current state. Every mutating operation
// ends with this call; there is no implicit dependency tracking.
func (v *Version) recalc() {
	v.Summary = ComputeSummary(v.Items, v.CustomItems, v.DiscountPercent, v.TaxRate)
}

// SetDiscountPercent updates the discount, rejecting values outside [0, 100].
func (v *Version) SetDiscountPercent(p float64) error {
	if p < 0 || p > 100 {
		return &ValidationError{Field: "discount_percent", Reason: "must be between 0 and 100"}
	}
	v.DiscountPercent = p
	v.recalc()
	return nil
}

// SetTaxRate updates the tax rate scalar supplied by the rates collaborator.
func (v *Version) SetTaxRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	v.TaxRate = rate
	v.recalc()
}

// AddCustomItem appends a manually entered charge. Price arrives as text and
// is coerced with a zero fallback so a bad entry never poisons the summary.
func (v *Version) AddCustomItem(name, price string, taxable bool) error {
	if trimmed(name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	v.CustomItems = append(v.CustomItems, CustomItem{
		ID:      newID(),
		Name:    name,
		Price:   CoerceNumber(price),
		Taxable: taxable,
	})
	v.recalc()
	return nil
}

// RemoveCustomItem deletes the custom item at index. Out-of-range is a no-op.
func (v *Version) RemoveCustomItem(index int) {
	if index < 0 || index >= len(v.CustomItems) {
		return
	}
	v.CustomItems = append(v.CustomItems[:index], v.CustomItems[index+1:]...)
	v.recalc()
}

func (v *Version) item(id string) *LineItem {
	for i := range v.Items {
		if v.Items[i].ID == id {
			return &v.Items[i]
		}
	}
	return nil
}
