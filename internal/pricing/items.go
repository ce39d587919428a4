package pricing

import "github.com/google/uuid"

func newID() string {
	return uuid.NewString()
}

// AddLineItem converts a catalog selection into a line item and inserts it at
// the head or tail of the collection. The currently known multiplier is folded
// in immediately; OriginalPrice pins the unmultiplied base for later
// reconciliation. An empty catalog entry is a no-op since the selection
// surface only offers valid entries.
func (v *Version) AddLineItem(entry CatalogEntry, addOnTop bool) {
	if entry.ID == "" {
		return
	}

	mult := v.Multiplier
	if mult <= 0 {
		mult = 1
	}

	item := LineItem{
		ID:                newID(),
		Code:              entry.Code,
		Description:       entry.Description,
		Qty:               1,
		OriginalPrice:     entry.Price,
		AppliedMultiplier: mult,
		Price:             entry.Price * mult,
		AssemblyFee:       assemblyFeeFor(entry),
	}

	if v.Assembled {
		item.IncludeAssemblyFee = true
		item.IsRowAssembled = true
		item.HingeSide = SideNone
		item.ExposedSide = SideNone
	} else {
		item.HingeSide = SideNA
		item.ExposedSide = SideNA
	}
	item.retotal()

	if addOnTop {
		v.Items = append([]LineItem{item}, v.Items...)
	} else {
		v.Items = append(v.Items, item)
	}
	v.recalc()
}

// assemblyFeeFor derives the unit assembly fee from the entry's cost rule.
// Percentage rules are computed against the unmultiplied base price; the
// multiplier affects the unit price but never the fee base.
func assemblyFeeFor(entry CatalogEntry) float64 {
	rule := entry.AssemblyRule
	if rule == nil {
		return 0
	}
	switch rule.Type {
	case RuleFlat, RuleFixed:
		return rule.Price
	case RulePercentage:
		return entry.Price * rule.Price / 100
	default:
		return 0
	}
}

// UpdateQty changes a line item's quantity and recomputes its total. A
// quantity below one leaves the collection unchanged.
func (v *Version) UpdateQty(itemID string, qty int) {
	if qty < 1 {
		return
	}
	item := v.item(itemID)
	if item == nil {
		return
	}
	item.Qty = qty
	item.retotal()
	v.recalc()
}

// DeleteLineItem removes a row on explicit delete. Unknown ids are a no-op.
func (v *Version) DeleteLineItem(itemID string) {
	for i := range v.Items {
		if v.Items[i].ID == itemID {
			v.Items = append(v.Items[:i], v.Items[i+1:]...)
			v.recalc()
			return
		}
	}
}
