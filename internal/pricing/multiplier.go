package pricing

// ReconcileMultiplier applies an asynchronously fetched user-group multiplier
// to every line item exactly once. Items may have been created with the
// provisional 1.0 default before the real value arrived; because
// OriginalPrice is pinned on first application, re-running with the same
// multiplier reproduces the same prices instead of compounding them.
//
// The whole collection is updated and the summary recomputed once at the end,
// so callers never observe a partially reconciled state. Staleness (a
// multiplier fetched for a version the user has navigated away from) is the
// caller's check; the engine applies whatever it is given.
func (v *Version) ReconcileMultiplier(multiplier float64) {
	if multiplier <= 0 || multiplier == 1 {
		return
	}

	for i := range v.Items {
		item := &v.Items[i]

		base := item.OriginalPrice
		if base == 0 {
			if item.AppliedMultiplier != 0 {
				base = item.Price / item.AppliedMultiplier
			} else {
				base = item.Price
			}
		}

		item.Price = base * multiplier
		item.OriginalPrice = base
		item.AppliedMultiplier = multiplier
		item.retotal()
	}

	v.Multiplier = multiplier
	v.recalc()
}
