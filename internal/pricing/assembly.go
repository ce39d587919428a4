package pricing

// ToggleGlobalAssembled moves every row to the given assembly state. After a
// global toggle no row diverges from it; per-row overrides only become
// meaningful again through ToggleRowAssembly. Side fields follow the rule:
// assembling restores the previously picked sides (or empty, never "N/A"),
// disassembling forces "N/A".
func (v *Version) ToggleGlobalAssembled(assembled bool) {
	v.Assembled = assembled
	for i := range v.Items {
		setRowAssembly(&v.Items[i], assembled)
	}
	v.recalc()
}

// ToggleRowAssembly flips assembly on a single row, leaving the global state
// and every other row untouched.
func (v *Version) ToggleRowAssembly(itemID string, checked bool) {
	item := v.item(itemID)
	if item == nil {
		return
	}
	setRowAssembly(item, checked)
	v.recalc()
}

func setRowAssembly(item *LineItem, assembled bool) {
	item.IncludeAssemblyFee = assembled
	item.IsRowAssembled = assembled
	if assembled {
		// Only rows coming out of the disassembled state need their sides
		// restored; re-asserting assembly keeps current picks.
		if item.HingeSide == SideNA {
			item.HingeSide = restoredSide(item.PrevHingeSide)
		}
		if item.ExposedSide == SideNA {
			item.ExposedSide = restoredSide(item.PrevExposedSide)
		}
	} else {
		if item.HingeSide != SideNA {
			item.PrevHingeSide = item.HingeSide
		}
		if item.ExposedSide != SideNA {
			item.PrevExposedSide = item.ExposedSide
		}
		item.HingeSide = SideNA
		item.ExposedSide = SideNA
	}
	item.retotal()
}

// restoredSide maps a stashed side back onto the row: a real prior pick is
// restored, anything else becomes the empty selection.
func restoredSide(prev Side) Side {
	if prev == SideLeft || prev == SideRight {
		return prev
	}
	return SideNone
}

// SetSides records hinge and exposed-side picks on an assembled row. Rows
// excluded from assembly keep "N/A" and ignore the update.
func (v *Version) SetSides(itemID string, hinge, exposed Side) {
	item := v.item(itemID)
	if item == nil || !item.IsRowAssembled {
		return
	}
	item.HingeSide = hinge
	item.ExposedSide = exposed
}
