package pricing

// AddModification validates and attaches a modification to a line item.
// Existing modifications need a template reference, custom ones a name; both
// need a quantity of at least one. A validation failure performs no mutation
// so the caller can hold the record pending user correction.
//
// Persisting a custom modification as a reusable template is the caller's
// concern; it is fire-and-forget and never rolls back the local addition.
func (v *Version) AddModification(itemID string, in ModificationInput) (*Modification, error) {
	item := v.item(itemID)
	if item == nil {
		return nil, &ValidationError{Field: "item_id", Reason: "unknown line item"}
	}

	switch in.Type {
	case ModExisting:
		if in.TemplateID == "" {
			return nil, &ValidationError{Field: "template_id", Reason: "required"}
		}
	case ModCustom:
		if trimmed(in.Name) == "" {
			return nil, &ValidationError{Field: "name", Reason: "required"}
		}
	default:
		return nil, &ValidationError{Field: "type", Reason: "must be existing or custom"}
	}
	if in.Qty < 1 {
		return nil, &ValidationError{Field: "qty", Reason: "must be at least 1"}
	}

	mod := Modification{
		ID:         newID(),
		Type:       in.Type,
		TemplateID: in.TemplateID,
		Name:       in.Name,
		Price:      CoerceNumber(in.Price),
		Qty:        in.Qty,
		Note:       in.Note,
		Taxable:    in.Taxable,
	}
	item.Modifications = append(item.Modifications, mod)
	v.recalc()
	return &mod, nil
}

// RemoveModification removes by position. Out-of-range indexes are a no-op.
func (v *Version) RemoveModification(itemID string, index int) {
	item := v.item(itemID)
	if item == nil {
		return
	}
	if index < 0 || index >= len(item.Modifications) {
		return
	}
	item.Modifications = append(item.Modifications[:index], item.Modifications[index+1:]...)
	v.recalc()
}
