package pricing

import (
	"math"
	"strconv"
	"strings"
)

// ComputeSummary folds line items, custom items and the discount/tax rates
// into the totals snapshot. It is a pure function: no state, no clocks, no
// side effects. The cascade order is fixed: discount applies to the style
// total, tax applies after the discount, never the reverse.
//
// Running sums stay unrounded; only the returned snapshot is rounded to two
// decimals. Non-finite inputs contribute zero to their term so one bad row
// never blanks the whole summary.
func ComputeSummary(items []LineItem, customItems []CustomItem, discountPercent, taxRate float64) PriceSummary {
	var cabinets, assembly, mods float64
	for i := range items {
		li := &items[i]
		qty := float64(li.Qty)
		cabinets += finite(li.Price) * qty
		if li.IncludeAssemblyFee {
			assembly += finite(li.AssemblyFee) * qty
		}
		for _, m := range li.Modifications {
			mods += finite(m.Price) * float64(m.Qty)
		}
	}

	var custom float64
	for _, ci := range customItems {
		custom += finite(ci.Price)
	}
	cabinets += custom

	discountPercent = clampPercent(discountPercent)
	if taxRate < 0 || !isFinite(taxRate) {
		taxRate = 0
	}

	styleTotal := cabinets + assembly + mods
	discountAmount := styleTotal * discountPercent / 100
	afterDiscount := styleTotal - discountAmount
	taxAmount := afterDiscount * taxRate / 100
	grandTotal := afterDiscount + taxAmount

	return PriceSummary{
		CabinetsSubtotal:   Round2(cabinets),
		AssemblyFeeTotal:   Round2(assembly),
		ModificationsTotal: Round2(mods),
		CustomItemsTotal:   Round2(custom),
		StyleTotal:         Round2(styleTotal),
		DiscountPercent:    discountPercent,
		DiscountAmount:     Round2(discountAmount),
		TotalAfterDiscount: Round2(afterDiscount),
		TaxRate:            taxRate,
		TaxAmount:          Round2(taxAmount),
		GrandTotal:         Round2(grandTotal),
	}
}

// Round2 rounds to two decimal places for storage in the summary snapshot.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CoerceNumber parses user-entered price text, tolerating currency symbols
// and thousands separators. Anything unparseable, negative infinity, NaN or
// a negative amount coerces to zero — invalid input must never propagate
// into the summary.
func CoerceNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

func clampPercent(p float64) float64 {
	if !isFinite(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func finite(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
