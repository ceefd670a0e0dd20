package shopping

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Bullet prefixes every line of the plain-text export.
const Bullet = "• "

// Format renders an item as "Name: qty unit (leftover; leftover)".
func Format(item ShoppingItem) string {
	base := capitalize(item.DisplayName)
	if qtyUnit := formatQuantity(item.Quantity, item.Unit); qtyUnit != "" {
		base += ": " + qtyUnit
	}

	baseNorm := normalizeText(base)
	leftovers := lo.Filter(
		lo.Uniq(lo.Map(item.Unmerged, func(s string, _ int) string { return strings.TrimSpace(s) })),
		func(s string, _ int) bool { return normalizeText(s) != baseNorm },
	)
	if len(leftovers) == 0 {
		return base
	}
	return base + " (" + strings.Join(leftovers, "; ") + ")"
}

// FormatList renders the plain-text export, one bulleted item per line.
func FormatList(items []ShoppingItem) string {
	lines := lo.Map(items, func(item ShoppingItem, _ int) string { return Bullet + Format(item) })
	return strings.Join(lines, "\n")
}

func formatQuantity(qty *float64, unit string) string {
	if qty == nil {
		return ""
	}
	num := FormatNumber(*qty)
	switch {
	case unit == "":
		return num
	case IsTightUnit(unit):
		return num + unit
	default:
		return num + " " + unit
	}
}

// FormatNumber rounds to at most two fractional digits without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
