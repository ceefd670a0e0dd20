package shopping

import "strings"

// Canonical unit symbols
const (
	UnitGram       = "г"
	UnitKilogram   = "кг"
	UnitMilliliter = "мл"
	UnitLiter      = "л"
	UnitPiece      = "шт"
	UnitTablespoon = "ст.л."
	UnitTeaspoon   = "ч.л."
	UnitGlass      = "стак."
)

// Unit normalization map. Keys are lower-cased with trailing periods stripped.
var unitNormalization = map[string]string{
	// Weight
	"г":           UnitGram,
	"гр":          UnitGram,
	"грамм":       UnitGram,
	"грамма":      UnitGram,
	"граммов":     UnitGram,
	"граммы":      UnitGram,
	"g":           UnitGram,
	"кг":          UnitKilogram,
	"кило":        UnitKilogram,
	"килограмм":   UnitKilogram,
	"килограмма":  UnitKilogram,
	"килограммов": UnitKilogram,
	"kg":          UnitKilogram,

	// Volume
	"мл":          UnitMilliliter,
	"миллилитр":   UnitMilliliter,
	"миллилитра":  UnitMilliliter,
	"миллилитров": UnitMilliliter,
	"ml":          UnitMilliliter,
	"л":           UnitLiter,
	"литр":        UnitLiter,
	"литра":       UnitLiter,
	"литров":      UnitLiter,
	"l":           UnitLiter,

	// Count
	"шт":    UnitPiece,
	"штук":  UnitPiece,
	"штука": UnitPiece,
	"штуки": UnitPiece,
	"pc":    UnitPiece,
	"pcs":   UnitPiece,

	// Kitchen measures
	"ст.л":     UnitTablespoon,
	"стл":      UnitTablespoon,
	"ст.ложка": UnitTablespoon,
	"ст.ложки": UnitTablespoon,
	"ч.л":      UnitTeaspoon,
	"чл":       UnitTeaspoon,
	"ч.ложка":  UnitTeaspoon,
	"ч.ложки":  UnitTeaspoon,
	"стакан":   UnitGlass,
	"стакана":  UnitGlass,
	"стаканов": UnitGlass,
	"стак":     UnitGlass,
}

// Units rendered right after the number, without a space.
var tightUnits = map[string]bool{
	UnitGram:       true,
	UnitKilogram:   true,
	UnitMilliliter: true,
	UnitLiter:      true,
}

// NormalizeUnit maps a unit token to its canonical form. Unknown tokens are
// returned lower-cased with trailing periods removed.
func NormalizeUnit(token string) string {
	unit := strings.TrimRight(strings.ToLower(strings.TrimSpace(token)), ".")
	if normalized, ok := unitNormalization[unit]; ok {
		return normalized
	}
	return unit
}

// IsTightUnit reports whether unit is written without a space after the quantity.
func IsTightUnit(unit string) bool {
	return tightUnits[unit]
}
