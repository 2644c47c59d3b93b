package util

import "strings"

type unitDef struct {
	finalUnit string
	factor    float64
}

// unitTable maps raw recipe units to their reporting unit. Everything not
// listed passes through unchanged, so re-applying the conversion to an
// already-converted quantity is a no-op.
var unitTable = map[string]unitDef{
	"gr": {finalUnit: "kg", factor: 1.0 / 1000},
	"ml": {finalUnit: "lt", factor: 1.0 / 1000},
}

// ConvertUnit maps a (quantity, unit) pair to its normalized form.
// Unit matching is case-insensitive and ignores surrounding whitespace.
func ConvertUnit(qty float64, unit string) (float64, string) {
	def, ok := unitTable[strings.ToLower(CleanCell(unit))]
	if !ok {
		return qty, unit
	}
	return qty * def.factor, def.finalUnit
}

// UnitFactor returns just the conversion factor for a raw unit, for
// callers that convert external quantities reported in the same unit.
func UnitFactor(unit string) float64 {
	def, ok := unitTable[strings.ToLower(CleanCell(unit))]
	if !ok {
		return 1
	}
	return def.factor
}
