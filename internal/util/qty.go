package util

import (
	"strconv"
	"strings"

	"bomcalc/internal"
)

// ParseWasteFraction turns a free-form waste/shrinkage input into a
// non-negative proportion. Accepted forms: "0.10", ".30", "0,30", "30%".
// Blank input means no waste. The result is not capped: values >= 1 are
// legal (100%+ waste) and are the caller's business to warn about.
func ParseWasteFraction(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	s = strings.ReplaceAll(s, ",", ".")

	isPct := false
	if strings.HasSuffix(s, "%") {
		isPct = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &internal.InvalidWasteInputError{Raw: raw}
	}
	if isPct {
		v /= 100
	}
	if v < 0 {
		return 0, &internal.InvalidWasteInputError{Raw: raw}
	}
	return v, nil
}

// CoerceFloat parses a spreadsheet cell as a number, tolerating decimal
// commas and grouped thousands. Anything unparseable is 0: BOM exports
// are noisy and a bad cell must never fail the load.
func CoerceFloat(cell string) float64 {
	s := CleanCell(cell)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(normalizeNumericToken(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// normalizeNumericToken rewrites locale numeric variants into ParseFloat
// form: "1 000" and "1.000"/"1,000" as thousands, "1,5" as a decimal.
func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if isGrouped(compact, '.') {
		return strings.ReplaceAll(compact, ".", "")
	}
	if isGrouped(compact, ',') {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}

// isGrouped reports whether s is digits separated by sep into groups of
// three, e.g. "1.000" or "12,345,678".
func isGrouped(s string, sep rune) bool {
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 {
		return false
	}
	for i, p := range parts {
		if p == "" || !allDigits(p) {
			return false
		}
		if i == 0 {
			if len(p) > 3 {
				return false
			}
		} else if len(p) != 3 {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func FloatPtr(v float64) *float64 {
	return &v
}
