package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount coerces vendor monetary values into major currency units rounded
// to two decimals. Strings may carry currency symbols, thousands
// separators in either convention, and accounting-style parentheses for
// negatives. Unparseable input degrades to 0.
func Amount(value any) float64 {
	parsed, ok := parseAmount(value)
	if !ok {
		return 0
	}
	rounded, _ := parsed.Round(2).Float64()
	return rounded
}

// MinorAmount behaves like Amount but treats the input as minor units
// (cents) and divides by 100 before rounding.
func MinorAmount(value any) float64 {
	parsed, ok := parseAmount(value)
	if !ok {
		return 0
	}
	rounded, _ := parsed.Div(decimal.NewFromInt(100)).Round(2).Float64()
	return rounded
}

func parseAmount(value any) (decimal.Decimal, bool) {
	switch typed := value.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(typed), true
	case float32:
		return decimal.NewFromFloat(float64(typed)), true
	case int:
		return decimal.NewFromInt(int64(typed)), true
	case int64:
		return decimal.NewFromInt(typed), true
	case string:
		return parseAmountString(typed)
	default:
		return decimal.Zero, false
	}
}

func parseAmountString(raw string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		negative = true
		trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "("), ")")
	}

	var cleaned strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			cleaned.WriteRune(r)
		case r == '-':
			negative = true
		}
	}
	normalized := resolveSeparators(cleaned.String())
	if normalized == "" {
		return decimal.Zero, false
	}

	parsed, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		parsed = parsed.Neg()
	}
	return parsed, true
}

// resolveSeparators disambiguates "1.234,56" from "1,234.56": whichever of
// '.' and ',' appears last is the decimal separator, the other is a
// thousands separator and is dropped.
func resolveSeparators(value string) string {
	lastDot := strings.LastIndex(value, ".")
	lastComma := strings.LastIndex(value, ",")

	switch {
	case lastDot == -1 && lastComma == -1:
		return value
	case lastComma > lastDot:
		integer := strings.ReplaceAll(value[:lastComma], ".", "")
		integer = strings.ReplaceAll(integer, ",", "")
		return integer + "." + value[lastComma+1:]
	default:
		integer := strings.ReplaceAll(value[:lastDot], ",", "")
		integer = strings.ReplaceAll(integer, ".", "")
		return integer + "." + value[lastDot+1:]
	}
}
