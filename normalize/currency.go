package normalize

import "strings"

// DefaultCurrency is used whenever a vendor value cannot be recognized.
const DefaultCurrency = "USD"

// ISO-4217 numeric codes for the currencies that show up in hotel feeds.
var numericCurrencyCodes = map[string]string{
	"840": "USD",
	"978": "EUR",
	"826": "GBP",
	"124": "CAD",
	"036": "AUD",
	"392": "JPY",
	"756": "CHF",
	"156": "CNY",
	"484": "MXN",
	"986": "BRL",
	"356": "INR",
	"702": "SGD",
	"344": "HKD",
	"554": "NZD",
	"752": "SEK",
	"578": "NOK",
	"208": "DKK",
	"710": "ZAR",
	"764": "THB",
	"784": "AED",
}

var currencyAliases = map[string]string{
	"DOLLAR":   "USD",
	"DOLLARS":  "USD",
	"US$":      "USD",
	"$":        "USD",
	"EURO":     "EUR",
	"EUROS":    "EUR",
	"POUND":    "GBP",
	"POUNDS":   "GBP",
	"STERLING": "GBP",
	"YEN":      "JPY",
	"FRANC":    "CHF",
	"PESO":     "MXN",
	"RUPEE":    "INR",
	"YUAN":     "CNY",
	"RMB":      "CNY",
	"DIRHAM":   "AED",
	"BAHT":     "THB",
	"RAND":     "ZAR",
}

// Currency validates a vendor currency value into an upper-case ISO-4217
// alphabetic code. Numeric ISO codes and common English aliases are
// recognized; anything else defaults to USD.
func Currency(value any) string {
	var raw string
	switch typed := value.(type) {
	case string:
		raw = typed
	case float64:
		raw = padNumericCode(int(typed))
	case int:
		raw = padNumericCode(typed)
	case int64:
		raw = padNumericCode(int(typed))
	default:
		return DefaultCurrency
	}

	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return DefaultCurrency
	}
	if mapped, ok := numericCurrencyCodes[trimmed]; ok {
		return mapped
	}
	if mapped, ok := currencyAliases[trimmed]; ok {
		return mapped
	}
	if len(trimmed) == 3 && isAlpha(trimmed) {
		return trimmed
	}
	return DefaultCurrency
}

func padNumericCode(code int) string {
	if code <= 0 {
		return ""
	}
	raw := []byte{'0', '0', '0'}
	for i := 2; i >= 0 && code > 0; i-- {
		raw[i] = byte('0' + code%10)
		code /= 10
	}
	return string(raw)
}

func isAlpha(value string) bool {
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
