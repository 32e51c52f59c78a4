package normalize

import "strings"

// RedactionMarker replaces fully-masked values in sanitized snapshots.
const RedactionMarker = "[REDACTED]"

// Fields whose values must never survive in any snapshot.
var fullyMaskedFields = map[string]struct{}{
	"cardnumber":           {},
	"creditcard":           {},
	"creditcardnumber":     {},
	"pan":                  {},
	"ccnumber":             {},
	"cvv":                  {},
	"cvc":                  {},
	"cvv2":                 {},
	"pin":                  {},
	"ssn":                  {},
	"socialsecuritynumber": {},
	"nationalid":           {},
	"passportnumber":       {},
	"taxid":                {},
	"accountnumber":        {},
	"routingnumber":        {},
	"iban":                 {},
	"password":             {},
	"secret":               {},
	"apikey":               {},
	"token":                {},
	"accesstoken":          {},
	"refreshtoken":         {},
	"authorization":        {},
}

// Fields reduced to their trailing 4 characters.
var partiallyMaskedFields = map[string]struct{}{
	"email":        {},
	"emailaddress": {},
	"phone":        {},
	"phonenumber":  {},
	"mobile":       {},
	"telephone":    {},
	"cardtoken":    {},
	"maskedcard":   {},
}

// SanitizePII deep-clones a decoded JSON structure, replacing sensitive
// fields with a redaction marker and trimming partially-masked fields to
// their last 4 characters. The input is never mutated and the operation
// is idempotent: sanitizing a sanitized snapshot is a no-op.
func SanitizePII(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = sanitizeField(key, nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = SanitizePII(nested)
		}
		return out
	default:
		return value
	}
}

func sanitizeField(key string, value any) any {
	collapsed := collapseFieldName(key)
	if _, ok := fullyMaskedFields[collapsed]; ok {
		return RedactionMarker
	}
	if _, ok := partiallyMaskedFields[collapsed]; ok {
		return maskTail(value)
	}
	return SanitizePII(value)
}

func maskTail(value any) any {
	rendered, ok := value.(string)
	if !ok {
		return RedactionMarker
	}
	trimmed := strings.TrimSpace(rendered)
	if trimmed == RedactionMarker {
		return RedactionMarker
	}
	if len(trimmed) <= 4 {
		return trimmed
	}
	return "***" + trimmed[len(trimmed)-4:]
}

func collapseFieldName(key string) string {
	lower := strings.ToLower(strings.TrimSpace(key))
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return replacer.Replace(lower)
}
