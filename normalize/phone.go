package normalize

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

const minPhoneDigits = 7

// Phone normalizes a vendor phone value toward E.164. Full validation is
// not attempted: libphonenumber formats what it can parse, and a
// digit-stripping heuristic covers the rest (10-digit numbers are assumed
// North American and get a +1 prefix). Inputs under 7 digits return "".
func Phone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if parsed, err := libphonenumber.Parse(trimmed, "US"); err == nil {
		if libphonenumber.IsValidNumber(parsed) {
			return libphonenumber.Format(parsed, libphonenumber.E164)
		}
	}

	digits := keepPhoneDigits(trimmed)
	bare := strings.TrimPrefix(digits, "+")
	if len(bare) < minPhoneDigits {
		return ""
	}
	if strings.HasPrefix(digits, "+") {
		return digits
	}
	if len(bare) == 10 {
		return "+1" + bare
	}
	if len(bare) == 11 && strings.HasPrefix(bare, "1") {
		return "+" + bare
	}
	return "+" + bare
}

func keepPhoneDigits(value string) string {
	var out strings.Builder
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
			out.WriteRune(r)
		case r == '+' && i == 0:
			out.WriteRune(r)
		}
	}
	return out.String()
}
