package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Epoch values below this are treated as seconds, everything else as milliseconds.
const epochMillisThreshold = 1e12

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"02-Jan-06",
	"01/02/2006",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	time.ANSIC,
}

// Date coerces the heterogeneous date representations vendors emit into a
// UTC instant. It accepts time.Time, RFC3339/ISO strings, epoch seconds or
// milliseconds (numeric or string), DD-MMM-YY[YY], MM/DD/YYYY and
// YYYY/MM/DD. Unparseable input returns nil, never an error.
func Date(value any) *time.Time {
	switch typed := value.(type) {
	case nil:
		return nil
	case time.Time:
		if typed.IsZero() {
			return nil
		}
		utc := typed.UTC()
		return &utc
	case *time.Time:
		if typed == nil || typed.IsZero() {
			return nil
		}
		utc := typed.UTC()
		return &utc
	case float64:
		return epochToTime(typed)
	case float32:
		return epochToTime(float64(typed))
	case int:
		return epochToTime(float64(typed))
	case int64:
		return epochToTime(float64(typed))
	case string:
		return parseDateString(typed)
	default:
		return nil
	}
}

// FormatDate renders a normalized instant as an ISO-8601 UTC string, or ""
// for nil.
func FormatDate(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

func parseDateString(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}

	// Epoch encoded as a string.
	if numeric, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return epochToTime(numeric)
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}

	// Month names arrive in any case from legacy systems ("15-JAN-24").
	title := titleCaseMonth(trimmed)
	if title != trimmed {
		for _, layout := range []string{"02-Jan-2006", "02-Jan-06"} {
			if parsed, err := time.Parse(layout, title); err == nil {
				utc := parsed.UTC()
				return &utc
			}
		}
	}
	return nil
}

func epochToTime(value float64) *time.Time {
	if value <= 0 {
		return nil
	}
	var parsed time.Time
	if value < epochMillisThreshold {
		parsed = time.Unix(int64(value), 0)
	} else {
		parsed = time.UnixMilli(int64(value))
	}
	utc := parsed.UTC()
	return &utc
}

func titleCaseMonth(value string) string {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return value
	}
	month := strings.ToLower(parts[1])
	if len(month) >= 1 {
		month = strings.ToUpper(month[:1]) + month[1:]
	}
	return parts[0] + "-" + month + "-" + parts[2]
}
