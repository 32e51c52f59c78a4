package normalize

import "strings"

// ReservationStatus is the canonical reservation lifecycle vocabulary.
type ReservationStatus string

const (
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusNoShow     ReservationStatus = "no_show"
	StatusPending    ReservationStatus = "pending"
	StatusUnknown    ReservationStatus = "unknown"
)

var reservationStatusCodes = map[string]ReservationStatus{
	"CONFIRMED":   StatusConfirmed,
	"CONF":        StatusConfirmed,
	"RESERVED":    StatusConfirmed,
	"BOOKED":      StatusConfirmed,
	"GUARANTEED":  StatusConfirmed,
	"OK":          StatusConfirmed,
	"CHECKEDIN":   StatusCheckedIn,
	"INHOUSE":     StatusCheckedIn,
	"IN":          StatusCheckedIn,
	"ARRIVED":     StatusCheckedIn,
	"CHECKEDOUT":  StatusCheckedOut,
	"OUT":         StatusCheckedOut,
	"DEPARTED":    StatusCheckedOut,
	"COMPLETED":   StatusCheckedOut,
	"CANCELLED":   StatusCancelled,
	"CANCELED":    StatusCancelled,
	"CXL":         StatusCancelled,
	"CX":          StatusCancelled,
	"VOID":        StatusCancelled,
	"NOSHOW":      StatusNoShow,
	"NS":          StatusNoShow,
	"PENDING":     StatusPending,
	"TENTATIVE":   StatusPending,
	"HOLD":        StatusPending,
	"PROVISIONAL": StatusPending,
	"WAITLISTED":  StatusPending,
	"UNCONFIRMED": StatusPending,
	"PRELIMINARY": StatusPending,
	"REQUESTED":   StatusPending,
	"ONREQUEST":   StatusPending,
	"INITIATED":   StatusPending,
	"PROCESSING":  StatusPending,
	"PREARRIVAL":  StatusConfirmed,
	"DUEIN":       StatusConfirmed,
	"DUEOUT":      StatusCheckedIn,
	"STAYOVER":    StatusCheckedIn,
	"TURNEDAWAY":  StatusCancelled,
	"NOARRIVAL":   StatusNoShow,
}

// NormalizeReservationStatus maps a vendor status word to the canonical
// enum. Case and separator characters are ignored; a substring pass
// catches compound vendor phrasings ("Guest Checked-In").
func NormalizeReservationStatus(value string) ReservationStatus {
	collapsed := collapseStatusWord(value)
	if collapsed == "" {
		return StatusUnknown
	}
	if status, ok := reservationStatusCodes[collapsed]; ok {
		return status
	}

	switch {
	case strings.Contains(collapsed, "CHECK") && strings.Contains(collapsed, "IN"):
		return StatusCheckedIn
	case strings.Contains(collapsed, "CHECK") && strings.Contains(collapsed, "OUT"):
		return StatusCheckedOut
	case strings.Contains(collapsed, "CANCEL"):
		return StatusCancelled
	case strings.Contains(collapsed, "NOSHOW"):
		return StatusNoShow
	case strings.Contains(collapsed, "CONFIRM"), strings.Contains(collapsed, "GUARANTEE"):
		return StatusConfirmed
	case strings.Contains(collapsed, "PEND"), strings.Contains(collapsed, "TENTATIVE"):
		return StatusPending
	default:
		return StatusUnknown
	}
}

func collapseStatusWord(value string) string {
	upper := strings.ToUpper(strings.TrimSpace(value))
	replacer := strings.NewReplacer("-", "", "_", "", " ", "", ".", "")
	return replacer.Replace(upper)
}
