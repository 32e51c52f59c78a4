package vendors

import (
	"strings"

	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
)

// The mapping-driven record builders. Every scalar coercion is delegated
// to the normalize package; a malformed vendor field degrades to its
// zero value and never aborts the record.

func ReservationFrom(payload map[string]any, m Mapping) core.Reservation {
	root := rootMap(payload, m.ReservationRoot)

	res := core.Reservation{
		ConfirmationNumber: normalize.FirstString(root, m.ConfirmationNumber...),
		PMSID:              normalize.FirstString(root, m.ReservationID...),
		Status:             statusFrom(root, m),
		GuestProfileID:     normalize.FirstString(root, m.GuestID...),
		GuestName:          normalize.GuestNameOf(normalize.First(root, m.GuestName...)),
		Contact: core.Contact{
			Email:   normalize.FirstString(root, m.Email...),
			Phone:   normalize.Phone(normalize.FirstString(root, m.Phone...)),
			Address: normalize.AddressOf(normalize.First(root, m.Address...)),
		},
		CheckInDate:   normalize.Date(normalize.First(root, m.CheckIn...)),
		CheckOutDate:  normalize.Date(normalize.First(root, m.CheckOut...)),
		RoomType:      normalize.FirstString(root, m.RoomType...),
		RoomNumber:    normalize.FirstString(root, m.RoomNumber...),
		RateCode:      normalize.FirstString(root, m.RateCode...),
		TotalAmount:   amountFrom(root, m.TotalAmount, m.AmountsInMinorUnits),
		Currency:      normalize.Currency(normalize.First(root, m.Currency...)),
		BookingSource: normalize.FirstString(root, m.BookingSource...),
		CreatedAt:     normalize.Date(normalize.First(root, m.CreatedAt...)),
		UpdatedAt:     normalize.Date(normalize.First(root, m.UpdatedAt...)),

		SpecialRequests: normalize.FirstString(root, m.SpecialRequests...),
		Payment: core.PaymentSummary{
			CardBrand: normalize.NormalizeCardBrand(normalize.FirstString(root, m.CardBrand...)),
			LastFour:  lastFourDigits(normalize.FirstString(root, m.CardNumber...)),
			AuthCode:  normalize.FirstString(root, m.AuthCode...),
		},
		Extensions:  extensionsFrom(root, m.Extensions),
		RawSnapshot: snapshotOf(payload),
	}
	if count, ok := normalize.FirstNumber(root, m.GuestCount...); ok && count > 0 {
		res.GuestCount = int(count)
	}
	return res
}

func FolioItemsFrom(payload map[string]any, m Mapping) []core.FolioItem {
	entries := normalize.FirstSlice(payload, m.FolioList...)
	items := make([]core.FolioItem, 0, len(entries))
	for _, entry := range entries {
		row, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		code := normalize.FirstString(row, m.TransactionCode...)
		description := normalize.FirstString(row, m.FolioDescription...)
		item := core.FolioItem{
			FolioID:       normalize.FirstString(row, m.FolioID...),
			TransactionID: normalize.FirstString(row, m.TransactionID...),
			Code:          code,
			Category:      normalize.NormalizeFolioCategory(code, description),
			Description:   description,
			Amount:        amountFrom(row, m.FolioAmount, m.AmountsInMinorUnits),
			Currency:      normalize.Currency(normalize.First(row, m.FolioCurrency...)),
			PostDate:      normalize.Date(normalize.First(row, m.PostDate...)),
			CardReference: lastFourDigits(normalize.FirstString(row, m.CardReference...)),
			AuthCode:      normalize.FirstString(row, m.FolioAuthCode...),
			Reversal:      boolFrom(normalize.First(row, m.Reversal...)),
			Quantity:      1,
		}
		if window, ok := normalize.FirstNumber(row, m.FolioWindow...); ok {
			item.WindowNumber = int(window)
		}
		if quantity, ok := normalize.FirstNumber(row, m.Quantity...); ok && quantity > 0 {
			item.Quantity = int(quantity)
		}
		items = append(items, item)
	}
	return items
}

func GuestProfileFrom(payload map[string]any, m Mapping) core.GuestProfile {
	root := rootMap(payload, m.ProfileRoot)

	profile := core.GuestProfile{
		GuestID: normalize.FirstString(root, m.GuestID...),
		Name:    normalize.GuestNameOf(normalize.First(root, m.GuestName...)),
		Contact: core.Contact{
			Email:   normalize.FirstString(root, m.Email...),
			Phone:   normalize.Phone(normalize.FirstString(root, m.Phone...)),
			Address: normalize.AddressOf(normalize.First(root, m.Address...)),
		},
		LoyaltyNumber: normalize.FirstString(root, m.LoyaltyNumber...),
		LoyaltyLevel:  normalize.FirstString(root, m.LoyaltyLevel...),
		Nationality:   normalize.FirstString(root, m.Nationality...),
		Language:      normalize.FirstString(root, m.Language...),
		DateOfBirth:   normalize.Date(normalize.First(root, m.DateOfBirth...)),
		TotalRevenue:  amountFrom(root, m.TotalRevenue, m.AmountsInMinorUnits),
		Extensions:    extensionsFrom(root, m.Extensions),
		RawSnapshot:   snapshotOf(payload),
	}
	if points, ok := normalize.FirstNumber(root, m.LoyaltyPoints...); ok {
		profile.LoyaltyPoints = int(points)
	}
	if stays, ok := normalize.FirstNumber(root, m.TotalStays...); ok {
		profile.TotalStays = int(stays)
	}
	return profile
}

func RatesFrom(payload map[string]any, m Mapping) []core.Rate {
	entries := normalize.FirstSlice(payload, m.RateList...)
	rates := make([]core.Rate, 0, len(entries))
	for _, entry := range entries {
		row, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		rate := core.Rate{
			Code:               normalize.FirstString(row, m.RateCodeField...),
			Name:               normalize.FirstString(row, m.RateName...),
			Description:        normalize.FirstString(row, m.RateDescription...),
			Category:           normalize.FirstString(row, m.RateCategory...),
			BaseAmount:         amountFrom(row, m.RateBaseAmount, m.AmountsInMinorUnits),
			Currency:           normalize.Currency(normalize.First(row, m.RateCurrency...)),
			ValidFrom:          normalize.Date(normalize.First(row, m.RateValidFrom...)),
			ValidTo:            normalize.Date(normalize.First(row, m.RateValidTo...)),
			Active:             true,
			RoomTypes:          stringsFrom(normalize.FirstSlice(row, m.RateRoomTypes...)),
			Inclusions:         stringsFrom(normalize.FirstSlice(row, m.RateInclusions...)),
			CancellationPolicy: normalize.FirstString(row, m.CancellationPolicy...),
		}
		if raw := normalize.First(row, m.RateActive...); raw != nil {
			rate.Active = boolFrom(raw)
		}
		rates = append(rates, rate)
	}
	return rates
}

func rootMap(payload map[string]any, paths []string) map[string]any {
	if len(paths) > 0 {
		if root := normalize.FirstMap(payload, paths...); root != nil {
			return root
		}
	}
	return payload
}

func statusFrom(root map[string]any, m Mapping) normalize.ReservationStatus {
	raw := normalize.FirstString(root, m.Status...)
	if len(m.StatusValues) > 0 {
		if status, ok := m.StatusValues[collapseVendorToken(raw)]; ok {
			return status
		}
	}
	return normalize.NormalizeReservationStatus(raw)
}

func amountFrom(root map[string]any, paths []string, minorUnits bool) float64 {
	raw := normalize.First(root, paths...)
	if raw == nil {
		return 0
	}
	if minorUnits {
		return normalize.MinorAmount(raw)
	}
	return normalize.Amount(raw)
}

func extensionsFrom(root map[string]any, paths []string) map[string]any {
	out := map[string]any{}
	for _, path := range paths {
		if value := normalize.Lookup(root, path); value != nil {
			segments := strings.Split(path, ".")
			out[segments[len(segments)-1]] = value
		}
	}
	return out
}

// snapshotOf retains the raw vendor payload for audit, redacted so card
// numbers and tokens never leave the normalization boundary.
func snapshotOf(payload map[string]any) map[string]any {
	sanitized, _ := normalize.SanitizePII(payload).(map[string]any)
	return sanitized
}

func lastFourDigits(value string) string {
	digits := make([]rune, 0, len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

func boolFrom(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case float64:
		return typed != 0
	case int:
		return typed != 0
	case string:
		switch collapseVendorToken(typed) {
		case "TRUE", "Y", "YES", "1", "ACTIVE":
			return true
		}
	}
	return false
}

func stringsFrom(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// collapseVendorToken uppercases and strips separators so vendor
// vocabulary lookups tolerate casing and spelling variants.
func collapseVendorToken(value string) string {
	upper := strings.ToUpper(strings.TrimSpace(value))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, upper)
}
