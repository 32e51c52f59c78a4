package normalize

import "strings"

// FolioCategory is the canonical folio line-item vocabulary.
type FolioCategory string

const (
	FolioCategoryRoom         FolioCategory = "room"
	FolioCategoryTax          FolioCategory = "tax"
	FolioCategoryIncidental   FolioCategory = "incidental"
	FolioCategoryFoodBeverage FolioCategory = "food_beverage"
	FolioCategoryPayment      FolioCategory = "payment"
	FolioCategoryAdjustment   FolioCategory = "adjustment"
	FolioCategoryFee          FolioCategory = "fee"
	FolioCategoryOther        FolioCategory = "other"
)

var folioCategoryCodes = map[string]FolioCategory{
	"ROOM":        FolioCategoryRoom,
	"RM":          FolioCategoryRoom,
	"ACCOM":       FolioCategoryRoom,
	"LODGING":     FolioCategoryRoom,
	"NIGHTLY":     FolioCategoryRoom,
	"RATE":        FolioCategoryRoom,
	"TAX":         FolioCategoryTax,
	"TX":          FolioCategoryTax,
	"VAT":         FolioCategoryTax,
	"GST":         FolioCategoryTax,
	"OCCTAX":      FolioCategoryTax,
	"CITYTAX":     FolioCategoryTax,
	"FB":          FolioCategoryFoodBeverage,
	"FOOD":        FolioCategoryFoodBeverage,
	"BEVERAGE":    FolioCategoryFoodBeverage,
	"RESTAURANT":  FolioCategoryFoodBeverage,
	"BAR":         FolioCategoryFoodBeverage,
	"MINIBAR":     FolioCategoryFoodBeverage,
	"ROOMSERVICE": FolioCategoryFoodBeverage,
	"BREAKFAST":   FolioCategoryFoodBeverage,
	"PAYMENT":     FolioCategoryPayment,
	"PAY":         FolioCategoryPayment,
	"PMT":         FolioCategoryPayment,
	"DEPOSIT":     FolioCategoryPayment,
	"CC":          FolioCategoryPayment,
	"REFUND":      FolioCategoryPayment,
	"ADJ":         FolioCategoryAdjustment,
	"ADJUSTMENT":  FolioCategoryAdjustment,
	"CORRECTION":  FolioCategoryAdjustment,
	"REBATE":      FolioCategoryAdjustment,
	"COMP":        FolioCategoryAdjustment,
	"FEE":         FolioCategoryFee,
	"RESORTFEE":   FolioCategoryFee,
	"SERVICEFEE":  FolioCategoryFee,
	"CLEANING":    FolioCategoryFee,
	"PETFEE":      FolioCategoryFee,
	"PARKING":     FolioCategoryIncidental,
	"SPA":         FolioCategoryIncidental,
	"LAUNDRY":     FolioCategoryIncidental,
	"PHONE":       FolioCategoryIncidental,
	"MOVIE":       FolioCategoryIncidental,
	"INCIDENTAL":  FolioCategoryIncidental,
	"MISC":        FolioCategoryOther,
}

var folioCategorySubstrings = []struct {
	fragment string
	category FolioCategory
}{
	{"ROOM", FolioCategoryRoom},
	{"TAX", FolioCategoryTax},
	{"VAT", FolioCategoryTax},
	{"FOOD", FolioCategoryFoodBeverage},
	{"BEVERAGE", FolioCategoryFoodBeverage},
	{"DINING", FolioCategoryFoodBeverage},
	{"BREAKFAST", FolioCategoryFoodBeverage},
	{"PAYMENT", FolioCategoryPayment},
	{"DEPOSIT", FolioCategoryPayment},
	{"REFUND", FolioCategoryPayment},
	{"ADJUST", FolioCategoryAdjustment},
	{"CORRECT", FolioCategoryAdjustment},
	{"FEE", FolioCategoryFee},
	{"PARKING", FolioCategoryIncidental},
	{"SPA", FolioCategoryIncidental},
	{"LAUNDRY", FolioCategoryIncidental},
}

// NormalizeFolioCategory maps a vendor transaction code plus free-text
// description to the canonical category. The code wins over the
// description; both fall back to substring matching; default is other.
func NormalizeFolioCategory(code string, description string) FolioCategory {
	for _, candidate := range []string{code, description} {
		collapsed := collapseStatusWord(candidate)
		if collapsed == "" {
			continue
		}
		if category, ok := folioCategoryCodes[collapsed]; ok {
			return category
		}
		for _, fragment := range folioCategorySubstrings {
			if strings.Contains(collapsed, fragment.fragment) {
				return fragment.category
			}
		}
	}
	return FolioCategoryOther
}
