package normalize

import "strings"

// CardBrand is the canonical payment-card brand vocabulary.
type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandMastercard CardBrand = "Mastercard"
	CardBrandAmex       CardBrand = "American Express"
	CardBrandDiscover   CardBrand = "Discover"
	CardBrandDiners     CardBrand = "Diners Club"
	CardBrandJCB        CardBrand = "JCB"
	CardBrandUnionPay   CardBrand = "UnionPay"
	CardBrandDebit      CardBrand = "Debit"
	CardBrandCash       CardBrand = "Cash"
	CardBrandUnknown    CardBrand = "Unknown"
)

// Vendor card codes: two-letter PMS codes, spelled-out names and MII-style
// leading digits all collapse into one vocabulary.
var cardBrandCodes = map[string]CardBrand{
	"VI":               CardBrandVisa,
	"VS":               CardBrandVisa,
	"VISA":             CardBrandVisa,
	"4":                CardBrandVisa,
	"MC":               CardBrandMastercard,
	"MASTERCARD":       CardBrandMastercard,
	"MASTER CARD":      CardBrandMastercard,
	"5":                CardBrandMastercard,
	"AX":               CardBrandAmex,
	"AMEX":             CardBrandAmex,
	"AMERICAN EXPRESS": CardBrandAmex,
	"AMERICANEXPRESS":  CardBrandAmex,
	"3":                CardBrandAmex,
	"34":               CardBrandAmex,
	"37":               CardBrandAmex,
	"DS":               CardBrandDiscover,
	"DISC":             CardBrandDiscover,
	"DISCOVER":         CardBrandDiscover,
	"6":                CardBrandDiscover,
	"DC":               CardBrandDiners,
	"DINERS":           CardBrandDiners,
	"DINERS CLUB":      CardBrandDiners,
	"36":               CardBrandDiners,
	"JC":               CardBrandJCB,
	"JCB":              CardBrandJCB,
	"35":               CardBrandJCB,
	"UP":               CardBrandUnionPay,
	"CUP":              CardBrandUnionPay,
	"UNIONPAY":         CardBrandUnionPay,
	"UNION PAY":        CardBrandUnionPay,
	"62":               CardBrandUnionPay,
	"DB":               CardBrandDebit,
	"DEBIT":            CardBrandDebit,
	"CA":               CardBrandCash,
	"CASH":             CardBrandCash,
}

var cardBrandSubstrings = []struct {
	fragment string
	brand    CardBrand
}{
	{"VISA", CardBrandVisa},
	{"MASTER", CardBrandMastercard},
	{"AMEX", CardBrandAmex},
	{"AMERICAN", CardBrandAmex},
	{"DISCOVER", CardBrandDiscover},
	{"DINER", CardBrandDiners},
	{"JCB", CardBrandJCB},
	{"UNION", CardBrandUnionPay},
	{"DEBIT", CardBrandDebit},
	{"CASH", CardBrandCash},
}

// NormalizeCardBrand maps a vendor card code or name to the canonical
// brand, via exact lookup then substring fallback.
func NormalizeCardBrand(value string) CardBrand {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return CardBrandUnknown
	}
	if brand, ok := cardBrandCodes[trimmed]; ok {
		return brand
	}
	for _, candidate := range cardBrandSubstrings {
		if strings.Contains(trimmed, candidate.fragment) {
			return candidate.brand
		}
	}
	return CardBrandUnknown
}
