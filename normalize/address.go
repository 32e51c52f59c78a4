package normalize

import "strings"

// Address is the canonical postal address shape.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

var addressLine1Keys = []string{"line1", "Line1", "address1", "Address1", "addressLine1", "address_line_1", "street", "Street", "streetAddress", "street_address"}
var addressLine2Keys = []string{"line2", "Line2", "address2", "Address2", "addressLine2", "address_line_2", "unit", "suite"}
var addressCityKeys = []string{"city", "City", "town", "Town", "locality"}
var addressStateKeys = []string{"state", "State", "province", "Province", "region", "stateProvince", "state_province"}
var addressPostalKeys = []string{"postalCode", "postal_code", "PostalCode", "zip", "Zip", "zipCode", "zip_code", "postcode"}
var addressCountryKeys = []string{"country", "Country", "countryCode", "country_code", "CountryCode", "nationality"}

// AddressOf accepts either a free-form string (mapped to Line1) or a
// structured vendor object read through several naming conventions.
func AddressOf(value any) Address {
	switch typed := value.(type) {
	case string:
		return Address{Line1: strings.TrimSpace(typed)}
	case map[string]any:
		return Address{
			Line1:      FirstString(typed, addressLine1Keys...),
			Line2:      FirstString(typed, addressLine2Keys...),
			City:       FirstString(typed, addressCityKeys...),
			State:      FirstString(typed, addressStateKeys...),
			PostalCode: FirstString(typed, addressPostalKeys...),
			Country:    FirstString(typed, addressCountryKeys...),
		}
	default:
		return Address{}
	}
}

// Empty reports whether no component of the address is populated.
func (a Address) Empty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.City == "" &&
		a.State == "" && a.PostalCode == "" && a.Country == ""
}
