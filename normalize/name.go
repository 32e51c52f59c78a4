package normalize

import "strings"

// GuestName is the canonical split of a guest's name. FullName is always
// populated when any component is present.
type GuestName struct {
	FirstName string
	LastName  string
	FullName  string
}

var firstNameKeys = []string{"firstName", "first_name", "FirstName", "givenName", "given_name", "GivenName", "Vorname", "fname", "first"}
var lastNameKeys = []string{"lastName", "last_name", "LastName", "surname", "Surname", "familyName", "family_name", "FamilyName", "Nachname", "lname", "last"}
var fullNameKeys = []string{"fullName", "full_name", "FullName", "name", "Name", "guestName", "guest_name", "GuestName"}

// GuestNameOf accepts either a structured vendor object (several
// field-name conventions are tried) or a free string. String input
// recognizes "Last, First" and "First [Middle] Last" shapes; a single
// token becomes the first name.
func GuestNameOf(value any) GuestName {
	switch typed := value.(type) {
	case string:
		return parseNameString(typed)
	case map[string]any:
		name := GuestName{
			FirstName: FirstString(typed, firstNameKeys...),
			LastName:  FirstString(typed, lastNameKeys...),
		}
		if name.FirstName == "" && name.LastName == "" {
			if full := FirstString(typed, fullNameKeys...); full != "" {
				return parseNameString(full)
			}
			return GuestName{}
		}
		name.FullName = strings.TrimSpace(name.FirstName + " " + name.LastName)
		return name
	default:
		return GuestName{}
	}
}

func parseNameString(raw string) GuestName {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return GuestName{}
	}

	if comma := strings.Index(trimmed, ","); comma >= 0 {
		last := strings.TrimSpace(trimmed[:comma])
		first := strings.TrimSpace(trimmed[comma+1:])
		return GuestName{
			FirstName: first,
			LastName:  last,
			FullName:  strings.TrimSpace(first + " " + last),
		}
	}

	tokens := strings.Fields(trimmed)
	switch len(tokens) {
	case 1:
		return GuestName{FirstName: tokens[0], FullName: tokens[0]}
	default:
		return GuestName{
			FirstName: tokens[0],
			LastName:  tokens[len(tokens)-1],
			FullName:  strings.Join(tokens, " "),
		}
	}
}
