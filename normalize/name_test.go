package normalize

import "testing"

func TestGuestNameOf_StringShapes(t *testing.T) {
	cases := []struct {
		input string
		want  GuestName
	}{
		{"Smith, John", GuestName{FirstName: "John", LastName: "Smith", FullName: "John Smith"}},
		{"John Smith", GuestName{FirstName: "John", LastName: "Smith", FullName: "John Smith"}},
		{"John Q Smith", GuestName{FirstName: "John", LastName: "Smith", FullName: "John Q Smith"}},
		{"Cher", GuestName{FirstName: "Cher", FullName: "Cher"}},
		{"  ", GuestName{}},
	}
	for _, tc := range cases {
		if got := GuestNameOf(tc.input); got != tc.want {
			t.Fatalf("GuestNameOf(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestGuestNameOf_StructuredConventions(t *testing.T) {
	cases := []struct {
		name  string
		input map[string]any
	}{
		{"camel", map[string]any{"firstName": "Ana", "lastName": "Lopez"}},
		{"snake", map[string]any{"first_name": "Ana", "last_name": "Lopez"}},
		{"pascal", map[string]any{"FirstName": "Ana", "LastName": "Lopez"}},
		{"given family", map[string]any{"givenName": "Ana", "familyName": "Lopez"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GuestNameOf(tc.input)
			if got.FirstName != "Ana" || got.LastName != "Lopez" || got.FullName != "Ana Lopez" {
				t.Fatalf("unexpected name: %+v", got)
			}
		})
	}
}

func TestGuestNameOf_FallsBackToFullNameField(t *testing.T) {
	got := GuestNameOf(map[string]any{"guestName": "Lopez, Ana"})
	if got.FirstName != "Ana" || got.LastName != "Lopez" {
		t.Fatalf("unexpected name: %+v", got)
	}
}

func TestAddressOf(t *testing.T) {
	got := AddressOf(map[string]any{
		"address1":    "1 Beach Rd",
		"address2":    "Suite 4",
		"City":        "Miami",
		"state":       "FL",
		"postal_code": "33139",
		"countryCode": "US",
	})
	want := Address{Line1: "1 Beach Rd", Line2: "Suite 4", City: "Miami", State: "FL", PostalCode: "33139", Country: "US"}
	if got != want {
		t.Fatalf("AddressOf = %+v, want %+v", got, want)
	}

	if got := AddressOf("742 Evergreen Terrace"); got.Line1 != "742 Evergreen Terrace" {
		t.Fatalf("string address should map to line1: %+v", got)
	}
	if !AddressOf(nil).Empty() {
		t.Fatalf("nil address should be empty")
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"(305) 555-0188", "+13055550188"},
		{"305-555-0188", "+13055550188"},
		{"+44 20 7946 0958", "+442079460958"},
		{"13055550188", "+13055550188"},
		{"12345", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Phone(tc.input); got != tc.want {
			t.Fatalf("Phone(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
