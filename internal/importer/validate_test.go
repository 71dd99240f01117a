package importer

import "testing"

func TestValidateCompanyRequiresName(t *testing.T) {
	errs := ValidateCompany(3, CompanyData{Email: "info@acme.test"})
	if len(errs) != 1 || errs[0].Field != "name" || errs[0].Row != 3 {
		t.Fatalf("expected missing name error for row 3, got %v", errs)
	}
}

func TestValidateContactRequiresBothNames(t *testing.T) {
	errs := ValidateContact(1, ContactData{FirstName: "Jane"})
	if len(errs) != 1 || errs[0].Field != "lastName" {
		t.Fatalf("expected missing lastName error, got %v", errs)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"jane@acme.test", true},
		{"jane+tag@acme.co.uk", true},
		{"not-an-email", false},
		{"two words@acme.test", false},
		{"jane@nodot", false},
	}
	for _, tc := range cases {
		errs := ValidateContact(1, ContactData{FirstName: "Jane", LastName: "Doe", Email: tc.email})
		if tc.ok && len(errs) != 0 {
			t.Fatalf("expected %q accepted, got %v", tc.email, errs)
		}
		if !tc.ok && len(errs) == 0 {
			t.Fatalf("expected %q rejected", tc.email)
		}
	}
}
