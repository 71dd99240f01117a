package importer

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCompany enforces write-time field rules for one company row.
func ValidateCompany(row int, data CompanyData) []RowError {
	var errs []RowError
	if data.Name == "" {
		errs = append(errs, RowError{Row: row, Field: "name", Message: "name is required"})
	}
	if data.Email != "" && !emailPattern.MatchString(data.Email) {
		errs = append(errs, RowError{Row: row, Field: "email", Message: "invalid email format"})
	}
	return errs
}

// ValidateContact enforces write-time field rules for one contact row.
func ValidateContact(row int, data ContactData) []RowError {
	var errs []RowError
	if data.FirstName == "" {
		errs = append(errs, RowError{Row: row, Field: "firstName", Message: "firstName is required"})
	}
	if data.LastName == "" {
		errs = append(errs, RowError{Row: row, Field: "lastName", Message: "lastName is required"})
	}
	if data.Email != "" && !emailPattern.MatchString(data.Email) {
		errs = append(errs, RowError{Row: row, Field: "email", Message: "invalid email format"})
	}
	return errs
}
