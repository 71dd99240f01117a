package importer

import "strings"

// BuildCompanyEntries turns header-excluded data rows into candidate
// companies, one entry per row in row order. Every entry starts as a
// selected create and carries a batch-unique negative placeholder id
// (-1 for row 1, -2 for row 2, ...).
func BuildCompanyEntries(rows [][]string, mappings []FieldMapping) []*CompanyEntry {
	mappings = dedupeMappings(mappings)
	entries := make([]*CompanyEntry, 0, len(rows))
	for i, row := range rows {
		entry := &CompanyEntry{
			Action:   ActionCreate,
			Selected: true,
			TempID:   -int64(i + 1),
		}
		for _, m := range mappings {
			value := cellValue(row, m.ColumnIndex)
			if value == "" {
				continue
			}
			setCompanyField(&entry.Data, m.TargetField, value)
		}
		entries = append(entries, entry)
	}
	return entries
}

// BuildContactEntries mirrors BuildCompanyEntries for contacts. A
// mapped companyName cell is captured on the entry data to drive
// company matching; it never reaches the persister.
func BuildContactEntries(rows [][]string, mappings []FieldMapping) []*ContactEntry {
	mappings = dedupeMappings(mappings)
	entries := make([]*ContactEntry, 0, len(rows))
	for _, row := range rows {
		entry := &ContactEntry{
			Action:   ActionCreate,
			Selected: true,
		}
		for _, m := range mappings {
			value := cellValue(row, m.ColumnIndex)
			if value == "" {
				continue
			}
			setContactField(&entry.Data, m.TargetField, value)
		}
		entries = append(entries, entry)
	}
	return entries
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func setCompanyField(data *CompanyData, field, value string) {
	switch field {
	case "name":
		data.Name = value
	case "email":
		data.Email = value
	case "phoneNumber":
		data.PhoneNumber = value
	case "website":
		data.Website = value
	case "city":
		data.City = value
	case "country":
		data.Country = value
	case "createdAt":
		data.CreatedAt = value
	}
}

func setContactField(data *ContactData, field, value string) {
	switch field {
	case "firstName":
		data.FirstName = value
	case "lastName":
		data.LastName = value
	case "email":
		data.Email = value
	case "phoneNumber":
		data.PhoneNumber = value
	case "city":
		data.City = value
	case "country":
		data.Country = value
	case "createdAt":
		data.CreatedAt = value
	case "companyName":
		data.CompanyName = value
	}
}
