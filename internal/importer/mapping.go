package importer

import "strings"

// autoRule is one (predicate, effect) pair of the header heuristic
// table. Rules are evaluated top to bottom per column and the first
// match wins, even when its effect covers only one entity type.
type autoRule struct {
	match        func(header string) bool
	companyField string
	contactField string
}

var autoRules = []autoRule{
	{matchAll("first", "name"), "", "firstName"},
	{matchAll("last", "name"), "", "lastName"},
	{matchAll("company"), "name", "companyName"},
	{matchAll("email"), "email", "email"},
	{matchAll("phone"), "phoneNumber", "phoneNumber"},
	{matchAll("website"), "website", ""},
	{matchAll("city"), "city", "city"},
	{matchAll("country"), "country", "country"},
	{matchAll("create"), "createdAt", "createdAt"},
	{matchAll("name"), "name", ""},
}

func matchAll(needles ...string) func(string) bool {
	return func(header string) bool {
		for _, needle := range needles {
			if !strings.Contains(header, needle) {
				return false
			}
		}
		return true
	}
}

// AutoMap derives field mappings from column headers. Headers are
// trimmed and lowercased before matching. At most one mapping per
// target field survives per entity type; columns keep file order.
func AutoMap(columns []Column, importType ImportType) FieldMappings {
	var mappings FieldMappings
	companySeen := map[string]bool{}
	contactSeen := map[string]bool{}

	for idx, column := range columns {
		header := strings.ToLower(strings.TrimSpace(column.Name))
		for _, rule := range autoRules {
			if !rule.match(header) {
				continue
			}
			if rule.companyField != "" && importType != ImportContacts && !companySeen[rule.companyField] {
				companySeen[rule.companyField] = true
				mappings.Company = append(mappings.Company, FieldMapping{ColumnIndex: idx, TargetField: rule.companyField})
			}
			if rule.contactField != "" && importType != ImportCompanies && !contactSeen[rule.contactField] {
				contactSeen[rule.contactField] = true
				mappings.Contact = append(mappings.Contact, FieldMapping{ColumnIndex: idx, TargetField: rule.contactField})
			}
			break
		}
	}

	return mappings
}

// Normalize drops repeated target fields from caller-supplied mapping
// lists, keeping the first occurrence. Field names are stored as-is;
// unknown fields fail later, at write-time validation.
func Normalize(mappings FieldMappings) FieldMappings {
	return FieldMappings{
		Company: dedupeMappings(mappings.Company),
		Contact: dedupeMappings(mappings.Contact),
	}
}

func dedupeMappings(list []FieldMapping) []FieldMapping {
	seen := map[string]bool{}
	result := make([]FieldMapping, 0, len(list))
	for _, m := range list {
		if m.TargetField == "" || seen[m.TargetField] {
			continue
		}
		seen[m.TargetField] = true
		result = append(result, m)
	}
	return result
}
