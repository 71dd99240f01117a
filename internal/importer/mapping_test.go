package importer

import "testing"

func mappingFor(list []FieldMapping, target string) (FieldMapping, bool) {
	for _, m := range list {
		if m.TargetField == target {
			return m, true
		}
	}
	return FieldMapping{}, false
}

func TestAutoMapMixedImport(t *testing.T) {
	columns := []Column{
		{Name: "First Name"},
		{Name: "Last Name"},
		{Name: "Email"},
		{Name: "Company"},
	}
	mappings := AutoMap(columns, ImportMixed)

	wantContact := map[string]int{"firstName": 0, "lastName": 1, "email": 2, "companyName": 3}
	for target, idx := range wantContact {
		m, ok := mappingFor(mappings.Contact, target)
		if !ok {
			t.Fatalf("expected contact mapping for %s", target)
		}
		if m.ColumnIndex != idx {
			t.Fatalf("expected %s mapped from column %d, got %d", target, idx, m.ColumnIndex)
		}
	}

	if m, ok := mappingFor(mappings.Company, "name"); !ok || m.ColumnIndex != 3 {
		t.Fatalf("expected company name mapped from Company column, got %+v ok=%v", m, ok)
	}
	if m, ok := mappingFor(mappings.Company, "email"); !ok || m.ColumnIndex != 2 {
		t.Fatalf("expected company email mapped from Email column, got %+v ok=%v", m, ok)
	}
	if _, ok := mappingFor(mappings.Company, "firstName"); ok {
		t.Fatal("firstName must never appear in company mappings")
	}
}

func TestAutoMapCompanyRuleBeatsEmailRule(t *testing.T) {
	columns := []Column{{Name: "Company Email"}}
	mappings := AutoMap(columns, ImportMixed)

	if m, ok := mappingFor(mappings.Company, "name"); !ok || m.ColumnIndex != 0 {
		t.Fatalf("expected company name from Company Email column, got %+v ok=%v", m, ok)
	}
	if _, ok := mappingFor(mappings.Company, "email"); ok {
		t.Fatal("first matching rule must win; email rule should not fire")
	}
}

func TestAutoMapRespectsImportType(t *testing.T) {
	columns := []Column{{Name: "Name"}, {Name: "Email"}}

	companies := AutoMap(columns, ImportCompanies)
	if len(companies.Contact) != 0 {
		t.Fatalf("companies import must not produce contact mappings, got %d", len(companies.Contact))
	}

	contacts := AutoMap(columns, ImportContacts)
	if len(contacts.Company) != 0 {
		t.Fatalf("contacts import must not produce company mappings, got %d", len(contacts.Company))
	}
	if _, ok := mappingFor(contacts.Contact, "email"); !ok {
		t.Fatal("expected contact email mapping")
	}
}

func TestAutoMapFirstColumnWinsPerTargetField(t *testing.T) {
	columns := []Column{{Name: "Email"}, {Name: "Work Email"}}
	mappings := AutoMap(columns, ImportCompanies)
	if len(mappings.Company) != 1 {
		t.Fatalf("expected one email mapping, got %d", len(mappings.Company))
	}
	if mappings.Company[0].ColumnIndex != 0 {
		t.Fatalf("expected first email column to win, got index %d", mappings.Company[0].ColumnIndex)
	}
}

func TestNormalizeDropsRepeatedTargets(t *testing.T) {
	mappings := Normalize(FieldMappings{
		Company: []FieldMapping{
			{ColumnIndex: 0, TargetField: "name"},
			{ColumnIndex: 2, TargetField: "name"},
			{ColumnIndex: 1, TargetField: "email"},
		},
	})
	if len(mappings.Company) != 2 {
		t.Fatalf("expected 2 mappings after dedupe, got %d", len(mappings.Company))
	}
	if mappings.Company[0].ColumnIndex != 0 {
		t.Fatalf("expected first occurrence kept, got index %d", mappings.Company[0].ColumnIndex)
	}
}
