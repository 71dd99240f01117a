// Package importer implements the CSV import pipeline: parsing an
// uploaded file into columns, mapping columns onto company/contact
// fields, building candidate entries, flagging duplicate emails, and
// executing the reviewed batch with in-batch company references
// resolved before any contact write.
package importer

type ImportType string

const (
	ImportCompanies ImportType = "companies"
	ImportContacts  ImportType = "contacts"
	ImportMixed     ImportType = "mixed"
)

type EntityType string

const (
	EntityCompany EntityType = "company"
	EntityContact EntityType = "contact"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Column is one CSV column with every observed value, in row order.
// Immutable after parse.
type Column struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// FieldMapping associates a source column index with a target entity
// field name. Field names are not validated here; bad mappings surface
// as per-row validation errors at execute time.
type FieldMapping struct {
	ColumnIndex int    `json:"csvColumnIndex"`
	TargetField string `json:"targetField"`
}

type FieldMappings struct {
	Company []FieldMapping `json:"companyMappings"`
	Contact []FieldMapping `json:"contactMappings"`
}

type CompanyData struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Website     string `json:"website,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type ContactData struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	// CompanyName drives company matching only. It is stripped before
	// the contact reaches the persister.
	CompanyName string `json:"companyName,omitempty"`
}

// CompanyRef names an already-persisted company.
type CompanyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CompanyEntry is one candidate company row. TempID is a batch-unique
// negative placeholder; it stands in for the database id until the
// create batch runs.
type CompanyEntry struct {
	Data       CompanyData `json:"data"`
	Action     Action      `json:"action"`
	ExistingID *int64      `json:"existingId,omitempty"`
	Selected   bool        `json:"selected"`
	TempID     int64       `json:"tempId"`
}

// ContactEntry is one candidate contact row. CompanyID may hold a
// negative TempID of a company created in the same batch; the executor
// resolves it to the real id before the write.
type ContactEntry struct {
	Data           ContactData `json:"data"`
	Action         Action      `json:"action"`
	ExistingID     *int64      `json:"existingId,omitempty"`
	Selected       bool        `json:"selected"`
	CompanyID      *int64      `json:"companyId,omitempty"`
	MatchedCompany *CompanyRef `json:"matchedCompany,omitempty"`
}

// DuplicateEmailError is one conflicting email group: the 1-based rows
// that carry it and, when the email is already persisted, the existing
// record. Recomputed from the currently selected entries whenever rows
// are pruned.
type DuplicateEmailError struct {
	Email          string      `json:"email"`
	Type           EntityType  `json:"type"`
	Rows           []int       `json:"rows"`
	ExistingEntity *CompanyRef `json:"existingEntity,omitempty"`
}

// RowError reports a single failed entry by its 1-based row number.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Stats struct {
	TotalRecords int `json:"totalRecords"`
	Companies    int `json:"companies"`
	Contacts     int `json:"contacts"`
	Errors       int `json:"errors"`
}

type ExecuteResult struct {
	Success bool       `json:"success"`
	Stats   Stats      `json:"stats"`
	Errors  []RowError `json:"errors,omitempty"`
}
