package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tradelink-crm/api/internal/audit"
	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/importer"
	"github.com/tradelink-crm/api/internal/middleware"
)

type importProcessResponse struct {
	ImportType      importer.ImportType            `json:"importType"`
	Columns         []importer.Column              `json:"columns"`
	Mappings        importer.FieldMappings         `json:"mappings"`
	Companies       []*importer.CompanyEntry       `json:"companies"`
	Contacts        []*importer.ContactEntry       `json:"contacts"`
	DuplicateErrors []importer.DuplicateEmailError `json:"duplicateErrors"`
	Truncated       bool                           `json:"truncated"`
}

// rowUpdate converts one candidate row into an update of an existing
// record, the review step's answer to a duplicate against the store.
type rowUpdate struct {
	Row        int   `json:"row"`
	ExistingID int64 `json:"existingId"`
}

func parseImportType(raw string) (importer.ImportType, error) {
	switch importer.ImportType(raw) {
	case importer.ImportCompanies, importer.ImportContacts, importer.ImportMixed:
		return importer.ImportType(raw), nil
	}
	return "", errors.New("importType must be companies, contacts or mixed")
}

func (s *Server) readImportFile(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.Config.ImportMaxFileBytes+1))
	if err != nil {
		return nil, errors.New("failed to read file")
	}
	if int64(len(data)) > s.Config.ImportMaxFileBytes {
		return nil, errors.New("file exceeds the size limit")
	}
	return data, nil
}

func (s *Server) buildImportSession(r *http.Request, maxPreviewRows int) (*importer.Session, error) {
	importType, err := parseImportType(r.FormValue("importType"))
	if err != nil {
		return nil, err
	}

	data, err := s.readImportFile(r)
	if err != nil {
		return nil, err
	}

	var mappings importer.FieldMappings
	if raw := r.FormValue("fieldMappings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mappings); err != nil {
			return nil, errors.New("fieldMappings must be valid JSON")
		}
	}

	hasHeader := true
	if raw := r.FormValue("hasHeader"); raw != "" {
		hasHeader, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("hasHeader must be true or false")
		}
	}

	sess := importer.NewSession(importType, &storeLookup{q: s.Q})
	if err := sess.LoadFile(data, hasHeader, maxPreviewRows); err != nil {
		return nil, err
	}
	if len(sess.Rows) > s.Config.ImportMaxRows {
		return nil, errors.New("file exceeds the row limit")
	}

	sess.ApplyMappings(mappings)
	sess.BuildEntries()
	return sess, nil
}

// PostImportsProcess parses an uploaded CSV and returns the candidate
// entries for review: columns, effective mappings, company and contact
// entries with company matches resolved, and duplicate email groups.
// Nothing is persisted.
func (s *Server) PostImportsProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.Config.ImportMaxFileBytes); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed multipart body", nil)
		return
	}

	sess, err := s.buildImportSession(r, s.Config.ImportPreviewRows)
	if err != nil {
		var parseErr *importer.ParseError
		if errors.As(err, &parseErr) {
			httpx.WriteError(w, r, http.StatusBadRequest, "invalid_csv", "CSV file has formatting problems", parseErr.Issues)
			return
		}
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := sess.LinkContacts(r.Context()); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to match companies", nil)
		return
	}
	duplicates, err := sess.DetectDuplicates(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to check duplicates", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, importProcessResponse{
		ImportType:      sess.Type,
		Columns:         sess.Columns,
		Mappings:        sess.Mappings,
		Companies:       sess.Companies,
		Contacts:        sess.Contacts,
		DuplicateErrors: duplicates,
		Truncated:       sess.Truncated,
	})
}

// PostImportsExecute rebuilds the batch from the submitted file and
// review decisions, then persists it. Companies are written before
// contacts; per-row failures are reported alongside the rows that
// succeeded.
func (s *Server) PostImportsExecute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.Config.ImportMaxFileBytes); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed multipart body", nil)
		return
	}

	sess, err := s.buildImportSession(r, 0)
	if err != nil {
		var parseErr *importer.ParseError
		if errors.As(err, &parseErr) {
			httpx.WriteError(w, r, http.StatusBadRequest, "invalid_csv", "CSV file has formatting problems", parseErr.Issues)
			return
		}
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	skipCompany, err := intListFormValue(r, "skipCompanyRows")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", "skipCompanyRows must be a JSON array of row numbers", nil)
		return
	}
	skipContact, err := intListFormValue(r, "skipContactRows")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", "skipContactRows must be a JSON array of row numbers", nil)
		return
	}
	for _, row := range skipCompany {
		if row >= 1 && row <= len(sess.Companies) {
			sess.Companies[row-1].Selected = false
		}
	}
	for _, row := range skipContact {
		if row >= 1 && row <= len(sess.Contacts) {
			sess.Contacts[row-1].Selected = false
		}
	}

	companyUpdates, err := rowUpdateFormValue(r, "updateCompanyRows")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", "updateCompanyRows must be a JSON array of {row, existingId}", nil)
		return
	}
	contactUpdates, err := rowUpdateFormValue(r, "updateContactRows")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", "updateContactRows must be a JSON array of {row, existingId}", nil)
		return
	}
	for _, u := range companyUpdates {
		if err := sess.MarkCompanyUpdate(u.Row, u.ExistingID); err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error(), nil)
			return
		}
	}
	for _, u := range contactUpdates {
		if err := sess.MarkContactUpdate(u.Row, u.ExistingID); err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "invalid_request", err.Error(), nil)
			return
		}
	}

	if err := sess.LinkContacts(r.Context()); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to match companies", nil)
		return
	}

	result := sess.Execute(r.Context(), &storePersister{q: s.Q})

	entry := audit.Entry{
		Action:     "import.execute",
		EntityType: "import",
		RequestID:  middleware.RequestIDFromContext(r.Context()),
		Metadata: map[string]any{
			"importType":   sess.Type,
			"totalRecords": result.Stats.TotalRecords,
			"companies":    result.Stats.Companies,
			"contacts":     result.Stats.Contacts,
			"errors":       result.Stats.Errors,
		},
	}
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		userID := actor.UserID
		entry.UserID = &userID
	}
	_ = s.Audit.Log(r.Context(), entry)

	httpx.WriteJSON(w, http.StatusOK, result)
}

func intListFormValue(r *http.Request, field string) ([]int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	var values []int
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func rowUpdateFormValue(r *http.Request, field string) ([]rowUpdate, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	var values []rowUpdate
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

var importTemplates = map[string][]string{
	"companies": {"Name", "Email", "Phone Number", "Website", "City", "Country"},
	"contacts":  {"First Name", "Last Name", "Email", "Phone Number", "City", "Country", "Company"},
	"mixed":     {"First Name", "Last Name", "Email", "Phone Number", "Company", "Website", "City", "Country"},
}

func (s *Server) GetImportTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "template")
	header, ok := importTemplates[name]
	if !ok {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", "Unknown import template", nil)
		return
	}
	writeCSV(w, name+"-import-template.csv", header, nil)
}
