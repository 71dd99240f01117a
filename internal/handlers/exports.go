package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
)

func writeCSV(w http.ResponseWriter, filename string, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(header)
	for _, row := range rows {
		_ = cw.Write(row)
	}
	cw.Flush()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefID(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func (s *Server) GetCompaniesExport(w http.ResponseWriter, r *http.Request) {
	companies, err := s.Q.ExportCompaniesRows(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to export companies", nil)
		return
	}

	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			deref(c.Email),
			deref(c.PhoneNumber),
			deref(c.Website),
			deref(c.City),
			deref(c.Country),
			c.CreatedAt.Format(time.RFC3339),
		})
	}

	s.auditAction(r, "export.download", "company")
	writeCSV(w, "companies.csv", []string{"ID", "Name", "Email", "Phone Number", "Website", "City", "Country", "Created At"}, rows)
}

func (s *Server) GetContactsExport(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.Q.ExportContactsRows(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to export contacts", nil)
		return
	}

	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.FirstName,
			c.LastName,
			deref(c.Email),
			deref(c.PhoneNumber),
			deref(c.City),
			deref(c.Country),
			derefID(c.CompanyID),
			c.CreatedAt.Format(time.RFC3339),
		})
	}

	s.auditAction(r, "export.download", "contact")
	writeCSV(w, "contacts.csv", []string{"ID", "First Name", "Last Name", "Email", "Phone Number", "City", "Country", "Company ID", "Created At"}, rows)
}
