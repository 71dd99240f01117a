package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type companyRequest struct {
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Website     *string `json:"website,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
}

type companyResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Website     *string   `json:"website,omitempty"`
	City        *string   `json:"city,omitempty"`
	Country     *string   `json:"country,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCompanyResponse(c store.Company) companyResponse {
	return companyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Website:     c.Website,
		City:        c.City,
		Country:     c.Country,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	companies, err := s.Q.ListCompanies(r.Context(), store.ListCompaniesParams{
		Search: r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list companies", nil)
		return
	}

	items := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		items = append(items, toCompanyResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid company id", nil)
		return
	}

	company, err := s.Q.GetCompanyByID(r.Context(), id)
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "company")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (s *Server) PostCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	company, err := s.Q.CreateCompany(r.Context(), store.CreateCompanyParams{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Website:     req.Website,
		City:        req.City,
		Country:     req.Country,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create company", nil)
		return
	}

	s.auditWrite(r, "company.create", "company", company.ID)
	httpx.WriteJSON(w, http.StatusCreated, toCompanyResponse(company))
}

func (s *Server) PutCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid company id", nil)
		return
	}

	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	company, err := s.Q.UpdateCompany(r.Context(), store.UpdateCompanyParams{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Website:     req.Website,
		City:        req.City,
		Country:     req.Country,
	})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "company")
		return
	}

	s.auditWrite(r, "company.update", "company", company.ID)
	httpx.WriteJSON(w, http.StatusOK, toCompanyResponse(company))
}

func (s *Server) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid company id", nil)
		return
	}

	if err := s.Q.DeleteCompany(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete company", nil)
		return
	}

	s.auditWrite(r, "company.delete", "company", id)
	w.WriteHeader(http.StatusNoContent)
}
