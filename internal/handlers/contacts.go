package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type contactRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
	CompanyID   *int64  `json:"companyId,omitempty"`
}

type contactResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       *string   `json:"email,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	City        *string   `json:"city,omitempty"`
	Country     *string   `json:"country,omitempty"`
	CompanyID   *int64    `json:"companyId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toContactResponse(c store.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		City:        c.City,
		Country:     c.Country,
		CompanyID:   c.CompanyID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	companyID, err := optionalIDQuery(r, "companyId")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", err.Error(), nil)
		return
	}

	contacts, err := s.Q.ListContacts(r.Context(), store.ListContactsParams{
		Search:    r.URL.Query().Get("q"),
		CompanyID: companyID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list contacts", nil)
		return
	}

	items := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, toContactResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid contact id", nil)
		return
	}

	contact, err := s.Q.GetContactByID(r.Context(), id)
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "contact")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toContactResponse(contact))
}

func (s *Server) PostContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "firstName and lastName are required", nil)
		return
	}

	contact, err := s.Q.CreateContact(r.Context(), store.CreateContactParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		City:        req.City,
		Country:     req.Country,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create contact", nil)
		return
	}

	s.auditWrite(r, "contact.create", "contact", contact.ID)
	httpx.WriteJSON(w, http.StatusCreated, toContactResponse(contact))
}

func (s *Server) PutContact(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid contact id", nil)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "firstName and lastName are required", nil)
		return
	}

	contact, err := s.Q.UpdateContact(r.Context(), store.UpdateContactParams{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		City:        req.City,
		Country:     req.Country,
		CompanyID:   req.CompanyID,
	})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "contact")
		return
	}

	s.auditWrite(r, "contact.update", "contact", contact.ID)
	httpx.WriteJSON(w, http.StatusOK, toContactResponse(contact))
}

func (s *Server) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid contact id", nil)
		return
	}

	if err := s.Q.DeleteContact(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete contact", nil)
		return
	}

	s.auditWrite(r, "contact.delete", "contact", id)
	w.WriteHeader(http.StatusNoContent)
}
