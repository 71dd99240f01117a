package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/middleware"
	"github.com/tradelink-crm/api/internal/store"
)

type noteRequest struct {
	Body      string `json:"body"`
	ContactID *int64 `json:"contactId,omitempty"`
	CompanyID *int64 `json:"companyId,omitempty"`
}

type noteResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	ContactID *int64    `json:"contactId,omitempty"`
	CompanyID *int64    `json:"companyId,omitempty"`
	AuthorID  *int64    `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toNoteResponse(n store.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Body:      n.Body,
		ContactID: n.ContactID,
		CompanyID: n.CompanyID,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	contactID, err := optionalIDQuery(r, "contactId")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", err.Error(), nil)
		return
	}
	companyID, err := optionalIDQuery(r, "companyId")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", err.Error(), nil)
		return
	}

	notes, err := s.Q.ListNotes(r.Context(), store.ListNotesParams{
		ContactID: contactID,
		CompanyID: companyID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list notes", nil)
		return
	}

	items := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, toNoteResponse(n))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid note id", nil)
		return
	}

	note, err := s.Q.GetNoteByID(r.Context(), id)
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "note")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(note))
}

func (s *Server) PostNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Body == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "body is required", nil)
		return
	}

	var authorID *int64
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		id := actor.UserID
		authorID = &id
	}

	note, err := s.Q.CreateNote(r.Context(), store.CreateNoteParams{
		Body:      req.Body,
		ContactID: req.ContactID,
		CompanyID: req.CompanyID,
		AuthorID:  authorID,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create note", nil)
		return
	}

	s.auditWrite(r, "note.create", "note", note.ID)
	httpx.WriteJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) PutNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid note id", nil)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Body == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "body is required", nil)
		return
	}

	note, err := s.Q.UpdateNote(r.Context(), store.UpdateNoteParams{ID: id, Body: req.Body})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "note")
		return
	}

	s.auditWrite(r, "note.update", "note", note.ID)
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(note))
}

func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid note id", nil)
		return
	}

	if err := s.Q.DeleteNote(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete note", nil)
		return
	}

	s.auditWrite(r, "note.delete", "note", id)
	w.WriteHeader(http.StatusNoContent)
}
