package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type eventRequest struct {
	Title     string     `json:"title"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	Location  *string    `json:"location,omitempty"`
	ContactID *int64     `json:"contactId,omitempty"`
}

type eventResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	Location  *string    `json:"location,omitempty"`
	ContactID *int64     `json:"contactId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toEventResponse(e store.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Title:     e.Title,
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		Location:  e.Location,
		ContactID: e.ContactID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func timeQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	from, err := timeQuery(r, "from")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", "from must be RFC 3339", nil)
		return
	}
	to, err := timeQuery(r, "to")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", "to must be RFC 3339", nil)
		return
	}
	contactID, err := optionalIDQuery(r, "contactId")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", err.Error(), nil)
		return
	}

	events, err := s.Q.ListEvents(r.Context(), store.ListEventsParams{
		From:      from,
		To:        to,
		ContactID: contactID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list events", nil)
		return
	}

	items := make([]eventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, toEventResponse(e))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid event id", nil)
		return
	}

	event, err := s.Q.GetEventByID(r.Context(), id)
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "event")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEventResponse(event))
}

func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Title == "" || req.StartsAt.IsZero() {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "title and startsAt are required", nil)
		return
	}

	event, err := s.Q.CreateEvent(r.Context(), store.CreateEventParams{
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Location:  req.Location,
		ContactID: req.ContactID,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create event", nil)
		return
	}

	s.auditWrite(r, "event.create", "event", event.ID)
	httpx.WriteJSON(w, http.StatusCreated, toEventResponse(event))
}

func (s *Server) PutEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid event id", nil)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Title == "" || req.StartsAt.IsZero() {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "title and startsAt are required", nil)
		return
	}

	event, err := s.Q.UpdateEvent(r.Context(), store.UpdateEventParams{
		ID:        id,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Location:  req.Location,
		ContactID: req.ContactID,
	})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "event")
		return
	}

	s.auditWrite(r, "event.update", "event", event.ID)
	httpx.WriteJSON(w, http.StatusOK, toEventResponse(event))
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid event id", nil)
		return
	}

	if err := s.Q.DeleteEvent(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete event", nil)
		return
	}

	s.auditWrite(r, "event.delete", "event", id)
	w.WriteHeader(http.StatusNoContent)
}
