package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type tagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type tagResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

func toTagResponse(t store.Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, Color: t.Color}
}

func writeTagList(w http.ResponseWriter, tags []store.Tag) {
	items := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		items = append(items, toTagResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.Q.ListTags(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list tags", nil)
		return
	}
	writeTagList(w, tags)
}

func (s *Server) PostTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	tag, err := s.Q.CreateTag(r.Context(), store.CreateTagParams{Name: req.Name, Color: req.Color})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create tag", nil)
		return
	}

	s.auditWrite(r, "tag.create", "tag", tag.ID)
	httpx.WriteJSON(w, http.StatusCreated, toTagResponse(tag))
}

func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid tag id", nil)
		return
	}

	if err := s.Q.DeleteTag(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete tag", nil)
		return
	}

	s.auditWrite(r, "tag.delete", "tag", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListCompanyTags(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid company id", nil)
		return
	}

	tags, err := s.Q.ListTagsForCompany(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list company tags", nil)
		return
	}
	writeTagList(w, tags)
}

func (s *Server) AttachCompanyTag(w http.ResponseWriter, r *http.Request) {
	s.changeTagAttachment(w, r, "company", true)
}

func (s *Server) DetachCompanyTag(w http.ResponseWriter, r *http.Request) {
	s.changeTagAttachment(w, r, "company", false)
}

func (s *Server) ListContactTags(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid contact id", nil)
		return
	}

	tags, err := s.Q.ListTagsForContact(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list contact tags", nil)
		return
	}
	writeTagList(w, tags)
}

func (s *Server) AttachContactTag(w http.ResponseWriter, r *http.Request) {
	s.changeTagAttachment(w, r, "contact", true)
}

func (s *Server) DetachContactTag(w http.ResponseWriter, r *http.Request) {
	s.changeTagAttachment(w, r, "contact", false)
}

func (s *Server) changeTagAttachment(w http.ResponseWriter, r *http.Request, entity string, attach bool) {
	entityID, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid "+entity+" id", nil)
		return
	}
	tagID, err := idParam(r, "tagID")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid tag id", nil)
		return
	}
	if _, err := s.Q.GetTagByID(r.Context(), tagID); err != nil {
		writeNotFoundOrInternal(w, r, err, "tag")
		return
	}

	params := store.TagAttachmentParams{TagID: tagID, EntityID: entityID}
	action := "tag.attach"
	if entity == "company" {
		if attach {
			err = s.Q.AttachTagToCompany(r.Context(), params)
		} else {
			err = s.Q.DetachTagFromCompany(r.Context(), params)
		}
	} else {
		if attach {
			err = s.Q.AttachTagToContact(r.Context(), params)
		} else {
			err = s.Q.DetachTagFromContact(r.Context(), params)
		}
	}
	if !attach {
		action = "tag.detach"
	}
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to change tag attachment", nil)
		return
	}

	s.auditWrite(r, action, entity, entityID)
	w.WriteHeader(http.StatusNoContent)
}
