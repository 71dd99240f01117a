package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type taskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	ContactID   *int64     `json:"contactId,omitempty"`
	CompanyID   *int64     `json:"companyId,omitempty"`
	AssigneeID  *int64     `json:"assigneeId,omitempty"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	ContactID   *int64     `json:"contactId,omitempty"`
	CompanyID   *int64     `json:"companyId,omitempty"`
	AssigneeID  *int64     `json:"assigneeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTaskResponse(t store.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		ContactID:   t.ContactID,
		CompanyID:   t.CompanyID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
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

	var completed *bool
	if raw := r.URL.Query().Get("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(w, r, http.StatusBadRequest, "invalid_query", "invalid completed", nil)
			return
		}
		completed = &v
	}

	tasks, err := s.Q.ListTasks(r.Context(), store.ListTasksParams{
		Completed: completed,
		ContactID: contactID,
		CompanyID: companyID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list tasks", nil)
		return
	}

	items := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, toTaskResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid task id", nil)
		return
	}

	task, err := s.Q.GetTaskByID(r.Context(), id)
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "task")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) PostTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Title == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}

	task, err := s.Q.CreateTask(r.Context(), store.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ContactID:   req.ContactID,
		CompanyID:   req.CompanyID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create task", nil)
		return
	}

	s.auditWrite(r, "task.create", "task", task.ID)
	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) PutTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid task id", nil)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Title == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}

	task, err := s.Q.UpdateTask(r.Context(), store.UpdateTaskParams{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		ContactID:   req.ContactID,
		CompanyID:   req.CompanyID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "task")
		return
	}

	s.auditWrite(r, "task.update", "task", task.ID)
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid task id", nil)
		return
	}

	if err := s.Q.DeleteTask(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete task", nil)
		return
	}

	s.auditWrite(r, "task.delete", "task", id)
	w.WriteHeader(http.StatusNoContent)
}
