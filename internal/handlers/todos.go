package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type todoRequest struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type todoResponse struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toTodoResponse(t store.Todo) todoResponse {
	return todoResponse{
		ID:        t.ID,
		TaskID:    t.TaskID,
		Text:      t.Text,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (s *Server) ListTaskTodos(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid task id", nil)
		return
	}

	todos, err := s.Q.ListTodosByTask(r.Context(), taskID)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list todos", nil)
		return
	}

	items := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		items = append(items, toTodoResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) PostTaskTodo(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid task id", nil)
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Text == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	if _, err := s.Q.GetTaskByID(r.Context(), taskID); err != nil {
		writeNotFoundOrInternal(w, r, err, "task")
		return
	}

	todo, err := s.Q.CreateTodo(r.Context(), store.CreateTodoParams{TaskID: taskID, Text: req.Text})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create todo", nil)
		return
	}

	s.auditWrite(r, "todo.create", "todo", todo.ID)
	httpx.WriteJSON(w, http.StatusCreated, toTodoResponse(todo))
}

func (s *Server) PutTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid todo id", nil)
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Text == "" {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	todo, err := s.Q.UpdateTodo(r.Context(), store.UpdateTodoParams{ID: id, Text: req.Text, Done: req.Done})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "todo")
		return
	}

	s.auditWrite(r, "todo.update", "todo", todo.ID)
	httpx.WriteJSON(w, http.StatusOK, toTodoResponse(todo))
}

func (s *Server) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid todo id", nil)
		return
	}

	if err := s.Q.DeleteTodo(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete todo", nil)
		return
	}

	s.auditWrite(r, "todo.delete", "todo", id)
	w.WriteHeader(http.StatusNoContent)
}
