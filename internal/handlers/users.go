package handlers

import (
	"encoding/json"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/tradelink-crm/api/internal/auth"
	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/store"
)

type createUserRequest struct {
	Email    openapi_types.Email `json:"email"`
	FullName string              `json:"fullName"`
	Password string              `json:"password"`
	Role     string              `json:"role"`
}

type updateUserRequest struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func validRole(role string) bool {
	return role == "admin" || role == "member"
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Q.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list users", nil)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse{ID: u.ID, Email: openapi_types.Email(u.Email), FullName: u.FullName, Role: u.Role})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) PostUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.Email == "" || req.FullName == "" || len(req.Password) < 8 {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "email, fullName and a password of at least 8 characters are required", nil)
		return
	}
	if !validRole(req.Role) {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "role must be admin or member", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to hash password", nil)
		return
	}

	user, err := s.Q.CreateUser(r.Context(), store.CreateUserParams{
		Email:        string(req.Email),
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create user", nil)
		return
	}

	s.auditWrite(r, "user.create", "user", user.ID)
	httpx.WriteJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: openapi_types.Email(user.Email), FullName: user.FullName, Role: user.Role})
}

func (s *Server) PutUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid user id", nil)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}
	if req.FullName == "" || !validRole(req.Role) {
		httpx.WriteError(w, r, http.StatusBadRequest, "validation_error", "fullName and a valid role are required", nil)
		return
	}

	user, err := s.Q.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:       id,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeNotFoundOrInternal(w, r, err, "user")
		return
	}

	s.auditWrite(r, "user.update", "user", user.ID)
	httpx.WriteJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: openapi_types.Email(user.Email), FullName: user.FullName, Role: user.Role})
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_id", "Invalid user id", nil)
		return
	}

	// Deactivation rather than a hard delete keeps audit history
	// attributable.
	if err := s.Q.DeactivateUser(r.Context(), id); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to deactivate user", nil)
		return
	}

	s.auditWrite(r, "user.deactivate", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
