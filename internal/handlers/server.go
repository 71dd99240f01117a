// Package handlers holds the HTTP endpoints. Each handler decodes its
// request, calls the store, and writes a JSON envelope; SQL never
// appears here.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/tradelink-crm/api/internal/audit"
	"github.com/tradelink-crm/api/internal/auth"
	"github.com/tradelink-crm/api/internal/config"
	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/middleware"
	"github.com/tradelink-crm/api/internal/store"
)

type Server struct {
	Config config.Config
	Q      *store.Queries
	Audit  *audit.Logger
	Logger *slog.Logger
	DB     *pgxpool.Pool
}

func NewServer(cfg config.Config, q *store.Queries, auditLogger *audit.Logger, logger *slog.Logger, db *pgxpool.Pool) *Server {
	return &Server{Config: cfg, Q: q, Audit: auditLogger, Logger: logger, DB: db}
}

// GetHealth reports liveness plus database reachability, so load
// balancers stop routing to an instance that lost its pool.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.DB.Ping(ctx); err != nil {
		s.Logger.Error("health check database ping failed", "error", err)
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type userResponse struct {
	ID       int64               `json:"id"`
	Email    openapi_types.Email `json:"email"`
	FullName string              `json:"fullName"`
	Role     string              `json:"role"`
}

func (s *Server) PostAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_body", "Malformed JSON body", nil)
		return
	}

	user, err := s.Q.GetUserByEmail(r.Context(), string(req.Email))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load user", nil)
		return
	}

	authenticated := false
	if err == nil && user.IsActive {
		ok, verifyErr := auth.VerifyPassword(req.Password, user.PasswordHash)
		if verifyErr != nil {
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Password verification failed", nil)
			return
		}
		authenticated = ok
	}
	if !authenticated {
		httpx.WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	}

	if old, err := r.Cookie(s.Config.SessionCookieName); err == nil && old.Value != "" {
		_ = s.Q.RevokeSessionByTokenHash(r.Context(), auth.HashToken(old.Value))
	}

	sessionToken, err := auth.GenerateToken()
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create session", nil)
		return
	}
	csrfToken, err := auth.GenerateToken()
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create CSRF token", nil)
		return
	}

	if _, err := s.Q.CreateSession(r.Context(), store.CreateSessionParams{
		UserID:    user.ID,
		TokenHash: auth.HashToken(sessionToken),
		CsrfToken: csrfToken,
		ExpiresAt: time.Now().Add(s.Config.SessionTTL),
	}); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to save session", nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Config.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Config.SecureCookies,
		Expires:  time.Now().Add(s.Config.SessionTTL),
	})

	userID := user.ID
	_ = s.Audit.Log(r.Context(), audit.Entry{
		UserID:     &userID,
		Action:     "auth.login",
		EntityType: "session",
		RequestID:  middleware.RequestIDFromContext(r.Context()),
	})

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: user.ID, Email: openapi_types.Email(user.Email), FullName: user.FullName, Role: user.Role},
	})
}

func (s *Server) PostAuthLogout(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	if err := s.Q.RevokeSessionByID(r.Context(), actor.SessionID); err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to revoke session", nil)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Config.SecureCookies,
		MaxAge:   -1,
	})

	userID := actor.UserID
	_ = s.Audit.Log(r.Context(), audit.Entry{
		UserID:     &userID,
		Action:     "auth.logout",
		EntityType: "session",
		RequestID:  middleware.RequestIDFromContext(r.Context()),
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) GetAuthMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: actor.UserID, Email: openapi_types.Email(actor.Email), FullName: actor.FullName, Role: actor.Role},
	})
}

func (s *Server) GetAuthCsrf(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"csrfToken": actor.CSRFToken})
}

// idParam reads a positive integer path parameter.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// pageParams reads limit/offset with sane bounds.
func pageParams(r *http.Request) (int32, int32) {
	limit := int32(50)
	offset := int32(0)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 500 {
			limit = int32(v)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = int32(v)
		}
	}
	return limit, offset
}

func optionalIDQuery(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New("invalid " + name)
	}
	return &id, nil
}

func (s *Server) auditWrite(r *http.Request, action, entityType string, entityID int64) {
	entry := audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
		RequestID:  middleware.RequestIDFromContext(r.Context()),
	}
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		userID := actor.UserID
		entry.UserID = &userID
	}
	_ = s.Audit.Log(r.Context(), entry)
}

func (s *Server) auditAction(r *http.Request, action, entityType string) {
	entry := audit.Entry{
		Action:     action,
		EntityType: entityType,
		RequestID:  middleware.RequestIDFromContext(r.Context()),
	}
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		userID := actor.UserID
		entry.UserID = &userID
	}
	_ = s.Audit.Log(r.Context(), entry)
}

func writeNotFoundOrInternal(w http.ResponseWriter, r *http.Request, err error, resource string) {
	if errors.Is(err, pgx.ErrNoRows) {
		httpx.WriteError(w, r, http.StatusNotFound, "not_found", resource+" not found", nil)
		return
	}
	httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load "+resource, nil)
}
