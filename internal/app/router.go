// Package app assembles the HTTP stack: middleware chain, request
// validation against the OpenAPI document, and the route table.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	openapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/tradelink-crm/api/internal/audit"
	"github.com/tradelink-crm/api/internal/config"
	"github.com/tradelink-crm/api/internal/handlers"
	"github.com/tradelink-crm/api/internal/httpx"
	"github.com/tradelink-crm/api/internal/middleware"
	"github.com/tradelink-crm/api/internal/store"
)

func NewRouter(cfg config.Config, q *store.Queries, pool *pgxpool.Pool, logger *slog.Logger) (http.Handler, error) {
	specPath := "openapi.yaml"
	if _, err := os.Stat(specPath); err != nil {
		// Tests run from the package directory.
		specPath = filepath.Join("..", "..", "openapi.yaml")
		if _, statErr := os.Stat(specPath); statErr != nil {
			return nil, fmt.Errorf("openapi spec not found: %w", err)
		}
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.LimitBodyBytesWithOverrides(cfg.APIMaxBodyBytes, []middleware.BodyLimitOverride{
		{PathPrefix: "/imports", MaxBytes: cfg.ImportMaxFileBytes},
	}))

	api := chi.NewRouter()
	api.Use(openapimiddleware.OapiRequestValidatorWithOptions(doc, &openapimiddleware.Options{
		SilenceServersWarning: true,
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			requestID := w.Header().Get("X-Request-Id")
			httpx.WriteJSON(w, statusCode, httpx.ErrorEnvelope{
				Error:     httpx.ErrorBody{Code: "validation_error", Message: message},
				RequestID: requestID,
			})
		},
	}))

	auditLogger := audit.NewLogger(q)
	h := handlers.NewServer(cfg, q, auditLogger, logger, pool)

	authMW := middleware.AuthMiddleware{Queries: q, CookieName: cfg.SessionCookieName}
	loginLimiter := middleware.NewLoginRateLimiter(10, time.Minute)
	csrf := middleware.EnforceCSRF(cfg.CSRFEnforce)
	admin := middleware.RequireRole("admin")

	api.Group(func(public chi.Router) {
		public.With(loginLimiter.Middleware).Post("/auth/login", h.PostAuthLogin)
		public.Get("/health", h.GetHealth)
	})

	api.Group(func(protected chi.Router) {
		protected.Use(authMW.RequireAuth)

		protected.Get("/auth/me", h.GetAuthMe)
		protected.Get("/auth/csrf", h.GetAuthCsrf)
		protected.With(csrf).Post("/auth/logout", h.PostAuthLogout)

		protected.Get("/companies", h.ListCompanies)
		protected.Get("/companies/{id}", h.GetCompany)
		protected.With(csrf).Post("/companies", h.PostCompany)
		protected.With(csrf).Put("/companies/{id}", h.PutCompany)
		protected.With(csrf).Delete("/companies/{id}", h.DeleteCompany)
		protected.Get("/companies/{id}/tags", h.ListCompanyTags)
		protected.With(csrf).Post("/companies/{id}/tags/{tagID}", h.AttachCompanyTag)
		protected.With(csrf).Delete("/companies/{id}/tags/{tagID}", h.DetachCompanyTag)

		protected.Get("/contacts", h.ListContacts)
		protected.Get("/contacts/{id}", h.GetContact)
		protected.With(csrf).Post("/contacts", h.PostContact)
		protected.With(csrf).Put("/contacts/{id}", h.PutContact)
		protected.With(csrf).Delete("/contacts/{id}", h.DeleteContact)
		protected.Get("/contacts/{id}/tags", h.ListContactTags)
		protected.With(csrf).Post("/contacts/{id}/tags/{tagID}", h.AttachContactTag)
		protected.With(csrf).Delete("/contacts/{id}/tags/{tagID}", h.DetachContactTag)

		protected.Get("/tasks", h.ListTasks)
		protected.Get("/tasks/{id}", h.GetTask)
		protected.With(csrf).Post("/tasks", h.PostTask)
		protected.With(csrf).Put("/tasks/{id}", h.PutTask)
		protected.With(csrf).Delete("/tasks/{id}", h.DeleteTask)
		protected.Get("/tasks/{id}/todos", h.ListTaskTodos)
		protected.With(csrf).Post("/tasks/{id}/todos", h.PostTaskTodo)
		protected.With(csrf).Put("/todos/{id}", h.PutTodo)
		protected.With(csrf).Delete("/todos/{id}", h.DeleteTodo)

		protected.Get("/notes", h.ListNotes)
		protected.Get("/notes/{id}", h.GetNote)
		protected.With(csrf).Post("/notes", h.PostNote)
		protected.With(csrf).Put("/notes/{id}", h.PutNote)
		protected.With(csrf).Delete("/notes/{id}", h.DeleteNote)

		protected.Get("/tags", h.ListTags)
		protected.With(csrf).Post("/tags", h.PostTag)
		protected.With(csrf).Delete("/tags/{id}", h.DeleteTag)

		protected.Get("/events", h.ListEvents)
		protected.Get("/events/{id}", h.GetEvent)
		protected.With(csrf).Post("/events", h.PostEvent)
		protected.With(csrf).Put("/events/{id}", h.PutEvent)
		protected.With(csrf).Delete("/events/{id}", h.DeleteEvent)

		protected.Get("/users", h.ListUsers)
		protected.With(admin, csrf).Post("/users", h.PostUser)
		protected.With(admin, csrf).Put("/users/{id}", h.PutUser)
		protected.With(admin, csrf).Delete("/users/{id}", h.DeleteUser)

		protected.With(csrf).Post("/imports/process", h.PostImportsProcess)
		protected.With(csrf).Post("/imports/execute", h.PostImportsExecute)
		protected.Get("/imports/templates/{template}.csv", h.GetImportTemplate)

		protected.Get("/exports/companies.csv", h.GetCompaniesExport)
		protected.Get("/exports/contacts.csv", h.GetContactsExport)
	})

	r.Mount("/api", api)
	return r, nil
}
