package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/tradelink-crm/api/internal/auth"
	"github.com/tradelink-crm/api/internal/config"
	"github.com/tradelink-crm/api/internal/store"
)

func TestHealthReportsDatabaseReachable(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse health body: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "session@example.com", "Password123!", "member")

	cookie := login(t, env.router, "session@example.com", "Password123!")
	status, _ := request(t, env.router, http.MethodGet, "/api/auth/me", nil, cookie, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", status)
	}

	csrf := csrfToken(t, env.router, cookie)
	status, _ = request(t, env.router, http.MethodPost, "/api/auth/logout", nil, cookie, csrf)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 logout response, got %d", status)
	}

	status, _ = request(t, env.router, http.MethodGet, "/api/auth/me", nil, cookie, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestUserWritesRequireAdmin(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "member@example.com", "Password123!", "member")

	cookie := login(t, env.router, "member@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	payload, _ := json.Marshal(map[string]string{
		"email": "new@example.com", "fullName": "New User", "password": "Password123!", "role": "member",
	})
	status, body := request(t, env.router, http.MethodPost, "/api/users", payload, cookie, csrf)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for member creating users, got %d (%s)", status, string(body))
	}
}

func TestCompanyCRUD(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "crud@example.com", "Password123!", "admin")

	cookie := login(t, env.router, "crud@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	payload, _ := json.Marshal(map[string]string{"name": "Acme", "email": "info@acme.test"})
	status, body := request(t, env.router, http.MethodPost, "/api/companies", payload, cookie, csrf)
	if status != http.StatusCreated {
		t.Fatalf("create company expected 201, got %d (%s)", status, string(body))
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == 0 {
		t.Fatalf("missing company id in %s", string(body))
	}

	status, body = request(t, env.router, http.MethodGet, "/api/companies?q=acm", nil, cookie, "")
	if status != http.StatusOK || !bytes.Contains(body, []byte(`"Acme"`)) {
		t.Fatalf("expected search to find Acme, got %d (%s)", status, string(body))
	}

	payload, _ = json.Marshal(map[string]string{"name": "Acme Corp"})
	status, body = request(t, env.router, http.MethodPut, "/api/companies/"+itoa(created.ID), payload, cookie, csrf)
	if status != http.StatusOK || !bytes.Contains(body, []byte(`"Acme Corp"`)) {
		t.Fatalf("expected update to rename, got %d (%s)", status, string(body))
	}

	status, _ = request(t, env.router, http.MethodDelete, "/api/companies/"+itoa(created.ID), nil, cookie, csrf)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 delete, got %d", status)
	}
	status, _ = request(t, env.router, http.MethodGet, "/api/companies/"+itoa(created.ID), nil, cookie, "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestImportProcessAndExecute(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "import@example.com", "Password123!", "admin")

	cookie := login(t, env.router, "import@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	csvFile := "First Name,Last Name,Email,Company\n" +
		"Jane,Doe,jane@acme.test,Acme\n" +
		"John,Smith,john@globex.test,Globex\n"

	status, body := importRequest(t, env.router, "/api/imports/process", cookie, csrf, csvFile, map[string]string{
		"importType": "mixed",
	})
	if status != http.StatusOK {
		t.Fatalf("process expected 200, got %d (%s)", status, string(body))
	}
	var processed struct {
		Companies []struct {
			TempID int64 `json:"tempId"`
		} `json:"companies"`
		Contacts        []json.RawMessage `json:"contacts"`
		DuplicateErrors []json.RawMessage `json:"duplicateErrors"`
	}
	if err := json.Unmarshal(body, &processed); err != nil {
		t.Fatalf("parse process body: %v", err)
	}
	if len(processed.Companies) != 2 || len(processed.Contacts) != 2 {
		t.Fatalf("expected 2 companies and 2 contacts, got %d and %d", len(processed.Companies), len(processed.Contacts))
	}
	if processed.Companies[0].TempID != -1 || processed.Companies[1].TempID != -2 {
		t.Fatalf("expected temp ids -1 and -2, got %+v", processed.Companies)
	}
	if len(processed.DuplicateErrors) != 0 {
		t.Fatalf("expected no duplicate errors, got %s", string(body))
	}

	status, body = importRequest(t, env.router, "/api/imports/execute", cookie, csrf, csvFile, map[string]string{
		"importType": "mixed",
	})
	if status != http.StatusOK {
		t.Fatalf("execute expected 200, got %d (%s)", status, string(body))
	}
	var result struct {
		Success bool `json:"success"`
		Stats   struct {
			TotalRecords int `json:"totalRecords"`
			Companies    int `json:"companies"`
			Contacts     int `json:"contacts"`
			Errors       int `json:"errors"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("parse execute body: %v", err)
	}
	if !result.Success || result.Stats.Companies != 2 || result.Stats.Contacts != 2 || result.Stats.Errors != 0 {
		t.Fatalf("unexpected execute result: %s", string(body))
	}

	ctx := context.Background()
	var companyID *int64
	if err := env.pool.QueryRow(ctx, `SELECT company_id FROM contacts WHERE email = 'jane@acme.test'`).Scan(&companyID); err != nil {
		t.Fatalf("load imported contact: %v", err)
	}
	if companyID == nil {
		t.Fatal("imported contact not linked to its company")
	}
	var name string
	if err := env.pool.QueryRow(ctx, `SELECT name FROM companies WHERE id = $1`, *companyID).Scan(&name); err != nil {
		t.Fatalf("load linked company: %v", err)
	}
	if name != "Acme" {
		t.Fatalf("expected contact linked to Acme, got %q", name)
	}
}

func TestAttachUnknownTagReturnsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "tags@example.com", "Password123!", "member")

	cookie := login(t, env.router, "tags@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	payload, _ := json.Marshal(map[string]string{"name": "Tagged Co"})
	status, body := request(t, env.router, http.MethodPost, "/api/companies", payload, cookie, csrf)
	if status != http.StatusCreated {
		t.Fatalf("create company expected 201, got %d (%s)", status, string(body))
	}
	var company struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(body, &company); err != nil {
		t.Fatalf("parse company body: %v", err)
	}

	path := "/api/companies/" + itoa(company.ID) + "/tags/999999"
	status, body = request(t, env.router, http.MethodPost, path, nil, cookie, csrf)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tag, got %d (%s)", status, string(body))
	}
}

func TestImportProcessHeaderlessFile(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "headerless@example.com", "Password123!", "admin")

	cookie := login(t, env.router, "headerless@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	csvFile := "Acme,info@acme.test\nGlobex,hq@globex.test\n"
	mappings := `{"companyMappings":[{"csvColumnIndex":0,"targetField":"name"},{"csvColumnIndex":1,"targetField":"email"}]}`

	status, body := importRequest(t, env.router, "/api/imports/process", cookie, csrf, csvFile, map[string]string{
		"importType":    "companies",
		"hasHeader":     "false",
		"fieldMappings": mappings,
	})
	if status != http.StatusOK {
		t.Fatalf("process expected 200, got %d (%s)", status, string(body))
	}

	var processed struct {
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
		Companies []struct {
			Data struct {
				Name string `json:"name"`
			} `json:"data"`
		} `json:"companies"`
	}
	if err := json.Unmarshal(body, &processed); err != nil {
		t.Fatalf("parse process body: %v", err)
	}
	if len(processed.Companies) != 2 {
		t.Fatalf("expected first row treated as data, got %d companies", len(processed.Companies))
	}
	if processed.Companies[0].Data.Name != "Acme" {
		t.Fatalf("expected first data row to be Acme, got %q", processed.Companies[0].Data.Name)
	}
	if len(processed.Columns) == 0 || processed.Columns[0].Name != "Column 1" {
		t.Fatalf("expected positional column names, got %+v", processed.Columns)
	}
}

func TestImportExecutePersistsMappedCreatedAt(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "createdat@example.com", "Password123!", "admin")

	cookie := login(t, env.router, "createdat@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	csvFile := "Name,Email,Created\nAcme,info@acme.test,2019-06-01\n"

	status, body := importRequest(t, env.router, "/api/imports/execute", cookie, csrf, csvFile, map[string]string{
		"importType": "companies",
	})
	if status != http.StatusOK {
		t.Fatalf("execute expected 200, got %d (%s)", status, string(body))
	}

	var createdAt time.Time
	err := env.pool.QueryRow(context.Background(),
		`SELECT created_at FROM companies WHERE name = 'Acme'`).Scan(&createdAt)
	if err != nil {
		t.Fatalf("load created_at: %v", err)
	}
	if got := createdAt.Format(time.DateOnly); got != "2019-06-01" {
		t.Fatalf("expected imported created date persisted, got %s", got)
	}
}

func TestImportExecuteSkipsDeselectedRows(t *testing.T) {
	env := setupTestEnv(t)
	seedUser(t, env.pool, "skip@example.com", "Password123!", "admin")

	cookie := login(t, env.router, "skip@example.com", "Password123!")
	csrf := csrfToken(t, env.router, cookie)

	csvFile := "Name,Email\n" +
		"Acme,dup@x.com\n" +
		"Acme Clone,dup@x.com\n"

	status, body := importRequest(t, env.router, "/api/imports/process", cookie, csrf, csvFile, map[string]string{
		"importType": "companies",
	})
	if status != http.StatusOK {
		t.Fatalf("process expected 200, got %d (%s)", status, string(body))
	}
	if !bytes.Contains(body, []byte(`"dup@x.com"`)) {
		t.Fatalf("expected duplicate email reported, got %s", string(body))
	}

	status, body = importRequest(t, env.router, "/api/imports/execute", cookie, csrf, csvFile, map[string]string{
		"importType":      "companies",
		"skipCompanyRows": "[2]",
	})
	if status != http.StatusOK {
		t.Fatalf("execute expected 200, got %d (%s)", status, string(body))
	}

	var count int
	if err := env.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		t.Fatalf("count companies: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 company after skipping the duplicate row, got %d", count)
	}
}

type testEnv struct {
	pool   *pgxpool.Pool
	router http.Handler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(pool.Close)

	resetSchema(t, ctx, pool, databaseURL)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        databaseURL,
		SessionCookieName:  "tl_sess",
		SessionTTL:         12 * time.Hour,
		SecureCookies:      false,
		CSRFEnforce:        true,
		Env:                "test",
		APIMaxBodyBytes:    2 << 20,
		ImportMaxFileBytes: 25 << 20,
		ImportMaxRows:      5000,
		ImportPreviewRows:  200,
	}

	router, err := NewRouter(cfg, store.New(pool), pool, logger)
	if err != nil {
		t.Fatalf("create router: %v", err)
	}

	return testEnv{pool: pool, router: router}
}

func resetSchema(t *testing.T, ctx context.Context, pool *pgxpool.Pool, databaseURL string) {
	t.Helper()

	if _, err := pool.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		t.Fatalf("open migration connection: %v", err)
	}
	defer db.Close()

	migrationsDir := filepath.Join("..", "..", "migrations")
	if err := goose.Up(db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email, password, role string) {
	t.Helper()
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := pool.Exec(context.Background(), `
		INSERT INTO users (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, email, email, passwordHash, role); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func login(t *testing.T, router http.Handler, email, password string) *http.Cookie {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:12345"
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		body, _ := io.ReadAll(rec.Result().Body)
		t.Fatalf("login expected 200, got %d with body: %s", rec.Code, string(body))
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == "tl_sess" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func csrfToken(t *testing.T, router http.Handler, session *http.Cookie) string {
	t.Helper()
	status, body := request(t, router, http.MethodGet, "/api/auth/csrf", nil, session, "")
	if status != http.StatusOK {
		t.Fatalf("csrf expected 200, got %d (%s)", status, string(body))
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("parse csrf body: %v", err)
	}
	return payload["csrfToken"]
}

func request(t *testing.T, router http.Handler, method, path string, body []byte, session *http.Cookie, csrf string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.RemoteAddr = "127.0.0.1:12345"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	resBody, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, resBody
}

func importRequest(t *testing.T, router http.Handler, path string, session *http.Cookie, csrf, csvFile string, fields map[string]string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "import.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvFile)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write form field %s: %v", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.RemoteAddr = "127.0.0.1:12345"
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(session)
	req.Header.Set("X-CSRF-Token", csrf)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	body, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, body
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
