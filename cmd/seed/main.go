package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tradelink-crm/api/internal/auth"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	email := envOrDefault("SEED_ADMIN_EMAIL", "admin@local.tradelink")
	password := envOrDefault("SEED_ADMIN_PASSWORD", "Admin12345!")
	fullName := envOrDefault("SEED_ADMIN_NAME", "Local Admin")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, 'admin', TRUE)
		ON CONFLICT ((lower(email))) DO UPDATE SET full_name = EXCLUDED.full_name, is_active = TRUE
	`, email, fullName, passwordHash); err != nil {
		log.Fatalf("upsert admin user: %v", err)
	}

	var companyID int64
	err = tx.QueryRow(ctx, `SELECT id FROM companies WHERE name = 'Acme Logistics'`).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
			INSERT INTO companies (name, email, website, city, country)
			VALUES ('Acme Logistics', 'info@acme-logistics.test', 'https://acme-logistics.test', 'Rotterdam', 'Netherlands')
			RETURNING id
		`).Scan(&companyID)
	}
	if err != nil {
		log.Fatalf("seed company: %v", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO contacts (first_name, last_name, email, company_id)
		SELECT 'Jane', 'Doe', 'jane.doe@acme-logistics.test', $1
		WHERE NOT EXISTS (SELECT 1 FROM contacts WHERE email = 'jane.doe@acme-logistics.test')
	`, companyID); err != nil {
		log.Fatalf("seed contact: %v", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO tags (name, color)
		VALUES ('prospect', '#2563eb'), ('customer', '#16a34a')
		ON CONFLICT (name) DO NOTHING
	`); err != nil {
		log.Fatalf("seed tags: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	log.Printf("seeded admin %s and demo data", email)
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
