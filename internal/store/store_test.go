// Copyright (c) 2025 Vlah Software House. All rights reserved.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanArticles removes test articles by slug, including soft-deleted
// ones. Comment and category join rows go with the cascade.
func cleanArticles(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM articles WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// cleanContacts removes test contact messages by email. Call in t.Cleanup().
func cleanContacts(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM contact_messages WHERE email = $1", email)
	}
}

// seedUser creates a user fixture and registers cleanup.
func seedUser(t *testing.T, db *sql.DB, email string, role models.Role) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create("Test User", email, "secret123", role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return u
}

// seedArticle creates an article fixture owned by userID and registers cleanup.
func seedArticle(t *testing.T, db *sql.DB, userID uuid.UUID, slug string, status models.ArticleStatus, categoryIDs ...uuid.UUID) *models.Article {
	t.Helper()
	a := &models.Article{
		Title:   "Article " + slug,
		Slug:    slug,
		Content: "Body of " + slug,
		Status:  status,
		UserID:  userID,
	}
	if err := NewArticleStore(db).Create(a, categoryIDs); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	t.Cleanup(func() { cleanArticles(t, db, slug) })
	return a
}

// seedCategory creates a category fixture and registers cleanup.
func seedCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(name, slug)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	return c
}
