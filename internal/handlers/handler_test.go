// Copyright (c) 2025 Vlah Software House. All rights reserved.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "token:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Tokens     *token.Store
	Users      *store.UserStore
	Articles   *store.ArticleStore
	Categories *store.CategoryStore
	Comments   *store.CommentStore
	Contacts   *store.ContactStore
	Auth       *Auth
	Admin      *Admin
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Object storage is nil; image uploads are not exercised
// in integration tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	tokens := token.NewStore(testValkeyClient(t))

	users := store.NewUserStore(db)
	articles := store.NewArticleStore(db)
	categories := store.NewCategoryStore(db)
	comments := store.NewCommentStore(db)
	contacts := store.NewContactStore(db)

	return &testEnv{
		DB:         db,
		Tokens:     tokens,
		Users:      users,
		Articles:   articles,
		Categories: categories,
		Comments:   comments,
		Contacts:   contacts,
		Auth:       NewAuth(tokens, users),
		Admin:      NewAdmin(articles, categories, comments, contacts, nil),
		Public:     NewPublic(articles, categories, comments, contacts, nil),
	}
}

// seedUser creates a user and registers cleanup.
func (e *testEnv) seedUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	e.DB.Exec("DELETE FROM users WHERE email = $1", email)
	u, err := e.Users.Create("Test User", email, password, role)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return u
}

// seedArticle creates an article and registers cleanup.
func (e *testEnv) seedArticle(t *testing.T, userID uuid.UUID, slug string, status models.ArticleStatus, categoryIDs ...uuid.UUID) *models.Article {
	t.Helper()
	a := &models.Article{
		Title:   "Article " + slug,
		Slug:    slug,
		Content: "Body of " + slug,
		Status:  status,
		UserID:  userID,
	}
	if err := e.Articles.Create(a, categoryIDs); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM articles WHERE slug = $1", slug) })
	return a
}

// seedCategory creates a category and registers cleanup.
func (e *testEnv) seedCategory(t *testing.T, name, slug string) *models.Category {
	t.Helper()
	e.DB.Exec("DELETE FROM categories WHERE slug = $1", slug)
	c, err := e.Categories.Create(name, slug)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM categories WHERE slug = $1", slug) })
	return c
}

// asUser adds bearer-token data for a user to the request context,
// bypassing the token store the way the middleware would populate it.
func asUser(r *http.Request, u *models.User) *http.Request {
	data := &token.Data{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, data))
}

// withID adds a chi {id} URL parameter to a request.
func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSlug adds a chi {slug} URL parameter to a request.
func withSlug(r *http.Request, slug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", slug)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
