// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// multipartArticle builds a multipart form body for article endpoints.
func multipartArticle(t *testing.T, fields map[string]string, categories []string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, c := range categories {
		if err := w.WriteField("categories[]", c); err != nil {
			t.Fatalf("write category: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestDashboardCounts(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "dash@test.local", "secret123", models.RoleAdmin)

	rr := httptest.NewRecorder()
	env.Admin.Dashboard(rr, asUser(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), admin))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var counts map[string]int64
	if err := json.Unmarshal(rr.Body.Bytes(), &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"total_articles", "total_categories", "pending_comments", "total_messages"} {
		if _, ok := counts[key]; !ok {
			t.Errorf("dashboard missing %q", key)
		}
	}
}

func TestCategoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "cat-admin@test.local", "secret123", models.RoleAdmin)

	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM categories WHERE slug IN ('endpoint-cat', 'endpoint-cat-renamed')")
	})

	// Create.
	rr := httptest.NewRecorder()
	env.Admin.CreateCategory(rr, asUser(postJSON(t, "/admin/categories", map[string]string{"name": "Endpoint Cat"}), admin))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	var created models.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Slug != "endpoint-cat" {
		t.Errorf("slug = %q, want endpoint-cat", created.Slug)
	}

	// Duplicate name is a validation error.
	rr = httptest.NewRecorder()
	env.Admin.CreateCategory(rr, asUser(postJSON(t, "/admin/categories", map[string]string{"name": "Endpoint Cat"}), admin))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("duplicate create status = %d, want 422", rr.Code)
	}

	// Update.
	rr = httptest.NewRecorder()
	req := asUser(postJSON(t, "/admin/categories/"+created.ID.String(), map[string]string{"name": "Endpoint Cat Renamed"}), admin)
	env.Admin.UpdateCategory(rr, withID(req, created.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rr.Code, rr.Body.String())
	}

	// Delete.
	rr = httptest.NewRecorder()
	env.Admin.DeleteCategory(rr, withID(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), admin), created.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("Deleted")) {
		t.Errorf("delete body = %s", rr.Body.String())
	}

	// Deleting again is a 404.
	rr = httptest.NewRecorder()
	env.Admin.DeleteCategory(rr, withID(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), admin), created.ID.String()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestArticleCreateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "art-admin@test.local", "secret123", models.RoleAdmin)
	cat := env.seedCategory(t, "Endpoint Articles", "endpoint-articles")

	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM articles WHERE slug = 'fresh-off-the-form'")
	})

	body, contentType := multipartArticle(t, map[string]string{
		"title":   "Fresh Off The Form",
		"content": "Multipart body content.",
		"status":  "draft",
	}, []string{cat.ID.String()})

	req := httptest.NewRequest(http.MethodPost, "/admin/articles", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	env.Admin.CreateArticle(rr, asUser(req, admin))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Slug       string            `json:"slug"`
		ImageURL   string            `json:"image_url"`
		Categories []models.Category `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Slug != "fresh-off-the-form" {
		t.Errorf("slug = %q", resp.Slug)
	}
	if resp.ImageURL != placeholderImageURL {
		t.Errorf("image_url = %q, want placeholder", resp.ImageURL)
	}
	if len(resp.Categories) != 1 {
		t.Errorf("categories = %+v", resp.Categories)
	}
}

func TestArticleCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "art-valid@test.local", "secret123", models.RoleAdmin)

	body, contentType := multipartArticle(t, map[string]string{
		"title":   "",
		"content": "",
		"status":  "archived",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/articles", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	env.Admin.CreateArticle(rr, asUser(req, admin))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"title", "content", "status"} {
		if len(resp.Errors[field]) == 0 {
			t.Errorf("expected error for %q, got %v", field, resp.Errors)
		}
	}
}

func TestArticleUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "art-partial@test.local", "secret123", models.RoleAdmin)
	cat := env.seedCategory(t, "Partial Cat", "partial-cat")
	article := env.seedArticle(t, admin.ID, "partial-update-fixture", models.StatusDraft, cat.ID)

	// Only the status field is sent; everything else must survive.
	body, contentType := multipartArticle(t, map[string]string{"status": "published"}, nil)
	req := httptest.NewRequest(http.MethodPut, "/", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	env.Admin.UpdateArticle(rr, withID(asUser(req, admin), article.ID.String()))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Title      string            `json:"title"`
		Slug       string            `json:"slug"`
		Status     string            `json:"status"`
		Categories []models.Category `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "published" {
		t.Errorf("status = %q, want published", resp.Status)
	}
	if resp.Title != article.Title || resp.Slug != article.Slug {
		t.Errorf("title/slug changed: %q %q", resp.Title, resp.Slug)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].ID != cat.ID {
		t.Errorf("categories not preserved: %+v", resp.Categories)
	}
}

func TestArticlePolicyEnforcement(t *testing.T) {
	env := newTestEnv(t)
	editor := env.seedUser(t, "art-editor@test.local", "secret123", models.RoleEditor)
	admin := env.seedUser(t, "art-roles@test.local", "secret123", models.RoleAdmin)
	article := env.seedArticle(t, admin.ID, "policy-article", models.StatusPublished)

	// Editors cannot list admin articles.
	rr := httptest.NewRecorder()
	env.Admin.ListArticles(rr, asUser(httptest.NewRequest(http.MethodGet, "/admin/articles", nil), editor))
	if rr.Code != http.StatusForbidden {
		t.Errorf("editor list status = %d, want 403", rr.Code)
	}

	// Editors cannot create.
	body, contentType := multipartArticle(t, map[string]string{
		"title": "Editor Article", "content": "x", "status": "draft",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/admin/articles", body)
	req.Header.Set("Content-Type", contentType)
	rr = httptest.NewRecorder()
	env.Admin.CreateArticle(rr, asUser(req, editor))
	if rr.Code != http.StatusForbidden {
		t.Errorf("editor create status = %d, want 403", rr.Code)
	}

	// Admins cannot delete; that is reserved for super admins.
	rr = httptest.NewRecorder()
	env.Admin.DeleteArticle(rr, withID(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), admin), article.ID.String()))
	if rr.Code != http.StatusForbidden {
		t.Errorf("admin delete status = %d, want 403", rr.Code)
	}

	super := env.seedUser(t, "art-super@test.local", "secret123", models.RoleSuperAdmin)
	rr = httptest.NewRecorder()
	env.Admin.DeleteArticle(rr, withID(asUser(httptest.NewRequest(http.MethodDelete, "/", nil), super), article.ID.String()))
	if rr.Code != http.StatusOK {
		t.Errorf("super admin delete status = %d, want 200", rr.Code)
	}
}

func TestArticleTogglePublishEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "art-toggle@test.local", "secret123", models.RoleAdmin)
	article := env.seedArticle(t, admin.ID, "toggle-endpoint", models.StatusDraft)

	rr := httptest.NewRecorder()
	env.Admin.TogglePublish(rr, withID(asUser(httptest.NewRequest(http.MethodPatch, "/", nil), admin), article.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "published" {
		t.Errorf("status after toggle = %q, want published", resp.Status)
	}
}

func TestArticleUnknownCategoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "art-badcat@test.local", "secret123", models.RoleAdmin)

	body, contentType := multipartArticle(t, map[string]string{
		"title": "Bad Cat Endpoint", "content": "x", "status": "draft",
	}, []string{"4fe0cf96-0000-0000-0000-000000000000"})

	req := httptest.NewRequest(http.MethodPost, "/admin/articles", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	env.Admin.CreateArticle(rr, asUser(req, admin))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rr.Code, rr.Body.String())
	}

	// The rolled-back article must not linger.
	taken, err := env.Articles.SlugTaken("bad-cat-endpoint", uuid.Nil)
	if err != nil {
		t.Fatalf("SlugTaken: %v", err)
	}
	if taken {
		t.Error("article row survived a rolled-back create")
		env.DB.Exec("DELETE FROM articles WHERE slug = 'bad-cat-endpoint'")
	}
}
