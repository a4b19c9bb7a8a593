// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/slug"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// Admin groups the authenticated management handlers. Its methods are
// spread across admin.go, admin_articles.go, and admin_moderation.go.
type Admin struct {
	articles   *store.ArticleStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	contacts   *store.ContactStore
	storage    *storage.Client // nil when object storage is not configured
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(articles *store.ArticleStore, categories *store.CategoryStore, comments *store.CommentStore, contacts *store.ContactStore, files *storage.Client) *Admin {
	return &Admin{
		articles:   articles,
		categories: categories,
		comments:   comments,
		contacts:   contacts,
		storage:    files,
	}
}

// Dashboard returns the headline counts for the admin landing page.
func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	totalArticles, err := h.articles.CountAll()
	if err != nil {
		respondServerError(w, "dashboard article count failed", err)
		return
	}
	totalCategories, err := h.categories.CountAll()
	if err != nil {
		respondServerError(w, "dashboard category count failed", err)
		return
	}
	pendingComments, err := h.comments.CountPending()
	if err != nil {
		respondServerError(w, "dashboard comment count failed", err)
		return
	}
	totalMessages, err := h.contacts.CountAll()
	if err != nil {
		respondServerError(w, "dashboard contact count failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{
		"total_articles":   totalArticles,
		"total_categories": totalCategories,
		"pending_comments": pendingComments,
		"total_messages":   totalMessages,
	})
}

// ListCategories returns all categories for the admin select controls.
func (h *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		respondServerError(w, "list categories failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": items})
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory adds a category, deriving its slug from the name.
func (h *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	errs := errorBag{}
	errs.requireString("name", req.Name, maxNameLen)
	if errs.empty() {
		s := slug.Generate(req.Name)
		taken, err := h.categories.SlugTaken(s, uuid.Nil)
		if err != nil {
			respondServerError(w, "category slug check failed", err)
			return
		}
		if taken {
			errs.add("name", "A category with this name already exists.")
		}
	}
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	c, err := h.categories.Create(req.Name, slug.Generate(req.Name))
	if err != nil {
		respondServerError(w, "create category failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// UpdateCategory renames a category, regenerating its slug.
func (h *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	errs := errorBag{}
	errs.requireString("name", req.Name, maxNameLen)
	if errs.empty() {
		s := slug.Generate(req.Name)
		taken, err := h.categories.SlugTaken(s, id)
		if err != nil {
			respondServerError(w, "category slug check failed", err)
			return
		}
		if taken {
			errs.add("name", "A category with this name already exists.")
		}
	}
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	c, err := h.categories.Update(id, req.Name, slug.Generate(req.Name))
	if err != nil {
		respondServerError(w, "update category failed", err)
		return
	}
	if c == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteCategory removes a category. Articles keep existing; only the
// association goes away.
func (h *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ok, err := h.categories.Delete(id)
	if err != nil {
		respondServerError(w, "delete category failed", err)
		return
	}
	if !ok {
		respondNotFound(w)
		return
	}
	respondMessage(w, http.StatusOK, "Deleted")
}

// parseID reads the {id} route parameter as a UUID, writing a 404 when
// it doesn't parse. Unknown ids and malformed ids look the same to
// clients.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return uuid.Nil, false
	}
	return id, true
}
