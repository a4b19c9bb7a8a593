// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// Public groups the unauthenticated site handlers.
type Public struct {
	articles   *store.ArticleStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	contacts   *store.ContactStore
	storage    *storage.Client
}

// NewPublic creates a new Public handler group.
func NewPublic(articles *store.ArticleStore, categories *store.CategoryStore, comments *store.CommentStore, contacts *store.ContactStore, files *storage.Client) *Public {
	return &Public{
		articles:   articles,
		categories: categories,
		comments:   comments,
		contacts:   contacts,
		storage:    files,
	}
}

// Home returns the same paginated published-article listing as the
// article index; the landing page is just page one of it.
func (h *Public) Home(w http.ResponseWriter, r *http.Request) {
	h.ListArticles(w, r)
}

// ListArticles returns a page of published articles. Supports ?page and
// ?q title search.
func (h *Public) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, err := h.articles.ListPublished(pageParam(r), r.URL.Query().Get("q"))
	if err != nil {
		respondServerError(w, "list published articles failed", err)
		return
	}
	respondJSON(w, http.StatusOK, presentArticles(h.storage, page))
}

// ShowArticle returns a published article with its approved comments.
// Drafts and soft-deleted articles are indistinguishable from missing ones.
func (h *Public) ShowArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	a, err := h.articles.FindPublished(id)
	if err != nil {
		respondServerError(w, "find published article failed", err)
		return
	}
	if a == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, presentArticle(h.storage, a))
}

// RelatedArticles returns published articles sharing a category with the
// given one. The source article only has to exist; the published filter
// applies to the results.
func (h *Public) RelatedArticles(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	a, err := h.articles.FindByID(id)
	if err != nil {
		respondServerError(w, "find article failed", err)
		return
	}
	if a == nil {
		respondNotFound(w)
		return
	}

	related, err := h.articles.Related(id)
	if err != nil {
		respondServerError(w, "related articles failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data": presentArticleList(h.storage, related),
	})
}

type commentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// CreateComment stores a visitor comment on a published article. The
// comment stays hidden until a moderator approves it.
func (h *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	a, err := h.articles.FindPublished(id)
	if err != nil {
		respondServerError(w, "find published article failed", err)
		return
	}
	if a == nil {
		respondNotFound(w)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	errs := errorBag{}
	errs.requireString("name", req.Name, maxNameLen)
	errs.requireEmail("email", req.Email)
	errs.requireString("comment", req.Comment, maxCommentLen)
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	c, err := h.comments.Create(a.ID, req.Name, req.Email, req.Comment)
	if err != nil {
		respondServerError(w, "create comment failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// ListCategories returns all categories for the public navigation.
func (h *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		respondServerError(w, "list categories failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": items})
}

// CategoryArticles returns a category and a page of its published
// articles, looked up by slug.
func (h *Public) CategoryArticles(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondServerError(w, "find category failed", err)
		return
	}
	if c == nil {
		respondNotFound(w)
		return
	}

	page, err := h.articles.ListByCategory(c.ID, pageParam(r))
	if err != nil {
		respondServerError(w, "category articles failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"category": c,
		"articles": presentArticles(h.storage, page),
	})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateContact stores a contact form submission.
func (h *Public) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	errs := errorBag{}
	errs.requireString("name", req.Name, maxNameLen)
	errs.requireEmail("email", req.Email)
	errs.requireString("subject", req.Subject, maxSubjectLen)
	errs.requireString("message", req.Message, maxMessageLen)
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	m, err := h.contacts.Create(req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		respondServerError(w, "create contact message failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}
