// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// maxImageSize caps article image uploads at 2 MB.
const maxImageSize = 2 << 20

// ListArticles returns a page of articles for the admin table. Supports
// ?page, ?q (title search), and ?status filters.
func (h *Admin) ListArticles(w http.ResponseWriter, r *http.Request) {
	if !policy.CanViewArticles(middleware.UserFromCtx(r.Context())) {
		respondMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && status != string(models.StatusDraft) && status != string(models.StatusPublished) {
		status = ""
	}

	page, err := h.articles.List(pageParam(r), q.Get("q"), status)
	if err != nil {
		respondServerError(w, "list articles failed", err)
		return
	}
	respondJSON(w, http.StatusOK, presentArticles(h.storage, page))
}

// ShowArticle returns a single article with its categories and author.
func (h *Admin) ShowArticle(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, presentArticle(h.storage, a))
}

// articleForm holds the parsed multipart fields for create and update.
// On update, zero-valued fields mean "leave unchanged"; categoriesSet
// distinguishes an absent categories field from an explicitly empty one.
type articleForm struct {
	title         string
	slug          string
	content       string
	status        string
	categories    []uuid.UUID
	categoriesSet bool

	image     []byte
	imageType string
	imageExt  string
}

// slugSource derives the slug, preferring an explicit slug field over
// the title.
func (f *articleForm) slugSource() string {
	if f.slug != "" {
		return slug.Generate(f.slug)
	}
	return slug.Generate(f.title)
}

// CreateArticle stores a new article from a multipart form, uploading
// the optional image to object storage first so a failed upload never
// leaves a dangling database row.
func (h *Admin) CreateArticle(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if !policy.CanCreateArticle(user) {
		respondMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	form, errs := h.parseArticleForm(r, false)
	var s string
	if errs.empty() {
		s = form.slugSource()
		taken, err := h.articles.SlugTaken(s, uuid.Nil)
		if err != nil {
			respondServerError(w, "article slug check failed", err)
			return
		}
		if taken {
			errs.add("title", "An article with this title already exists.")
		}
	}
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	if form.image != nil && h.storage == nil {
		respondMessage(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	a := &models.Article{
		Title:   form.title,
		Slug:    s,
		Content: form.content,
		Status:  models.ArticleStatus(form.status),
		UserID:  user.UserID,
	}

	var key string
	if form.image != nil {
		key = "articles/" + uuid.NewString() + form.imageExt
		if err := h.storage.Upload(r.Context(), key, form.imageType, bytes.NewReader(form.image), int64(len(form.image))); err != nil {
			respondServerError(w, "image upload failed", err)
			return
		}
		a.Image = &key
	}

	if err := h.articles.Create(a, form.categories); err != nil {
		if key != "" {
			h.cleanupImage(key)
		}
		if err == store.ErrCategoryMissing {
			errs.add("categories", "The selected categories are invalid.")
			respondValidation(w, errs)
			return
		}
		respondServerError(w, "create article failed", err)
		return
	}

	created, err := h.articles.FindByID(a.ID)
	if err != nil || created == nil {
		respondServerError(w, "reload created article failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, presentArticle(h.storage, created))
}

// UpdateArticle rewrites an article from a multipart form. Fields that
// are absent keep their stored values, and the category set is only
// re-synced when the form carries one. Multipart clients send POST with
// _method=PUT; the router normalizes the verb. A replacement image is
// uploaded before the row is written and the old object is removed
// afterwards, best effort.
func (h *Admin) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	existing, err := h.articles.FindByID(id)
	if err != nil {
		respondServerError(w, "find article failed", err)
		return
	}
	if existing == nil {
		respondNotFound(w)
		return
	}

	if !policy.CanUpdateArticle(middleware.UserFromCtx(r.Context()), existing.UserID) {
		respondMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	form, errs := h.parseArticleForm(r, true)
	newSlug := existing.Slug
	if errs.empty() && (form.title != "" || form.slug != "") {
		newSlug = form.slugSource()
		taken, err := h.articles.SlugTaken(newSlug, id)
		if err != nil {
			respondServerError(w, "article slug check failed", err)
			return
		}
		if taken {
			errs.add("title", "An article with this title already exists.")
		}
	}
	if !errs.empty() {
		respondValidation(w, errs)
		return
	}

	if form.image != nil && h.storage == nil {
		respondMessage(w, http.StatusServiceUnavailable, "Image storage is not configured")
		return
	}

	if form.title != "" {
		existing.Title = form.title
	}
	existing.Slug = newSlug
	if form.content != "" {
		existing.Content = form.content
	}
	if form.status != "" {
		existing.Status = models.ArticleStatus(form.status)
	}

	categories := form.categories
	if !form.categoriesSet {
		categories = make([]uuid.UUID, 0, len(existing.Categories))
		for _, c := range existing.Categories {
			categories = append(categories, c.ID)
		}
	}

	oldImage := existing.Image
	var newKey string
	if form.image != nil {
		newKey = "articles/" + uuid.NewString() + form.imageExt
		if err := h.storage.Upload(r.Context(), newKey, form.imageType, bytes.NewReader(form.image), int64(len(form.image))); err != nil {
			respondServerError(w, "image upload failed", err)
			return
		}
		existing.Image = &newKey
	}

	updated, err := h.articles.Update(existing, categories)
	if err != nil {
		if newKey != "" {
			h.cleanupImage(newKey)
		}
		if err == store.ErrCategoryMissing {
			errs.add("categories", "The selected categories are invalid.")
			respondValidation(w, errs)
			return
		}
		respondServerError(w, "update article failed", err)
		return
	}
	if !updated {
		if newKey != "" {
			h.cleanupImage(newKey)
		}
		respondNotFound(w)
		return
	}

	// The replaced image is unreferenced now; removal is best effort.
	if newKey != "" && oldImage != nil && *oldImage != "" {
		h.cleanupImage(*oldImage)
	}

	reloaded, err := h.articles.FindByID(id)
	if err != nil || reloaded == nil {
		respondServerError(w, "reload updated article failed", err)
		return
	}
	respondJSON(w, http.StatusOK, presentArticle(h.storage, reloaded))
}

// DeleteArticle removes the stored image and soft-deletes the row.
func (h *Admin) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if !policy.CanDeleteArticle(middleware.UserFromCtx(r.Context())) {
		respondMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	existing, err := h.articles.FindByID(id)
	if err != nil {
		respondServerError(w, "find article failed", err)
		return
	}
	if existing == nil {
		respondNotFound(w)
		return
	}

	deleted, err := h.articles.SoftDelete(id)
	if err != nil {
		respondServerError(w, "delete article failed", err)
		return
	}
	if !deleted {
		respondNotFound(w)
		return
	}

	// Externally hosted images are not ours to remove.
	if img := existing.Image; img != nil && *img != "" && !strings.HasPrefix(*img, "http://") && !strings.HasPrefix(*img, "https://") {
		h.cleanupImage(*img)
	}

	respondMessage(w, http.StatusOK, "Deleted")
}

// TogglePublish flips an article between draft and published.
func (h *Admin) TogglePublish(w http.ResponseWriter, r *http.Request) {
	existingID, ok := parseID(w, r)
	if !ok {
		return
	}

	existing, err := h.articles.FindByID(existingID)
	if err != nil {
		respondServerError(w, "find article failed", err)
		return
	}
	if existing == nil {
		respondNotFound(w)
		return
	}
	if !policy.CanUpdateArticle(middleware.UserFromCtx(r.Context()), existing.UserID) {
		respondMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	a, err := h.articles.TogglePublish(existingID)
	if err != nil {
		respondServerError(w, "toggle publish failed", err)
		return
	}
	if a == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, presentArticle(h.storage, a))
}

// parseArticleForm reads and validates the multipart fields shared by
// create and update. In partial mode empty fields pass validation so
// the caller can keep the stored values.
func (h *Admin) parseArticleForm(r *http.Request, partial bool) (*articleForm, errorBag) {
	errs := errorBag{}

	if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
		errs.add("form", "The request body must be multipart/form-data.")
		return nil, errs
	}

	form := &articleForm{
		title:   r.FormValue("title"),
		slug:    r.FormValue("slug"),
		content: r.FormValue("content"),
		status:  r.FormValue("status"),
	}

	if !partial || form.title != "" {
		errs.requireString("title", form.title, maxTitleLen)
	}
	if !partial || form.content != "" {
		errs.requireString("content", form.content, maxContentLen)
	}
	if form.status == "" && !partial {
		form.status = string(models.StatusDraft)
	}
	if form.status != "" {
		errs.requireOneOf("status", form.status, string(models.StatusDraft), string(models.StatusPublished))
	}

	ids, present := r.Form["categories[]"]
	if !present {
		ids, present = r.Form["categories"]
	}
	form.categoriesSet = present
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.add("categories", "The selected categories are invalid.")
			break
		}
		form.categories = append(form.categories, id)
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		h.readImage(form, file, header, errs)
	} else if err != http.ErrMissingFile {
		errs.add("image", "The image could not be read.")
	}

	return form, errs
}

// readImage buffers and sniffs an uploaded image, enforcing type and
// size limits.
func (h *Admin) readImage(form *articleForm, file multipart.File, header *multipart.FileHeader, errs errorBag) {
	if header.Size > maxImageSize {
		errs.add("image", "The image may not be larger than 2 megabytes.")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		errs.add("image", "The image could not be read.")
		return
	}
	if len(data) > maxImageSize {
		errs.add("image", "The image may not be larger than 2 megabytes.")
		return
	}

	// Sniff the real content type; the client-sent header is not trusted.
	contentType := http.DetectContentType(data)
	ext := ""
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	default:
		errs.add("image", "The image must be a JPEG, PNG, WebP, or GIF file.")
		return
	}

	// Keep the original extension when it matches the sniffed type.
	if e := path.Ext(header.Filename); e == ".jpeg" && ext == ".jpg" {
		ext = ".jpeg"
	}

	form.image = data
	form.imageType = contentType
	form.imageExt = ext
}

// cleanupImage removes an orphaned object, logging failures instead of
// surfacing them.
func (h *Admin) cleanupImage(key string) {
	if h.storage == nil {
		return
	}
	if err := h.storage.Delete(context.Background(), h.storage.ExtractKey(key)); err != nil {
		slog.Warn("orphaned image cleanup failed", "key", key, "error", err)
	}
}

// pageParam reads the ?page query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		return n
	}
	return 1
}
