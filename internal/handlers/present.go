// Copyright (c) 2025 Vlah Software House. All rights reserved.

package handlers

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// placeholderImageURL is served for articles without an uploaded image.
const placeholderImageURL = "https://via.placeholder.com/800x600.png?text=No+Image"

// articleView decorates an article with its resolved image URL.
type articleView struct {
	*models.Article
	ImageURL string `json:"image_url"`
}

// presentArticle wraps an article for JSON output.
func presentArticle(files *storage.Client, a *models.Article) articleView {
	return articleView{Article: a, ImageURL: imageURL(files, a.Image)}
}

// presentArticles wraps a page of articles for JSON output.
func presentArticles(files *storage.Client, page store.Page[models.Article]) store.Page[articleView] {
	views := make([]articleView, len(page.Data))
	for i := range page.Data {
		views[i] = presentArticle(files, &page.Data[i])
	}
	return store.Page[articleView]{
		Data:        views,
		CurrentPage: page.CurrentPage,
		LastPage:    page.LastPage,
		PerPage:     page.PerPage,
		Total:       page.Total,
	}
}

// presentArticleList wraps a plain slice of articles for JSON output.
func presentArticleList(files *storage.Client, items []models.Article) []articleView {
	views := make([]articleView, len(items))
	for i := range items {
		views[i] = presentArticle(files, &items[i])
	}
	return views
}

// imageURL resolves a stored image reference to a browsable URL.
// Absolute URLs pass through untouched; object keys resolve against
// storage; no image yields the placeholder.
func imageURL(files *storage.Client, image *string) string {
	if image == nil || *image == "" {
		return placeholderImageURL
	}
	if strings.HasPrefix(*image, "http://") || strings.HasPrefix(*image, "https://") {
		return *image
	}
	if files == nil {
		return placeholderImageURL
	}
	return files.FileURL(*image)
}
