// Copyright (c) 2025 Vlah Software House. All rights reserved.

// Package store contains the PostgreSQL persistence layer. Each entity
// gets its own store type wrapping a shared *sql.DB.
package store

// Page is a paginated result set. The JSON shape matches what the admin
// and public SPAs expect from list endpoints.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// newPage assembles a Page from a slice and count. Data is never nil so
// empty pages serialize as [] rather than null, and LastPage is at least
// 1 even when there are no rows.
func newPage[T any](data []T, page, perPage int, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page[T]{
		Data:        data,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}

// normalizePage clamps a requested page number to a sane value.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
