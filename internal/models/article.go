// Copyright (c) 2025 Vlah Software House. All rights reserved.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Article represents a CMS article. The Image field holds either an object
// storage key or an absolute URL; translation to a servable URL happens at
// the API boundary, never here. Articles are soft-deleted: DeletedAt is set
// instead of removing the row, and stores filter deleted rows out.
type Article struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Slug      string        `json:"slug"`
	Content   string        `json:"content"`
	Image     *string       `json:"-"`
	Status    ArticleStatus `json:"status"`
	UserID    uuid.UUID     `json:"user_id"`
	DeletedAt *time.Time    `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Virtual fields populated by store methods.
	Author     *Author    `json:"author,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	Comments   []Comment  `json:"comments,omitempty"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}
