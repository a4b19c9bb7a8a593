// Copyright (c) 2025 Vlah Software House. All rights reserved.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a reader comment on an article. New comments always
// start unapproved; only comments with approved=true and is_disabled=false
// are visible on the public site.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	ArticleID  uuid.UUID `json:"article_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Comment    string    `json:"comment"`
	Approved   bool      `json:"approved"`
	IsDisabled bool      `json:"is_disabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Virtual field populated by the admin listing.
	Article *Article `json:"article,omitempty"`
}

// IsVisible reports whether the comment may appear publicly.
func (c *Comment) IsVisible() bool {
	return c.Approved && !c.IsDisabled
}
