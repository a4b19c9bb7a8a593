// Copyright (c) 2025 Vlah Software House. All rights reserved.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a flat content category. Articles and categories are
// linked many-to-many through the article_category join table.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
