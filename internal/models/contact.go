// Copyright (c) 2025 Vlah Software House. All rights reserved.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage represents a submission from the public contact form.
// Reviewed starts false and is flipped by an admin.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Reviewed  bool      `json:"reviewed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
