// Copyright (c) 2025 Vlah Software House. All rights reserved.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

const contactsPerPage = 5

// ContactStore handles contact form message persistence.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore with the given database connection.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Create stores a new contact form submission.
func (s *ContactStore) Create(name, email, subject, message string) (*models.ContactMessage, error) {
	m := &models.ContactMessage{}
	err := s.db.QueryRow(`
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, subject, message, reviewed, created_at, updated_at
	`, name, email, subject, message).Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
		&m.Reviewed, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return m, nil
}

// List returns a page of contact messages, newest first.
func (s *ContactStore) List(page int) (Page[models.ContactMessage], error) {
	page = normalizePage(page)

	var total int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM contact_messages").Scan(&total); err != nil {
		return Page[models.ContactMessage]{}, fmt.Errorf("count contact messages: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, name, email, subject, message, reviewed, created_at, updated_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, contactsPerPage, (page-1)*contactsPerPage)
	if err != nil {
		return Page[models.ContactMessage]{}, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	items := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
			&m.Reviewed, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return Page[models.ContactMessage]{}, fmt.Errorf("scan contact message: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return Page[models.ContactMessage]{}, err
	}
	return newPage(items, page, contactsPerPage, total), nil
}

// FindByID retrieves a contact message by UUID. Returns nil if not found.
func (s *ContactStore) FindByID(id uuid.UUID) (*models.ContactMessage, error) {
	m := &models.ContactMessage{}
	err := s.db.QueryRow(`
		SELECT id, name, email, subject, message, reviewed, created_at, updated_at
		FROM contact_messages WHERE id = $1
	`, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
		&m.Reviewed, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact message: %w", err)
	}
	return m, nil
}

// MarkReviewed flags a message as handled. Returns the updated record,
// or nil if the message does not exist.
func (s *ContactStore) MarkReviewed(id uuid.UUID) (*models.ContactMessage, error) {
	m := &models.ContactMessage{}
	err := s.db.QueryRow(`
		UPDATE contact_messages SET reviewed = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, subject, message, reviewed, created_at, updated_at
	`, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
		&m.Reviewed, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mark contact reviewed: %w", err)
	}
	return m, nil
}

// CountAll returns the total number of contact messages.
func (s *ContactStore) CountAll() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM contact_messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return n, nil
}
