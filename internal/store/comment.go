// Copyright (c) 2025 Vlah Software House. All rights reserved.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

const commentsPerPage = 5

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a new comment awaiting moderation. Comments always start
// unapproved regardless of what the caller sends.
func (s *CommentStore) Create(articleID uuid.UUID, name, email, body string) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (article_id, name, email, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, article_id, name, email, comment, approved, is_disabled,
		          created_at, updated_at
	`, articleID, name, email, body).Scan(
		&c.ID, &c.ArticleID, &c.Name, &c.Email, &c.Comment,
		&c.Approved, &c.IsDisabled, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// List returns a page of comments for moderation, newest first, with the
// parent article's title attached. approved narrows the list when non-nil.
func (s *CommentStore) List(page int, approved *bool) (Page[models.Comment], error) {
	page = normalizePage(page)

	where := "1=1"
	args := []any{}
	if approved != nil {
		args = append(args, *approved)
		where = fmt.Sprintf("c.approved = $%d", len(args))
	}

	var total int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM comments c WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return Page[models.Comment]{}, fmt.Errorf("count comments: %w", err)
	}

	args = append(args, commentsPerPage, (page-1)*commentsPerPage)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT c.id, c.article_id, c.name, c.email, c.comment, c.approved,
		       c.is_disabled, c.created_at, c.updated_at,
		       a.id, a.title, a.slug
		FROM comments c
		JOIN articles a ON a.id = c.article_id
		WHERE %s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return Page[models.Comment]{}, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		c.Article = &models.Article{}
		if err := rows.Scan(
			&c.ID, &c.ArticleID, &c.Name, &c.Email, &c.Comment, &c.Approved,
			&c.IsDisabled, &c.CreatedAt, &c.UpdatedAt,
			&c.Article.ID, &c.Article.Title, &c.Article.Slug,
		); err != nil {
			return Page[models.Comment]{}, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return Page[models.Comment]{}, err
	}
	return newPage(items, page, commentsPerPage, total), nil
}

// FindByID retrieves a comment by UUID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRow(`
		SELECT id, article_id, name, email, comment, approved, is_disabled,
		       created_at, updated_at
		FROM comments WHERE id = $1
	`, id).Scan(
		&c.ID, &c.ArticleID, &c.Name, &c.Email, &c.Comment,
		&c.Approved, &c.IsDisabled, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Approve marks a comment approved so it appears on the public article.
// Returns false if the comment does not exist.
func (s *CommentStore) Approve(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE comments SET approved = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("approve comment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a comment. Returns false if the comment does not exist.
func (s *CommentStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec("DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CountPending returns the number of comments awaiting moderation.
func (s *CommentStore) CountPending() (int64, error) {
	var n int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM comments WHERE approved = FALSE AND is_disabled = FALSE",
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending comments: %w", err)
	}
	return n, nil
}
