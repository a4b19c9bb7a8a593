// Copyright (c) 2025 Vlah Software House. All rights reserved.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Page sizes match what the admin and public SPAs render per screen.
const (
	adminArticlesPerPage    = 5
	publicArticlesPerPage   = 10
	categoryArticlesPerPage = 5
	relatedArticlesLimit    = 4
)

// ErrCategoryMissing is returned when an article references a category
// that does not exist.
var ErrCategoryMissing = errors.New("category does not exist")

// ArticleStore handles all article-related database operations, including
// the category join table and soft deletion.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `a.id, a.title, a.slug, a.content, a.image, a.status,
		       a.user_id, a.created_at, a.updated_at, u.id, u.name`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{Author: &models.Author{}}
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Image, &a.Status,
		&a.UserID, &a.CreatedAt, &a.UpdatedAt, &a.Author.ID, &a.Author.Name,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns a page of non-deleted articles for the admin, newest first.
// q filters by title substring and status narrows to draft or published;
// either may be empty.
func (s *ArticleStore) List(page int, q, status string) (Page[models.Article], error) {
	page = normalizePage(page)

	where := []string{"a.deleted_at IS NULL"}
	args := []any{}
	if q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("a.title ILIKE $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM articles a WHERE "+cond, args...,
	).Scan(&total)
	if err != nil {
		return Page[models.Article]{}, fmt.Errorf("count articles: %w", err)
	}

	args = append(args, adminArticlesPerPage, (page-1)*adminArticlesPerPage)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, articleColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return Page[models.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	items, err := s.collect(rows)
	if err != nil {
		return Page[models.Article]{}, err
	}
	return newPage(items, page, adminArticlesPerPage, total), nil
}

// ListPublished returns a page of published articles for the public site,
// newest first, optionally filtered by title substring.
func (s *ArticleStore) ListPublished(page int, q string) (Page[models.Article], error) {
	page = normalizePage(page)

	where := "a.deleted_at IS NULL AND a.status = 'published'"
	args := []any{}
	if q != "" {
		args = append(args, "%"+q+"%")
		where += fmt.Sprintf(" AND a.title ILIKE $%d", len(args))
	}

	var total int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM articles a WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return Page[models.Article]{}, fmt.Errorf("count published articles: %w", err)
	}

	args = append(args, publicArticlesPerPage, (page-1)*publicArticlesPerPage)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, articleColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return Page[models.Article]{}, fmt.Errorf("list published articles: %w", err)
	}
	defer rows.Close()

	items, err := s.collect(rows)
	if err != nil {
		return Page[models.Article]{}, err
	}
	return newPage(items, page, publicArticlesPerPage, total), nil
}

// FindByID retrieves a non-deleted article of any status, with its author
// and categories. Returns nil if not found. Used by the admin.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.Article, error) {
	return s.findOne("a.id = $1 AND a.deleted_at IS NULL", id)
}

// FindPublished retrieves a published article with its author, categories,
// and visible comments. Returns nil if not found. Used by the public site.
func (s *ArticleStore) FindPublished(id uuid.UUID) (*models.Article, error) {
	a, err := s.findOne("a.id = $1 AND a.deleted_at IS NULL AND a.status = 'published'", id)
	if err != nil || a == nil {
		return a, err
	}

	rows, err := s.db.Query(`
		SELECT id, article_id, name, email, comment, approved, is_disabled,
		       created_at, updated_at
		FROM comments
		WHERE article_id = $1 AND approved = TRUE AND is_disabled = FALSE
		ORDER BY created_at DESC
	`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("article comments: %w", err)
	}
	defer rows.Close()

	a.Comments = []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.ArticleID, &c.Name, &c.Email, &c.Comment,
			&c.Approved, &c.IsDisabled, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		a.Comments = append(a.Comments, c)
	}
	return a, rows.Err()
}

func (s *ArticleStore) findOne(cond string, args ...any) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.user_id
		WHERE %s
	`, articleColumns, cond), args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	if err := s.attachCategories([]*models.Article{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByCategory returns a page of the category's published articles,
// newest first.
func (s *ArticleStore) ListByCategory(categoryID uuid.UUID, page int) (Page[models.Article], error) {
	page = normalizePage(page)

	var total int64
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM articles a
		JOIN article_category ac ON ac.article_id = a.id
		WHERE ac.category_id = $1 AND a.deleted_at IS NULL AND a.status = 'published'
	`, categoryID).Scan(&total)
	if err != nil {
		return Page[models.Article]{}, fmt.Errorf("count category articles: %w", err)
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.user_id
		JOIN article_category ac ON ac.article_id = a.id
		WHERE ac.category_id = $1 AND a.deleted_at IS NULL AND a.status = 'published'
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3
	`, articleColumns), categoryID, categoryArticlesPerPage, (page-1)*categoryArticlesPerPage)
	if err != nil {
		return Page[models.Article]{}, fmt.Errorf("list category articles: %w", err)
	}
	defer rows.Close()

	items, err := s.collect(rows)
	if err != nil {
		return Page[models.Article]{}, err
	}
	return newPage(items, page, categoryArticlesPerPage, total), nil
}

// Related returns up to four published articles that share a category
// with the given article, newest first.
func (s *ArticleStore) Related(id uuid.UUID) ([]models.Article, error) {
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM articles a
		JOIN users u ON u.id = a.user_id
		JOIN article_category ac ON ac.article_id = a.id
		WHERE ac.category_id IN (
			SELECT category_id FROM article_category WHERE article_id = $1
		)
		AND a.id <> $1 AND a.deleted_at IS NULL AND a.status = 'published'
		ORDER BY a.created_at DESC
		LIMIT $2
	`, articleColumns), id, relatedArticlesLimit)
	if err != nil {
		return nil, fmt.Errorf("related articles: %w", err)
	}
	defer rows.Close()
	return s.collect(rows)
}

// Create inserts an article and attaches its categories in one
// transaction. Returns ErrCategoryMissing if any category id is unknown.
func (s *ArticleStore) Create(a *models.Article, categoryIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin create article: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO articles (title, slug, content, image, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.Title, a.Slug, a.Content, a.Image, a.Status, a.UserID).Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	if err := syncCategories(tx, a.ID, categoryIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites an article's fields and replaces its category set in
// one transaction. Returns false if the article does not exist.
func (s *ArticleStore) Update(a *models.Article, categoryIDs []uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin update article: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE articles
		SET title = $1, slug = $2, content = $3, image = $4, status = $5,
		    updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`, a.Title, a.Slug, a.Content, a.Image, a.Status, a.ID)
	if err != nil {
		return false, fmt.Errorf("update article: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.Exec("DELETE FROM article_category WHERE article_id = $1", a.ID); err != nil {
		return false, fmt.Errorf("clear article categories: %w", err)
	}
	if err := syncCategories(tx, a.ID, categoryIDs); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// syncCategories inserts join rows, verifying each category exists.
func syncCategories(tx *sql.Tx, articleID uuid.UUID, categoryIDs []uuid.UUID) error {
	for _, catID := range categoryIDs {
		res, err := tx.Exec(`
			INSERT INTO article_category (article_id, category_id)
			SELECT $1, id FROM categories WHERE id = $2
			ON CONFLICT DO NOTHING
		`, articleID, catID)
		if err != nil {
			return fmt.Errorf("attach category: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Zero rows means the category id resolved to nothing.
			var exists bool
			if err := tx.QueryRow(
				"SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)", catID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("check category: %w", err)
			}
			if !exists {
				return ErrCategoryMissing
			}
		}
	}
	return nil
}

// SoftDelete marks an article deleted without removing the row. Returns
// false if the article does not exist or is already deleted.
func (s *ArticleStore) SoftDelete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE articles SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("soft delete article: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// TogglePublish flips an article between draft and published and returns
// the updated record. Returns nil if the article does not exist.
func (s *ArticleStore) TogglePublish(id uuid.UUID) (*models.Article, error) {
	var newStatus models.ArticleStatus
	err := s.db.QueryRow(`
		UPDATE articles
		SET status = CASE WHEN status = 'published' THEN 'draft' ELSE 'published' END,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING status
	`, id).Scan(&newStatus)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("toggle publish: %w", err)
	}
	return s.FindByID(id)
}

// SlugTaken reports whether a slug is already used by another article.
// Pass uuid.Nil for exclude when creating.
func (s *ArticleStore) SlugTaken(slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)
	`, slug, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// CountAll returns the number of non-deleted articles.
func (s *ArticleStore) CountAll() (int64, error) {
	var n int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM articles WHERE deleted_at IS NULL",
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// CountByStatus returns the number of non-deleted articles in the given
// status.
func (s *ArticleStore) CountByStatus(status models.ArticleStatus) (int64, error) {
	var n int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM articles WHERE status = $1 AND deleted_at IS NULL",
		status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count articles by status: %w", err)
	}
	return n, nil
}

// collect drains article rows and batch-loads categories for them.
func (s *ArticleStore) collect(rows *sql.Rows) ([]models.Article, error) {
	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Article, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := s.attachCategories(ptrs); err != nil {
		return nil, err
	}
	return items, nil
}

// attachCategories loads the category relation for a batch of articles.
func (s *ArticleStore) attachCategories(articles []*models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	placeholders := make([]string, len(articles))
	args := make([]any, len(articles))
	byID := make(map[uuid.UUID]*models.Article, len(articles))
	for i, a := range articles {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = a.ID
		byID[a.ID] = a
		a.Categories = []models.Category{}
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT ac.article_id, c.id, c.name, c.slug, c.created_at, c.updated_at
		FROM article_category ac
		JOIN categories c ON c.id = ac.category_id
		WHERE ac.article_id IN (%s)
		ORDER BY c.name ASC
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return fmt.Errorf("load article categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID uuid.UUID
		var c models.Category
		if err := rows.Scan(&articleID, &c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan article category: %w", err)
		}
		if a, ok := byID[articleID]; ok {
			a.Categories = append(a.Categories, c)
		}
	}
	return rows.Err()
}
