// Copyright (c) 2025 Vlah Software House. All rights reserved.

// Package policy centralizes authorization rules for article management.
package policy

import (
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/token"
)

// CanViewArticles reports whether the user may list articles in the admin.
func CanViewArticles(data *token.Data) bool {
	return isAdmin(data)
}

// CanCreateArticle reports whether the user may create articles.
func CanCreateArticle(data *token.Data) bool {
	return isAdmin(data)
}

// CanUpdateArticle reports whether the user may edit the given article.
// Admins may edit any article; editors only their own.
func CanUpdateArticle(data *token.Data, authorID uuid.UUID) bool {
	if data == nil {
		return false
	}
	if isAdmin(data) {
		return true
	}
	return data.UserID == authorID
}

// CanDeleteArticle reports whether the user may delete articles.
// Deletion is reserved for super admins.
func CanDeleteArticle(data *token.Data) bool {
	return data != nil && data.Role == models.RoleSuperAdmin
}

func isAdmin(data *token.Data) bool {
	if data == nil {
		return false
	}
	return data.Role == models.RoleAdmin || data.Role == models.RoleSuperAdmin
}
