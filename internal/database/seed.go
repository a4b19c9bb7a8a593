// Copyright (c) 2025 Vlah Software House. All rights reserved.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data. It creates a
// default super_admin user and a couple of starter categories if none exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, "Admin", "admin@inkwell.local", string(hash), "super_admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, cat := range []struct{ name, slug string }{
		{"News", "news"},
		{"Tutorials", "tutorials"},
	} {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO NOTHING
		`, cat.name, cat.slug); err != nil {
			return fmt.Errorf("seed insert category %s: %w", cat.slug, err)
		}
	}

	slog.Info("database seeded with default super_admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
