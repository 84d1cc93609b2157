// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a starter set of categories. It is idempotent: tables
// that already hold rows are left alone. The admin is prompted to set
// up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var users int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if users == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}

		_, err = db.Exec(`
			INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
			VALUES ($1, $2, $3, $4, $5)
		`, "admin@manassa.local", string(hash), "Admin", "admin", false)
		if err != nil {
			return fmt.Errorf("seed insert admin: %w", err)
		}

		slog.Info("database seeded with default admin user",
			"email", "admin@manassa.local",
			"password", "admin",
		)
	}

	var categories int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&categories); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if categories == 0 {
		seedCats := []struct {
			name, slug string
			order      int
		}{
			{"News", "news", 0},
			{"Education", "education", 1},
			{"Technology", "technology", 2},
		}
		for _, c := range seedCats {
			if _, err := db.Exec(`
				INSERT INTO categories (name, slug, sort_order) VALUES ($1, $2, $3)
			`, c.name, c.slug, c.order); err != nil {
				return fmt.Errorf("seed insert category %s: %w", c.slug, err)
			}
		}
		slog.Info("database seeded with starter categories", "count", len(seedCats))
	}

	return nil
}
