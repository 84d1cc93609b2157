// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"manassa/internal/models"
)

// AdStore manages advertisements in the database.
type AdStore struct {
	db *sql.DB
}

// NewAdStore returns a new AdStore.
func NewAdStore(db *sql.DB) *AdStore {
	return &AdStore{db: db}
}

const adColumns = `id, title, placement, image_url, html, link_url,
	start_at, end_at, is_active, created_at, updated_at`

// scanAd scans one advertisement row.
func scanAd(scanner interface{ Scan(...any) error }) (*models.Advertisement, error) {
	var a models.Advertisement
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Placement, &a.ImageURL, &a.HTML, &a.LinkURL,
		&a.StartAt, &a.EndAt, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListLive returns the ads servable into a placement at the given
// instant: active and inside their start/end window.
func (s *AdStore) ListLive(placement models.AdPlacement, now time.Time) ([]models.Advertisement, error) {
	rows, err := s.db.Query(`
		SELECT `+adColumns+`
		FROM advertisements
		WHERE placement = $1 AND is_active AND start_at <= $2 AND end_at >= $2
		ORDER BY start_at DESC
	`, placement, now)
	if err != nil {
		return nil, fmt.Errorf("list live ads: %w", err)
	}
	defer rows.Close()

	var items []models.Advertisement
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// List returns all advertisements, newest window first.
func (s *AdStore) List() ([]models.Advertisement, error) {
	rows, err := s.db.Query(`SELECT ` + adColumns + ` FROM advertisements ORDER BY start_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	var items []models.Advertisement
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves an advertisement by ID. Returns nil if not found.
func (s *AdStore) FindByID(id uuid.UUID) (*models.Advertisement, error) {
	row := s.db.QueryRow(`SELECT `+adColumns+` FROM advertisements WHERE id = $1`, id)
	a, err := scanAd(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ad by id: %w", err)
	}
	return a, nil
}

// Create inserts a new advertisement and returns it.
func (s *AdStore) Create(a *models.Advertisement) (*models.Advertisement, error) {
	row := s.db.QueryRow(`
		INSERT INTO advertisements (title, placement, image_url, html, link_url,
			start_at, end_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+adColumns,
		a.Title, a.Placement, a.ImageURL, a.HTML, a.LinkURL,
		a.StartAt, a.EndAt, a.IsActive,
	)
	result, err := scanAd(row)
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	return result, nil
}

// Update modifies an existing advertisement.
func (s *AdStore) Update(a *models.Advertisement) error {
	_, err := s.db.Exec(`
		UPDATE advertisements SET
			title = $1, placement = $2, image_url = $3, html = $4,
			link_url = $5, start_at = $6, end_at = $7, is_active = $8,
			updated_at = NOW()
		WHERE id = $9
	`, a.Title, a.Placement, a.ImageURL, a.HTML,
		a.LinkURL, a.StartAt, a.EndAt, a.IsActive, a.ID)
	if err != nil {
		return fmt.Errorf("update ad: %w", err)
	}
	return nil
}

// Delete removes an advertisement and its engagement counters.
func (s *AdStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete ad: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM counters WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("delete ad counters: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM advertisements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	return tx.Commit()
}
