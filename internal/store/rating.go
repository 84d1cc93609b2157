// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"manassa/internal/models"
)

// RatingStore manages per-user content ratings.
type RatingStore struct {
	db *sql.DB
}

// NewRatingStore returns a new RatingStore.
func NewRatingStore(db *sql.DB) *RatingStore {
	return &RatingStore{db: db}
}

// Upsert records a user's rating for a content item, replacing any
// previous value. Returns the stored rating.
func (s *RatingStore) Upsert(contentID, userID uuid.UUID, value int) (*models.Rating, error) {
	var r models.Rating
	err := s.db.QueryRow(`
		INSERT INTO ratings (content_id, user_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (content_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING id, content_id, user_id, value, created_at, updated_at
	`, contentID, userID, value).Scan(
		&r.ID, &r.ContentID, &r.UserID, &r.Value, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}
	return &r, nil
}

// FindByUser returns a user's rating for a content item. Returns nil if
// the user has not rated it.
func (s *RatingStore) FindByUser(contentID, userID uuid.UUID) (*models.Rating, error) {
	var r models.Rating
	err := s.db.QueryRow(`
		SELECT id, content_id, user_id, value, created_at, updated_at
		FROM ratings WHERE content_id = $1 AND user_id = $2
	`, contentID, userID).Scan(
		&r.ID, &r.ContentID, &r.UserID, &r.Value, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &r, nil
}

// Summary returns the average and count of ratings for a content item.
// Unrated items summarize as zero average, zero count.
func (s *RatingStore) Summary(contentID uuid.UUID) (*models.RatingSummary, error) {
	sum := &models.RatingSummary{ContentID: contentID}
	err := s.db.QueryRow(`
		SELECT COALESCE(AVG(value), 0), COUNT(*)
		FROM ratings WHERE content_id = $1
	`, contentID).Scan(&sum.Average, &sum.Count)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	return sum, nil
}
