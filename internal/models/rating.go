// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's 1-5 score for a content item. A user rates an
// item at most once; re-rating replaces the previous value.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	ContentID uuid.UUID `json:"content_id"`
	UserID    uuid.UUID `json:"user_id"`
	Value     int       `json:"value"` // 1..5
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary aggregates the ratings of one content item.
type RatingSummary struct {
	ContentID uuid.UUID `json:"content_id"`
	Average   float64   `json:"average"`
	Count     int       `json:"count"`
}
