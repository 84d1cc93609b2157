// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// AdPlacement names the page slot an advertisement is served into.
type AdPlacement string

const (
	PlacementHeader       AdPlacement = "header"
	PlacementSidebar      AdPlacement = "sidebar"
	PlacementFooter       AdPlacement = "footer"
	PlacementBetweenPosts AdPlacement = "between_posts"
	PlacementPopup        AdPlacement = "popup"
	PlacementInContent    AdPlacement = "in_content"
)

// ValidPlacement reports whether the given string names a known placement.
func ValidPlacement(s string) bool {
	switch AdPlacement(s) {
	case PlacementHeader, PlacementSidebar, PlacementFooter,
		PlacementBetweenPosts, PlacementPopup, PlacementInContent:
		return true
	}
	return false
}

// Advertisement is a time-windowed ad served into a placement slot.
// Impressions and clicks are tracked through the engagement counters,
// the same way content views are.
type Advertisement struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Placement AdPlacement `json:"placement"`
	ImageURL  *string     `json:"image_url,omitempty"`
	HTML      *string     `json:"html,omitempty"`
	LinkURL   string      `json:"link_url"`
	StartAt   time.Time   `json:"start_at"`
	EndAt     time.Time   `json:"end_at"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Live reports whether the ad may be served at the given instant:
// it is active and now falls inside its [StartAt, EndAt] window.
func (a *Advertisement) Live(now time.Time) bool {
	return a.IsActive && !now.Before(a.StartAt) && !now.After(a.EndAt)
}
