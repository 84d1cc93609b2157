// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// cache_log.go records cache invalidation events in the database for
// audit and debugging. Each entry captures which entity changed, when,
// and why (create/update/delete/publish).
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records a cache invalidation event. Failures are logged and
// swallowed; audit logging never fails the primary operation.
func (s *CacheLogStore) Log(entityKind string, entityID uuid.UUID, action string) {
	_, err := s.db.Exec(`
		INSERT INTO cache_log (entity_kind, entity_id, action)
		VALUES ($1, $2, $3)
	`, entityKind, entityID, action)
	if err != nil {
		slog.Warn("failed to log cache invalidation",
			"entity_kind", entityKind,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"entity_kind", entityKind,
		"entity_id", entityID,
		"action", action,
	)
}

// CacheLogEntry represents a single cache invalidation event.
type CacheLogEntry struct {
	ID         uuid.UUID `json:"id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   uuid.UUID `json:"entity_id"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecentEntries returns the most recent cache invalidation events.
func (s *CacheLogStore) RecentEntries(limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, entity_kind, entity_id, action, created_at
		FROM cache_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.EntityKind, &e.EntityID, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
