// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// counter.go implements the durable engagement counters. Increments are
// a single atomic upsert so concurrent requests never lose updates;
// there is no application-level read-modify-write and no decrement.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"manassa/internal/models"
)

// CounterStore handles engagement counter operations.
type CounterStore struct {
	db *sql.DB
}

// NewCounterStore creates a new CounterStore.
func NewCounterStore(db *sql.DB) *CounterStore {
	return &CounterStore{db: db}
}

// Increment atomically adds 1 to the counter for (subject, kind) and
// returns the new value. The upsert executes as one statement, so it is
// linearizable per key.
func (s *CounterStore) Increment(subjectID uuid.UUID, kind models.CounterKind) (int64, error) {
	var count int64
	err := s.db.QueryRow(`
		INSERT INTO counters (subject_id, kind, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (subject_id, kind)
		DO UPDATE SET count = counters.count + 1
		RETURNING count
	`, subjectID, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return count, nil
}

// Read returns the current count for (subject, kind). Unknown subjects
// read as zero, never as an error.
func (s *CounterStore) Read(subjectID uuid.UUID, kind models.CounterKind) (int64, error) {
	var count int64
	err := s.db.QueryRow(`
		SELECT count FROM counters WHERE subject_id = $1 AND kind = $2
	`, subjectID, kind).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return count, nil
}

// ReadAll returns every counter recorded for a subject.
func (s *CounterStore) ReadAll(subjectID uuid.UUID) ([]models.Counter, error) {
	rows, err := s.db.Query(`
		SELECT subject_id, kind, count FROM counters WHERE subject_id = $1 ORDER BY kind
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}
	defer rows.Close()

	var items []models.Counter
	for rows.Next() {
		var c models.Counter
		if err := rows.Scan(&c.SubjectID, &c.Kind, &c.Count); err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
