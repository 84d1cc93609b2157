// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"manassa/internal/models"
)

func TestRatingUpsertReplacesValue(t *testing.T) {
	db := testDB(t)
	ratings := NewRatingStore(db)
	users := NewUserStore(db)

	content := seedContent(t, db, models.KindCourse, "rating-test-upsert", models.StatusPublished)

	user, err := users.Create("rater@manassa.local", "a-long-password", "Rater", models.RoleAuthor)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, "rater@manassa.local") })

	first, err := ratings.Upsert(content.ID, user.ID, 3)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.Value != 3 {
		t.Errorf("value: got %d, want 3", first.Value)
	}

	// Re-rating replaces, it does not add a second row.
	second, err := ratings.Upsert(content.ID, user.ID, 5)
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if second.ID != first.ID {
		t.Error("re-rating created a new row")
	}

	sum, err := ratings.Summary(content.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Count != 1 {
		t.Errorf("count: got %d, want 1", sum.Count)
	}
	if sum.Average != 5 {
		t.Errorf("average: got %v, want 5", sum.Average)
	}
}

func TestRatingSummaryEmpty(t *testing.T) {
	db := testDB(t)
	ratings := NewRatingStore(db)

	content := seedContent(t, db, models.KindBook, "rating-test-empty", models.StatusPublished)

	sum, err := ratings.Summary(content.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Count != 0 || sum.Average != 0 {
		t.Errorf("empty summary: got avg=%v count=%d, want zeros", sum.Average, sum.Count)
	}
}
