// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestCacheLogRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)

	entityID := uuid.New()
	t.Cleanup(func() { db.Exec("DELETE FROM cache_log WHERE entity_id = $1", entityID) })

	s.Log("article", entityID, "update")
	s.Log("article", entityID, "delete")

	entries, err := s.RecentEntries(50)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}

	var actions []string
	for _, e := range entries {
		if e.EntityID == entityID {
			actions = append(actions, e.Action)
		}
	}
	if len(actions) != 2 {
		t.Fatalf("entries: got %d, want 2", len(actions))
	}
	// Newest first.
	if actions[0] != "delete" || actions[1] != "update" {
		t.Errorf("ordering: got %v, want [delete update]", actions)
	}
}

func TestCacheLogRecentEntriesLimit(t *testing.T) {
	db := testDB(t)
	s := NewCacheLogStore(db)

	entityID := uuid.New()
	t.Cleanup(func() { db.Exec("DELETE FROM cache_log WHERE entity_id = $1", entityID) })

	for i := 0; i < 5; i++ {
		s.Log("post", entityID, "update")
	}

	entries, err := s.RecentEntries(3)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	if len(entries) > 3 {
		t.Errorf("limit ignored: got %d entries", len(entries))
	}
}
