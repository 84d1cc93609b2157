// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"
	"time"

	"manassa/internal/models"
)

func seedAd(t *testing.T, s *AdStore, title string, placement models.AdPlacement, start, end time.Time, active bool) *models.Advertisement {
	t.Helper()
	ad, err := s.Create(&models.Advertisement{
		Title:     title,
		Placement: placement,
		LinkURL:   "https://example.net/go",
		StartAt:   start,
		EndAt:     end,
		IsActive:  active,
	})
	if err != nil {
		t.Fatalf("create ad %q: %v", title, err)
	}
	t.Cleanup(func() { s.Delete(ad.ID) })
	return ad
}

func TestAdListLiveWindow(t *testing.T) {
	db := testDB(t)
	s := NewAdStore(db)
	now := time.Now()

	live := seedAd(t, s, "ad-test-live", models.PlacementSidebar, now.Add(-time.Hour), now.Add(time.Hour), true)
	seedAd(t, s, "ad-test-ended", models.PlacementSidebar, now.Add(-2*time.Hour), now.Add(-time.Hour), true)
	seedAd(t, s, "ad-test-inactive", models.PlacementSidebar, now.Add(-time.Hour), now.Add(time.Hour), false)
	seedAd(t, s, "ad-test-elsewhere", models.PlacementFooter, now.Add(-time.Hour), now.Add(time.Hour), true)

	items, err := s.ListLive(models.PlacementSidebar, now)
	if err != nil {
		t.Fatalf("ListLive: %v", err)
	}

	var found bool
	for _, a := range items {
		switch a.Title {
		case "ad-test-live":
			if a.ID != live.ID {
				t.Errorf("live ad ID = %s, want %s", a.ID, live.ID)
			}
			found = true
		case "ad-test-ended", "ad-test-inactive", "ad-test-elsewhere":
			t.Errorf("%s should not be served", a.Title)
		}
	}
	if !found {
		t.Error("live ad missing from rotation")
	}
}

func TestAdUpdate(t *testing.T) {
	db := testDB(t)
	s := NewAdStore(db)
	now := time.Now()

	ad := seedAd(t, s, "ad-test-update", models.PlacementHeader, now, now.Add(time.Hour), true)

	ad.Title = "ad-test-updated"
	ad.Placement = models.PlacementPopup
	if err := s.Update(ad); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByID(ad.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "ad-test-updated" || got.Placement != models.PlacementPopup {
		t.Errorf("update not persisted: got %q/%s", got.Title, got.Placement)
	}
}
