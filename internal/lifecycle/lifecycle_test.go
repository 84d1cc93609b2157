// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"errors"
	"testing"
	"time"

	"manassa/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

// TestVisible verifies the visibility decision across status and window
// combinations. Visibility requires published status; a future publish
// time hides the item regardless of status.
func TestVisible(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)
	tomorrow := testNow.Add(24 * time.Hour)

	tests := []struct {
		name      string
		status    models.ContentStatus
		publishAt *time.Time
		expireAt  *time.Time
		want      bool
	}{
		{name: "published, no window", status: models.StatusPublished, want: true},
		{name: "published, publish passed", status: models.StatusPublished, publishAt: &yesterday, want: true},
		{name: "published, publish in future", status: models.StatusPublished, publishAt: &tomorrow, want: false},
		{name: "published, expired", status: models.StatusPublished, publishAt: timePtr(testNow.Add(-48 * time.Hour)), expireAt: &yesterday, want: false},
		{name: "published, expires exactly now", status: models.StatusPublished, expireAt: &testNow, want: false},
		{name: "published, expires later", status: models.StatusPublished, expireAt: &tomorrow, want: true},
		{name: "published, publishes exactly now", status: models.StatusPublished, publishAt: &testNow, want: true},
		{name: "draft never visible", status: models.StatusDraft, publishAt: &yesterday, want: false},
		{name: "review never visible", status: models.StatusReview, want: false},
		{name: "private never visible", status: models.StatusPrivate, want: false},
		{name: "archived never visible", status: models.StatusArchived, publishAt: &yesterday, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Content{Status: tt.status, PublishAt: tt.publishAt, ExpireAt: tt.expireAt}
			if got := Visible(c, testNow); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestVisibleImpliesPublished checks the necessary condition: whenever
// Visible returns true, the status is published.
func TestVisibleImpliesPublished(t *testing.T) {
	statuses := []models.ContentStatus{
		models.StatusDraft, models.StatusReview, models.StatusPublished,
		models.StatusPrivate, models.StatusArchived,
	}
	for _, s := range statuses {
		c := &models.Content{Status: s}
		if Visible(c, testNow) && s != models.StatusPublished {
			t.Errorf("Visible() = true for status %q", s)
		}
	}
}

// TestReconcileScheduled covers the scheduled publish sweep: a draft
// whose publish time has passed becomes published with the publish time
// unchanged.
func TestReconcileScheduled(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)

	c := &models.Content{Status: models.StatusDraft, PublishAt: &yesterday}
	if !Reconcile(c, testNow) {
		t.Fatal("Reconcile() = false, want true")
	}
	if c.Status != models.StatusPublished {
		t.Errorf("status = %q, want published", c.Status)
	}
	if !c.PublishAt.Equal(yesterday) {
		t.Errorf("publish_at = %v, want unchanged %v", c.PublishAt, yesterday)
	}
}

// TestReconcileFutureSchedule verifies a future publish time leaves the
// draft untouched and invisible.
func TestReconcileFutureSchedule(t *testing.T) {
	tomorrow := testNow.Add(24 * time.Hour)

	c := &models.Content{Status: models.StatusDraft, PublishAt: &tomorrow}
	if Reconcile(c, testNow) {
		t.Fatal("Reconcile() = true for future schedule")
	}
	if c.Status != models.StatusDraft {
		t.Errorf("status = %q, want draft", c.Status)
	}
	if Visible(c, testNow) {
		t.Error("Visible() = true for unpublished draft")
	}
}

// TestReconcileIdempotent verifies reconciling twice at the same instant
// equals reconciling once.
func TestReconcileIdempotent(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)

	c := &models.Content{Status: models.StatusReview, PublishAt: &yesterday}
	Reconcile(c, testNow)
	first := *c

	if Reconcile(c, testNow) {
		t.Error("second Reconcile() reported a change")
	}
	if *c != first {
		t.Errorf("second Reconcile() mutated the record: %+v != %+v", *c, first)
	}
}

// TestReconcileNoSchedule verifies items without a publish time are
// never auto-published.
func TestReconcileNoSchedule(t *testing.T) {
	c := &models.Content{Status: models.StatusDraft}
	if Reconcile(c, testNow) {
		t.Error("Reconcile() published a draft with no schedule")
	}
}

// TestTransitionTable exercises the allowed and rejected moves of the
// status state machine.
func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to models.ContentStatus
		ok       bool
	}{
		{models.StatusDraft, models.StatusReview, true},
		{models.StatusDraft, models.StatusPublished, true},
		{models.StatusReview, models.StatusPublished, true},
		{models.StatusPublished, models.StatusArchived, true},
		{models.StatusPublished, models.StatusPrivate, true},
		{models.StatusPublished, models.StatusDraft, true},
		{models.StatusPrivate, models.StatusDraft, true},
		{models.StatusArchived, models.StatusDraft, true},
		{models.StatusDraft, models.StatusDraft, true}, // no-op
		{models.StatusArchived, models.StatusPublished, false},
		{models.StatusArchived, models.StatusReview, false},
		{models.StatusDraft, models.StatusArchived, false},
		{models.StatusDraft, models.StatusPrivate, false},
		{models.StatusReview, models.StatusArchived, false},
		{models.StatusPrivate, models.StatusPublished, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.ok {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

// TestTransitionAutoStampsPublishAt verifies the first move into
// published sets PublishAt, and that an already-set schedule is kept.
func TestTransitionAutoStampsPublishAt(t *testing.T) {
	c := &models.Content{Status: models.StatusDraft}
	if err := Transition(c, models.StatusPublished, testNow); err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if c.PublishAt == nil || !c.PublishAt.Equal(testNow) {
		t.Errorf("publish_at = %v, want %v", c.PublishAt, testNow)
	}

	scheduled := testNow.Add(-2 * time.Hour)
	c2 := &models.Content{Status: models.StatusReview, PublishAt: &scheduled}
	if err := Transition(c2, models.StatusPublished, testNow); err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if !c2.PublishAt.Equal(scheduled) {
		t.Errorf("publish_at = %v, want preserved %v", c2.PublishAt, scheduled)
	}
}

// TestTransitionRejected verifies an invalid move returns a typed error
// naming both states and leaves the record unchanged.
func TestTransitionRejected(t *testing.T) {
	c := &models.Content{Status: models.StatusArchived}
	err := Transition(c, models.StatusPublished, testNow)

	var terr *InvalidTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("Transition() error = %v, want InvalidTransitionError", err)
	}
	if terr.From != models.StatusArchived || terr.To != models.StatusPublished {
		t.Errorf("error states = %q -> %q", terr.From, terr.To)
	}
	if c.Status != models.StatusArchived || c.PublishAt != nil {
		t.Error("record mutated by rejected transition")
	}
}

// TestValidateWindow verifies the expiry-before-publish rejection.
func TestValidateWindow(t *testing.T) {
	earlier := testNow.Add(-time.Hour)

	if verr := ValidateWindow(&testNow, &earlier); verr == nil {
		t.Error("ValidateWindow() accepted expire_at before publish_at")
	}
	if verr := ValidateWindow(&testNow, &testNow); verr == nil {
		t.Error("ValidateWindow() accepted expire_at equal to publish_at")
	}
	if verr := ValidateWindow(&earlier, &testNow); verr != nil {
		t.Errorf("ValidateWindow() rejected a valid window: %v", verr)
	}
	if verr := ValidateWindow(nil, &testNow); verr != nil {
		t.Errorf("ValidateWindow() rejected expiry without publish time: %v", verr)
	}
	if verr := ValidateWindow(&testNow, nil); verr != nil {
		t.Errorf("ValidateWindow() rejected open-ended window: %v", verr)
	}
}
