// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package lifecycle implements the publication state machine shared by
// every content kind: draft, review, published, private, archived. It
// decides public visibility from the status and the optional
// publish/expire window, and performs the scheduled draft-to-published
// transition. All functions take the current time explicitly so callers
// can inject a clock in tests.
package lifecycle

import (
	"fmt"
	"time"

	"manassa/internal/models"
)

// InvalidTransitionError reports a rejected status change. It names both
// states so the caller can decide whether to retry with a different target.
type InvalidTransitionError struct {
	From models.ContentStatus
	To   models.ContentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects field-level failures found before any mutation.
// The record is left unchanged when one is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Reason)
	}
	return fmt.Sprintf("validation failed: %d fields", len(e.Fields))
}

// Add appends a field failure.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Empty reports whether no failures were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// transitions is the allowed status transition table. Any state may
// revert to draft; archived is otherwise terminal, and reactivation
// from archived to draft is restricted to admins at the handler layer.
var transitions = map[models.ContentStatus][]models.ContentStatus{
	models.StatusDraft:     {models.StatusReview, models.StatusPublished},
	models.StatusReview:    {models.StatusPublished, models.StatusDraft},
	models.StatusPublished: {models.StatusArchived, models.StatusPrivate, models.StatusDraft},
	models.StatusPrivate:   {models.StatusDraft},
	models.StatusArchived:  {models.StatusDraft},
}

// CanTransition reports whether moving from one status to another is
// allowed. A no-op transition (same status) is always allowed.
func CanTransition(from, to models.ContentStatus) bool {
	if from == to {
		return true
	}
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition applies a status change to the content item, auto-stamping
// PublishAt on the first move into published when it was never set.
// Returns an InvalidTransitionError for moves outside the table; the
// item is unchanged on error.
func Transition(c *models.Content, to models.ContentStatus, now time.Time) error {
	if !CanTransition(c.Status, to) {
		return &InvalidTransitionError{From: c.Status, To: to}
	}
	if to == models.StatusPublished && c.PublishAt == nil {
		t := now
		c.PublishAt = &t
	}
	c.Status = to
	return nil
}

// Visible reports whether the content item is publicly visible at the
// given instant: published, past its publish time (if any), and before
// its expiry (if any). Pure function; "not yet published" is a normal
// false return, never an error.
func Visible(c *models.Content, now time.Time) bool {
	if c.Status != models.StatusPublished {
		return false
	}
	if c.PublishAt != nil && c.PublishAt.After(now) {
		return false
	}
	if c.ExpireAt != nil && !c.ExpireAt.After(now) {
		return false
	}
	return true
}

// Reconcile performs the scheduled publish transition: a draft or
// review item whose PublishAt has passed becomes published. Returns
// true when the item changed, so the caller knows to persist it with a
// status-guarded write and fire the publish side effects. Idempotent: reconciling an already-published
// item, or one with no schedule, changes nothing.
func Reconcile(c *models.Content, now time.Time) bool {
	if c.Status != models.StatusDraft && c.Status != models.StatusReview {
		return false
	}
	if c.PublishAt == nil || c.PublishAt.After(now) {
		return false
	}
	c.Status = models.StatusPublished
	return true
}

// ValidateWindow checks the publish/expire window of a content item.
// An expiry at or before the publish time is rejected so the item can
// never be silently invisible. Called at create and update boundaries.
func ValidateWindow(publishAt, expireAt *time.Time) *ValidationError {
	verr := &ValidationError{}
	if expireAt != nil && publishAt != nil && !expireAt.After(*publishAt) {
		verr.Add("expire_at", "must be strictly after publish_at")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}
