// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package sweep publishes scheduled content in the background. The
// publication rules live in the lifecycle package; the sweep only makes
// due schedules converge to published without waiting for a reader to
// hit the record.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"manassa/internal/cache"
	"manassa/internal/lifecycle"
	"manassa/internal/models"
	"manassa/internal/notify"
	"manassa/internal/store"
)

// batchSize caps the records handled per tick. Leftovers are picked up
// on the next tick.
const batchSize = 200

// Sweeper runs the scheduled-publish pass on a cron schedule.
type Sweeper struct {
	contents    *store.ContentStore
	users       *store.UserStore
	invalidator *cache.Invalidator
	mailer      *notify.Mailer
	cron        *cron.Cron
}

func NewSweeper(contents *store.ContentStore, users *store.UserStore, invalidator *cache.Invalidator, mailer *notify.Mailer) *Sweeper {
	return &Sweeper{
		contents:    contents,
		users:       users,
		invalidator: invalidator,
		mailer:      mailer,
		cron:        cron.New(),
	}
}

// Start registers the sweep at the given cron spec (e.g. "* * * * *")
// and launches the scheduler.
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		s.Run(context.Background(), time.Now())
	}); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("scheduled-publish sweep started", "spec", spec)
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Run executes one sweep pass: every draft or review item whose
// schedule is due is moved to published. The pass is idempotent; a
// record already moved by a concurrent request or an earlier pass is
// skipped without error.
func (s *Sweeper) Run(ctx context.Context, now time.Time) {
	due, err := s.contents.ListDue(now, batchSize)
	if err != nil {
		slog.Error("sweep: failed to list due content", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	published := 0
	for i := range due {
		c := &due[i]
		from := c.Status
		if !lifecycle.Reconcile(c, now) {
			continue
		}
		moved, err := s.contents.UpdateStatus(c.ID, from, models.StatusPublished, c.PublishAt)
		if err != nil {
			slog.Error("sweep: failed to publish", "content_id", c.ID, "error", err)
			continue
		}
		if !moved {
			// Lost the compare-and-set; the record is already published.
			continue
		}
		published++
		slog.Info("sweep: published scheduled content",
			"content_id", c.ID, "kind", c.Kind, "slug", c.Slug)

		s.invalidator.OnRecordChanged(ctx, c, "scheduled-publish")
		s.notifyAuthor(ctx, c)
	}

	if published > 0 {
		slog.Info("sweep pass complete", "due", len(due), "published", published)
	}
}

func (s *Sweeper) notifyAuthor(ctx context.Context, c *models.Content) {
	if s.mailer == nil || c.AuthorID == nil {
		return
	}
	author, err := s.users.FindByID(*c.AuthorID)
	if err != nil || author == nil {
		slog.Warn("sweep: author lookup failed", "content_id", c.ID, "error", err)
		return
	}
	s.mailer.RecordPublished(ctx, c, author.Email)
}
