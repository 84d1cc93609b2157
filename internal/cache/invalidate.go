// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// invalidate.go implements the invalidation hook fired at the end of
// every successful content mutation. Purges are scoped by kind, category,
// and tag so unrelated list caches survive a change. Delivery is
// fire-and-forget: a dead cache backend means stale pages, never a
// failed request.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"manassa/internal/models"
	"manassa/internal/store"
)

// DetailKey is the cache key for one content item's detail payload.
func DetailKey(kind models.ContentKind, slug string) string {
	return fmt.Sprintf("detail:%s:%s", kind, slug)
}

// ListKey is the cache key for an unfiltered list page of a kind.
func ListKey(kind models.ContentKind, page int) string {
	return fmt.Sprintf("list:%s:page:%d", kind, page)
}

// FeaturedListKey is the cache key for a featured list page of a kind.
func FeaturedListKey(kind models.ContentKind, page int) string {
	return fmt.Sprintf("list:%s:featured:%d", kind, page)
}

// CategoryListKey is the cache key for a category-scoped list page.
func CategoryListKey(kind models.ContentKind, categorySlug string, page int) string {
	return fmt.Sprintf("list:%s:category:%s:%d", kind, categorySlug, page)
}

// TagListKey is the cache key for a tag-scoped list page.
func TagListKey(kind models.ContentKind, tag string, page int) string {
	return fmt.Sprintf("list:%s:tag:%s:%d", kind, tag, page)
}

// Invalidator clears derived response caches when a content item or its
// children change, and records each event in the audit log.
type Invalidator struct {
	responses *ResponseCache
	auditLog  *store.CacheLogStore
}

// NewInvalidator wires the invalidation hook to the response cache and
// the audit log store.
func NewInvalidator(responses *ResponseCache, auditLog *store.CacheLogStore) *Invalidator {
	return &Invalidator{responses: responses, auditLog: auditLog}
}

// OnRecordChanged invalidates the caches derived from one content item:
// its detail payload, the unfiltered and featured list families of its
// kind, and the list families of its category and tags. The action
// string (create/update/delete/publish) goes to the audit log.
func (inv *Invalidator) OnRecordChanged(ctx context.Context, c *models.Content, action string) {
	inv.responses.Delete(ctx, DetailKey(c.Kind, c.Slug))

	purged := inv.responses.DeletePattern(ctx, fmt.Sprintf("list:%s:page:*", c.Kind))
	purged += inv.responses.DeletePattern(ctx, fmt.Sprintf("list:%s:featured:*", c.Kind))

	if c.CategoryID != nil {
		// Category lists are keyed by slug, which the record does not
		// carry; purge every category family of this kind.
		purged += inv.responses.DeletePattern(ctx, fmt.Sprintf("list:%s:category:*", c.Kind))
	}
	for _, tag := range c.TagList() {
		purged += inv.responses.DeletePattern(ctx, fmt.Sprintf("list:%s:tag:%s:*", c.Kind, tag))
	}

	inv.auditLog.Log(string(c.Kind), c.ID, action)
	slog.Debug("content caches invalidated",
		"kind", c.Kind,
		"id", c.ID,
		"action", action,
		"purged", purged,
	)
}

// OnCommentChanged invalidates the detail payload that embeds the
// comment tree of the given content item.
func (inv *Invalidator) OnCommentChanged(ctx context.Context, c *models.Content, action string) {
	inv.responses.Delete(ctx, DetailKey(c.Kind, c.Slug))
	inv.auditLog.Log("comment", c.ID, action)
}

// OnAdChanged invalidates the cached ad rotation for a placement.
func (inv *Invalidator) OnAdChanged(ctx context.Context, adID uuid.UUID, placement models.AdPlacement, action string) {
	inv.responses.Delete(ctx, fmt.Sprintf("ads:%s", placement))
	inv.auditLog.Log("advertisement", adID, action)
}
