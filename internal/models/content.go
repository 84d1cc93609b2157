// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentKind distinguishes the publishable entity types that share the
// unified content table.
type ContentKind string

const (
	KindArticle     ContentKind = "article"
	KindPost        ContentKind = "post"
	KindPage        ContentKind = "page"
	KindCourse      ContentKind = "course"
	KindBook        ContentKind = "book"
	KindScholarship ContentKind = "scholarship"
)

// Kinds lists every supported content kind in stable order. The kind
// registry iterates this at startup.
func Kinds() []ContentKind {
	return []ContentKind{
		KindArticle, KindPost, KindPage,
		KindCourse, KindBook, KindScholarship,
	}
}

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusReview    ContentStatus = "review"
	StatusPublished ContentStatus = "published"
	StatusPrivate   ContentStatus = "private"
	StatusArchived  ContentStatus = "archived"
)

// Content represents one publishable unit: an article, blog post, page,
// course, book, or scholarship entry. All kinds share the same table,
// differentiated by the Kind field.
type Content struct {
	ID              uuid.UUID     `json:"id"`
	Kind            ContentKind   `json:"kind"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Body            string        `json:"body"`
	Excerpt         *string       `json:"excerpt,omitempty"`
	Status          ContentStatus `json:"status"`
	CategoryID      *uuid.UUID    `json:"category_id,omitempty"`
	Tags            *string       `json:"tags,omitempty"` // comma-separated
	SEOTitle        *string       `json:"seo_title,omitempty"`
	SEODescription  *string       `json:"seo_description,omitempty"`
	SEOKeywords     *string       `json:"seo_keywords,omitempty"`
	CanonicalURL    *string       `json:"canonical_url,omitempty"`
	FeaturedImageID *uuid.UUID    `json:"featured_image_id,omitempty"`
	AuthorID        *uuid.UUID    `json:"author_id,omitempty"` // NULLed when the author account is removed
	PublishAt       *time.Time    `json:"publish_at,omitempty"`
	ExpireAt        *time.Time    `json:"expire_at,omitempty"`
	AllowComments   bool          `json:"allow_comments"`
	IsFeatured      bool          `json:"is_featured"`
	ViewCount       int64         `json:"view_count"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// IsPublished returns true if the content item is in published status.
// A published item may still be outside its visibility window; see
// lifecycle.Visible for the full check.
func (c *Content) IsPublished() bool {
	return c.Status == StatusPublished
}

// DisplayTitle returns the SEO title when set, falling back to the title.
func (c *Content) DisplayTitle() string {
	if c.SEOTitle != nil && *c.SEOTitle != "" {
		return *c.SEOTitle
	}
	return c.Title
}

// DisplayDescription returns the SEO description, falling back to the
// excerpt, falling back to a prefix of the body.
func (c *Content) DisplayDescription() string {
	if c.SEODescription != nil && *c.SEODescription != "" {
		return *c.SEODescription
	}
	if c.Excerpt != nil && *c.Excerpt != "" {
		return *c.Excerpt
	}
	body := []rune(c.Body)
	if len(body) > 160 {
		return string(body[:160])
	}
	return c.Body
}

// TagList splits the comma-separated Tags field into trimmed, non-empty
// tag names. Returns nil when no tags are set.
func (c *Content) TagList() []string {
	if c.Tags == nil {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(*c.Tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ValidKind reports whether the given string names a supported content kind.
func ValidKind(s string) bool {
	for _, k := range Kinds() {
		if string(k) == s {
			return true
		}
	}
	return false
}
