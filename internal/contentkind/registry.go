// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package contentkind maps each content kind tag to its editorial
// definition: labels, validation limits, and per-kind switches. The
// registry is resolved once at startup; handlers look kinds up by tag
// instead of branching on strings at every call site.
package contentkind

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"manassa/internal/lifecycle"
	"manassa/internal/models"
)

// Definition describes one content kind.
type Definition struct {
	Kind models.ContentKind

	// Label is the human-readable singular name.
	Label string

	// MaxTitleLen and MaxBodyLen bound the main text fields.
	MaxTitleLen int
	MaxBodyLen  int

	// CommentsDefault is the AllowComments value for new items.
	CommentsDefault bool

	// RequiresCategory rejects items of this kind without a category.
	RequiresCategory bool
}

// Validate checks a content item against the kind's limits, returning
// field-level failures. Window validation is included so every create
// and update path hits the expiry rule through one gate.
func (d *Definition) Validate(c *models.Content) *lifecycle.ValidationError {
	verr := &lifecycle.ValidationError{}

	if strings.TrimSpace(c.Title) == "" {
		verr.Add("title", "is required")
	} else if utf8.RuneCountInString(c.Title) > d.MaxTitleLen {
		verr.Add("title", fmt.Sprintf("is too long (max %d characters)", d.MaxTitleLen))
	}
	if utf8.RuneCountInString(c.Body) > d.MaxBodyLen {
		verr.Add("body", fmt.Sprintf("is too long (max %d characters)", d.MaxBodyLen))
	}
	if d.RequiresCategory && c.CategoryID == nil {
		verr.Add("category_id", "is required for "+d.Label)
	}
	if werr := lifecycle.ValidateWindow(c.PublishAt, c.ExpireAt); werr != nil {
		verr.Fields = append(verr.Fields, werr.Fields...)
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// Registry resolves kind tags to definitions.
type Registry struct {
	defs map[models.ContentKind]*Definition
}

// NewRegistry builds the registry with the platform's six kinds.
func NewRegistry() *Registry {
	defs := []*Definition{
		{Kind: models.KindArticle, Label: "article", MaxTitleLen: 300, MaxBodyLen: 100_000, CommentsDefault: true, RequiresCategory: true},
		{Kind: models.KindPost, Label: "blog post", MaxTitleLen: 300, MaxBodyLen: 100_000, CommentsDefault: true, RequiresCategory: true},
		{Kind: models.KindPage, Label: "page", MaxTitleLen: 300, MaxBodyLen: 500_000, CommentsDefault: false},
		{Kind: models.KindCourse, Label: "course", MaxTitleLen: 300, MaxBodyLen: 100_000, CommentsDefault: true, RequiresCategory: true},
		{Kind: models.KindBook, Label: "book", MaxTitleLen: 300, MaxBodyLen: 100_000, CommentsDefault: false},
		{Kind: models.KindScholarship, Label: "scholarship", MaxTitleLen: 300, MaxBodyLen: 100_000, CommentsDefault: false},
	}

	r := &Registry{defs: make(map[models.ContentKind]*Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.Kind] = d
	}
	return r
}

// Lookup returns the definition for a kind tag, or nil for unknown tags.
func (r *Registry) Lookup(tag string) *Definition {
	return r.defs[models.ContentKind(tag)]
}

// All returns every definition in the stable kind order.
func (r *Registry) All() []*Definition {
	var out []*Definition
	for _, k := range models.Kinds() {
		out = append(out, r.defs[k])
	}
	return out
}
