// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"unicode/utf8"

	"manassa/internal/lifecycle"
)

// Validation limits for the optional editorial fields. Title, body, and
// category rules live in the kind registry.
const (
	maxSlugLen     = 300
	maxExcerptLen  = 1_000
	maxSEOTitleLen = 300
	maxSEODescLen  = 500
	maxSEOKwLen    = 500
	maxTagsLen     = 500
)

// validateEditorial checks slug, excerpt, tag, and SEO field lengths,
// appending failures to verr.
func validateEditorial(verr *lifecycle.ValidationError, slug string, excerpt, tags, seoTitle, seoDesc, seoKw *string) {
	if utf8.RuneCountInString(slug) > maxSlugLen {
		verr.Add("slug", "is too long (max 300 characters)")
	}
	checkLen := func(field string, v *string, max int) {
		if v != nil && utf8.RuneCountInString(*v) > max {
			verr.Add(field, "is too long")
		}
	}
	checkLen("excerpt", excerpt, maxExcerptLen)
	checkLen("tags", tags, maxTagsLen)
	checkLen("seo_title", seoTitle, maxSEOTitleLen)
	checkLen("seo_description", seoDesc, maxSEODescLen)
	checkLen("seo_keywords", seoKw, maxSEOKwLen)
}
