// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package sanitize strips dangerous HTML from reader-supplied text
// using bluemonday before it is stored or displayed.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ugc allows the formatting tags reasonable in user-generated content
// (links, emphasis, lists) and strips everything else.
var ugc = bluemonday.UGCPolicy()

// strict strips all HTML, leaving plain text. Used for names and emails.
var strict = bluemonday.StrictPolicy()

// CommentBody cleans a comment body: HTML is reduced to the UGC-safe
// subset and surrounding whitespace is removed.
func CommentBody(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainField cleans a single-line field such as a display name,
// removing any HTML entirely.
func PlainField(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
