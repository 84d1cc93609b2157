// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package moderation provides the naive spam heuristic applied to
// incoming comments. It is a keyword and link-count filter, not a
// guarantee: false positives and negatives are expected, and moderators
// can override the result.
package moderation

import "strings"

// spamKeywords are the disallowed terms. A comment containing any of
// them (case-insensitively) is classified as spam.
var spamKeywords = []string{
	"viagra",
	"casino",
	"porn",
	"buy now",
	"click here",
	"make money",
}

// maxLinks is the number of literal "http" occurrences above which a
// comment is classified as spam.
const maxLinks = 3

// IsSpam classifies a comment body. It returns true when the body
// contains a disallowed term or more than maxLinks link prefixes.
func IsSpam(body string) bool {
	lower := strings.ToLower(body)

	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return strings.Count(lower, "http") > maxLinks
}
