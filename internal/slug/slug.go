// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package slug generates URL-friendly slugs. Unicode letters are kept
// as-is so Arabic titles produce readable slugs instead of empty ones.
package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// disallowed matches anything that is not a letter, digit, space, or hyphen.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	// runs collapses whitespace and hyphen runs into a single hyphen.
	runs = regexp.MustCompile(`[\s-]+`)
)

// Generate creates a slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026".
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = runs.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// GenerateUnique returns Generate(s), falling back to a random slug
// when the input reduces to nothing (all punctuation or emoji).
func GenerateUnique(s string) string {
	if slug := Generate(s); slug != "" {
		return slug
	}
	return "untitled-" + uuid.NewString()[:8]
}
