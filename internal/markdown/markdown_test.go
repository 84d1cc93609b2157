// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	html, err := ToHTML("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("heading not rendered: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("emphasis not rendered: %q", html)
	}
}

func TestToHTMLTables(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |"
	html, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("GFM table not rendered: %q", html)
	}
}

func TestToHTMLCodeHighlighting(t *testing.T) {
	src := "```go\nfunc main() {}\n```"
	html, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	// The highlighter emits inline styles instead of a bare <pre>.
	if !strings.Contains(html, "<pre") {
		t.Errorf("code block not rendered: %q", html)
	}
}

func TestToHTMLArabicContent(t *testing.T) {
	html, err := ToHTML("## منح دراسية\n\nتفاصيل المنحة.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(html, "منح دراسية") {
		t.Errorf("arabic text mangled: %q", html)
	}
}
