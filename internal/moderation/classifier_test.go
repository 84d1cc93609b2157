package moderation

import "testing"

// TestIsSpam exercises the keyword and link-count heuristics.
func TestIsSpam(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "clean comment", body: "Great article, thanks for writing it.", want: false},
		{name: "keyword match", body: "cheap viagra available", want: true},
		{name: "keyword case-insensitive", body: "Visit our CASINO tonight", want: true},
		{name: "multi-word keyword", body: "Buy Now while stocks last", want: true},
		{name: "keyword inside sentence", body: "just click here for details", want: true},
		{name: "three links allowed", body: "see http://a http://b http://c", want: false},
		{name: "four links rejected", body: "see http://a http://b http://c http://d", want: true},
		{name: "https counts as http", body: "https://a https://b https://c https://d", want: true},
		{name: "keyword and links", body: "buy now, click here http://a http://b http://c http://d", want: true},
		{name: "empty body", body: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSpam(tt.body); got != tt.want {
				t.Errorf("IsSpam(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}
