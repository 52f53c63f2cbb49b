package ui

import (
	"testing"

	"github.com/vanderheijden86/sitenav/pkg/nav"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Resources", 20, "Resources"},
		{"Resources", 5, "Reso…"},
		{"日本語のページ", 6, "日本…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight must not cut, got %q", got)
	}
}

func TestFormatStats(t *testing.T) {
	if got := formatStats(nav.Stats{Reachable: 4}); got != "4 categories" {
		t.Errorf("formatStats = %q", got)
	}
	if got := formatStats(nav.Stats{Reachable: 4, Unreachable: 2}); got != "4 categories (2 unreachable)" {
		t.Errorf("formatStats = %q", got)
	}
}
