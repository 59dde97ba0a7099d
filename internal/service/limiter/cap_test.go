package limiter

import (
	"fmt"
	"testing"

	"github.com/newsdesk/article-ingestor/internal/rss"
)

func entries(n int) []rss.Entry {
	out := make([]rss.Entry, n)
	for i := range out {
		out[i] = rss.Entry{Title: fmt.Sprintf("Entry %d", i), Link: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestCapLimiter(t *testing.T) {
	tests := []struct {
		name     string
		max      int
		input    int
		expected int
	}{
		{"fewer than cap", 5, 3, 3},
		{"exactly cap", 5, 5, 5},
		{"more than cap", 5, 12, 5},
		{"empty", 5, 0, 0},
		{"non-positive cap falls back to default", 0, 12, DefaultMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCapLimiter(tt.max).Limit(entries(tt.input))
			if len(got) != tt.expected {
				t.Errorf("Expected %d entries, got %d", tt.expected, len(got))
			}
		})
	}
}

func TestCapLimiterKeepsHead(t *testing.T) {
	got := NewCapLimiter(2).Limit(entries(4))
	if got[0].Link != "https://example.com/0" || got[1].Link != "https://example.com/1" {
		t.Errorf("Expected first two entries, got %+v", got)
	}
}

func TestSingleLimiter(t *testing.T) {
	if got := NewSingleLimiter().Limit(entries(3)); len(got) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(got))
	}
}
