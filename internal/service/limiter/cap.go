package limiter

import (
	"log"

	"github.com/newsdesk/article-ingestor/internal/rss"
)

// DefaultMax is the batch size used when none is configured.
const DefaultMax = 5

// CapLimiter keeps at most Max entries from the head of the feed
type CapLimiter struct {
	Max int
}

func NewCapLimiter(max int) *CapLimiter {
	if max < 1 {
		max = DefaultMax
	}
	return &CapLimiter{Max: max}
}

// NewSingleLimiter limits every run to one entry
func NewSingleLimiter() *CapLimiter {
	return &CapLimiter{Max: 1}
}

func (l *CapLimiter) Limit(entries []rss.Entry) []rss.Entry {
	if len(entries) > l.Max {
		log.Printf("Limiting feed entries to %d (of %d)", l.Max, len(entries))
		return entries[:l.Max]
	}
	return entries
}
