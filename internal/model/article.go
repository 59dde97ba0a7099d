package model

import (
	"encoding/json"
	"strings"
)

// Article is a single news item in the collection. URL is the dedup key.
type Article struct {
	FeedURL        string             `json:"feed_url"`
	Title          string             `json:"title"`
	URL            string             `json:"url"`
	Author         string             `json:"author"`
	Published      string             `json:"published"`
	Description    string             `json:"description"`
	Summary        string             `json:"summary"`
	Category       string             `json:"category"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// wireArticle is the encoded form of Article. Every column is always present
// and empty optional values are null, so the shape does not depend on which
// fields a row happens to have.
type wireArticle struct {
	FeedURL        *string            `json:"feed_url"`
	Title          string             `json:"title"`
	URL            string             `json:"url"`
	Author         *string            `json:"author"`
	Published      *string            `json:"published"`
	Description    *string            `json:"description"`
	Summary        *string            `json:"summary"`
	Category       *string            `json:"category"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

func (a Article) MarshalJSON() ([]byte, error) {
	w := wireArticle{
		FeedURL:     nullable(a.FeedURL),
		Title:       a.Title,
		URL:         a.URL,
		Author:      nullable(a.Author),
		Published:   nullable(a.Published),
		Description: nullable(a.Description),
		Summary:     nullable(a.Summary),
		Category:    nullable(a.Category),
	}
	if len(a.CategoryScores) > 0 {
		w.CategoryScores = a.CategoryScores
	}
	return json.Marshal(w)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Validate checks the fields a stored article cannot do without.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(a.URL) == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	return nil
}

// ValidationError represents an invalid article payload
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
