package rss

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const userAgent = "article-ingestor/1.0"

// Entry is one item parsed from an RSS or Atom document.
type Entry struct {
	Title       string
	Link        string
	Author      string
	Published   string // RFC 3339, UTC
	Description string
}

// Client handles RSS feed operations
type Client struct {
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

// NewClient creates a new RSS client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: userAgent,
		now:       time.Now,
	}
}

// FetchEntries fetches and parses the feed at url, preserving feed order.
func (c *Client) FetchEntries(ctx context.Context, url string) ([]Entry, error) {
	parser := gofeed.NewParser()
	parser.Client = c.httpClient
	parser.UserAgent = c.userAgent

	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, c.toEntry(item))
	}
	return entries, nil
}

func (c *Client) toEntry(item *gofeed.Item) Entry {
	published := c.now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	desc := item.Description
	if desc == "" {
		desc = item.Content
	}

	var author string
	if item.Author != nil {
		author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		author = item.Authors[0].Name
	}

	return Entry{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Author:      author,
		Published:   published.UTC().Format(time.RFC3339),
		Description: plainText(desc),
	}
}

// plainText reduces an HTML fragment to its text with whitespace collapsed.
func plainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(html.UnescapeString(fragment)), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
