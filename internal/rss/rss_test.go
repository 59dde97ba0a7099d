package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
	<channel>
		<title>Test Feed</title>
		<link>https://example.com</link>
		<description>Test</description>
		<item>
			<title>  First article  </title>
			<link>https://example.com/1</link>
			<description><![CDATA[<p>Boats <b>arrived</b>   at dawn</p>]]></description>
			<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
			<dc:creator>Jane Doe</dc:creator>
		</item>
		<item>
			<title>Second article</title>
			<link>https://example.com/2</link>
			<description>Plain   text description</description>
		</item>
	</channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Atom Feed</title>
	<id>urn:test</id>
	<updated>2024-03-01T10:00:00Z</updated>
	<entry>
		<title>Atom entry</title>
		<link href="https://example.com/atom/1"/>
		<id>urn:test:1</id>
		<updated>2024-03-01T10:00:00Z</updated>
		<summary>Summary text</summary>
		<author><name>John Roe</name></author>
	</entry>
</feed>`

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "article-ingestor") {
			t.Errorf("Expected article-ingestor user agent, got '%s'", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchEntriesRSS(t *testing.T) {
	server := feedServer(t, http.StatusOK, rssFixture)

	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	client := NewClient()
	client.now = func() time.Time { return fixed }

	entries, err := client.FetchEntries(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Title != "First article" {
		t.Errorf("Expected trimmed title, got '%s'", first.Title)
	}
	if first.Link != "https://example.com/1" {
		t.Errorf("Expected link https://example.com/1, got '%s'", first.Link)
	}
	if first.Description != "Boats arrived at dawn" {
		t.Errorf("Expected HTML stripped description, got '%s'", first.Description)
	}
	if first.Published != "2006-01-02T15:04:05Z" {
		t.Errorf("Expected RFC3339 published, got '%s'", first.Published)
	}
	if first.Author != "Jane Doe" {
		t.Errorf("Expected author Jane Doe, got '%s'", first.Author)
	}

	second := entries[1]
	if second.Published != "2024-05-06T07:08:09Z" {
		t.Errorf("Expected fallback to now, got '%s'", second.Published)
	}
	if second.Description != "Plain text description" {
		t.Errorf("Expected collapsed whitespace, got '%s'", second.Description)
	}
}

func TestFetchEntriesAtom(t *testing.T) {
	server := feedServer(t, http.StatusOK, atomFixture)

	entries, err := NewClient().FetchEntries(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchEntries failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Link != "https://example.com/atom/1" {
		t.Errorf("Unexpected link '%s'", entries[0].Link)
	}
	if entries[0].Published != "2024-03-01T10:00:00Z" {
		t.Errorf("Expected updated date as published, got '%s'", entries[0].Published)
	}
	if entries[0].Author != "John Roe" {
		t.Errorf("Expected author John Roe, got '%s'", entries[0].Author)
	}
	if entries[0].Description != "Summary text" {
		t.Errorf("Expected summary text, got '%s'", entries[0].Description)
	}
}

func TestFetchEntriesHTTPError(t *testing.T) {
	server := feedServer(t, http.StatusInternalServerError, "boom")

	_, err := NewClient().FetchEntries(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "fetching feed") {
		t.Errorf("Expected wrapped error, got '%v'", err)
	}
}

func TestFetchEntriesInvalidXML(t *testing.T) {
	server := feedServer(t, http.StatusOK, "this is not a feed")

	if _, err := NewClient().FetchEntries(context.Background(), server.URL); err == nil {
		t.Error("Expected parse error")
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
		{"Fish &amp; chips", "Fish & chips"},
		{"Minister&#8217;s statement", "Minister\u2019s statement"},
		{"<p>Tom &amp; Jerry</p>", "Tom & Jerry"},
		{"1 &lt; 2", "1 < 2"},
	}
	for _, tt := range tests {
		if got := plainText(tt.input); got != tt.want {
			t.Errorf("plainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.httpClient == nil {
		t.Error("Expected non-nil http client")
	}

	if !strings.Contains(client.userAgent, "article-ingestor") {
		t.Errorf("Expected user agent to contain 'article-ingestor', got '%s'", client.userAgent)
	}
}
