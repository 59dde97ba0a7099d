package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newsdesk/article-ingestor/internal/model"
)

const (
	DefaultTable = "articles"

	insertFunction = "insert_article"
	listFunction   = "get_articles"
)

// Config holds the project endpoint and service key.
type Config struct {
	URL    string
	Key    string
	Table  string
	UseRPC bool
}

type Client struct {
	baseURL    string
	key        string
	table      string
	useRPC     bool
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("supabase key is required")
	}
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.Key,
		table:   table,
		useRPC:  cfg.UseRPC,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// WithHTTPClient replaces the HTTP client used for requests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase returned status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) Exists(ctx context.Context, articleURL string) (bool, error) {
	q := url.Values{}
	q.Set("select", "url")
	q.Set("url", "eq."+articleURL)
	q.Set("limit", "1")

	var rows []struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, c.tablePath()+"?"+q.Encode(), nil, nil, &rows); err != nil {
		return false, fmt.Errorf("checking article %s: %w", articleURL, err)
	}
	return len(rows) > 0, nil
}

func (c *Client) Insert(ctx context.Context, a model.Article) (bool, error) {
	if c.useRPC {
		return c.insertRPC(ctx, a)
	}
	return c.insertTable(ctx, a)
}

func (c *Client) insertRPC(ctx context.Context, a model.Article) (bool, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+insertFunction, a, nil, &raw); err != nil {
		return false, fmt.Errorf("calling %s for %s: %w", insertFunction, a.URL, err)
	}

	// The function may return void or a boolean.
	switch strings.TrimSpace(string(raw)) {
	case "false":
		return false, nil
	default:
		return true, nil
	}
}

func (c *Client) insertTable(ctx context.Context, a model.Article) (bool, error) {
	headers := map[string]string{
		"Prefer": "resolution=ignore-duplicates,return=representation",
	}

	var rows []model.Article
	err := c.do(ctx, http.MethodPost, c.tablePath()+"?on_conflict=url", a, headers, &rows)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			return false, nil
		}
		return false, fmt.Errorf("inserting article %s: %w", a.URL, err)
	}
	return len(rows) > 0, nil
}

func (c *Client) List(ctx context.Context, limit int) ([]model.Article, error) {
	articles := []model.Article{}

	if c.useRPC {
		body := map[string]int{"row_limit": limit}
		if err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+listFunction, body, nil, &articles); err != nil {
			return nil, fmt.Errorf("calling %s: %w", listFunction, err)
		}
	} else {
		q := url.Values{}
		q.Set("select", "*")
		q.Set("order", "published.desc")
		q.Set("limit", strconv.Itoa(limit))
		if err := c.do(ctx, http.MethodGet, c.tablePath()+"?"+q.Encode(), nil, nil, &articles); err != nil {
			return nil, fmt.Errorf("listing articles: %w", err)
		}
	}

	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) tablePath() string {
	return "/rest/v1/" + url.PathEscape(c.table)
}

func (c *Client) do(ctx context.Context, method, path string, in any, headers map[string]string, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
