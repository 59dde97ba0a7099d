package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newsdesk/article-ingestor/internal/mocks"
	"github.com/newsdesk/article-ingestor/internal/model"
	"github.com/newsdesk/article-ingestor/internal/service"
)

func newArticlesHandler(repo *mocks.MockArticleRepo) *ArticlesHandler {
	return NewArticlesHandler(service.NewArticles(repo, true), 5)
}

func TestArticlesList_Empty(t *testing.T) {
	h := newArticlesHandler(mocks.NewMockArticleRepo())

	req := httptest.NewRequest("GET", "/articles", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"articles":[]}` {
		t.Errorf("Expected empty articles array, got %s", w.Body.String())
	}
}

func TestArticlesList_Limit(t *testing.T) {
	var seed []model.Article
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		seed = append(seed, model.Article{Title: u, URL: "https://example.com/" + u})
	}
	h := newArticlesHandler(mocks.NewMockArticleRepo(seed...))

	tests := []struct {
		query string
		want  int
	}{
		{"", 5},
		{"?limit=2", 2},
		{"?limit=50", 7},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/articles"+tt.query, nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected status 200, got %d", tt.query, w.Code)
		}
		var body listResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(body.Articles) != tt.want {
			t.Errorf("%q: expected %d articles, got %d", tt.query, tt.want, len(body.Articles))
		}
	}
}

func TestArticlesList_NullColumns(t *testing.T) {
	h := newArticlesHandler(mocks.NewMockArticleRepo(model.Article{Title: "t", URL: "https://example.com/t"}))

	req := httptest.NewRequest("GET", "/articles", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	var body struct {
		Articles []map[string]json.RawMessage `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(body.Articles))
	}
	row := body.Articles[0]
	if len(row) != 9 {
		t.Errorf("Expected 9 columns, got %d: %s", len(row), w.Body.String())
	}
	for _, k := range []string{"feed_url", "author", "published", "description", "summary", "category", "category_scores"} {
		if v, ok := row[k]; !ok || string(v) != "null" {
			t.Errorf("Expected %s to be null, got %s", k, v)
		}
	}
}

func TestArticlesList_InvalidLimit(t *testing.T) {
	h := newArticlesHandler(mocks.NewMockArticleRepo())

	for _, q := range []string{"0", "-1", "abc", "1.5"} {
		req := httptest.NewRequest("GET", "/articles?limit="+q, nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected status 400, got %d", q, w.Code)
		}
	}
}

func TestArticlesList_StoreError(t *testing.T) {
	repo := mocks.NewMockArticleRepo()
	repo.ListErr = errors.New("relation \"articles\" does not exist")
	h := newArticlesHandler(repo)

	req := httptest.NewRequest("GET", "/articles", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "error" {
		t.Errorf("Expected status 'error', got %q", body["status"])
	}
	if !strings.Contains(body["error"], "does not exist") {
		t.Errorf("Expected underlying message in error, got %q", body["error"])
	}
}

func TestArticlesCreate(t *testing.T) {
	repo := mocks.NewMockArticleRepo()
	h := newArticlesHandler(repo)
	payload := `{"title":"Hospital opens for migrants","url":"https://example.com/h","description":"health care"}`

	for i, wantInserted := range []bool{true, false} {
		req := httptest.NewRequest("POST", "/articles", strings.NewReader(payload))
		w := httptest.NewRecorder()
		h.Create(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d: %s", i, w.Code, w.Body.String())
		}
		var body createResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Message != "Article inserted (if not duplicate)" {
			t.Errorf("Unexpected message %q", body.Message)
		}
		if body.Inserted != wantInserted {
			t.Errorf("request %d: expected inserted=%v, got %v", i, wantInserted, body.Inserted)
		}
	}

	stored := repo.Stored()
	if len(stored) != 1 {
		t.Fatalf("Expected exactly 1 stored article, got %d", len(stored))
	}
	if stored[0].Category != "migration" {
		t.Errorf("Expected classified category migration, got %q", stored[0].Category)
	}
}

func TestArticlesCreate_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"missing url", `{"title":"t"}`},
		{"blank title", `{"title":"  ","url":"https://example.com"}`},
		{"wrong type", `{"title":1,"url":"https://example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockArticleRepo()
			h := newArticlesHandler(repo)

			req := httptest.NewRequest("POST", "/articles", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Create(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			if repo.InsertCalls != 0 {
				t.Error("Expected no insert")
			}
		})
	}
}

func TestArticlesCreate_StoreError(t *testing.T) {
	repo := mocks.NewMockArticleRepo()
	repo.InsertErr = errors.New("permission denied")
	h := newArticlesHandler(repo)

	req := httptest.NewRequest("POST", "/articles", strings.NewReader(`{"title":"t","url":"https://example.com"}`))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error inserting article: inserting article: permission denied") {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}
