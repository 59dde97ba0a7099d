package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{"wildcard", []string{"*"}, "https://any.example.com", "*"},
		{"no origins configured", nil, "https://any.example.com", "*"},
		{"allowed origin", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"unknown origin", []string{"https://app.example.com"}, "https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.origins)(http.HandlerFunc(mockHandler))
			req := httptest.NewRequest("GET", "/articles", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Expected Allow-Origin %q, got %q", tt.wantHeader, got)
			}
			if w.Body.String() != "success" {
				t.Errorf("Expected request to reach handler, got %q", w.Body.String())
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("OPTIONS", "/articles", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if called {
		t.Error("Expected preflight to be answered by the middleware")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("Expected Allow-Headers to be set")
	}
}

func TestLogging_CapturesStatus(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418 to pass through, got %d", w.Code)
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	rw.Write([]byte("ok"))

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status 200, got %d", rw.statusCode)
	}

	rw.WriteHeader(http.StatusCreated)
	if rw.statusCode != http.StatusCreated {
		t.Errorf("Expected captured status 201, got %d", rw.statusCode)
	}
}
