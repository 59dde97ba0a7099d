package handler

import (
	"net/http"
	"time"

	"github.com/newsdesk/article-ingestor/internal/transport/response"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response.WriteOK(w, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   h.version,
	})
}
