package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/newsdesk/article-ingestor/internal/model"
	"github.com/newsdesk/article-ingestor/internal/transport/response"
)

// IngestService runs one bounded ingestion pass.
type IngestService interface {
	Run(ctx context.Context, feedURL string) (*model.FetchResult, error)
}

type FetchHandler struct {
	service IngestService
	feedURL string
}

func NewFetchHandler(service IngestService, feedURL string) *FetchHandler {
	return &FetchHandler{service: service, feedURL: feedURL}
}

// ServeHTTP handles POST /articles/fetch
func (h *FetchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	result, err := h.service.Run(r.Context(), h.feedURL)
	if err != nil {
		logger.Printf("Error fetching RSS feed=%s: %v", h.feedURL, err)
		response.WriteInternalError(w, "Error fetching RSS: "+err.Error())
		return
	}

	response.WriteOK(w, result)
}
