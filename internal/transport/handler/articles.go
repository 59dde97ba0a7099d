package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/newsdesk/article-ingestor/internal/model"
	"github.com/newsdesk/article-ingestor/internal/transport/response"
)

const maxBodyBytes = 1 << 20

// ArticleService is the part of the service layer the article routes need.
type ArticleService interface {
	List(ctx context.Context, limit int) ([]model.Article, error)
	Create(ctx context.Context, article model.Article) (bool, error)
}

type ArticlesHandler struct {
	service      ArticleService
	defaultLimit int
}

func NewArticlesHandler(service ArticleService, defaultLimit int) *ArticlesHandler {
	if defaultLimit < 1 {
		defaultLimit = 5
	}
	return &ArticlesHandler{service: service, defaultLimit: defaultLimit}
}

type listResponse struct {
	Articles []model.Article `json:"articles"`
}

type createResponse struct {
	Message  string `json:"message"`
	Inserted bool   `json:"inserted"`
}

// List handles GET /articles?limit=N
func (h *ArticlesHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	articles, err := h.service.List(r.Context(), limit)
	if err != nil {
		logger.Printf("Error listing articles: %v", err)
		response.WriteInternalError(w, "Error listing articles: "+err.Error())
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}

	response.WriteOK(w, listResponse{Articles: articles})
}

// Create handles POST /articles
func (h *ArticlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	var article model.Article
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&article); err != nil {
		response.WriteBadRequest(w, "Invalid JSON payload: "+err.Error())
		return
	}

	inserted, err := h.service.Create(r.Context(), article)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			response.WriteBadRequest(w, vErr.Error())
			return
		}
		logger.Printf("Error inserting article url=%s: %v", article.URL, err)
		response.WriteInternalError(w, "Error inserting article: "+err.Error())
		return
	}

	response.WriteOK(w, createResponse{
		Message:  "Article inserted (if not duplicate)",
		Inserted: inserted,
	})
}
