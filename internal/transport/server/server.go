package server

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/newsdesk/article-ingestor/internal/application"
	"github.com/newsdesk/article-ingestor/internal/config"
	"github.com/newsdesk/article-ingestor/internal/transport/middleware"
	"github.com/newsdesk/article-ingestor/internal/transport/response"
)

// NewRouter registers every route of the application
func NewRouter(app *application.Application) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(app.Config.AllowedOrigins))

	auth := middleware.Auth(app.Config.APIToken)

	r.Handle("/health", app.HealthHandler).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/articles", app.ArticlesHandler.List).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/articles", auth(http.HandlerFunc(app.ArticlesHandler.Create))).Methods(http.MethodPost)
	r.Handle("/articles/fetch", auth(app.FetchHandler)).Methods(http.MethodPost, http.MethodOptions)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteNotFound(w, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteMethodNotAllowed(w, "Method not allowed")
	})

	return r
}

// CreateHandler loads configuration and builds the full HTTP handler
func CreateHandler(r *http.Request) (http.Handler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	app, err := application.New(r.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing application: %v", err)
		}
	}

	return NewRouter(app), cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, cleanup, err := CreateHandler(r)
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		response.WriteInternalError(w, "Server configuration error: "+err.Error())
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
