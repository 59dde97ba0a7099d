package articles

import (
	"log"
	"net/http"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/newsdesk/article-ingestor/internal/transport/server"
)

const defaultFunctionTarget = "Articles"

func init() {
	functionTarget := os.Getenv("FUNCTION_TARGET")
	if functionTarget == "" {
		functionTarget = defaultFunctionTarget
	}

	log.Printf("Registering function: %s", functionTarget)
	functions.HTTP(functionTarget, Articles)
}

// Articles serves the full HTTP API for a single Cloud Functions invocation.
func Articles(w http.ResponseWriter, r *http.Request) {
	server.HandleRequest(w, r)
}
