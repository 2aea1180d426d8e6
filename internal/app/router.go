package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/chatrelay/internal/observability"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger         *slog.Logger
	MetricsEnabled bool
}

// routePaths are the fixed paths given their own metrics label.
var routePaths = []string{"/", "/chat", "/api/chat", "/api/health", "/metrics"}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	if opts == nil {
		opts = &RouterOptions{}
	}

	mux := http.NewServeMux()

	// Chat relay. The method-less patterns route every other method to the
	// relay too, so it can answer with its own 405 body.
	mux.Handle("POST /chat", repo.Relay)
	mux.Handle("POST /api/chat", repo.Relay)
	mux.Handle("/chat", repo.Relay)
	mux.Handle("/api/chat", repo.Relay)

	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)

	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", observability.Handler())
	}

	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)
	mux.HandleFunc("/", repo.Infra.NotFound)

	// Apply middleware chain (built inner to outer; runs CORS first)
	var h http.Handler = mux

	if opts.MetricsEnabled {
		h = observability.MetricsMiddleware(routePaths...)(h)
	}

	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	h = middleware.RequestID(h)

	h = middleware.CORS(h)

	return h
}
