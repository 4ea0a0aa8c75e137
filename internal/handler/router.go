package handler

import "net/http"

// NewRouter registers every route and wraps the mux in the middleware chain.
// The catch-all "/" pattern makes unmatched methods and paths answer 404
// rather than the mux's default 405.
func NewRouter(h *Handler, blogs *BlogHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /blogs", blogs.List)
	mux.HandleFunc("GET /blogs/{id}", blogs.Get)
	mux.HandleFunc("POST /blogs", blogs.Create)
	mux.HandleFunc("PUT /blogs/{id}", blogs.Update)
	mux.HandleFunc("DELETE /blogs/{id}", blogs.Delete)
	// Singular path kept for older clients.
	mux.HandleFunc("DELETE /blog/{id}", blogs.Delete)

	mux.HandleFunc("OPTIONS /blogs", Preflight)
	mux.HandleFunc("OPTIONS /blogs/{id}", Preflight)
	mux.HandleFunc("OPTIONS /blog/{id}", Preflight)

	mux.HandleFunc("/", NotFound)

	return RequestLogger(SecurityHeaders(h.CORS(mux)))
}
