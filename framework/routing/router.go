package routing

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-state/framework/container"
)

// Router wraps chi.Router.
type Router struct {
	mux chi.Router
}

// New creates a Router with RequestID, RealIP, Logger and Recoverer.
func New() *Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing middleware.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router mounted under pattern.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ScopeMiddleware opens a container scope for every request, stores it in
// the request context and closes it once the handler returns. Scoped state
// containers therefore live exactly as long as one request.
func ScopeMiddleware(c *container.Container, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			scope := c.NewScope()
			defer func() {
				if err := scope.Close(); err != nil {
					logger.Error("closing request scope",
						slog.String("request_id", middleware.GetReqID(req.Context())),
						slog.Any("error", err),
					)
				}
			}()
			next.ServeHTTP(w, req.WithContext(container.WithScope(req.Context(), scope)))
		})
	}
}

// Serializer runs requests one at a time once enabled. Handlers that share
// process-wide state containers across requests need it on a native server.
type Serializer struct {
	enabled atomic.Bool
	mu      sync.Mutex
}

// Enable serializes every later request.
func (s *Serializer) Enable() { s.enabled.Store(true) }

// Enabled reports whether requests are serialized.
func (s *Serializer) Enabled() bool { return s.enabled.Load() }

// Middleware queues requests behind each other while s is enabled.
func (s *Serializer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if s.Enabled() {
			s.mu.Lock()
			defer s.mu.Unlock()
		}
		next.ServeHTTP(w, req)
	})
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}
