package routing_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/km-arc/go-state/framework/container"
	"github.com/km-arc/go-state/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/items", okHandler)
	r.Post("/items", okHandler)
	r.Put("/items/{id}", okHandler)
	r.Delete("/items/{id}", okHandler)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/items"},
		{http.MethodPost, "/items"},
		{http.MethodPut, "/items/1"},
		{http.MethodDelete, "/items/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
				t.Errorf("%s %s: got %d want 200", tt.method, tt.path, rr.Code)
			}
		})
	}
}

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api", func(api *routing.Router) {
		api.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(routing.Param(req, "id")))
		})
	})

	rr := do(t, r, http.MethodGet, "/api/items/42")
	if rr.Body.String() != "42" {
		t.Errorf("param: got %q want 42", rr.Body.String())
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	r := routing.New()
	r.Group(func(g *routing.Router) {
		g.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Group", "yes")
				next.ServeHTTP(w, req)
			})
		})
		g.Get("/inside", okHandler)
	})
	r.Get("/outside", okHandler)

	if got := do(t, r, http.MethodGet, "/inside").Header().Get("X-Group"); got != "yes" {
		t.Errorf("inside: X-Group %q want yes", got)
	}
	if got := do(t, r, http.MethodGet, "/outside").Header().Get("X-Group"); got != "" {
		t.Errorf("outside: X-Group %q want empty", got)
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := routing.New()
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	if rr := do(t, r, http.MethodGet, "/boom"); rr.Code != http.StatusInternalServerError {
		t.Errorf("panic: got %d want 500", rr.Code)
	}
}

// ── Scope middleware ──────────────────────────────────────────────────────────

func TestScopeMiddleware_OneScopePerRequest(t *testing.T) {
	c := container.New()
	built := 0
	c.Scoped("svc", func(*container.Container) any { built++; return &struct{ n int }{} })

	r := routing.New()
	r.Middleware(routing.ScopeMiddleware(c, slog.New(slog.DiscardHandler)))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		scope, ok := container.ScopeFrom(req.Context())
		if !ok {
			t.Fatal("request has no scope")
		}
		if scope.Make("svc") != scope.Make("svc") {
			t.Error("scoped service should be shared within a request")
		}
		okHandler(w, req)
	})

	do(t, r, http.MethodGet, "/")
	do(t, r, http.MethodGet, "/")

	if built != 2 {
		t.Errorf("scoped factory runs: got %d want 2", built)
	}
}

func TestScopeMiddleware_LogsCloseErrors(t *testing.T) {
	var buf bytes.Buffer
	c := container.New()
	c.Scoped("closer", func(*container.Container) any { return failingCloser{} })

	r := routing.New()
	r.Middleware(routing.ScopeMiddleware(c, slog.New(slog.NewTextHandler(&buf, nil))))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		scope, _ := container.ScopeFrom(req.Context())
		scope.Make("closer")
		okHandler(w, req)
	})

	do(t, r, http.MethodGet, "/")

	if !bytes.Contains(buf.Bytes(), []byte("closing request scope")) {
		t.Errorf("expected close error to be logged, got %q", buf.String())
	}
}

// ── Serializer ────────────────────────────────────────────────────────────────

// maxInFlight fires n concurrent requests at r and returns the highest number
// of handlers that ran at the same time.
func maxInFlight(t *testing.T, s *routing.Serializer, n int) int32 {
	t.Helper()
	var inFlight, peak atomic.Int32

	r := routing.New()
	r.Middleware(s.Middleware)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		now := inFlight.Add(1)
		for {
			old := peak.Load()
			if now <= old || peak.CompareAndSwap(old, now) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		okHandler(w, req)
	})

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		}()
	}
	wg.Wait()
	return peak.Load()
}

func TestSerializer_DisabledByDefault(t *testing.T) {
	var s routing.Serializer
	if s.Enabled() {
		t.Error("zero Serializer should be disabled")
	}
}

func TestSerializer_EnabledRunsOneRequestAtATime(t *testing.T) {
	var s routing.Serializer
	s.Enable()

	if got := maxInFlight(t, &s, 20); got != 1 {
		t.Errorf("requests in flight: got %d want 1", got)
	}
}
