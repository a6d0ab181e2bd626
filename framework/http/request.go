package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/km-arc/go-state/framework/container"
)

const maxBodyBytes = 1 << 20 // 1 MB

// ErrEmptyBody is returned by Bind when the request has no body.
var ErrEmptyBody = errors.New("empty request body")

var validate = newValidator()

// newValidator reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Request wraps *http.Request with binding and scope helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// ── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes the JSON body into v and validates it against its `validate`
// struct tags. Validation failures are returned as validator.ValidationErrors.
func (req *Request) Bind(v any) error {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(io.LimitReader(req.raw.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return validate.Struct(v)
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// IsJSON returns true when the request carries or expects JSON.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.raw.Header.Get("Content-Type"), "application/json")
}

// ── Scope ────────────────────────────────────────────────────────────────────

// Scope returns the DI scope opened for this request by the scope middleware.
func (req *Request) Scope() (*container.Scope, bool) {
	return container.ScopeFrom(req.raw.Context())
}

// Make resolves abstract from the request scope. It panics when the request
// has no scope.
func (req *Request) Make(abstract string) any {
	s, ok := req.Scope()
	if !ok {
		panic(fmt.Sprintf("http: no container scope on request for [%s]", abstract))
	}
	return s.Make(abstract)
}

// Resolve is Request.Make with a type assertion.
func Resolve[T any](req *Request, abstract string) T {
	s, ok := req.Scope()
	if !ok {
		panic(fmt.Sprintf("http: no container scope on request for [%s]", abstract))
	}
	return container.ResolveScoped[T](s, abstract)
}
