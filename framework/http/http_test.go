package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-state/framework/container"
	gohttp "github.com/km-arc/go-state/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&m))
	return m
}

type payload struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=18"`
}

// ── Request ──────────────────────────────────────────────────────────────────

func TestRequest_Bind(t *testing.T) {
	var p payload
	err := gohttp.NewRequest(jsonRequest(`{"name":"Ada","age":36}`)).Bind(&p)

	require.NoError(t, err)
	assert.Equal(t, payload{Name: "Ada", Age: 36}, p)
}

func TestRequest_Bind_EmptyBody(t *testing.T) {
	var p payload
	err := gohttp.NewRequest(jsonRequest("")).Bind(&p)
	assert.ErrorIs(t, err, gohttp.ErrEmptyBody)
}

func TestRequest_Bind_ValidationUsesJSONNames(t *testing.T) {
	rr := httptest.NewRecorder()
	var p payload
	err := gohttp.NewRequest(jsonRequest(`{"age":3}`)).Bind(&p)
	require.Error(t, err)

	gohttp.NewResponse(rr).BindError(err)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	errs := decodeJSON(t, rr)["errors"].(map[string]any)
	assert.Equal(t, []any{"required"}, errs["name"])
	assert.Equal(t, []any{"gte"}, errs["age"])
}

func TestRequest_QueryAndJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2", nil)
	req.Header.Set("Accept", "application/json")
	r := gohttp.NewRequest(req)

	assert.Equal(t, "2", r.Query("page"))
	assert.Equal(t, "1", r.Query("size", "1"))
	assert.True(t, r.IsJSON())
	assert.Equal(t, "application/json", r.Header("Accept"))
}

func TestRequest_ResolveFromScope(t *testing.T) {
	c := container.New()
	c.Scoped("greeting", func(*container.Container) any { return "hello" })
	scope := c.NewScope()
	defer scope.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(container.WithScope(req.Context(), scope))

	assert.Equal(t, "hello", gohttp.Resolve[string](gohttp.NewRequest(req), "greeting"))
}

func TestRequest_MakeWithoutScopePanics(t *testing.T) {
	r := gohttp.NewRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Panics(t, func() { r.Make("anything") })
}

// ── Response ─────────────────────────────────────────────────────────────────

func TestResponse_Success(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).Success(map[string]any{"id": 1})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"id": float64(1)}, decodeJSON(t, rr)["data"])
}

func TestResponse_Errors(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).NotFound()
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found.", decodeJSON(t, rr)["message"])

	rr = httptest.NewRecorder()
	gohttp.NewResponse(rr).BindError(errors.New("bad input"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "bad input", decodeJSON(t, rr)["message"])
}

func TestResponse_NoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).NoContent()
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())
}
