package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Response wraps http.ResponseWriter with JSON helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// JSON sends a JSON response.
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends {"message": message} with status.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// BindError answers a failed Request.Bind: 422 with a field error bag for
// validation failures, 400 for anything else.
//
//	{"message": "The given data was invalid.", "errors": {"count": ["gte"]}}
func (res *Response) BindError(err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}

	bag := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		bag[fe.Field()] = append(bag[fe.Field()], fe.Tag())
	}
	res.JSON(http.StatusUnprocessableEntity, envelope{
		"message": "The given data was invalid.",
		"errors":  bag,
	})
}

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
