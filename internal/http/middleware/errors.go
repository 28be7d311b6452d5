package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
)

// Handler is an http.HandlerFunc that reports failures as errors
// instead of writing them itself.
type Handler func(w http.ResponseWriter, r *http.Request) error

type errorResponse struct {
	Error  string              `json:"error"`
	Code   apperr.Kind         `json:"code"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// Wrap adapts an error-returning handler to http.HandlerFunc, mapping
// every error through the apperr taxonomy so status codes and response
// shapes stay uniform across the API.
func Wrap(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteAppError(w, r, apperr.From(err))
		}
	}
}

// WriteAppError renders e as the API's error envelope. Internal causes
// are logged with request context and never echoed to the caller.
func WriteAppError(w http.ResponseWriter, r *http.Request, e *apperr.Error) {
	if e.Kind == apperr.KindInternal {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", e.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())
	json.NewEncoder(w).Encode(errorResponse{
		Error:  e.Message,
		Code:   e.Kind,
		Fields: e.Fields,
	})
}
