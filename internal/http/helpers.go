package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"nota/internal/core"
	"nota/internal/log"
)

// Response is the JSON envelope for every API response.
type Response struct {
	Data   any               `json:"data"`
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Error: msg})
}

func writeValidation(w http.ResponseWriter, verrs core.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(Response{Error: "validation failed", Errors: verrs})
}

// writeServiceError maps service errors to status codes. Anything
// unrecognized is logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var verrs core.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeValidation(w, verrs)
	case errors.Is(err, core.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMethod):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger := log.FromContext(r.Context())
		logger.ErrorContext(r.Context(), "Request failed",
			log.NewFields().WithError(err).WithOperation(operation).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseBody reads and parses the request body, answering 400 on failure.
func parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return p, true
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, then trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
